package vm

import "fmt"

// Value is a runtime value: one of VNum, VBool or VNil.
type Value interface{ isValue() }

func NewValue() Value { return VNil{} }

type VBool bool

func (_ VBool) isValue()       {}
func (v VBool) String() string { return fmt.Sprintf("%t", bool(v)) }

type VNil struct{}

func (_ VNil) isValue()       {}
func (v VNil) String() string { return "nil" }

type VNum float64

func (_ VNum) isValue()       {}
func (v VNum) String() string { return fmt.Sprintf("%g", float64(v)) }

// numBinary applies op when both v and w are numbers.
// ok is false on any other pairing, and res is then nil.
func numBinary[R Value](v, w Value, op func(a, b VNum) R) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return op(v, w), true
		}
	}
	return
}

func VAdd(v, w Value) (res Value, ok bool) {
	return numBinary(v, w, func(a, b VNum) VNum { return a + b })
}

func VSub(v, w Value) (res Value, ok bool) {
	return numBinary(v, w, func(a, b VNum) VNum { return a - b })
}

func VMul(v, w Value) (res Value, ok bool) {
	return numBinary(v, w, func(a, b VNum) VNum { return a * b })
}

// VDiv follows IEEE 754: division by zero yields ±Inf or NaN.
func VDiv(v, w Value) (res Value, ok bool) {
	return numBinary(v, w, func(a, b VNum) VNum { return a / b })
}

func VGreater(v, w Value) (res Value, ok bool) {
	return numBinary(v, w, func(a, b VNum) VBool { return a > b })
}

func VLess(v, w Value) (res Value, ok bool) {
	return numBinary(v, w, func(a, b VNum) VBool { return a < b })
}

func VNeg(v Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		return -v, true
	}
	return
}

// VTruthy reports the truthiness of v: nil and the number 0 are falsy.
func VTruthy(v Value) VBool {
	switch v := v.(type) {
	case VBool:
		return v
	case VNum:
		return v != 0
	default:
		return false
	}
}

// VEq is structural equality. Values of different kinds are never equal,
// and NaN is not equal to itself.
func VEq(v, w Value) VBool {
	switch v := v.(type) {
	case VBool:
		switch w := w.(type) {
		case VBool:
			return v == w
		}
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v == w
		}
	case VNil:
		_, ok := w.(VNil)
		return VBool(ok)
	}
	return false
}
