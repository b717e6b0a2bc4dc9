package debug

import "fmt"

// Assertf panics with the given message if b is false.
// It is a no-op unless built with the `loxdebug` tag.
func Assertf(b bool, format string, a ...any) {
	if DEBUG && !b {
		panic(fmt.Sprintf(format, a...))
	}
}

func AssertEq[T comparable](expected, got T) { Assertf(expected == got, "%v != %v", expected, got) }
