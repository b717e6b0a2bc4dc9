package vm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/hashicorp/go-multierror"
	e "github.com/rami3l/loxvm/errors"
	"github.com/rami3l/loxvm/utils"
)

const (
	ImageMagic   = "LOXC"
	ImageVersion = 1
)

type valueKind uint8

const (
	kindNil valueKind = iota
	kindBool
	kindNum
)

type constImage struct {
	Kind valueKind `cbor:"1,keyasint"`
	Num  float64   `cbor:"2,keyasint,omitempty"`
	Bool uint8     `cbor:"3,keyasint,omitempty"`
}

type chunkImage struct {
	Magic      string       `cbor:"1,keyasint"`
	Version    uint16       `cbor:"2,keyasint"`
	Code       []byte       `cbor:"3,keyasint"`
	LineBegins []int        `cbor:"4,keyasint"`
	Consts     []constImage `cbor:"5,keyasint"`
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

// MarshalImage serializes c to CBOR bytes.
func MarshalImage(c *Chunk) ([]byte, error) {
	img := chunkImage{
		Magic:      ImageMagic,
		Version:    ImageVersion,
		Code:       c.code,
		LineBegins: c.lineBegins,
		Consts:     make([]constImage, len(c.consts)),
	}
	for i, v := range c.consts {
		switch v := v.(type) {
		case VNum:
			img.Consts[i] = constImage{Kind: kindNum, Num: float64(v)}
		case VBool:
			img.Consts[i] = constImage{Kind: kindBool, Bool: utils.BoolToInt[uint8](bool(v))}
		case VNil:
			img.Consts[i] = constImage{Kind: kindNil}
		default:
			return nil, fmt.Errorf("vm: cannot encode const %d of type %T", i, v)
		}
	}
	return imageEncMode.Marshal(img)
}

// UnmarshalImage deserializes a chunk from CBOR bytes and checks that it is
// well-formed: every OpConst must refer to an existing constant, and the line
// table must obey the same rules Write enforces.
func UnmarshalImage(data []byte) (*Chunk, error) {
	var img chunkImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, &e.ImageError{Reason: "unmarshal image", Err: err}
	}
	switch {
	case img.Magic != ImageMagic:
		return nil, &e.ImageError{Reason: fmt.Sprintf("bad image magic %q", img.Magic)}
	case img.Version != ImageVersion:
		return nil, &e.ImageError{Reason: fmt.Sprintf("unsupported image version %d", img.Version)}
	}

	c := &Chunk{code: img.Code, lineBegins: img.LineBegins, consts: make([]Value, len(img.Consts))}
	var errs *multierror.Error
	for i, ci := range img.Consts {
		switch ci.Kind {
		case kindNum:
			c.consts[i] = VNum(ci.Num)
		case kindBool:
			c.consts[i] = VBool(utils.IntToBool(ci.Bool))
		case kindNil:
			c.consts[i] = VNil{}
		default:
			errs = multierror.Append(errs, fmt.Errorf("const %d has unknown kind %d", i, ci.Kind))
		}
	}
	if err := c.validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, &e.ImageError{Reason: "invalid image", Err: err}
	}
	return c, nil
}

func (c *Chunk) validate() error {
	var errs *multierror.Error
	if len(c.consts) > MaxConsts {
		errs = multierror.Append(errs, fmt.Errorf("%d consts exceed the pool capacity %d", len(c.consts), MaxConsts))
	}

	switch {
	case len(c.lineBegins) == 0:
		errs = multierror.Append(errs, fmt.Errorf("empty line table"))
	case c.lineBegins[0] != 0:
		errs = multierror.Append(errs, fmt.Errorf("line table must begin at offset 0, got %d", c.lineBegins[0]))
	}
	for l := 1; l < len(c.lineBegins); l++ {
		if begin := c.lineBegins[l]; begin < c.lineBegins[l-1] || begin > len(c.code) {
			errs = multierror.Append(errs, fmt.Errorf("line %d begins at invalid offset %d", l, begin))
		}
	}

	for it := c.Iter(); ; {
		inst, offset, ok := it.Next()
		if !ok {
			break
		}
		if inst.Ok() && inst.Op == OpConst && int(inst.Arg) >= len(c.consts) {
			errs = multierror.Append(errs, fmt.Errorf("%04d: const index %d out of range", offset, inst.Arg))
		}
	}
	return errs.ErrorOrNil()
}
