package variant

import (
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// Encoder is a Visitor that writes the visited variant in sequential wire
// form. Offsets written into the output are relative to the start of the
// underlying Writer, so padding matches a decode of the Writer's bytes.
type Encoder struct {
	w      *wire.Writer
	desc   *Descriptor
	inList bool
}

var _ Visitor = (*Encoder)(nil)

// NewEncoder returns an Encoder appending to w. A nil w allocates a new
// Writer.
func NewEncoder(w *wire.Writer) *Encoder {
	if w == nil {
		w = wire.NewWriter()
	}
	return &Encoder{w: w}
}

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

// Encode returns the sequential wire form of v.
func Encode(v *Variant) ([]byte, error) {
	e := NewEncoder(nil)
	if err := Walk(v, e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func (e *Encoder) VisitHeader(v *Variant) error {
	desc, ok := Lookup(v.Tag.Base())
	if !ok {
		return errors.UnknownType(errors.PhaseEncode, []string{"variant", "tag"}, e.w.Len(), uint16(v.Tag))
	}
	switch v.Tag.Modifier() {
	case ModNone, ModVector, ModArray:
	default:
		return errors.UnknownModifier(errors.PhaseEncode, []string{"variant", "tag"}, e.w.Len(), uint16(v.Tag))
	}
	e.desc = desc
	e.w.U16(uint16(v.Tag)).U8(v.Data1).U8(v.Data2)
	return nil
}

func (e *Encoder) VisitScalar(index int, s Scalar) error {
	if e.desc == nil {
		return errors.InvalidInput(errors.PhaseEncode, "scalar visited before header")
	}
	if s.Type != e.desc.Type {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Path("variant", "value").
			Detail("element of type %s in %s value", s.Type, e.desc.Name).
			Build()
	}
	if e.inList && index > 0 && e.desc.Variable() {
		e.w.Align(4)
	}
	return e.desc.codec.encode(e.w, e.desc, s)
}

func (e *Encoder) BeginVector(v *Vector) error {
	e.inList = true
	e.w.U32(uint32(len(v.Elements)))
	return nil
}

func (e *Encoder) EndVector(*Vector) error {
	e.inList = false
	return nil
}

func (e *Encoder) BeginArray(a *Array) error {
	e.inList = true
	e.w.U16(uint16(len(a.Bounds))).U16(a.Features).U32(a.ElementSize)
	return nil
}

func (e *Encoder) VisitBound(_ int, b Bound) error {
	e.w.U32(b.Count).U32(uint32(b.LowerBound))
	return nil
}

func (e *Encoder) EndArray(*Array) error {
	e.inList = false
	return nil
}
