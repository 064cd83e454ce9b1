package variant

import (
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// addressing selects where vector elements live: inline after the count, or
// behind base-relative pointers in a row buffer.
type addressing interface {
	// element decodes the element whose slot starts at c and returns the
	// cursor of the following slot.
	element(st *state, desc *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error)
	// stride is the fewest bytes one element slot occupies.
	stride(desc *Descriptor) int
	// padded reports whether slots are 4-byte aligned between elements.
	padded(desc *Descriptor) bool
	// check rejects element types the mode cannot decode.
	check(desc *Descriptor, c wire.Cursor, path []string) error
}

type sequential struct{}

func (sequential) element(st *state, desc *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	return desc.codec.decode(st, desc, c, path)
}

func (sequential) stride(desc *Descriptor) int { return desc.minSize() }

func (sequential) padded(desc *Descriptor) bool { return desc.Variable() }

func (sequential) check(*Descriptor, wire.Cursor, []string) error { return nil }

// baseRelative reads fixed-size elements packed at the slot and follows a
// pointer per element for variable-size types.
type baseRelative struct {
	layout RowLayout
}

func (b baseRelative) element(st *state, desc *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	if !desc.Variable() {
		return desc.codec.decode(st, desc, c, path)
	}
	target, next, err := b.follow(c, path)
	if err != nil {
		return Scalar{}, c, err
	}
	s, err := desc.codec.decodeValue(st, desc, target, path)
	if err != nil {
		return Scalar{}, c, err
	}
	return s, next, nil
}

func (b baseRelative) stride(desc *Descriptor) int {
	if desc.Variable() {
		return b.layout.PointerSize()
	}
	return desc.Size
}

func (baseRelative) padded(*Descriptor) bool { return false }

func (baseRelative) check(desc *Descriptor, c wire.Cursor, path []string) error {
	if desc.HasValueOnly() {
		return nil
	}
	return errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Path(path...).
		At(c.Offset()).
		Detail("%s cannot be referenced from a row buffer", desc.Name).
		Build()
}

// follow reads a pointer at c and returns a cursor at its target together
// with the cursor just past the pointer.
func (b baseRelative) follow(c wire.Cursor, path []string) (target, next wire.Cursor, err error) {
	addr, next, err := c.Pointer(b.layout.Is64Bit)
	if err != nil {
		return c, c, errors.WithPath(err, path...)
	}
	off, err := b.translate(addr, c, path)
	if err != nil {
		return c, c, err
	}
	return c.Seek(off), next, nil
}

// translate maps an absolute address to an offset in the row memory.
func (b baseRelative) translate(addr uint64, c wire.Cursor, path []string) (int, error) {
	base := b.layout.BaseAddress
	if addr < base {
		return 0, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(path...).
			At(c.Offset()).
			Value(addr).
			Detail("address 0x%X is below base address 0x%X", addr, base).
			Build()
	}
	off := addr - base
	if off > uint64(c.Size()) {
		return 0, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(path...).
			At(c.Offset()).
			Value(addr).
			Detail("address 0x%X maps to offset 0x%X past end (size %d)", addr, off, c.Size()).
			Build()
	}
	return int(off), nil
}
