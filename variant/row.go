package variant

import (
	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// RowLayout describes how a row buffer encodes addresses.
type RowLayout struct {
	// Is64Bit selects 8-byte counts and pointers instead of 4-byte ones.
	Is64Bit bool
	// BaseAddress is subtracted from every address to obtain a buffer
	// offset.
	BaseAddress uint64
}

// PointerSize returns 8 for 64-bit layouts and 4 otherwise.
func (l RowLayout) PointerSize() int {
	if l.Is64Bit {
		return 8
	}
	return 4
}

const (
	rowHeaderSize = 8
	rowSlotSize   = 8
)

// DecodeRow decodes a row variant at offset in mem.
//
// The header is vType u16, reserved1 u16, reserved2 u32. Data1 and Data2
// report the two bytes of reserved1. A VT_VECTOR or VT_ARRAY variant is
// followed by a count and an address, each PointerSize bytes; a VT_ARRAY is
// returned as a one-dimensional Array. A scalar is followed by an 8-byte
// slot holding the value inline when it fits, or else a pointer to it.
func (d *Decoder) DecodeRow(mem wspdissect.Memory, offset int, layout RowLayout) (*Variant, error) {
	st := d.newState(baseRelative{layout: layout})
	return st.row(wire.NewCursor(mem, offset), layout)
}

func (st *state) row(c wire.Cursor, layout RowLayout) (*Variant, error) {
	start := c.Offset()
	tagPath := []string{"row", "vtype"}

	raw, c, err := c.U16()
	if err != nil {
		return nil, errors.WithPath(err, tagPath...)
	}
	tag := Tag(raw)
	desc, ok := Lookup(tag.Base())
	if !ok {
		return nil, errors.UnknownType(errors.PhaseDecode, tagPath, start, raw)
	}
	data1, c, err := c.U8()
	if err != nil {
		return nil, errors.WithPath(err, "row", "reserved1")
	}
	data2, c, err := c.U8()
	if err != nil {
		return nil, errors.WithPath(err, "row", "reserved1")
	}
	slot, err := c.Skip(4)
	if err != nil {
		return nil, errors.WithPath(err, "row", "reserved2")
	}

	if u, ok := desc.codec.(unsupportedCodec); ok {
		return nil, u.err(slot, []string{"row", "value"})
	}

	var value Value
	var end int
	switch tag.Modifier() {
	case ModNone:
		value, err = st.rowScalar(desc, slot, []string{"row", "value"})
		end = slot.Offset() + rowSlotSize
	case ModVector:
		var vec *Vector
		vec, end, err = st.rowVector(desc, slot, layout, []string{"row", "vector"})
		value = vec
	case ModArray:
		var vec *Vector
		vec, end, err = st.rowVector(desc, slot, layout, []string{"row", "array"})
		if err == nil {
			value = &Array{
				Type:        desc.Type,
				Dimensions:  1,
				ElementSize: uint32(max(desc.Size, 0)),
				Bounds:      []Bound{{Count: uint32(vec.Count)}},
				Data:        *vec,
				Span:        vec.Span,
			}
		}
	default:
		return nil, errors.UnknownModifier(errors.PhaseDecode, tagPath, start, raw)
	}
	if err != nil {
		return nil, err
	}

	return &Variant{
		Tag:       tag,
		Data1:     data1,
		Data2:     data2,
		Value:     value,
		Span:      Span{Offset: start, Length: end - start},
		Anomalies: st.anomalies,
	}, nil
}

func (st *state) rowScalar(desc *Descriptor, slot wire.Cursor, path []string) (Scalar, error) {
	if _, err := slot.Skip(rowSlotSize); err != nil {
		return Scalar{}, errors.WithPath(err, path...)
	}
	if !desc.Variable() && desc.Size <= rowSlotSize {
		s, _, err := desc.codec.decode(st, desc, slot, path)
		return s, err
	}
	mode := st.mode.(baseRelative)
	if err := mode.check(desc, slot, path); err != nil {
		return Scalar{}, err
	}
	target, _, err := mode.follow(slot, path)
	if err != nil {
		return Scalar{}, err
	}
	return desc.codec.decodeValue(st, desc, target, path)
}

// rowVector reads the count and address pair and decodes the elements at
// the translated address. It returns the offset just past the pair.
func (st *state) rowVector(desc *Descriptor, slot wire.Cursor, layout RowLayout, path []string) (*Vector, int, error) {
	count, c, err := slot.Pointer(layout.Is64Bit)
	if err != nil {
		return nil, 0, errors.WithPath(err, append(path, "count")...)
	}
	mode := st.mode.(baseRelative)
	data, end, err := mode.follow(c, append(path, "address"))
	if err != nil {
		return nil, 0, err
	}

	elems, next, err := st.elements(desc, count, data, path)
	if err != nil {
		return nil, 0, err
	}
	return &Vector{
		Type:     desc.Type,
		Count:    len(elems),
		Elements: elems,
		Span:     Span{Offset: data.Offset(), Length: next.Offset() - data.Offset()},
	}, end.Offset(), nil
}
