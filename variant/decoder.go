package variant

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// Decoder decodes variants with a fixed configuration. It holds no mutable
// state and is safe for concurrent use.
type Decoder struct {
	options Options
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{options: opts}
}

// NewDecoderWithDefaults creates a Decoder with DefaultOptions.
func NewDecoderWithDefaults() *Decoder {
	return NewDecoder(DefaultOptions())
}

// Options returns the configuration.
func (d *Decoder) Options() Options {
	return d.options
}

var defaultDecoder = NewDecoderWithDefaults()

// Decode decodes one variant at offset in buf with DefaultOptions.
func Decode(buf []byte, offset int) (*Variant, int, error) {
	return defaultDecoder.Decode(buf, offset)
}

// Decode decodes one variant at offset in buf and returns the offset just
// past it. No partial variant is returned on error.
func (d *Decoder) Decode(buf []byte, offset int) (*Variant, int, error) {
	v, next, err := d.DecodeCursor(wire.FromBytes(buf, offset))
	if err != nil {
		return nil, offset, err
	}
	return v, next.Offset(), nil
}

// DecodeMemory decodes one variant at offset in mem.
func (d *Decoder) DecodeMemory(mem wspdissect.Memory, offset int) (*Variant, int, error) {
	v, next, err := d.DecodeCursor(wire.NewCursor(mem, offset))
	if err != nil {
		return nil, offset, err
	}
	return v, next.Offset(), nil
}

// DecodeCursor decodes one variant at c.
func (d *Decoder) DecodeCursor(c wire.Cursor) (*Variant, wire.Cursor, error) {
	st := d.newState(sequential{})
	v, next, err := st.variant(c)
	if err != nil {
		return nil, c, err
	}
	return v, next, nil
}

// DecodeScalar decodes one value of base type t with no header. Anomalies
// found in the value are returned with it.
func (d *Decoder) DecodeScalar(t BaseType, buf []byte, offset int) (Scalar, []Anomaly, int, error) {
	desc, err := lookup(t, offset)
	if err != nil {
		return Scalar{}, nil, offset, err
	}
	st := d.newState(sequential{})
	s, next, err := st.scalar(desc, wire.FromBytes(buf, offset), []string{"value"})
	if err != nil {
		return Scalar{}, nil, offset, err
	}
	return s, st.anomalies, next.Offset(), nil
}

// DecodeVector decodes a u32 count and that many elements of base type t.
func (d *Decoder) DecodeVector(t BaseType, buf []byte, offset int) (*Vector, int, error) {
	desc, err := lookup(t, offset)
	if err != nil {
		return nil, offset, err
	}
	st := d.newState(sequential{})
	v, next, err := st.vector(desc, wire.FromBytes(buf, offset), []string{"vector"})
	if err != nil {
		return nil, offset, err
	}
	return v, next.Offset(), nil
}

// DecodeArray decodes an array header, its bounds and the product of the
// bound counts of elements of base type t.
func (d *Decoder) DecodeArray(t BaseType, buf []byte, offset int) (*Array, int, error) {
	desc, err := lookup(t, offset)
	if err != nil {
		return nil, offset, err
	}
	st := d.newState(sequential{})
	a, next, err := st.array(desc, wire.FromBytes(buf, offset), []string{"array"})
	if err != nil {
		return nil, offset, err
	}
	return a, next.Offset(), nil
}

func lookup(t BaseType, offset int) (*Descriptor, error) {
	desc, ok := Lookup(t)
	if !ok {
		return nil, errors.UnknownType(errors.PhaseDecode, nil, offset, uint16(t))
	}
	return desc, nil
}

// state is the per-call scratch space of a decode.
type state struct {
	opts      Options
	mode      addressing
	anomalies []Anomaly
}

func (d *Decoder) newState(mode addressing) *state {
	return &state{opts: d.options, mode: mode}
}

func (st *state) anomaly(path []string, offset int, format string, args ...any) {
	a := Anomaly{
		Path:   strings.Join(path, "."),
		Offset: offset,
		Detail: fmt.Sprintf(format, args...),
	}
	st.anomalies = append(st.anomalies, a)
	Logger().Debug("variant anomaly",
		zap.String("path", a.Path),
		zap.Int("offset", a.Offset),
		zap.String("detail", a.Detail))
}

func (st *state) variant(c wire.Cursor) (*Variant, wire.Cursor, error) {
	start := c.Offset()
	tagPath := []string{"variant", "tag"}

	raw, c, err := c.U16()
	if err != nil {
		return nil, c, errors.WithPath(err, tagPath...)
	}
	tag := Tag(raw)
	desc, ok := Lookup(tag.Base())
	if !ok {
		return nil, c, errors.UnknownType(errors.PhaseDecode, tagPath, start, raw)
	}

	data1, c, err := c.U8()
	if err != nil {
		return nil, c, errors.WithPath(err, "variant", "vdata1")
	}
	data2, c, err := c.U8()
	if err != nil {
		return nil, c, errors.WithPath(err, "variant", "vdata2")
	}

	value, next, err := st.payload(desc, tag, c, start)
	if err != nil {
		return nil, c, err
	}

	return &Variant{
		Tag:       tag,
		Data1:     data1,
		Data2:     data2,
		Value:     value,
		Span:      Span{Offset: start, Length: next.Offset() - start},
		Anomalies: st.anomalies,
	}, next, nil
}

// payload dispatches on the modifier bits of tag.
func (st *state) payload(desc *Descriptor, tag Tag, c wire.Cursor, tagOffset int) (Value, wire.Cursor, error) {
	if u, ok := desc.codec.(unsupportedCodec); ok {
		return nil, c, u.err(c, []string{"variant", "value"})
	}
	switch tag.Modifier() {
	case ModNone:
		return st.scalar(desc, c, []string{"variant", "value"})
	case ModVector:
		return st.vector(desc, c, []string{"variant", "vector"})
	case ModArray:
		return st.array(desc, c, []string{"variant", "array"})
	}
	return nil, c, errors.UnknownModifier(errors.PhaseDecode, []string{"variant", "tag"}, tagOffset, uint16(tag))
}

func (st *state) scalar(desc *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	return desc.codec.decode(st, desc, c, path)
}

func (st *state) vector(desc *Descriptor, c wire.Cursor, path []string) (*Vector, wire.Cursor, error) {
	start := c.Offset()
	count, body, err := c.U32()
	if err != nil {
		return nil, c, errors.WithPath(err, append(path, "count")...)
	}
	elems, next, err := st.elements(desc, uint64(count), body, path)
	if err != nil {
		return nil, c, err
	}
	return &Vector{
		Type:     desc.Type,
		Count:    len(elems),
		Elements: elems,
		Span:     Span{Offset: start, Length: next.Offset() - start},
	}, next, nil
}

func (st *state) array(desc *Descriptor, c wire.Cursor, path []string) (*Array, wire.Cursor, error) {
	start := c.Offset()
	dims, c, err := c.U16()
	if err != nil {
		return nil, c, errors.WithPath(err, append(path, "dimensions")...)
	}
	features, c, err := c.U16()
	if err != nil {
		return nil, c, errors.WithPath(err, append(path, "features")...)
	}
	elemSize, c, err := c.U32()
	if err != nil {
		return nil, c, errors.WithPath(err, append(path, "element_size")...)
	}
	if need := int(dims) * 8; need > c.Remaining() {
		return nil, c, errors.OutOfBounds(errors.PhaseDecode, append(path, "bounds"), c.Offset(), need, c.Size())
	}

	bounds := make([]Bound, dims)
	total := uint64(1)
	for i := range bounds {
		bp := indexed(append(path, "bounds"), i)
		var cnt uint32
		var lb int32
		cnt, c, err = c.U32()
		if err != nil {
			return nil, c, errors.WithPath(err, bp...)
		}
		lb, c, err = c.I32()
		if err != nil {
			return nil, c, errors.WithPath(err, bp...)
		}
		bounds[i] = Bound{Count: cnt, LowerBound: lb}

		var ok bool
		if total, ok = wire.SafeMulU64(total, uint64(cnt)); !ok {
			return nil, c, errors.Overflow(errors.PhaseDecode, bp, c.Offset()-8, "array element count")
		}
	}

	dataStart := c.Offset()
	elems, next, err := st.elements(desc, total, c, path)
	if err != nil {
		return nil, c, err
	}
	return &Array{
		Type:        desc.Type,
		Dimensions:  dims,
		Features:    features,
		ElementSize: elemSize,
		Bounds:      bounds,
		Data: Vector{
			Type:     desc.Type,
			Count:    len(elems),
			Elements: elems,
			Span:     Span{Offset: dataStart, Length: next.Offset() - dataStart},
		},
		Span: Span{Offset: start, Length: next.Offset() - start},
	}, next, nil
}

// elements decodes count elements starting at c through the active
// addressing mode. It is shared by vectors and arrays in both modes.
func (st *state) elements(desc *Descriptor, count uint64, c wire.Cursor, path []string) ([]Scalar, wire.Cursor, error) {
	if err := st.preflight(desc, count, c, path); err != nil {
		return nil, c, err
	}
	out := make([]Scalar, int(count))
	for i := range out {
		if i > 0 && st.mode.padded(desc) {
			c = c.Align(4)
		}
		// Element paths are only built when something is reported.
		mark := len(st.anomalies)
		s, next, err := st.mode.element(st, desc, c, nil)
		if err != nil {
			return nil, c, errors.WithPath(err, indexed(path, i)...)
		}
		if len(st.anomalies) > mark {
			st.rebase(mark, indexed(path, i))
		}
		out[i] = s
		c = next
	}
	return out, c, nil
}

// rebase prefixes the paths of the anomalies recorded since mark.
func (st *state) rebase(mark int, prefix []string) {
	p := strings.Join(prefix, ".")
	for i := mark; i < len(st.anomalies); i++ {
		if st.anomalies[i].Path == "" {
			st.anomalies[i].Path = p
		} else {
			st.anomalies[i].Path = p + "." + st.anomalies[i].Path
		}
	}
}

// preflight rejects counts that cannot fit before anything is allocated.
func (st *state) preflight(desc *Descriptor, count uint64, c wire.Cursor, path []string) error {
	if err := st.mode.check(desc, c, path); err != nil {
		return err
	}
	if count > 0 && st.mode.stride(desc) == 0 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).
			At(c.Offset()).
			Value(count).
			Detail("%s cannot be a vector or array element", desc.Name).
			Build()
	}
	limit := st.opts.maxElements()
	if count > uint64(limit) {
		return errors.TooLarge(errors.PhaseDecode, path, c.Offset(), count, uint64(limit))
	}
	need, ok := wire.SafeMulU64(count, uint64(st.mode.stride(desc)))
	if !ok {
		return errors.Overflow(errors.PhaseDecode, path, c.Offset(), "element count times element size")
	}
	if need > uint64(c.Remaining()) {
		return errors.OutOfBounds(errors.PhaseDecode, path, c.Offset(), int(min(need, math.MaxInt32)), c.Size())
	}
	return nil
}

// indexed returns a copy of path with "[i]" appended to its last element.
func indexed(path []string, i int) []string {
	out := make([]string, len(path))
	copy(out, path)
	if len(out) == 0 {
		return []string{fmt.Sprintf("[%d]", i)}
	}
	out[len(out)-1] = fmt.Sprintf("%s[%d]", out[len(out)-1], i)
	return out
}
