package variant

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// codec is implemented once per family of base types.
type codec interface {
	// decode reads a self-delimited value at c.
	decode(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error)
	// decodeValue reads a value whose extent is implied by a terminator or
	// by the type size. Used behind row-buffer pointers.
	decodeValue(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, error)
	valueOnly() bool
	encode(w *wire.Writer, d *Descriptor, s Scalar) error
}

type zeroCodec struct{}

func (zeroCodec) decode(_ *state, d *Descriptor, c wire.Cursor, _ []string) (Scalar, wire.Cursor, error) {
	return Scalar{Type: d.Type, Span: Span{Offset: c.Offset()}}, c, nil
}

func (z zeroCodec) decodeValue(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, error) {
	s, _, err := z.decode(st, d, c, path)
	return s, err
}

func (zeroCodec) valueOnly() bool { return true }

func (zeroCodec) encode(_ *wire.Writer, _ *Descriptor, _ Scalar) error { return nil }

type fixedCodec struct{}

func (fixedCodec) decode(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	start := c.Offset()
	b, next, err := c.Bytes(d.Size)
	if err != nil {
		return Scalar{}, c, errors.WithPath(err, path...)
	}
	s := Scalar{Type: d.Type, Span: Span{Offset: start, Length: d.Size}}
	switch d.Size {
	case 1:
		s.raw = uint64(b[0])
	case 2:
		s.raw = uint64(binary.LittleEndian.Uint16(b))
	case 4:
		s.raw = uint64(binary.LittleEndian.Uint32(b))
	case 8:
		s.raw = binary.LittleEndian.Uint64(b)
	case 16:
		if d.Type == TypeDecimal {
			s.dec = Decimal{
				Reserved: binary.LittleEndian.Uint16(b[0:2]),
				Scale:    b[2],
				Sign:     b[3],
				Hi32:     binary.LittleEndian.Uint32(b[4:8]),
				Lo64:     binary.LittleEndian.Uint64(b[8:16]),
			}
		} else {
			s.guid, _, _ = wire.FromBytes(b, 0).GUID()
		}
	}
	if d.Type == TypeBool && s.raw != 0 && s.raw != 0xFFFF {
		st.anomaly(path, start, "VT_BOOL value 0x%04X is neither 0x0000 nor 0xFFFF", s.raw)
	}
	return s, next, nil
}

func (f fixedCodec) decodeValue(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, error) {
	s, _, err := f.decode(st, d, c, path)
	return s, err
}

func (fixedCodec) valueOnly() bool { return true }

func (fixedCodec) encode(w *wire.Writer, d *Descriptor, s Scalar) error {
	switch d.Size {
	case 1:
		w.U8(uint8(s.raw))
	case 2:
		w.U16(uint16(s.raw))
	case 4:
		w.U32(uint32(s.raw))
	case 8:
		w.U64(s.raw)
	case 16:
		if d.Type == TypeDecimal {
			w.U16(s.dec.Reserved).U8(s.dec.Scale).U8(s.dec.Sign).U32(s.dec.Hi32).U64(s.dec.Lo64)
		} else {
			w.GUID(s.guid)
		}
	}
	return nil
}

type blobCodec struct{}

func (blobCodec) decode(_ *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	start := c.Offset()
	data, next, err := c.LengthPrefixedBytes()
	if err != nil {
		return Scalar{}, c, errors.WithPath(err, path...)
	}
	return Scalar{
		Type: d.Type,
		Span: Span{Offset: start, Length: next.Offset() - start},
		data: bytes.Clone(data),
	}, next, nil
}

func (blobCodec) decodeValue(_ *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, error) {
	return Scalar{}, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Path(path...).
		At(c.Offset()).
		Detail("%s has no length-implied encoding in row buffers", d.Name).
		Build()
}

func (blobCodec) valueOnly() bool { return false }

func (blobCodec) encode(w *wire.Writer, _ *Descriptor, s Scalar) error {
	if uint64(len(s.data)) > math.MaxUint32 {
		return errors.Overflow(errors.PhaseEncode, nil, w.Len(), "blob length")
	}
	w.U32(uint32(len(s.data))).Raw(s.data)
	return nil
}

// lpstrCodec handles VT_LPSTR: a u32 byte count followed by a NUL-terminated
// ANSI string within that span. The cursor always advances by the count.
type lpstrCodec struct{}

func (lpstrCodec) decode(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	start := c.Offset()
	n, body, err := c.U32()
	if err != nil {
		return Scalar{}, c, errors.WithPath(err, path...)
	}
	if uint64(n) > uint64(body.Remaining()) {
		return Scalar{}, c, errors.OutOfBounds(errors.PhaseDecode, path, body.Offset(), int(min(n, math.MaxInt32)), body.Size())
	}
	raw, next, err := body.Bytes(int(n))
	if err != nil {
		return Scalar{}, c, errors.WithPath(err, path...)
	}

	content := raw
	nul := bytes.IndexByte(raw, 0)
	if nul >= 0 {
		content = raw[:nul]
	}
	if n > 0 && nul != int(n)-1 {
		var detail string
		if nul < 0 {
			detail = fmt.Sprintf("%s declares %d bytes without a NUL terminator", d.Name, n)
		} else {
			detail = fmt.Sprintf("%s declares %d bytes but the NUL terminator is at byte %d", d.Name, n, nul)
		}
		if st.opts.StrictLpStr {
			return Scalar{}, c, errors.InvalidEncoding(errors.PhaseDecode, path, body.Offset(), detail)
		}
		st.anomaly(path, body.Offset(), "%s", detail)
	}

	return Scalar{
		Type: d.Type,
		Span: Span{Offset: start, Length: next.Offset() - start},
		text: decodeANSI(content),
	}, next, nil
}

func (lpstrCodec) decodeValue(_ *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, error) {
	start := c.Offset()
	text, next, err := c.NullTerminatedASCII()
	if err != nil {
		return Scalar{}, errors.WithPath(err, path...)
	}
	return Scalar{
		Type: d.Type,
		Span: Span{Offset: start, Length: next.Offset() - start},
		text: decodeANSI([]byte(text)),
	}, nil
}

func (lpstrCodec) valueOnly() bool { return true }

func (lpstrCodec) encode(w *wire.Writer, _ *Descriptor, s Scalar) error {
	b := encodeANSI(s.text)
	w.U32(uint32(len(b) + 1)).Raw(b).U8(0)
	return nil
}

// decodeANSI maps code-page bytes to UTF-8. ASCII passes through.
func decodeANSI(b []byte) string {
	for _, ch := range b {
		if ch >= utf8.RuneSelf {
			out, err := charmap.Windows1252.NewDecoder().Bytes(b)
			if err != nil {
				return string(b)
			}
			return string(out)
		}
	}
	return string(b)
}

func encodeANSI(s string) []byte {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			out, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
			if err != nil {
				return []byte(s)
			}
			return out
		}
	}
	return []byte(s)
}

// wideCodec handles VT_LPWSTR and VT_BSTR: a u32 code-unit count followed by
// UTF-16LE with no terminator.
type wideCodec struct{}

func (wideCodec) decode(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	start := c.Offset()
	text, next, err := c.LengthPrefixedUTF16(st.opts.UTF16)
	if err != nil {
		return Scalar{}, c, errors.WithPath(err, path...)
	}
	return Scalar{
		Type: d.Type,
		Span: Span{Offset: start, Length: next.Offset() - start},
		text: text,
	}, next, nil
}

func (wideCodec) decodeValue(st *state, d *Descriptor, c wire.Cursor, path []string) (Scalar, error) {
	start := c.Offset()
	text, next, err := c.NullTerminatedUTF16(st.opts.UTF16)
	if err != nil {
		return Scalar{}, errors.WithPath(err, path...)
	}
	return Scalar{
		Type: d.Type,
		Span: Span{Offset: start, Length: next.Offset() - start},
		text: text,
	}, nil
}

func (wideCodec) valueOnly() bool { return true }

func (wideCodec) encode(w *wire.Writer, _ *Descriptor, s Scalar) error {
	b := wire.EncodeUTF16(s.text)
	w.U32(uint32(len(b) / 2)).Raw(b)
	return nil
}

type unsupportedCodec struct {
	reason string
}

func (u unsupportedCodec) err(c wire.Cursor, path []string) error {
	return errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Path(path...).
		At(c.Offset()).
		Detail("%s", u.reason).
		Build()
}

func (u unsupportedCodec) decode(_ *state, _ *Descriptor, c wire.Cursor, path []string) (Scalar, wire.Cursor, error) {
	return Scalar{}, c, u.err(c, path)
}

func (u unsupportedCodec) decodeValue(_ *state, _ *Descriptor, c wire.Cursor, path []string) (Scalar, error) {
	return Scalar{}, u.err(c, path)
}

func (unsupportedCodec) valueOnly() bool { return false }

func (u unsupportedCodec) encode(w *wire.Writer, _ *Descriptor, _ Scalar) error {
	return errors.Unsupported(errors.PhaseEncode, u.reason)
}
