package variant

import (
	stderrors "errors"
	"strings"
	"testing"

	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

const rowBase32 = 0x00100000

func rowHeader(tag Tag, reserved1 uint16) *wire.Writer {
	return wire.NewWriter().U16(uint16(tag)).U16(reserved1).U32(0)
}

func TestDecodeRow_InlineScalar(t *testing.T) {
	buf := rowHeader(MakeTag(TypeI4, ModNone), 0x0201).U32(0xFFFFFFD6).U32(0).Bytes()
	v, err := NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, RowLayout{BaseAddress: rowBase32})
	if err != nil {
		t.Fatal(err)
	}
	s, _ := v.Scalar()
	if n, _ := s.Int(); n != -42 {
		t.Errorf("value = %d", n)
	}
	if v.Data1 != 0x01 || v.Data2 != 0x02 {
		t.Errorf("data1=%#x data2=%#x", v.Data1, v.Data2)
	}
	if v.Span != (Span{Offset: 0, Length: 16}) {
		t.Errorf("span = %+v", v.Span)
	}
}

func TestDecodeRow_PointerScalars(t *testing.T) {
	tests := []struct {
		name   string
		layout RowLayout
		build  func(l RowLayout) []byte
		check  func(t *testing.T, s Scalar)
	}{
		{
			name:   "lpwstr 32-bit",
			layout: RowLayout{BaseAddress: rowBase32},
			build: func(l RowLayout) []byte {
				return rowHeader(MakeTag(TypeLpWStr, ModNone), 0).
					Pointer(l.BaseAddress+16, false).U32(0).
					UTF16("row text").U16(0).
					Bytes()
			},
			check: func(t *testing.T, s Scalar) {
				if text, _ := s.Text(); text != "row text" {
					t.Errorf("text = %q", text)
				}
			},
		},
		{
			name:   "lpstr 64-bit",
			layout: RowLayout{Is64Bit: true, BaseAddress: 0x7FF000000000},
			build: func(l RowLayout) []byte {
				return rowHeader(MakeTag(TypeLpStr, ModNone), 0).
					Pointer(l.BaseAddress+16, true).
					Raw([]byte("ansi\x00")).
					Bytes()
			},
			check: func(t *testing.T, s Scalar) {
				if text, _ := s.Text(); text != "ansi" {
					t.Errorf("text = %q", text)
				}
			},
		},
		{
			name:   "decimal behind pointer",
			layout: RowLayout{BaseAddress: rowBase32},
			build: func(l RowLayout) []byte {
				return rowHeader(MakeTag(TypeDecimal, ModNone), 0).
					Pointer(l.BaseAddress+16, false).U32(0).
					U16(0).U8(2).U8(0).U32(0).U64(12345).
					Bytes()
			},
			check: func(t *testing.T, s Scalar) {
				if d, ok := s.Decimal(); !ok || d.String() != "123.45" {
					t.Errorf("decimal = %v, %v", d, ok)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tt.build(tt.layout)
			v, err := NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, tt.layout)
			if err != nil {
				t.Fatal(err)
			}
			s, ok := v.Scalar()
			if !ok {
				t.Fatalf("payload is %T", v.Value)
			}
			tt.check(t, s)
		})
	}
}

func TestDecodeRow_StringVector32(t *testing.T) {
	buf := rowHeader(MakeTag(TypeLpWStr, ModVector), 0).
		U32(2).U32(rowBase32+16).
		U32(rowBase32+24).U32(rowBase32+30).
		UTF16("ab").U16(0).
		UTF16("c").U16(0).
		Bytes()

	v, err := NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, RowLayout{BaseAddress: rowBase32})
	if err != nil {
		t.Fatal(err)
	}
	vec, ok := v.Vector()
	if !ok || vec.Count != 2 {
		t.Fatalf("payload = %#v", v.Value)
	}
	for i, want := range []string{"ab", "c"} {
		if got, _ := vec.Elements[i].Text(); got != want {
			t.Errorf("element %d = %q, want %q", i, got, want)
		}
	}
	if vec.Elements[1].Span.Offset != 30 {
		t.Errorf("element 1 at %d", vec.Elements[1].Span.Offset)
	}
	if v.Span.Length != 16 {
		t.Errorf("row span = %+v", v.Span)
	}
}

func TestDecodeRow_FixedVector64(t *testing.T) {
	layout := RowLayout{Is64Bit: true, BaseAddress: 0x7FF000000000}
	buf := rowHeader(MakeTag(TypeI4, ModVector), 0).
		U64(3).U64(layout.BaseAddress+24).
		U32(7).U32(8).U32(9).
		Bytes()

	v, err := NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, layout)
	if err != nil {
		t.Fatal(err)
	}
	vec, _ := v.Vector()
	for i, want := range []int64{7, 8, 9} {
		if got, _ := vec.Elements[i].Int(); got != want {
			t.Errorf("element %d = %d", i, got)
		}
	}
	if v.Span.Length != 24 || vec.Span != (Span{Offset: 24, Length: 12}) {
		t.Errorf("spans = %+v / %+v", v.Span, vec.Span)
	}
}

func TestDecodeRow_Array(t *testing.T) {
	buf := rowHeader(MakeTag(TypeUI2, ModArray), 0).
		U32(2).U32(rowBase32+16).
		U16(10).U16(20).
		Bytes()
	v, err := NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, RowLayout{BaseAddress: rowBase32})
	if err != nil {
		t.Fatal(err)
	}
	a, ok := v.Array()
	if !ok || a.Dimensions != 1 || a.Bounds[0].Count != 2 || a.Data.Count != 2 {
		t.Fatalf("array = %+v", v.Value)
	}
}

func TestDecodeRow_Errors(t *testing.T) {
	layout := RowLayout{BaseAddress: rowBase32}
	tests := []struct {
		name string
		buf  []byte
		kind errors.Kind
		path string
	}{
		{
			name: "address below base",
			buf:  rowHeader(MakeTag(TypeI4, ModVector), 0).U32(1).U32(rowBase32 - 4).Bytes(),
			kind: errors.KindOutOfBounds,
			path: "row.vector.address",
		},
		{
			name: "address past end",
			buf:  rowHeader(MakeTag(TypeI4, ModVector), 0).U32(1).U32(rowBase32 + 0x1000).Bytes(),
			kind: errors.KindOutOfBounds,
			path: "row.vector.address",
		},
		{
			name: "element pointer below base",
			buf:  rowHeader(MakeTag(TypeLpWStr, ModVector), 0).U32(1).U32(rowBase32 + 16).U32(1).Bytes(),
			kind: errors.KindOutOfBounds,
			path: "row.vector[0]",
		},
		{
			name: "packed data short",
			buf:  rowHeader(MakeTag(TypeI8, ModVector), 0).U32(2).U32(rowBase32 + 16).U64(1).Bytes(),
			kind: errors.KindOutOfBounds,
			path: "row.vector",
		},
		{
			name: "blob vector",
			buf:  rowHeader(MakeTag(TypeBlob, ModVector), 0).U32(0).U32(rowBase32 + 16).Bytes(),
			kind: errors.KindUnsupported,
			path: "row.vector",
		},
		{
			name: "blob scalar",
			buf:  rowHeader(MakeTag(TypeBlob, ModNone), 0).U32(rowBase32 + 16).U32(0).Bytes(),
			kind: errors.KindUnsupported,
			path: "row.value",
		},
		{
			name: "compressed string",
			buf:  rowHeader(MakeTag(TypeCompressedLpWStr, ModNone), 0).U64(0).Bytes(),
			kind: errors.KindUnsupported,
			path: "row.value",
		},
		{
			name: "unterminated string",
			buf:  rowHeader(MakeTag(TypeLpWStr, ModNone), 0).U32(rowBase32 + 16).U32(0).U16('a').Bytes(),
			kind: errors.KindOutOfBounds,
			path: "row.value",
		},
		{
			name: "zero-width vector",
			buf:  rowHeader(MakeTag(TypeNull, ModVector), 0).U32(1 << 20).U32(rowBase32 + 16).Bytes(),
			kind: errors.KindInvalidData,
			path: "row.vector",
		},
		{
			name: "unknown type",
			buf:  rowHeader(Tag(0x00FF), 0).U64(0).Bytes(),
			kind: errors.KindUnknownType,
			path: "row.vtype",
		},
		{
			name: "unknown modifier",
			buf:  rowHeader(Tag(0x4003), 0).U64(0).Bytes(),
			kind: errors.KindUnknownModifier,
			path: "row.vtype",
		},
		{
			name: "short slot",
			buf:  rowHeader(MakeTag(TypeI4, ModNone), 0).U32(1).Bytes(),
			kind: errors.KindOutOfBounds,
			path: "row.value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(tt.buf), 0, layout)
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("err = %v", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", e.Kind, tt.kind, e)
			}
			if got := strings.Join(e.Path, "."); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestDecodeRow_SharesElementLimits(t *testing.T) {
	buf := rowHeader(MakeTag(TypeUI1, ModVector), 0).U32(100).U32(rowBase32 + 16).Bytes()
	dec := NewDecoder(DefaultOptions().WithMaxElements(10))
	_, err := dec.DecodeRow(wspdissect.Bytes(buf), 0, RowLayout{BaseAddress: rowBase32})
	if errors.KindOf(err) != errors.KindTooLarge {
		t.Errorf("err = %v, want too_large", err)
	}
}
