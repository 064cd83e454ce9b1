package propset

import (
	"strings"
	"testing"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/variant"
	"github.com/wippyai/wsp-dissect/wire"
)

func TestDecodeFullPropSpecPropID(t *testing.T) {
	w := wire.NewWriter()
	w.U32(0xAAAAAAAA) // forces 4 bytes of padding before the spec
	w.Zero(4)
	w.GUID(Storage).U32(uint32(KindPropID)).U32(12)

	spec, c, err := DecodeFullPropSpec(wire.FromBytes(w.Bytes(), 4), wire.UTF16Strict)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Offset != 8 || spec.Length != 24 || c.Offset() != 32 {
		t.Errorf("offset=%d length=%d end=%d", spec.Offset, spec.Length, c.Offset())
	}
	if spec.Set != Storage || spec.Kind != KindPropID || spec.PropID != 12 {
		t.Errorf("spec = %+v", spec)
	}
	if got := spec.Describe(DefaultTable()); got != "PSGUID_STORAGE/Size" {
		t.Errorf("Describe = %q", got)
	}
}

func TestDecodeFullPropSpecName(t *testing.T) {
	in := FullPropSpec{Set: Query, Kind: KindName, Name: "DocAuthor"}
	w := wire.NewWriter()
	if err := in.Encode(w); err != nil {
		t.Fatal(err)
	}

	spec, _, err := DecodeFullPropSpec(wire.FromBytes(w.Bytes(), 0), wire.UTF16Strict)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "DocAuthor" {
		t.Errorf("Name = %q", spec.Name)
	}
	if got := spec.Describe(nil); got != Query.String()+`/"DocAuthor"` {
		t.Errorf("Describe = %q", got)
	}
}

func TestDecodeFullPropSpecErrors(t *testing.T) {
	w := wire.NewWriter()
	w.GUID(Storage).U32(9).U32(0)
	_, _, err := DecodeFullPropSpec(wire.FromBytes(w.Bytes(), 0), wire.UTF16Strict)
	if errors.KindOf(err) != errors.KindInvalidData {
		t.Errorf("unknown kind: got %v", err)
	}

	_, _, err = DecodeFullPropSpec(wire.FromBytes(w.Bytes()[:20], 0), wire.UTF16Strict)
	if errors.KindOf(err) != errors.KindOutOfBounds {
		t.Errorf("truncated: got %v", err)
	}
	if !strings.Contains(err.Error(), "propspec.propid") {
		t.Errorf("path missing: %v", err)
	}
}

func sizeRestriction(t *testing.T) *PropertyRestriction {
	t.Helper()
	return &PropertyRestriction{
		Relop:    PRGT,
		Property: FullPropSpec{Set: Storage, Kind: KindPropID, PropID: 12},
		Value: &variant.Variant{
			Tag:   variant.MakeTag(variant.TypeUI8, variant.ModNone),
			Value: variant.NewFixed(variant.TypeUI8, 1024),
		},
		LCID: 0x0409,
	}
}

func TestPropertyRestrictionRoundTrip(t *testing.T) {
	in := sizeRestriction(t)
	w := wire.NewWriter()
	if err := in.Encode(w); err != nil {
		t.Fatal(err)
	}
	buf := w.Bytes()

	out, c, err := DecodePropertyRestriction(variant.NewDecoderWithDefaults(), wire.FromBytes(buf, 0))
	if err != nil {
		t.Fatal(err)
	}
	if c.Offset() != len(buf) || out.Length != len(buf) {
		t.Errorf("consumed %d/%d bytes, length %d", c.Offset(), len(buf), out.Length)
	}
	// relop(4) + pad(4) + guid(16) + kind(4) + id(4) + variant(4+8) + lcid(4)
	if len(buf) != 48 {
		t.Errorf("encoded length = %d, want 48", len(buf))
	}
	if out.Relop != PRGT || out.LCID != 0x0409 || out.Property.PropID != 12 {
		t.Errorf("decoded %+v", out)
	}
	s, ok := out.Value.Scalar()
	if u, _ := s.Uint(); !ok || u != 1024 {
		t.Errorf("value = %v", out.Value)
	}
	if got := out.Describe(DefaultTable()); got != "PSGUID_STORAGE/Size > 1024" {
		t.Errorf("Describe = %q", got)
	}
}

func TestPropertyRestrictionTruncated(t *testing.T) {
	w := wire.NewWriter()
	if err := sizeRestriction(t).Encode(w); err != nil {
		t.Fatal(err)
	}
	buf := w.Bytes()
	dec := variant.NewDecoderWithDefaults()
	for n := 0; n < len(buf); n++ {
		_, _, err := DecodePropertyRestriction(dec, wire.FromBytes(buf[:n], 0))
		if errors.KindOf(err) != errors.KindOutOfBounds {
			t.Fatalf("prefix %d: got %v, want out_of_bounds", n, err)
		}
	}
}

func TestRelopString(t *testing.T) {
	tests := []struct {
		r      Relop
		want   string
		symbol string
	}{
		{PRLT, "PRLT", "<"},
		{PREQ, "PREQ", "=="},
		{PRSomeBits, "PRSomeBits", "&"},
		{PRAny | PREQ, "PRAny|PREQ", "=="},
		{PRAll | PRNE, "PRAll|PRNE", "!="},
		{Relop(0x42), "0x42", "?"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("%#x.String() = %q, want %q", uint32(tt.r), got, tt.want)
		}
		if got := tt.r.Symbol(); got != tt.symbol {
			t.Errorf("%#x.Symbol() = %q, want %q", uint32(tt.r), got, tt.symbol)
		}
	}
}
