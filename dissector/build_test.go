package dissector

import (
	"strings"
	"testing"

	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/propset"
	"github.com/wippyai/wsp-dissect/variant"
	"github.com/wippyai/wsp-dissect/wire"
)

type span struct {
	field  Field
	label  string
	offset int
	length int
}

func flat(n *Node) []span {
	var out []span
	n.Walk(func(_ int, x *Node) bool {
		out = append(out, span{x.Field, x.Label, x.Offset, x.Length})
		return true
	})
	return out
}

func checkTree(t *testing.T, n *Node, want []span) {
	t.Helper()
	got := flat(n)
	if len(got) != len(want) {
		t.Fatalf("got %d nodes, want %d:\n%s", len(got), len(want), n)
	}
	for i := range want {
		if want[i].label == "" {
			got[i].label = ""
		}
		if got[i] != want[i] {
			t.Errorf("node %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func decode(t *testing.T, buf []byte) *variant.Variant {
	t.Helper()
	v, _, err := variant.Decode(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestBuildScalar(t *testing.T) {
	n := Build(decode(t, []byte{0x02, 0x00, 0x00, 0x00, 0x2A, 0x00}))
	checkTree(t, n, []span{
		{FieldVariant, "VT_I2: 42", 0, 6},
		{FieldTag, "VT_I2", 0, 2},
		{FieldData1, "0x00", 2, 1},
		{FieldData2, "0x00", 3, 1},
		{FieldValue, "42", 4, 2},
	})
}

func TestBuildVector(t *testing.T) {
	n := Build(decode(t, []byte{
		0x03, 0x10, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
	}))
	checkTree(t, n, []span{
		{FieldVariant, "", 0, 16},
		{FieldTag, "VT_I4|VT_VECTOR", 0, 2},
		{FieldData1, "", 2, 1},
		{FieldData2, "", 3, 1},
		{FieldVector, "2 elements", 4, 12},
		{FieldCount, "2", 4, 4},
		{FieldElement, "[0] 1", 8, 4},
		{FieldElement, "[1] 2", 12, 4},
	})
}

func TestBuildArray(t *testing.T) {
	buf := wire.NewWriter().
		U16(uint16(variant.MakeTag(variant.TypeI4, variant.ModArray))).U16(0).
		U16(1).U16(0).U32(4).
		U32(2).U32(0).
		U32(7).U32(8).
		Bytes()
	n := Build(decode(t, buf))
	checkTree(t, n, []span{
		{FieldVariant, "", 0, 28},
		{FieldTag, "", 0, 2},
		{FieldData1, "", 2, 1},
		{FieldData2, "", 3, 1},
		{FieldArray, "1 dimensions, 2 elements", 4, 24},
		{FieldDimensions, "1", 4, 2},
		{FieldFeatures, "0x0000", 6, 2},
		{FieldElementSize, "4", 8, 4},
		{FieldBound, "[0] count 2, lower bound 0", 12, 8},
		{FieldElement, "[0] 7", 20, 4},
		{FieldElement, "[1] 8", 24, 4},
	})
}

func TestBuildAnomaly(t *testing.T) {
	buf := wire.NewWriter().U16(uint16(variant.TypeBool)).U16(0).U16(1).Bytes()
	n := Build(decode(t, buf))
	a := n.Find(FieldAnomaly)
	if a == nil {
		t.Fatalf("no anomaly node:\n%s", n)
	}
	if a.Offset != 4 {
		t.Errorf("anomaly offset = %d", a.Offset)
	}
}

const base = 0x00100000

func TestBuildRowInline(t *testing.T) {
	buf := wire.NewWriter().U16(uint16(variant.TypeI4)).U16(0).U32(0).U32(5).U32(0).Bytes()
	layout := variant.RowLayout{BaseAddress: base}
	v, err := variant.NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, layout)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, BuildRow(v, layout), []span{
		{FieldVariant, "", 0, 16},
		{FieldTag, "VT_I4", 0, 2},
		{FieldData1, "", 2, 1},
		{FieldData2, "", 3, 1},
		{FieldReserved, "", 4, 4},
		{FieldValue, "5", 8, 4},
	})
}

func TestBuildRowVector(t *testing.T) {
	buf := wire.NewWriter().
		U16(uint16(variant.MakeTag(variant.TypeI4, variant.ModVector))).U16(0).U32(0).
		U32(2).U32(base + 16).
		U32(10).U32(20).
		Bytes()
	layout := variant.RowLayout{BaseAddress: base}
	v, err := variant.NewDecoderWithDefaults().DecodeRow(wspdissect.Bytes(buf), 0, layout)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, BuildRow(v, layout), []span{
		{FieldVariant, "", 0, 16},
		{FieldTag, "", 0, 2},
		{FieldData1, "", 2, 1},
		{FieldData2, "", 3, 1},
		{FieldReserved, "", 4, 4},
		{FieldCount, "2", 8, 4},
		{FieldAddress, "offset 16", 12, 4},
		{FieldVector, "2 elements", 16, 8},
		{FieldElement, "[0] 10", 16, 4},
		{FieldElement, "[1] 20", 20, 4},
	})
}

func TestBuildRestriction(t *testing.T) {
	r := &propset.PropertyRestriction{
		Relop:    propset.PREQ,
		Property: propset.FullPropSpec{Set: propset.Storage, Kind: propset.KindPropID, PropID: 10},
		Value: &variant.Variant{
			Tag:   variant.MakeTag(variant.TypeLpWStr, variant.ModNone),
			Value: variant.NewText(variant.TypeLpWStr, "a.txt"),
		},
		LCID: 0x0409,
	}
	w := wire.NewWriter()
	if err := r.Encode(w); err != nil {
		t.Fatal(err)
	}
	dec, _, err := propset.DecodePropertyRestriction(variant.NewDecoderWithDefaults(), wire.FromBytes(w.Bytes(), 0))
	if err != nil {
		t.Fatal(err)
	}

	n := BuildRestriction(dec, propset.DefaultTable())
	if !strings.HasPrefix(n.Label, "PSGUID_STORAGE/FileName ==") {
		t.Errorf("label = %q", n.Label)
	}
	lcid := n.Children[len(n.Children)-1]
	if lcid.Field != FieldLCID || lcid.Offset != len(w.Bytes())-4 {
		t.Errorf("lcid node = %+v", lcid)
	}
	if v := n.Find(FieldVariant); v == nil || v.Offset != 32 {
		t.Errorf("variant node = %+v", v)
	}
}

func TestNodeWriteTo(t *testing.T) {
	n := &Node{Field: FieldVariant, Label: "root", Offset: 0, Length: 8}
	n.Add(FieldValue, "child", 4, 4)

	want := "Variant: root [0+8]\n  Value: child [4+4]\n"
	if got := n.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if n.Count() != 2 {
		t.Errorf("Count = %d", n.Count())
	}
}
