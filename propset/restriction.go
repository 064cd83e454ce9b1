package propset

import (
	"fmt"
	"strings"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/variant"
	"github.com/wippyai/wsp-dissect/wire"
)

// Relop is the comparison of a CPropertyRestriction.
type Relop uint32

const (
	PRLT       Relop = 0x0
	PRLE       Relop = 0x1
	PRGT       Relop = 0x2
	PRGE       Relop = 0x3
	PREQ       Relop = 0x4
	PRNE       Relop = 0x5
	PRRE       Relop = 0x6
	PRAllBits  Relop = 0x7
	PRSomeBits Relop = 0x8

	// Flags applied to vector values.
	PRAll Relop = 0x100
	PRAny Relop = 0x200
)

var relopNames = map[Relop]string{
	PRLT: "PRLT", PRLE: "PRLE", PRGT: "PRGT", PRGE: "PRGE", PREQ: "PREQ",
	PRNE: "PRNE", PRRE: "PRRE", PRAllBits: "PRAllBits", PRSomeBits: "PRSomeBits",
}

// Op returns the relop with the vector flags removed.
func (r Relop) Op() Relop { return r &^ (PRAll | PRAny) }

func (r Relop) String() string {
	var parts []string
	if r&PRAll != 0 {
		parts = append(parts, "PRAll")
	}
	if r&PRAny != 0 {
		parts = append(parts, "PRAny")
	}
	if name, ok := relopNames[r.Op()]; ok {
		parts = append(parts, name)
	} else {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(r.Op())))
	}
	return strings.Join(parts, "|")
}

// Symbol renders the comparison as an operator where one exists.
func (r Relop) Symbol() string {
	switch r.Op() {
	case PRLT:
		return "<"
	case PRLE:
		return "<="
	case PRGT:
		return ">"
	case PRGE:
		return ">="
	case PREQ:
		return "=="
	case PRNE:
		return "!="
	case PRRE:
		return "~="
	case PRAllBits:
		return "&="
	case PRSomeBits:
		return "&"
	}
	return "?"
}

// PropertyRestriction compares a property against a variant value.
type PropertyRestriction struct {
	Relop    Relop
	Property FullPropSpec
	Value    *variant.Variant
	LCID     uint32
	Offset   int
	Length   int
}

// DecodePropertyRestriction reads a CPropertyRestriction at c.
func DecodePropertyRestriction(dec *variant.Decoder, c wire.Cursor) (*PropertyRestriction, wire.Cursor, error) {
	start := c.Offset()

	relop, c, err := c.U32()
	if err != nil {
		return nil, c, errors.WithPath(err, "restriction", "relop")
	}
	prop, c, err := DecodeFullPropSpec(c, dec.Options().UTF16)
	if err != nil {
		return nil, c, errors.WithPath(err, "restriction")
	}
	v, c, err := dec.DecodeCursor(c)
	if err != nil {
		return nil, c, errors.WithPath(err, "restriction")
	}
	c = c.Align(4)
	lcid, c, err := c.U32()
	if err != nil {
		return nil, c, errors.WithPath(err, "restriction", "lcid")
	}

	return &PropertyRestriction{
		Relop:    Relop(relop),
		Property: prop,
		Value:    v,
		LCID:     lcid,
		Offset:   start,
		Length:   c.Offset() - start,
	}, c, nil
}

// Encode appends the restriction to w.
func (r *PropertyRestriction) Encode(w *wire.Writer) error {
	if r.Value == nil {
		return errors.InvalidInput(errors.PhaseEncode, "restriction has no value")
	}
	w.U32(uint32(r.Relop))
	if err := r.Property.Encode(w); err != nil {
		return err
	}
	if err := variant.Walk(r.Value, variant.NewEncoder(w)); err != nil {
		return err
	}
	w.Align(4).U32(r.LCID)
	return nil
}

// Describe renders e.g. `PSGUID_STORAGE/Size > 1024`.
func (r *PropertyRestriction) Describe(t *Table) string {
	value := "<nil>"
	if r.Value != nil {
		value = variant.Summary(r.Value.Value)
	}
	flags := ""
	if r.Relop&PRAll != 0 {
		flags = " all"
	} else if r.Relop&PRAny != 0 {
		flags = " any"
	}
	return fmt.Sprintf("%s %s%s %s", r.Property.Describe(t), r.Relop.Symbol(), flags, value)
}
