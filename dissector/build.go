package dissector

import (
	"fmt"

	"github.com/wippyai/wsp-dissect/propset"
	"github.com/wippyai/wsp-dissect/variant"
)

// builder is a variant.Visitor that assembles a Node tree.
type builder struct {
	row     bool
	layout  variant.RowLayout
	root    *Node
	current *Node
	v       *variant.Variant
}

var _ variant.Visitor = (*builder)(nil)

// Build returns the tree of a variant decoded from sequential form.
func Build(v *variant.Variant) *Node {
	b := &builder{}
	return b.build(v)
}

// BuildRow returns the tree of a variant decoded from a row buffer.
func BuildRow(v *variant.Variant, layout variant.RowLayout) *Node {
	b := &builder{row: true, layout: layout}
	return b.build(v)
}

func (b *builder) build(v *variant.Variant) *Node {
	// Walk only fails when a visitor method does, and these never do.
	_ = variant.Walk(v, b)
	for _, a := range v.Anomalies {
		b.root.Add(FieldAnomaly, a.String(), a.Offset, 0)
	}
	return b.root
}

func (b *builder) VisitHeader(v *variant.Variant) error {
	b.v = v
	start := v.Span.Offset
	b.root = &Node{Field: FieldVariant, Label: v.String(), Offset: start, Length: v.Span.Length}
	b.current = b.root

	b.root.Add(FieldTag, v.Tag.String(), start, 2)
	b.root.Add(FieldData1, fmt.Sprintf("0x%02X", v.Data1), start+2, 1)
	b.root.Add(FieldData2, fmt.Sprintf("0x%02X", v.Data2), start+3, 1)
	if !b.row {
		return nil
	}

	b.root.Add(FieldReserved, "reserved2", start+4, 4)
	slot := start + 8
	ptr := b.layout.PointerSize()
	switch x := v.Value.(type) {
	case *variant.Vector:
		b.root.Add(FieldCount, fmt.Sprint(x.Count), slot, ptr)
		b.root.Add(FieldAddress, fmt.Sprintf("offset %d", x.Span.Offset), slot+ptr, ptr)
	case *variant.Array:
		b.root.Add(FieldCount, fmt.Sprint(x.Data.Count), slot, ptr)
		b.root.Add(FieldAddress, fmt.Sprintf("offset %d", x.Data.Span.Offset), slot+ptr, ptr)
	case variant.Scalar:
		if x.Span.Offset != slot {
			b.root.Add(FieldAddress, fmt.Sprintf("offset %d", x.Span.Offset), slot, 8)
		}
	}
	return nil
}

func (b *builder) VisitScalar(index int, s variant.Scalar) error {
	if index < 0 {
		b.current.Add(FieldValue, s.String(), s.Span.Offset, s.Span.Length)
		return nil
	}
	b.current.Add(FieldElement, fmt.Sprintf("[%d] %s", index, s), s.Span.Offset, s.Span.Length)
	return nil
}

func (b *builder) BeginVector(v *variant.Vector) error {
	b.current = b.root.Add(FieldVector, fmt.Sprintf("%d elements", v.Count), v.Span.Offset, v.Span.Length)
	if !b.row {
		b.current.Add(FieldCount, fmt.Sprint(v.Count), v.Span.Offset, 4)
	}
	return nil
}

func (b *builder) EndVector(*variant.Vector) error {
	b.current = b.root
	return nil
}

func (b *builder) BeginArray(a *variant.Array) error {
	label := fmt.Sprintf("%d dimensions, %d elements", a.Dimensions, a.Data.Count)
	b.current = b.root.Add(FieldArray, label, a.Span.Offset, a.Span.Length)
	if !b.row {
		start := a.Span.Offset
		b.current.Add(FieldDimensions, fmt.Sprint(a.Dimensions), start, 2)
		b.current.Add(FieldFeatures, fmt.Sprintf("0x%04X", a.Features), start+2, 2)
		b.current.Add(FieldElementSize, fmt.Sprint(a.ElementSize), start+4, 4)
	}
	return nil
}

func (b *builder) VisitBound(index int, bd variant.Bound) error {
	offset, length := b.current.Offset+8+8*index, 8
	if b.row {
		offset, length = b.current.Offset, 0
	}
	label := fmt.Sprintf("[%d] count %d, lower bound %d", index, bd.Count, bd.LowerBound)
	b.current.Add(FieldBound, label, offset, length)
	return nil
}

func (b *builder) EndArray(*variant.Array) error {
	b.current = b.root
	return nil
}

// BuildRestriction returns the tree of a property restriction. Property
// names are resolved through t, which may be nil.
func BuildRestriction(r *propset.PropertyRestriction, t *propset.Table) *Node {
	root := &Node{Field: FieldRestriction, Label: r.Describe(t), Offset: r.Offset, Length: r.Length}
	root.Add(FieldRelop, r.Relop.String(), r.Offset, 4)

	p := r.Property
	spec := root.Add(FieldPropSpec, p.Describe(t), p.Offset, p.Length)
	spec.Add(FieldValue, p.Set.String(), p.Offset, 16)
	spec.Add(FieldValue, p.Kind.String(), p.Offset+16, 4)
	if p.Kind == propset.KindPropID {
		spec.Add(FieldValue, fmt.Sprint(p.PropID), p.Offset+20, 4)
	} else {
		spec.Add(FieldValue, fmt.Sprintf("%q", p.Name), p.Offset+20, p.Length-20)
	}

	root.Children = append(root.Children, Build(r.Value))
	root.Add(FieldLCID, fmt.Sprintf("0x%04X", r.LCID), r.Offset+r.Length-4, 4)
	return root
}
