package variant

import "fmt"

// BaseType is the low byte of a variant tag.
type BaseType uint8

const (
	TypeEmpty            BaseType = 0x00
	TypeNull             BaseType = 0x01
	TypeI2               BaseType = 0x02
	TypeI4               BaseType = 0x03
	TypeR4               BaseType = 0x04
	TypeR8               BaseType = 0x05
	TypeCurrency         BaseType = 0x06
	TypeDate             BaseType = 0x07
	TypeBStr             BaseType = 0x08
	TypeError            BaseType = 0x0A
	TypeBool             BaseType = 0x0B
	TypeVariant          BaseType = 0x0C
	TypeDecimal          BaseType = 0x0E
	TypeI1               BaseType = 0x10
	TypeUI1              BaseType = 0x11
	TypeUI2              BaseType = 0x12
	TypeUI4              BaseType = 0x13
	TypeI8               BaseType = 0x14
	TypeUI8              BaseType = 0x15
	TypeInt              BaseType = 0x16
	TypeUInt             BaseType = 0x17
	TypeLpStr            BaseType = 0x1E
	TypeLpWStr           BaseType = 0x1F
	TypeCompressedLpWStr BaseType = 0x23
	TypeFileTime         BaseType = 0x40
	TypeBlob             BaseType = 0x41
	TypeBlobObject       BaseType = 0x46
	TypeClsid            BaseType = 0x48
)

// String returns the VT_ name of the type, or a hex form when unknown.
func (t BaseType) String() string {
	if d, ok := Lookup(t); ok {
		return d.Name
	}
	return fmt.Sprintf("VT_0x%02X", uint8(t))
}

// Modifier is the high byte of a variant tag.
type Modifier uint16

const (
	ModNone   Modifier = 0x0000
	ModVector Modifier = 0x1000
	ModArray  Modifier = 0x2000
)

func (m Modifier) String() string {
	switch m {
	case ModNone:
		return ""
	case ModVector:
		return "VT_VECTOR"
	case ModArray:
		return "VT_ARRAY"
	}
	return fmt.Sprintf("0x%04X", uint16(m))
}

// Tag is the 16-bit vType field of a variant.
type Tag uint16

// MakeTag combines a base type and modifier.
func MakeTag(t BaseType, m Modifier) Tag {
	return Tag(uint16(m) | uint16(t))
}

func (t Tag) Base() BaseType     { return BaseType(t & 0x00FF) }
func (t Tag) Modifier() Modifier { return Modifier(t & 0xFF00) }

// String renders the tag as e.g. "VT_I4|VT_VECTOR".
func (t Tag) String() string {
	if m := t.Modifier(); m != ModNone {
		return t.Base().String() + "|" + m.String()
	}
	return t.Base().String()
}

// Span locates a decoded value in its memory.
type Span struct {
	Offset int
	Length int
}

// End returns the offset just past the span.
func (s Span) End() int { return s.Offset + s.Length }

// Value is the payload of a Variant: a Scalar, *Vector or *Array.
type Value interface {
	Extent() Span
	sealed()
}

// Vector is a homogeneous counted sequence. len(Elements) == Count.
type Vector struct {
	Type     BaseType
	Count    int
	Elements []Scalar
	Span     Span
}

func (v *Vector) Extent() Span { return v.Span }
func (*Vector) sealed()        {}

// Bound is one dimension of an Array.
type Bound struct {
	Count      uint32
	LowerBound int32
}

// Array is an N-dimensional value. Data.Count equals the product of the
// bound counts.
type Array struct {
	Type        BaseType
	Dimensions  uint16
	Features    uint16
	ElementSize uint32
	Bounds      []Bound
	Data        Vector
	Span        Span
}

func (a *Array) Extent() Span { return a.Span }
func (*Array) sealed()        {}

// Anomaly is a tolerated irregularity found while decoding.
type Anomaly struct {
	Path   string
	Offset int
	Detail string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s @ offset %d: %s", a.Path, a.Offset, a.Detail)
}

// Variant is a decoded tagged value.
type Variant struct {
	Tag       Tag
	Data1     uint8
	Data2     uint8
	Value     Value
	Span      Span
	Anomalies []Anomaly
}

// Scalar returns the payload when the variant carries no modifier.
func (v *Variant) Scalar() (Scalar, bool) {
	s, ok := v.Value.(Scalar)
	return s, ok
}

// Vector returns the payload of a VT_VECTOR variant.
func (v *Variant) Vector() (*Vector, bool) {
	vec, ok := v.Value.(*Vector)
	return vec, ok
}

// Array returns the payload of a VT_ARRAY variant.
func (v *Variant) Array() (*Array, bool) {
	a, ok := v.Value.(*Array)
	return a, ok
}
