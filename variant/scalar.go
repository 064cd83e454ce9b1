package variant

import (
	"math"
	"time"

	"github.com/wippyai/wsp-dissect/wire"
)

// Decimal is the 16-byte VT_DECIMAL layout.
type Decimal struct {
	Reserved uint16
	Scale    uint8
	Sign     uint8
	Hi32     uint32
	Lo64     uint64
}

// Negative reports whether the sign byte marks a negative value.
func (d Decimal) Negative() bool { return d.Sign&0x80 != 0 }

// Scalar is one decoded value of a base type. Exactly one accessor reports
// ok for a given Type.
type Scalar struct {
	Type BaseType
	Span Span

	raw  uint64
	dec  Decimal
	guid wire.GUID
	data []byte
	text string
}

func (s Scalar) Extent() Span { return s.Span }
func (Scalar) sealed()        {}

// Raw returns the little-endian bit pattern of a fixed value of at most 8
// bytes.
func (s Scalar) Raw() uint64 { return s.raw }

// Int returns signed integer types and VT_CY (in units of 1/10000).
func (s Scalar) Int() (int64, bool) {
	switch s.Type {
	case TypeI1:
		return int64(int8(s.raw)), true
	case TypeI2:
		return int64(int16(s.raw)), true
	case TypeI4, TypeInt:
		return int64(int32(s.raw)), true
	case TypeI8, TypeCurrency:
		return int64(s.raw), true
	}
	return 0, false
}

// Uint returns unsigned integer types, VT_ERROR codes and VT_FILETIME ticks.
func (s Scalar) Uint() (uint64, bool) {
	switch s.Type {
	case TypeUI1, TypeUI2, TypeUI4, TypeUI8, TypeUInt, TypeError, TypeFileTime:
		return s.raw, true
	}
	return 0, false
}

// Float returns VT_R4, VT_R8 and the day count of VT_DATE.
func (s Scalar) Float() (float64, bool) {
	switch s.Type {
	case TypeR4:
		return float64(math.Float32frombits(uint32(s.raw))), true
	case TypeR8, TypeDate:
		return math.Float64frombits(s.raw), true
	}
	return 0, false
}

// Bool returns the value of a VT_BOOL. ok is false for any encoding other
// than 0x0000 and 0xFFFF; Raw still holds the wire value.
func (s Scalar) Bool() (value bool, ok bool) {
	if s.Type != TypeBool {
		return false, false
	}
	switch s.raw {
	case 0x0000:
		return false, true
	case 0xFFFF:
		return true, true
	}
	return false, false
}

func (s Scalar) GUID() (wire.GUID, bool) {
	return s.guid, s.Type == TypeClsid
}

func (s Scalar) Decimal() (Decimal, bool) {
	return s.dec, s.Type == TypeDecimal
}

// Bytes returns the payload of VT_BLOB and VT_BLOB_OBJECT.
func (s Scalar) Bytes() ([]byte, bool) {
	switch s.Type {
	case TypeBlob, TypeBlobObject:
		return s.data, true
	}
	return nil, false
}

// Text returns VT_LPSTR, VT_LPWSTR and VT_BSTR contents.
func (s Scalar) Text() (string, bool) {
	switch s.Type {
	case TypeLpStr, TypeLpWStr, TypeBStr:
		return s.text, true
	}
	return "", false
}

var (
	fileTimeEpochDelta = int64(11644473600) // seconds from 1601-01-01 to 1970-01-01
	oleEpoch           = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
)

const maxOLEDays = 2958465 // 9999-12-31

// Time converts VT_FILETIME and VT_DATE values to UTC.
func (s Scalar) Time() (time.Time, bool) {
	switch s.Type {
	case TypeFileTime:
		secs := int64(s.raw/1e7) - fileTimeEpochDelta
		nsec := int64(s.raw%1e7) * 100
		return time.Unix(secs, nsec).UTC(), true
	case TypeDate:
		days := math.Float64frombits(s.raw)
		if math.IsNaN(days) || math.Abs(days) > maxOLEDays {
			return time.Time{}, false
		}
		whole := math.Trunc(days)
		frac := math.Abs(days - whole)
		t := oleEpoch.AddDate(0, 0, int(whole))
		return t.Add(time.Duration(math.Round(frac * float64(24*time.Hour)))), true
	}
	return time.Time{}, false
}

// Constructors, used by Encoder and by callers building values by hand.

// NewFixed returns a scalar of a fixed type of at most 8 bytes holding the
// given little-endian bit pattern.
func NewFixed(t BaseType, raw uint64) Scalar {
	if d, ok := Lookup(t); ok && d.Size > 0 && d.Size < 8 {
		raw &= 1<<(8*d.Size) - 1
	}
	return Scalar{Type: t, raw: raw}
}

func NewInt(t BaseType, v int64) Scalar { return NewFixed(t, uint64(v)) }

func NewFloat32(v float32) Scalar { return NewFixed(TypeR4, uint64(math.Float32bits(v))) }

func NewFloat64(v float64) Scalar { return NewFixed(TypeR8, math.Float64bits(v)) }

func NewBool(v bool) Scalar {
	if v {
		return NewFixed(TypeBool, 0xFFFF)
	}
	return NewFixed(TypeBool, 0)
}

func NewDecimal(d Decimal) Scalar { return Scalar{Type: TypeDecimal, dec: d} }

func NewGUID(g wire.GUID) Scalar { return Scalar{Type: TypeClsid, guid: g} }

func NewBytes(t BaseType, b []byte) Scalar { return Scalar{Type: t, data: b} }

func NewText(t BaseType, s string) Scalar { return Scalar{Type: t, text: s} }

// Equal compares type and value, ignoring Span.
func (s Scalar) Equal(o Scalar) bool {
	if s.Type != o.Type || s.raw != o.raw || s.dec != o.dec || s.guid != o.guid || s.text != o.text {
		return false
	}
	return string(s.data) == string(o.data)
}
