package variant

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const maxFormatBytes = 32

// String renders the value for display.
func (s Scalar) String() string {
	switch s.Type {
	case TypeEmpty:
		return "VT_EMPTY"
	case TypeNull:
		return "VT_NULL"
	case TypeVariant:
		return "VT_VARIANT"
	case TypeI1, TypeI2, TypeI4, TypeI8, TypeInt:
		v, _ := s.Int()
		return strconv.FormatInt(v, 10)
	case TypeUI1, TypeUI2, TypeUI4, TypeUI8, TypeUInt:
		return strconv.FormatUint(s.raw, 10)
	case TypeError:
		return fmt.Sprintf("0x%08X", uint32(s.raw))
	case TypeR4:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(s.raw))), 'g', -1, 32)
	case TypeR8:
		return strconv.FormatFloat(math.Float64frombits(s.raw), 'g', -1, 64)
	case TypeCurrency:
		return formatCurrency(int64(s.raw))
	case TypeBool:
		if v, ok := s.Bool(); ok {
			return strconv.FormatBool(v)
		}
		return fmt.Sprintf("0x%04X (invalid)", uint16(s.raw))
	case TypeDate:
		if t, ok := s.Time(); ok {
			return t.Format(time.RFC3339)
		}
		return strconv.FormatFloat(math.Float64frombits(s.raw), 'g', -1, 64)
	case TypeFileTime:
		t, _ := s.Time()
		return t.Format(time.RFC3339Nano)
	case TypeDecimal:
		return s.dec.String()
	case TypeClsid:
		return s.guid.String()
	case TypeBlob, TypeBlobObject:
		return formatBytes(s.data)
	case TypeLpStr, TypeLpWStr, TypeBStr:
		return strconv.Quote(s.text)
	}
	return s.Type.String()
}

// formatCurrency renders a VT_CY, a signed count of 1/10000 units.
func formatCurrency(v int64) string {
	sign := ""
	u := uint64(v)
	if v < 0 {
		sign = "-"
		u = uint64(-v)
	}
	return fmt.Sprintf("%s%d.%04d", sign, u/10000, u%10000)
}

func formatBytes(b []byte) string {
	if len(b) <= maxFormatBytes {
		return fmt.Sprintf("%d bytes: %s", len(b), hex.EncodeToString(b))
	}
	return fmt.Sprintf("%d bytes: %s...", len(b), hex.EncodeToString(b[:maxFormatBytes]))
}

// String renders the decimal in base 10 with Scale fractional digits.
func (d Decimal) String() string {
	mag := new(big.Int).SetUint64(uint64(d.Hi32))
	mag.Lsh(mag, 64)
	mag.Or(mag, new(big.Int).SetUint64(d.Lo64))
	digits := mag.String()

	if scale := int(d.Scale); scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if d.Negative() {
		return "-" + digits
	}
	return digits
}

// String renders the elements as a bracketed list.
func (v *Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range v.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// String renders the bounds followed by the flattened data.
func (a *Array) String() string {
	var b strings.Builder
	for _, bd := range a.Bounds {
		fmt.Fprintf(&b, "[%d:%d]", bd.LowerBound, bd.Count)
	}
	b.WriteByte(' ')
	b.WriteString(a.Data.String())
	return b.String()
}

// String renders "TAG: value".
func (v *Variant) String() string {
	return v.Tag.String() + ": " + Summary(v.Value)
}

// Summary renders a value, truncating long vectors.
func Summary(val Value) string {
	const maxItems = 8
	switch x := val.(type) {
	case Scalar:
		return x.String()
	case *Vector:
		return summarizeElements(x.Elements, maxItems)
	case *Array:
		var b strings.Builder
		for _, bd := range x.Bounds {
			fmt.Fprintf(&b, "[%d]", bd.Count)
		}
		return b.String() + " " + summarizeElements(x.Data.Elements, maxItems)
	}
	return ""
}

func summarizeElements(elems []Scalar, limit int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range elems {
		if i == limit {
			fmt.Fprintf(&b, ", ... (%d more)", len(elems)-limit)
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}
