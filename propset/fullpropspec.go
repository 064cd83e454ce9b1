package propset

import (
	"fmt"
	"strings"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// Kind selects how a FullPropSpec names its property.
type Kind uint32

const (
	KindName   Kind = 0 // PRSPEC_LPWSTR
	KindPropID Kind = 1 // PRSPEC_PROPID
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "PRSPEC_LPWSTR"
	case KindPropID:
		return "PRSPEC_PROPID"
	}
	return fmt.Sprintf("PRSPEC_0x%X", uint32(k))
}

// FullPropSpec identifies a property by set GUID and either a numeric ID
// or a name.
type FullPropSpec struct {
	Set    wire.GUID
	Kind   Kind
	PropID uint32
	Name   string
	Offset int
	Length int
}

// DecodeFullPropSpec reads a CFullPropSpec at the next 8-byte boundary.
func DecodeFullPropSpec(c wire.Cursor, mode wire.UTF16Mode) (FullPropSpec, wire.Cursor, error) {
	c = c.Align(8)
	start := c.Offset()
	path := []string{"propspec"}

	g, c, err := c.GUID()
	if err != nil {
		return FullPropSpec{}, c, errors.WithPath(err, append(path, "guid")...)
	}
	kind, c, err := c.U32()
	if err != nil {
		return FullPropSpec{}, c, errors.WithPath(err, append(path, "kind")...)
	}

	spec := FullPropSpec{Set: g, Kind: Kind(kind), Offset: start}
	switch spec.Kind {
	case KindPropID:
		spec.PropID, c, err = c.U32()
		if err != nil {
			return FullPropSpec{}, c, errors.WithPath(err, append(path, "propid")...)
		}
	case KindName:
		spec.Name, c, err = c.LengthPrefixedUTF16(mode)
		if err != nil {
			return FullPropSpec{}, c, errors.WithPath(err, append(path, "name")...)
		}
		// The count includes the terminating NUL.
		spec.Name = strings.TrimSuffix(spec.Name, "\x00")
	default:
		return FullPropSpec{}, c, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(append(path, "kind")...).
			At(start + 16).
			Value(kind).
			Detail("unknown ulKind %d", kind).
			Build()
	}
	spec.Length = c.Offset() - start
	return spec, c, nil
}

// Encode appends the CFullPropSpec to w, padding to 8 bytes first.
func (p FullPropSpec) Encode(w *wire.Writer) error {
	w.Align(8)
	w.GUID(p.Set).U32(uint32(p.Kind))
	switch p.Kind {
	case KindPropID:
		w.U32(p.PropID)
	case KindName:
		b := wire.EncodeUTF16(p.Name)
		w.U32(uint32(len(b)/2 + 1)).Raw(b).U16(0)
	default:
		return errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("unknown ulKind %d", p.Kind))
	}
	return nil
}

// Describe renders the property with names from t when known, e.g.
// "PSGUID_STORAGE/Size".
func (p FullPropSpec) Describe(t *Table) string {
	setName := p.Set.String()
	if t != nil {
		if s, ok := t.Lookup(p.Set); ok {
			setName = s.Name
		}
	}
	if p.Kind == KindName {
		return fmt.Sprintf("%s/%q", setName, p.Name)
	}
	if t != nil {
		if name, ok := t.PropertyName(p.Set, p.PropID); ok {
			return setName + "/" + name
		}
	}
	return fmt.Sprintf("%s/%d", setName, p.PropID)
}
