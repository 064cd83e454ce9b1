package wire

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/wippyai/wsp-dissect/errors"
)

// GUID is a Windows GUID as laid out on the wire.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// String formats the GUID in registry form, e.g.
// {B725F130-47EF-101A-A5F1-02608C9EEBAC}.
func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%X}",
		g.Data1, g.Data2, g.Data3, g.Data4[0], g.Data4[1], g.Data4[2:])
}

// IsZero reports whether all fields are zero.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// ParseGUID parses the registry form with or without braces.
func ParseGUID(s string) (GUID, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	parts := strings.Split(s, "-")
	if len(parts) != 5 || len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 ||
		len(parts[3]) != 4 || len(parts[4]) != 12 {
		return GUID{}, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("malformed GUID %q", s))
	}
	raw, err := hex.DecodeString(strings.Join(parts, ""))
	if err != nil {
		return GUID{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, fmt.Sprintf("malformed GUID %q", s))
	}
	var g GUID
	g.Data1 = uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	g.Data2 = uint16(raw[4])<<8 | uint16(raw[5])
	g.Data3 = uint16(raw[6])<<8 | uint16(raw[7])
	copy(g.Data4[:], raw[8:])
	return g, nil
}

// MustParseGUID is ParseGUID that panics on error. For static tables.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}
