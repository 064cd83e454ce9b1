package wire

import (
	"encoding/binary"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/wsp-dissect/errors"
)

// UTF16Mode selects how malformed UTF-16 is handled.
type UTF16Mode uint8

const (
	// UTF16Strict rejects unpaired surrogates with invalid_encoding.
	UTF16Strict UTF16Mode = iota
	// UTF16Lossy replaces malformed sequences with U+FFFD.
	UTF16Lossy
)

func (m UTF16Mode) String() string {
	if m == UTF16Lossy {
		return "lossy"
	}
	return "strict"
}

var lossyUTF16 = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeUTF16 decodes little-endian UTF-16 code units. base is the offset of
// b inside its memory and is used for error positions.
func DecodeUTF16(b []byte, mode UTF16Mode, base int) (string, error) {
	if len(b)%2 != 0 {
		return "", errors.InvalidEncoding(errors.PhaseDecode, nil, base+len(b)-1, "odd UTF-16 byte length")
	}
	if mode == UTF16Lossy {
		out, err := lossyUTF16.NewDecoder().Bytes(b)
		if err != nil {
			return "", errors.New(errors.PhaseDecode, errors.KindInvalidEncoding).
				At(base).
				Cause(err).
				Detail("UTF-16 decode").
				Build()
		}
		return string(out), nil
	}

	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] < 0xE000 {
				i++
				continue
			}
			return "", unpaired(u, base+2*i)
		case u >= 0xDC00 && u < 0xE000:
			return "", unpaired(u, base+2*i)
		}
	}
	return string(utf16.Decode(units)), nil
}

func unpaired(u uint16, off int) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidEncoding).
		At(off).
		Value(u).
		Detail("unpaired surrogate 0x%04X", u).
		Build()
}

// EncodeUTF16 returns s as UTF-16LE bytes without a terminator.
func EncodeUTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}
