package wire

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/wsp-dissect/errors"
)

func units(u ...uint16) []byte {
	w := NewWriter()
	for _, v := range u {
		w.U16(v)
	}
	return w.Bytes()
}

func TestDecodeUTF16(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		mode    UTF16Mode
		want    string
		wantErr bool
		errOff  int
	}{
		{"ascii", units('o', 'k'), UTF16Strict, "ok", false, 0},
		{"empty", nil, UTF16Strict, "", false, 0},
		{"surrogate pair", units(0xD83D, 0xDE00), UTF16Strict, "\U0001F600", false, 0},
		{"lone high strict", units('a', 0xD800), UTF16Strict, "", true, 102},
		{"lone low strict", units(0xDC00, 'a'), UTF16Strict, "", true, 100},
		{"reversed pair strict", units(0xDE00, 0xD83D), UTF16Strict, "", true, 100},
		{"lone high lossy", units('a', 0xD800, 'b'), UTF16Lossy, "a�b", false, 0},
		{"pair lossy", units(0xD83D, 0xDE00), UTF16Lossy, "\U0001F600", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUTF16(tt.in, tt.mode, 100)
			if tt.wantErr {
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidEncoding {
					t.Fatalf("err = %v, want invalid_encoding", err)
				}
				if e.Offset != tt.errOff {
					t.Errorf("offset = %d, want %d", e.Offset, tt.errOff)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeUTF16RoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "ünïcødé", "\U0001F600 smile"} {
		got, err := DecodeUTF16(EncodeUTF16(s), UTF16Strict, 0)
		if err != nil || got != s {
			t.Errorf("round trip %q = %q, %v", s, got, err)
		}
	}
}
