package wspdissect

import (
	"testing"

	"github.com/wippyai/wsp-dissect/errors"
)

func TestBytesRead(t *testing.T) {
	b := Bytes{0x01, 0x02, 0x03, 0x04}

	tests := []struct {
		name    string
		offset  int
		length  int
		want    []byte
		wantErr bool
	}{
		{"full", 0, 4, []byte{1, 2, 3, 4}, false},
		{"middle", 1, 2, []byte{2, 3}, false},
		{"empty at end", 4, 0, []byte{}, false},
		{"past end", 3, 2, nil, true},
		{"offset past end", 5, 0, nil, true},
		{"negative offset", -1, 1, nil, true},
		{"negative length", 0, -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Read(tt.offset, tt.length)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Read(%d, %d) = %v, want error", tt.offset, tt.length, got)
				}
				if errors.KindOf(err) != errors.KindOutOfBounds {
					t.Errorf("kind = %v, want %v", errors.KindOf(err), errors.KindOutOfBounds)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read(%d, %d): %v", tt.offset, tt.length, err)
			}
			if string(got) != string(tt.want) {
				t.Errorf("Read(%d, %d) = %v, want %v", tt.offset, tt.length, got, tt.want)
			}
		})
	}
}

func TestBytesReadDoesNotGrow(t *testing.T) {
	b := Bytes{0x01, 0x02, 0x03, 0x04}
	got, err := b.Read(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cap(got) != 2 {
		t.Errorf("cap = %d, want 2", cap(got))
	}
}
