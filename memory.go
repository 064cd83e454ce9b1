package wspdissect

import (
	"github.com/wippyai/wsp-dissect/errors"
)

// Memory is a bounded, read-only address space that decoders read from.
// Offsets are zero-based byte positions inside the space.
type Memory interface {
	Read(offset, length int) ([]byte, error)
	Size() int
}

// Bytes adapts a byte slice to Memory. Reads return sub-slices of the
// original buffer without copying.
type Bytes []byte

// Read returns length bytes starting at offset.
func (b Bytes) Read(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > len(b) || length > len(b)-offset {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, offset, length, len(b))
	}
	return b[offset : offset+length : offset+length], nil
}

// Size returns the length of the underlying slice.
func (b Bytes) Size() int {
	return len(b)
}

var _ Memory = Bytes(nil)
