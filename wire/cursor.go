package wire

import (
	"encoding/binary"
	"math"

	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/errors"
)

// Cursor is a read position inside a Memory.
type Cursor struct {
	mem wspdissect.Memory
	off int
}

// NewCursor returns a cursor positioned at offset within mem.
func NewCursor(mem wspdissect.Memory, offset int) Cursor {
	return Cursor{mem: mem, off: offset}
}

// FromBytes returns a cursor over buf positioned at offset.
func FromBytes(buf []byte, offset int) Cursor {
	return Cursor{mem: wspdissect.Bytes(buf), off: offset}
}

// Offset returns the current position.
func (c Cursor) Offset() int { return c.off }

// Memory returns the underlying address space.
func (c Cursor) Memory() wspdissect.Memory { return c.mem }

// Size returns the size of the underlying address space.
func (c Cursor) Size() int {
	if c.mem == nil {
		return 0
	}
	return c.mem.Size()
}

// Remaining returns the number of bytes between the cursor and the end.
func (c Cursor) Remaining() int {
	if r := c.Size() - c.off; r > 0 {
		return r
	}
	return 0
}

// Seek returns a cursor at an absolute offset in the same memory. No bounds
// check happens until the next read.
func (c Cursor) Seek(offset int) Cursor {
	return Cursor{mem: c.mem, off: offset}
}

// Align returns a cursor moved forward to the next multiple of alignment.
func (c Cursor) Align(alignment int) Cursor {
	return Cursor{mem: c.mem, off: AlignOffset(c.off, alignment)}
}

// Skip advances by n bytes after checking that they exist.
func (c Cursor) Skip(n int) (Cursor, error) {
	if err := c.check(n); err != nil {
		return c, err
	}
	return Cursor{mem: c.mem, off: c.off + n}, nil
}

func (c Cursor) check(n int) error {
	size := c.Size()
	if c.off < 0 || n < 0 || c.off > size || n > size-c.off {
		return errors.OutOfBounds(errors.PhaseDecode, nil, c.off, n, size)
	}
	return nil
}

// Bytes reads n raw bytes. The returned slice may alias the memory.
func (c Cursor) Bytes(n int) ([]byte, Cursor, error) {
	if err := c.check(n); err != nil {
		return nil, c, err
	}
	b, err := c.mem.Read(c.off, n)
	if err != nil {
		return nil, c, err
	}
	return b, Cursor{mem: c.mem, off: c.off + n}, nil
}

func (c Cursor) U8() (uint8, Cursor, error) {
	b, next, err := c.Bytes(1)
	if err != nil {
		return 0, c, err
	}
	return b[0], next, nil
}

func (c Cursor) U16() (uint16, Cursor, error) {
	b, next, err := c.Bytes(2)
	if err != nil {
		return 0, c, err
	}
	return binary.LittleEndian.Uint16(b), next, nil
}

func (c Cursor) U32() (uint32, Cursor, error) {
	b, next, err := c.Bytes(4)
	if err != nil {
		return 0, c, err
	}
	return binary.LittleEndian.Uint32(b), next, nil
}

func (c Cursor) U64() (uint64, Cursor, error) {
	b, next, err := c.Bytes(8)
	if err != nil {
		return 0, c, err
	}
	return binary.LittleEndian.Uint64(b), next, nil
}

func (c Cursor) I8() (int8, Cursor, error) {
	v, next, err := c.U8()
	return int8(v), next, err
}

func (c Cursor) I16() (int16, Cursor, error) {
	v, next, err := c.U16()
	return int16(v), next, err
}

func (c Cursor) I32() (int32, Cursor, error) {
	v, next, err := c.U32()
	return int32(v), next, err
}

func (c Cursor) I64() (int64, Cursor, error) {
	v, next, err := c.U64()
	return int64(v), next, err
}

// F32 reads an IEEE-754 single. The bit pattern is preserved, including NaN
// payloads and negative zero.
func (c Cursor) F32() (float32, Cursor, error) {
	v, next, err := c.U32()
	return math.Float32frombits(v), next, err
}

// F64 reads an IEEE-754 double with the bit pattern preserved.
func (c Cursor) F64() (float64, Cursor, error) {
	v, next, err := c.U64()
	return math.Float64frombits(v), next, err
}

// Pointer reads a u32 or u64 address depending on wide.
func (c Cursor) Pointer(wide bool) (uint64, Cursor, error) {
	if wide {
		return c.U64()
	}
	v, next, err := c.U32()
	return uint64(v), next, err
}

// GUID reads a 16 byte GUID in its mixed-endian wire layout.
func (c Cursor) GUID() (GUID, Cursor, error) {
	b, next, err := c.Bytes(16)
	if err != nil {
		return GUID{}, c, err
	}
	var g GUID
	g.Data1 = binary.LittleEndian.Uint32(b[0:4])
	g.Data2 = binary.LittleEndian.Uint16(b[4:6])
	g.Data3 = binary.LittleEndian.Uint16(b[6:8])
	copy(g.Data4[:], b[8:16])
	return g, next, nil
}

// LengthPrefixedBytes reads a u32 byte count followed by that many bytes.
func (c Cursor) LengthPrefixedBytes() ([]byte, Cursor, error) {
	n, next, err := c.U32()
	if err != nil {
		return nil, c, err
	}
	if uint64(n) > uint64(next.Remaining()) {
		return nil, c, errors.OutOfBounds(errors.PhaseDecode, nil, next.off, int(min(uint64(n), math.MaxInt32)), next.Size())
	}
	b, next, err := next.Bytes(int(n))
	if err != nil {
		return nil, c, err
	}
	return b, next, nil
}

// LengthPrefixedUTF16 reads a u32 code-unit count followed by 2*count bytes
// of UTF-16LE.
func (c Cursor) LengthPrefixedUTF16(mode UTF16Mode) (string, Cursor, error) {
	n, next, err := c.U32()
	if err != nil {
		return "", c, err
	}
	if uint64(n)*2 > uint64(next.Remaining()) {
		return "", c, errors.OutOfBounds(errors.PhaseDecode, nil, next.off, int(min(uint64(n)*2, math.MaxInt32)), next.Size())
	}
	start := next.off
	b, next, err := next.Bytes(int(n) * 2)
	if err != nil {
		return "", c, err
	}
	s, err := DecodeUTF16(b, mode, start)
	if err != nil {
		return "", c, err
	}
	return s, next, nil
}

// NullTerminatedASCII reads bytes up to a NUL. The returned string excludes
// the terminator; the cursor moves past it.
func (c Cursor) NullTerminatedASCII() (string, Cursor, error) {
	rem := c.Remaining()
	if err := c.check(0); err != nil {
		return "", c, err
	}
	b, err := c.mem.Read(c.off, rem)
	if err != nil {
		return "", c, err
	}
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i]), Cursor{mem: c.mem, off: c.off + i + 1}, nil
		}
	}
	return "", c, unterminated(c, 1)
}

// NullTerminatedUTF16 reads UTF-16LE code units up to a 0x0000 unit.
func (c Cursor) NullTerminatedUTF16(mode UTF16Mode) (string, Cursor, error) {
	rem := c.Remaining() &^ 1
	if err := c.check(0); err != nil {
		return "", c, err
	}
	b, err := c.mem.Read(c.off, rem)
	if err != nil {
		return "", c, err
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			s, err := DecodeUTF16(b[:i], mode, c.off)
			if err != nil {
				return "", c, err
			}
			return s, Cursor{mem: c.mem, off: c.off + i + 2}, nil
		}
	}
	return "", c, unterminated(c, 2)
}

func unterminated(c Cursor, unit int) error {
	return errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
		At(c.off).
		Value(c.off).
		Detail("unterminated string: no %d-byte NUL before end (size %d)", unit, c.Size()).
		Build()
}
