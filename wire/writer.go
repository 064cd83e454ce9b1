package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer builds little-endian buffers.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) U8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	w.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
	return w
}

func (w *Writer) F32(v float32) *Writer {
	return w.U32(math.Float32bits(v))
}

func (w *Writer) F64(v float64) *Writer {
	return w.U64(math.Float64bits(v))
}

// Pointer writes a u32 or u64 address depending on wide.
func (w *Writer) Pointer(v uint64, wide bool) *Writer {
	if wide {
		return w.U64(v)
	}
	return w.U32(uint32(v))
}

func (w *Writer) GUID(g GUID) *Writer {
	w.U32(g.Data1).U16(g.Data2).U16(g.Data3)
	w.buf.Write(g.Data4[:])
	return w
}

// Raw writes data unchanged.
func (w *Writer) Raw(data []byte) *Writer {
	w.buf.Write(data)
	return w
}

// UTF16 writes s as UTF-16LE code units with no count and no terminator.
func (w *Writer) UTF16(s string) *Writer {
	w.buf.Write(EncodeUTF16(s))
	return w
}

// Zero writes n zero bytes.
func (w *Writer) Zero(n int) *Writer {
	for i := 0; i < n; i++ {
		w.buf.WriteByte(0)
	}
	return w
}

// Align pads with zeros up to the next multiple of alignment.
func (w *Writer) Align(alignment int) *Writer {
	return w.Zero(Padding(w.buf.Len(), alignment))
}
