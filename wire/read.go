package wire

// Offset-based reads over a byte slice. Each returns the value and the
// offset just past it.

func ReadU8(buf []byte, off int) (uint8, int, error) {
	v, c, err := FromBytes(buf, off).U8()
	return v, c.off, err
}

func ReadU16(buf []byte, off int) (uint16, int, error) {
	v, c, err := FromBytes(buf, off).U16()
	return v, c.off, err
}

func ReadU32(buf []byte, off int) (uint32, int, error) {
	v, c, err := FromBytes(buf, off).U32()
	return v, c.off, err
}

func ReadU64(buf []byte, off int) (uint64, int, error) {
	v, c, err := FromBytes(buf, off).U64()
	return v, c.off, err
}

func ReadI8(buf []byte, off int) (int8, int, error) {
	v, c, err := FromBytes(buf, off).I8()
	return v, c.off, err
}

func ReadI16(buf []byte, off int) (int16, int, error) {
	v, c, err := FromBytes(buf, off).I16()
	return v, c.off, err
}

func ReadI32(buf []byte, off int) (int32, int, error) {
	v, c, err := FromBytes(buf, off).I32()
	return v, c.off, err
}

func ReadI64(buf []byte, off int) (int64, int, error) {
	v, c, err := FromBytes(buf, off).I64()
	return v, c.off, err
}

func ReadF32(buf []byte, off int) (float32, int, error) {
	v, c, err := FromBytes(buf, off).F32()
	return v, c.off, err
}

func ReadF64(buf []byte, off int) (float64, int, error) {
	v, c, err := FromBytes(buf, off).F64()
	return v, c.off, err
}

func ReadGUID(buf []byte, off int) (GUID, int, error) {
	v, c, err := FromBytes(buf, off).GUID()
	return v, c.off, err
}

func ReadLengthPrefixedBytes(buf []byte, off int) ([]byte, int, error) {
	v, c, err := FromBytes(buf, off).LengthPrefixedBytes()
	return v, c.off, err
}

func ReadLengthPrefixedUTF16(buf []byte, off int, mode UTF16Mode) (string, int, error) {
	v, c, err := FromBytes(buf, off).LengthPrefixedUTF16(mode)
	return v, c.off, err
}

func ReadNullTerminatedASCII(buf []byte, off int) (string, int, error) {
	v, c, err := FromBytes(buf, off).NullTerminatedASCII()
	return v, c.off, err
}
