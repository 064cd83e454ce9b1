package variant

import "sort"

// SizeVariable marks descriptors whose encoded length is self-describing.
const SizeVariable = -1

// Descriptor is the static metadata of a base type.
type Descriptor struct {
	Type BaseType
	Name string
	// Size is the fixed encoded size in bytes, 0 for zero-width types, or
	// SizeVariable.
	Size int

	codec codec
}

// Variable reports whether the encoded length is carried in the data.
func (d *Descriptor) Variable() bool { return d.Size == SizeVariable }

// HasValueOnly reports whether the type can be decoded from a bare value
// whose length is implied by context, as row buffers require.
func (d *Descriptor) HasValueOnly() bool { return d.codec.valueOnly() }

// Format renders s, which must be of this descriptor's type.
func (d *Descriptor) Format(s Scalar) string { return s.String() }

// minSize is the fewest bytes one sequential element can occupy.
func (d *Descriptor) minSize() int {
	if d.Size == SizeVariable {
		return 4
	}
	return d.Size
}

var registry = func() map[BaseType]*Descriptor {
	entries := []*Descriptor{
		{Type: TypeEmpty, Name: "VT_EMPTY", Size: 0, codec: zeroCodec{}},
		{Type: TypeNull, Name: "VT_NULL", Size: 0, codec: zeroCodec{}},
		{Type: TypeI2, Name: "VT_I2", Size: 2, codec: fixedCodec{}},
		{Type: TypeI4, Name: "VT_I4", Size: 4, codec: fixedCodec{}},
		{Type: TypeR4, Name: "VT_R4", Size: 4, codec: fixedCodec{}},
		{Type: TypeR8, Name: "VT_R8", Size: 8, codec: fixedCodec{}},
		{Type: TypeCurrency, Name: "VT_CY", Size: 8, codec: fixedCodec{}},
		{Type: TypeDate, Name: "VT_DATE", Size: 8, codec: fixedCodec{}},
		{Type: TypeBStr, Name: "VT_BSTR", Size: SizeVariable, codec: wideCodec{}},
		{Type: TypeError, Name: "VT_ERROR", Size: 4, codec: fixedCodec{}},
		{Type: TypeBool, Name: "VT_BOOL", Size: 2, codec: fixedCodec{}},
		{Type: TypeVariant, Name: "VT_VARIANT", Size: 0, codec: zeroCodec{}},
		{Type: TypeDecimal, Name: "VT_DECIMAL", Size: 16, codec: fixedCodec{}},
		{Type: TypeI1, Name: "VT_I1", Size: 1, codec: fixedCodec{}},
		{Type: TypeUI1, Name: "VT_UI1", Size: 1, codec: fixedCodec{}},
		{Type: TypeUI2, Name: "VT_UI2", Size: 2, codec: fixedCodec{}},
		{Type: TypeUI4, Name: "VT_UI4", Size: 4, codec: fixedCodec{}},
		{Type: TypeI8, Name: "VT_I8", Size: 8, codec: fixedCodec{}},
		{Type: TypeUI8, Name: "VT_UI8", Size: 8, codec: fixedCodec{}},
		{Type: TypeInt, Name: "VT_INT", Size: 4, codec: fixedCodec{}},
		{Type: TypeUInt, Name: "VT_UINT", Size: 4, codec: fixedCodec{}},
		{Type: TypeLpStr, Name: "VT_LPSTR", Size: SizeVariable, codec: lpstrCodec{}},
		{Type: TypeLpWStr, Name: "VT_LPWSTR", Size: SizeVariable, codec: wideCodec{}},
		{Type: TypeCompressedLpWStr, Name: "VT_COMPRESSED_LPWSTR", Size: SizeVariable, codec: unsupportedCodec{
			reason: "VT_COMPRESSED_LPWSTR decompression is not implemented",
		}},
		{Type: TypeFileTime, Name: "VT_FILETIME", Size: 8, codec: fixedCodec{}},
		{Type: TypeBlob, Name: "VT_BLOB", Size: SizeVariable, codec: blobCodec{}},
		{Type: TypeBlobObject, Name: "VT_BLOB_OBJECT", Size: SizeVariable, codec: blobCodec{}},
		{Type: TypeClsid, Name: "VT_CLSID", Size: 16, codec: fixedCodec{}},
	}
	m := make(map[BaseType]*Descriptor, len(entries))
	for _, d := range entries {
		m[d.Type] = d
	}
	return m
}()

// Lookup returns the descriptor of a base type. The table is immutable and
// safe for concurrent use.
func Lookup(t BaseType) (*Descriptor, bool) {
	d, ok := registry[t]
	return d, ok
}

// Descriptors lists all registered types in tag order.
func Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
