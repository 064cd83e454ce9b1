// Package variant decodes MS-WSP typed values.
//
// A serialized variant starts with a 16-bit tag whose low byte is the base
// type (VT_I4, VT_LPWSTR, ...) and whose high byte selects a modifier:
// none, VT_VECTOR (0x1000) or VT_ARRAY (0x2000). Two reserved bytes follow,
// then the payload:
//
//	scalar  fixed-size value, or u32 length + data for strings and blobs
//	vector  u32 count + elements, 4-byte aligned between variable elements
//	array   u16 dims, u16 features, u32 element size,
//	        dims x (u32 count, i32 lower bound), then the element data
//
// Decode reads one variant from a byte slice:
//
//	v, next, err := variant.Decode(buf, 0)
//	if err != nil {
//		return err
//	}
//	if vec, ok := v.Vector(); ok {
//		for _, e := range vec.Elements {
//			fmt.Println(e)
//		}
//	}
//
// Row buffers returned by query responses hold variants whose vector data
// and strings live behind absolute addresses. Decoder.DecodeRow translates
// those through a RowLayout and decodes them with the same element logic.
//
// Errors are *errors.Error values carrying the field path and byte offset.
// Irregular but decodable input, such as a VT_BOOL that is neither 0 nor
// 0xFFFF, is reported in Variant.Anomalies.
package variant
