// Package wire provides bounds-checked little-endian primitives for the
// MS-WSP wire format.
//
// A Cursor is an immutable position inside a wspdissect.Memory. Every read
// returns the decoded value together with the advanced cursor, so a caller
// that drops the returned cursor has not moved:
//
//	count, c, err := c.U32()
//	if err != nil {
//		return err
//	}
//	data, c, err := c.Bytes(int(count))
//
// The ReadU8 ... ReadGUID free functions offer the same reads over a plain
// byte slice using integer offsets.
//
// AlignOffset rounds an offset up to a 4, 8 or 16 byte boundary. Writer is
// the inverse of Cursor and builds little-endian buffers.
package wire
