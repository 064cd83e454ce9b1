// Package wspdissect decodes the self-describing variant values of the
// Windows Search Protocol (MS-WSP) and exposes them as inspectable trees.
//
// A variant is a tagged union: a 16-bit type tag whose low byte names a
// base type (VT_I4, VT_LPWSTR, VT_BLOB, ...) and whose high bits mark the
// value as a vector or an N-dimensional array of that base type.
//
// # Architecture Overview
//
//	wspdissect/          Root package with the Memory interface and Bytes
//	├── wire/            Bounds-checked cursor, alignment, checked arithmetic, writer
//	├── variant/         Type registry, scalar/vector/array/variant decoders, row variants
//	├── propset/         Property-set name tables, CFullPropSpec, CPropertyRestriction
//	├── dissector/       Display trees and the Wireshark (Wirego) plugin
//	├── wirego/          Wirego remote-plugin server over ZMQ
//	├── capture/         pcap ingestion via gopacket
//	├── guestmem/        wazero guest memory as a decode source
//	├── errors/          Structured error types
//	└── cmd/wspdump/     CLI and interactive browser
//
// # Quick Start
//
// Decode a variant from a byte slice:
//
//	v, next, err := variant.Decode(buf, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v) // VT_I2: 42
//
// Decode a row variant whose vector elements live at absolute addresses:
//
//	dec := variant.NewDecoder(variant.DefaultOptions())
//	v, err := dec.DecodeRow(wspdissect.Bytes(rows), 0, variant.RowLayout{
//	    Is64Bit:     true,
//	    BaseAddress: 0x10000,
//	})
//
// # Thread Safety
//
// The type registry is immutable after package initialization. Decoder holds
// only its options and may be shared between goroutines; every decode call
// works on its own buffer and offset.
//
// # Errors
//
// Decoding never returns a partial value. Errors carry the phase, the kind
// (out_of_bounds, unknown_type, unknown_modifier, overflow, too_large,
// invalid_encoding, ...), the field path and the byte offset:
//
//	[decode] out_of_bounds at variant.vector[1] @ offset 14: read of 4 bytes at offset 14 (size 16)
package wspdissect
