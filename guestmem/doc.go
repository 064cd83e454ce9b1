// Package guestmem exposes WebAssembly linear memory to the decoders.
//
// A row buffer produced by a guest module can be decoded in place: Wrap
// adapts the module's exported memory to wspdissect.Memory, and addresses
// in the row translate to offsets in that memory.
package guestmem
