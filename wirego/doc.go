// Package wirego serves a dissector to Wireshark through the Wirego remote
// plugin protocol.
//
// The Wirego bridge inside Wireshark connects to a ZMQ REP socket and issues
// one request per question: plugin metadata, the field catalogue, detection
// filters, and dissection of single packets. Requests and replies are
// multi-frame messages. Frame 0 of a request is a NUL-terminated command
// name; integers are little-endian u32; frame 0 of a reply is 0x01 on
// success or 0x00 on failure, in which case no other frame follows.
//
// Dissection results are validated, flattened into a list where each entry
// names its parent's index, and held in a per-packet cache until the bridge
// releases them.
package wirego
