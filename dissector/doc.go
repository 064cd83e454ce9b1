// Package dissector turns decoded MS-WSP values into display trees and
// serves them to Wireshark as a Wirego plugin.
//
// A Node tree mirrors the wire layout: every node names a Field from the
// plugin's catalogue and the byte range it covers, so the same tree drives
// the text dump of cmd/wspdump and the highlighted fields in Wireshark.
package dissector
