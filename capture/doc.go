// Package capture reads TCP and UDP payloads out of pcap and pcapng files.
//
// Packets are decoded with gopacket layers; each transport payload that
// passes the Filter is handed to the caller with the same metadata the
// Wirego bridge sends for live traffic: frame number, addresses, and the
// layer stack innermost first.
package capture
