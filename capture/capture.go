package capture

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap"

	"github.com/wippyai/wsp-dissect/errors"
)

const ngMagic = 0x0A0D0D0A

// Filter selects payloads. The zero Filter accepts every TCP and UDP
// payload.
type Filter struct {
	// Port matches either the source or destination port when non-zero.
	Port int
	// Transport is "tcp", "udp" or empty for both.
	Transport string
}

func (f Filter) match(transport string, src, dst int) bool {
	if f.Transport != "" && f.Transport != transport {
		return false
	}
	return f.Port == 0 || f.Port == src || f.Port == dst
}

// Payload is the transport payload of one captured packet.
type Payload struct {
	// Number is the 1-based frame number in the capture.
	Number    int
	Timestamp time.Time
	Src       string
	Dst       string
	SrcPort   int
	DstPort   int
	// Layer lists the protocol stack innermost first, e.g. "tcp.ip.eth".
	Layer string
	Data  []byte
}

// Reader yields payloads from a capture.
type Reader struct {
	source *gopacket.PacketSource
	filter Filter
	number int
}

// Open reads the capture header from r, accepting both pcap and pcapng.
func Open(r io.Reader, filter Filter) (*Reader, error) {
	switch filter.Transport {
	case "", "tcp", "udp":
	default:
		return nil, errors.InvalidInput(errors.PhaseConfig, "transport must be tcp or udp, got "+filter.Transport)
	}

	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, errors.Capture("read capture header", err)
	}

	var src gopacket.PacketDataSource
	var link layers.LinkType
	if binary.LittleEndian.Uint32(magic) == ngMagic {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, errors.Capture("open pcapng", err)
		}
		src, link = ng, ng.LinkType()
	} else {
		pr, err := pcapgo.NewReader(br)
		if err != nil {
			return nil, errors.Capture("open pcap", err)
		}
		src, link = pr, pr.LinkType()
	}

	source := gopacket.NewPacketSource(src, link)
	return &Reader{source: source, filter: filter}, nil
}

// Next returns the next matching payload, or io.EOF at the end of the
// capture.
func (r *Reader) Next() (Payload, error) {
	for {
		packet, err := r.source.NextPacket()
		if err == io.EOF {
			return Payload{}, io.EOF
		}
		if err != nil {
			return Payload{}, errors.Capture("read packet", err)
		}
		r.number++

		if el := packet.ErrorLayer(); el != nil {
			Logger().Debug("skipping undecodable packet",
				zap.Int("number", r.number),
				zap.Error(el.Error()))
			continue
		}
		p, ok := r.payload(packet)
		if ok {
			return p, nil
		}
	}
}

// Each calls fn for every matching payload until the capture ends or fn
// returns an error.
func (r *Reader) Each(fn func(Payload) error) error {
	for {
		p, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
}

func (r *Reader) payload(packet gopacket.Packet) (Payload, bool) {
	var transport string
	var srcPort, dstPort int
	var data []byte
	switch t := packet.TransportLayer().(type) {
	case *layers.TCP:
		transport, srcPort, dstPort, data = "tcp", int(t.SrcPort), int(t.DstPort), t.Payload
	case *layers.UDP:
		transport, srcPort, dstPort, data = "udp", int(t.SrcPort), int(t.DstPort), t.Payload
	default:
		return Payload{}, false
	}
	if len(data) == 0 || !r.filter.match(transport, srcPort, dstPort) {
		return Payload{}, false
	}

	p := Payload{
		Number:    r.number,
		Timestamp: packet.Metadata().Timestamp,
		SrcPort:   srcPort,
		DstPort:   dstPort,
		Layer:     layerStack(packet),
		Data:      data,
	}
	if n := packet.NetworkLayer(); n != nil {
		flow := n.NetworkFlow()
		p.Src, p.Dst = flow.Src().String(), flow.Dst().String()
	}
	return p, true
}

var layerNames = map[gopacket.LayerType]string{
	layers.LayerTypeEthernet: "eth",
	layers.LayerTypeDot1Q:    "vlan",
	layers.LayerTypeIPv4:     "ip",
	layers.LayerTypeIPv6:     "ipv6",
	layers.LayerTypeTCP:      "tcp",
	layers.LayerTypeUDP:      "udp",
	layers.LayerTypeLinuxSLL: "sll",
}

func layerStack(packet gopacket.Packet) string {
	var names []string
	ls := packet.Layers()
	for i := len(ls) - 1; i >= 0; i-- {
		t := ls[i].LayerType()
		if t == gopacket.LayerTypePayload {
			continue
		}
		name, ok := layerNames[t]
		if !ok {
			name = strings.ToLower(t.String())
		}
		names = append(names, name)
	}
	return strings.Join(names, ".")
}
