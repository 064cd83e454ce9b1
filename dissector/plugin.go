package dissector

import (
	"go.uber.org/zap"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wirego"
)

const (
	PluginName   = "MS-WSP Variant"
	PluginFilter = "wspvariant"
)

// Plugin serves a Dissector through Wirego.
type Plugin struct {
	d *Dissector
}

var _ wirego.Listener = (*Plugin)(nil)

// NewPlugin wraps d.
func NewPlugin(d *Dissector) *Plugin {
	return &Plugin{d: d}
}

func (p *Plugin) GetName() string   { return PluginName }
func (p *Plugin) GetFilter() string { return PluginFilter }

func (p *Plugin) GetFields() []wirego.WiresharkField {
	return Fields()
}

func (p *Plugin) GetDetectionFilters() []wirego.DetectionFilter {
	if p.d.cfg.Port == 0 {
		return nil
	}
	return []wirego.DetectionFilter{
		{FilterType: wirego.DetectionFilterTypeInt, Name: "tcp.port", ValueInt: p.d.cfg.Port},
	}
}

// GetDetectionHeuristicsParents is empty unless Config.Heuristic is set.
func (p *Plugin) GetDetectionHeuristicsParents() []string {
	if !p.d.cfg.Heuristic {
		return nil
	}
	return []string{"tcp", "udp"}
}

func (p *Plugin) DetectionHeuristic(_ int, _, _, _ string, packet []byte) bool {
	return p.d.cfg.Heuristic && p.d.Detect(packet)
}

func (p *Plugin) DissectPacket(number int, src, dst, layer string, packet []byte) *wirego.DissectResult {
	res := p.d.Dissect(packet)
	Logger().Debug("dissected",
		zap.Int("packet", number),
		zap.String("src", src),
		zap.String("dst", dst),
		zap.String("layer", layer),
		zap.Int("nodes", len(res.Nodes)),
		zap.Bool("error", res.Err != nil))

	out := &wirego.DissectResult{Protocol: PluginName, Info: res.Info()}
	for _, n := range res.Nodes {
		out.Fields = append(out.Fields, toField(n, len(packet)))
	}
	return out
}

// toField converts a node, clamping its range into the packet. Zero-length
// nodes at the very end of the packet are moved onto the last byte.
func toField(n *Node, size int) wirego.DissectField {
	off, length := n.Offset, n.Length
	if off >= size {
		off, length = size-1, 0
	}
	if off < 0 {
		off = 0
	}
	if off+length > size {
		length = size - off
	}
	f := wirego.DissectField{WiregoFieldId: wirego.FieldId(n.Field), Offset: off, Length: length}
	for _, c := range n.Children {
		f.SubFields = append(f.SubFields, toField(c, size))
	}
	return f
}

func zapError(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	if k := errors.KindOf(err); k != "" {
		fields = append(fields, zap.String("kind", string(k)))
	}
	return fields
}
