package wirego

// Listener is implemented by the dissector served over Wirego.
type Listener interface {
	GetName() string
	GetFilter() string
	GetFields() []WiresharkField
	GetDetectionFilters() []DetectionFilter
	GetDetectionHeuristicsParents() []string
	DetectionHeuristic(packetNumber int, src, dst, layer string, packet []byte) bool
	DissectPacket(packetNumber int, src, dst, layer string, packet []byte) *DissectResult
}

// DisplayMode selects how Wireshark renders an integer field.
type DisplayMode int

const (
	DisplayModeNone        DisplayMode = 0x01
	DisplayModeDecimal     DisplayMode = 0x02
	DisplayModeHexadecimal DisplayMode = 0x03
)

// ValueType is the Wireshark type of a field.
type ValueType int

const (
	ValueTypeNone ValueType = 0x01
	ValueTypeBool ValueType = 0x02

	ValueTypeUInt8 ValueType = 0x03
	ValueTypeInt8  ValueType = 0x04

	ValueTypeUInt16 ValueType = 0x05
	ValueTypeInt16  ValueType = 0x06

	ValueTypeUInt32 ValueType = 0x07
	ValueTypeInt32  ValueType = 0x08

	ValueTypeCString ValueType = 0x09
	ValueTypeString  ValueType = 0x10
)

// FieldId identifies a field in the plugin's catalogue.
type FieldId int

// WiresharkField describes one entry of the field catalogue.
type WiresharkField struct {
	WiregoFieldId FieldId
	Name          string
	Filter        string
	ValueType     ValueType
	DisplayMode   DisplayMode
}

type DetectionFilterType int

const (
	DetectionFilterTypeInt DetectionFilterType = iota
	DetectionFilterTypeString
)

// DetectionFilter is a Wireshark display filter that routes traffic to the
// plugin, e.g. tcp.port == 1234.
type DetectionFilter struct {
	FilterType  DetectionFilterType
	Name        string
	ValueInt    int
	ValueString string
}

// DissectField is a highlighted byte range of the packet.
type DissectField struct {
	WiregoFieldId FieldId
	Offset        int
	Length        int
	SubFields     []DissectField
}

// DissectResult is what a Listener returns for one packet.
type DissectResult struct {
	Protocol string
	Info     string
	Fields   []DissectField
}
