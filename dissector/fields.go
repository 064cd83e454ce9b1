package dissector

import "github.com/wippyai/wsp-dissect/wirego"

// Field identifies an entry of the field catalogue.
type Field int

const (
	FieldVariant Field = iota + 1
	FieldTag
	FieldData1
	FieldData2
	FieldReserved
	FieldValue
	FieldVector
	FieldCount
	FieldAddress
	FieldElement
	FieldArray
	FieldDimensions
	FieldFeatures
	FieldElementSize
	FieldBound
	FieldAnomaly
	FieldError
	FieldRestriction
	FieldRelop
	FieldPropSpec
	FieldLCID
)

var catalogue = []wirego.WiresharkField{
	{WiregoFieldId: wirego.FieldId(FieldVariant), Name: "Variant", Filter: "wspvariant.variant", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldTag), Name: "Type", Filter: "wspvariant.vtype", ValueType: wirego.ValueTypeUInt16, DisplayMode: wirego.DisplayModeHexadecimal},
	{WiregoFieldId: wirego.FieldId(FieldData1), Name: "vData1", Filter: "wspvariant.vdata1", ValueType: wirego.ValueTypeUInt8, DisplayMode: wirego.DisplayModeHexadecimal},
	{WiregoFieldId: wirego.FieldId(FieldData2), Name: "vData2", Filter: "wspvariant.vdata2", ValueType: wirego.ValueTypeUInt8, DisplayMode: wirego.DisplayModeHexadecimal},
	{WiregoFieldId: wirego.FieldId(FieldReserved), Name: "Reserved", Filter: "wspvariant.reserved", ValueType: wirego.ValueTypeUInt32, DisplayMode: wirego.DisplayModeHexadecimal},
	{WiregoFieldId: wirego.FieldId(FieldValue), Name: "Value", Filter: "wspvariant.value", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldVector), Name: "Vector", Filter: "wspvariant.vector", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldCount), Name: "Count", Filter: "wspvariant.count", ValueType: wirego.ValueTypeUInt32, DisplayMode: wirego.DisplayModeDecimal},
	{WiregoFieldId: wirego.FieldId(FieldAddress), Name: "Address", Filter: "wspvariant.address", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldElement), Name: "Element", Filter: "wspvariant.element", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldArray), Name: "Array", Filter: "wspvariant.array", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldDimensions), Name: "Dimensions", Filter: "wspvariant.cdims", ValueType: wirego.ValueTypeUInt16, DisplayMode: wirego.DisplayModeDecimal},
	{WiregoFieldId: wirego.FieldId(FieldFeatures), Name: "Features", Filter: "wspvariant.ffeatures", ValueType: wirego.ValueTypeUInt16, DisplayMode: wirego.DisplayModeHexadecimal},
	{WiregoFieldId: wirego.FieldId(FieldElementSize), Name: "Element size", Filter: "wspvariant.cbelements", ValueType: wirego.ValueTypeUInt32, DisplayMode: wirego.DisplayModeDecimal},
	{WiregoFieldId: wirego.FieldId(FieldBound), Name: "Bound", Filter: "wspvariant.bound", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldAnomaly), Name: "Anomaly", Filter: "wspvariant.anomaly", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldError), Name: "Error", Filter: "wspvariant.error", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldRestriction), Name: "Property restriction", Filter: "wspvariant.restriction", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldRelop), Name: "Relop", Filter: "wspvariant.relop", ValueType: wirego.ValueTypeUInt32, DisplayMode: wirego.DisplayModeHexadecimal},
	{WiregoFieldId: wirego.FieldId(FieldPropSpec), Name: "Property", Filter: "wspvariant.propspec", ValueType: wirego.ValueTypeNone, DisplayMode: wirego.DisplayModeNone},
	{WiregoFieldId: wirego.FieldId(FieldLCID), Name: "LCID", Filter: "wspvariant.lcid", ValueType: wirego.ValueTypeUInt32, DisplayMode: wirego.DisplayModeHexadecimal},
}

// Fields returns a copy of the field catalogue.
func Fields() []wirego.WiresharkField {
	return append([]wirego.WiresharkField(nil), catalogue...)
}

func (f Field) String() string {
	if i := int(f) - 1; i >= 0 && i < len(catalogue) {
		return catalogue[i].Name
	}
	return "Unknown"
}
