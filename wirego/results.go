package wirego

import (
	"fmt"

	"github.com/wippyai/wsp-dissect/errors"
)

type flatField struct {
	parentIdx int
	fieldID   FieldId
	offset    int
	length    int
}

type flatResult struct {
	protocol string
	info     string
	fields   []flatField
}

// flatten validates r against the packet size and the field catalogue and
// lists its fields depth-first, each pointing at its parent's index or -1.
func flatten(r *DissectResult, packetSize int, known map[FieldId]bool) (*flatResult, error) {
	out := &flatResult{protocol: r.Protocol, info: r.Info}
	for i := range r.Fields {
		if err := out.add(-1, &r.Fields[i], packetSize, known); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (f *flatResult) add(parent int, field *DissectField, packetSize int, known map[FieldId]bool) error {
	switch {
	case field.Offset < 0 || field.Offset >= packetSize:
		return invalidField(field, fmt.Sprintf("offset %d outside packet of %d bytes", field.Offset, packetSize))
	case field.Length < 0 || field.Offset+field.Length > packetSize:
		return invalidField(field, fmt.Sprintf("length %d at offset %d exceeds packet of %d bytes", field.Length, field.Offset, packetSize))
	case !known[field.WiregoFieldId]:
		return invalidField(field, fmt.Sprintf("unknown field id %d", field.WiregoFieldId))
	}

	f.fields = append(f.fields, flatField{
		parentIdx: parent,
		fieldID:   field.WiregoFieldId,
		offset:    field.Offset,
		length:    field.Length,
	})
	idx := len(f.fields) - 1
	for i := range field.SubFields {
		if err := f.add(idx, &field.SubFields[i], packetSize, known); err != nil {
			return err
		}
	}
	return nil
}

func invalidField(field *DissectField, detail string) error {
	return errors.New(errors.PhaseValidate, errors.KindInvalidData).
		Path("result", "field").
		Value(field.WiregoFieldId).
		Detail("%s", detail).
		Build()
}
