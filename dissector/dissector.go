package dissector

import (
	stderrors "errors"
	"fmt"

	wspdissect "github.com/wippyai/wsp-dissect"
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/propset"
	"github.com/wippyai/wsp-dissect/variant"
	"github.com/wippyai/wsp-dissect/wire"
)

// Dissector decodes payloads into display trees.
type Dissector struct {
	cfg Config
	dec *variant.Decoder
}

// New validates cfg and returns a Dissector.
func New(cfg Config) (*Dissector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Dissector{cfg: cfg, dec: variant.NewDecoder(cfg.Options)}, nil
}

// Config returns the dissector's configuration.
func (d *Dissector) Config() Config { return d.cfg }

// Result holds everything decoded from one payload. Decoding stops at the
// first error; what was decoded before it is kept.
type Result struct {
	Nodes        []*Node
	Variants     []*variant.Variant
	Restrictions []*propset.PropertyRestriction
	Err          error
}

// Info summarizes the result in one line.
func (r *Result) Info() string {
	if len(r.Nodes) == 0 || r.Nodes[0].Field == FieldError {
		if r.Err != nil {
			return "error: " + r.Err.Error()
		}
		return "empty"
	}
	info := r.Nodes[0].Label
	values := len(r.Nodes)
	if r.Err != nil {
		values--
	}
	if values > 1 {
		info += fmt.Sprintf(" (+%d more)", values-1)
	}
	if r.Err != nil {
		info += " [error]"
	}
	return info
}

// Dissect decodes data starting at the configured offset.
func (d *Dissector) Dissect(data []byte) *Result {
	res := &Result{}
	off := d.cfg.Offset

	if d.cfg.Framing == FramingRow {
		v, err := d.dec.DecodeRow(wspdissect.Bytes(data), off, d.cfg.Layout)
		if err != nil {
			res.fail(err, off, len(data))
			return res
		}
		res.Variants = append(res.Variants, v)
		res.Nodes = append(res.Nodes, BuildRow(v, d.cfg.Layout))
		return res
	}

	for off < len(data) {
		var next int
		switch d.cfg.Framing {
		case FramingRestriction:
			r, c, err := propset.DecodePropertyRestriction(d.dec, wire.FromBytes(data, off))
			if err != nil {
				res.fail(err, off, len(data))
				return res
			}
			res.Restrictions = append(res.Restrictions, r)
			res.Variants = append(res.Variants, r.Value)
			res.Nodes = append(res.Nodes, BuildRestriction(r, d.cfg.Table))
			next = c.Offset()
		default:
			v, end, err := d.dec.Decode(data, off)
			if err != nil {
				res.fail(err, off, len(data))
				return res
			}
			res.Variants = append(res.Variants, v)
			res.Nodes = append(res.Nodes, Build(v))
			next = end
		}
		off = wire.AlignOffset(next, 4)
	}
	return res
}

// fail records err and an error node covering the rest of the payload
// from the failing offset.
func (r *Result) fail(err error, start, size int) {
	Logger().Debug("decode failed", zapError(err)...)
	r.Err = err
	off := start
	var e *errors.Error
	if stderrors.As(err, &e) && e.HasOffset() {
		off = e.Offset
	}
	off = min(max(off, 0), size)
	r.Nodes = append(r.Nodes, &Node{Field: FieldError, Label: err.Error(), Offset: off, Length: size - off})
}

// Detect reports whether everything from the configured offset to the end
// of data decodes without errors or anomalies, and the first value is not
// a zero-width type.
func (d *Dissector) Detect(data []byte) bool {
	if d.cfg.Offset+4 > len(data) {
		return false
	}
	res := d.Dissect(data)
	if res.Err != nil || len(res.Variants) == 0 {
		return false
	}
	for _, v := range res.Variants {
		if len(v.Anomalies) > 0 {
			return false
		}
	}
	for _, r := range res.Restrictions {
		if r.Relop.Symbol() == "?" {
			return false
		}
	}
	desc, ok := variant.Lookup(res.Variants[0].Tag.Base())
	return ok && desc.Size != 0
}
