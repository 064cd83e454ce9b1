package dissector

import (
	"fmt"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/propset"
	"github.com/wippyai/wsp-dissect/variant"
)

// Framing selects what a payload contains.
type Framing int

const (
	// FramingVariant is a sequence of sequential variants, each starting
	// on a 4-byte boundary.
	FramingVariant Framing = iota
	// FramingRestriction is a sequence of CPropertyRestriction structures.
	FramingRestriction
	// FramingRow is a single row buffer variant.
	FramingRow
)

var framingNames = [...]string{"variant", "restriction", "row"}

func (f Framing) String() string {
	if int(f) >= 0 && int(f) < len(framingNames) {
		return framingNames[f]
	}
	return fmt.Sprintf("Framing(%d)", int(f))
}

// ParseFraming parses the name printed by Framing.String.
func ParseFraming(s string) (Framing, error) {
	for i, name := range framingNames {
		if name == s {
			return Framing(i), nil
		}
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown framing %q", s))
}

// Config configures a Dissector.
type Config struct {
	// Port, when non-zero, is announced as a tcp.port detection filter.
	Port int
	// Heuristic registers the heuristic detector on tcp and udp.
	Heuristic bool
	// Offset is where the first value starts in each payload.
	Offset  int
	Framing Framing
	// Layout applies to FramingRow.
	Layout  variant.RowLayout
	Options variant.Options
	// Table resolves property names for FramingRestriction. Nil disables
	// name resolution.
	Table *propset.Table
}

// DefaultConfig returns a variant-framed configuration with default decoder
// options and the default property table.
func DefaultConfig() Config {
	return Config{
		Options: variant.DefaultOptions(),
		Table:   propset.DefaultTable(),
	}
}

func (c Config) validate() error {
	switch {
	case c.Offset < 0:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("negative offset %d", c.Offset))
	case c.Port < 0 || c.Port > 0xFFFF:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("port %d out of range", c.Port))
	case c.Framing < FramingVariant || c.Framing > FramingRow:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown framing %d", int(c.Framing)))
	case c.Options.MaxElements < 0:
		return errors.InvalidInput(errors.PhaseConfig, "negative element limit")
	}
	return nil
}
