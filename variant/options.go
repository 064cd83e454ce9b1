package variant

import "github.com/wippyai/wsp-dissect/wire"

// DefaultMaxElements bounds vector and array element counts.
const DefaultMaxElements = 1 << 20

// Options configures decoding behavior.
type Options struct {
	// MaxElements is the largest element count a vector or array may
	// declare. 0 means DefaultMaxElements.
	MaxElements int

	// UTF16 selects strict or lossy handling of malformed wide strings.
	UTF16 wire.UTF16Mode

	// StrictLpStr rejects VT_LPSTR values whose NUL terminator is not the
	// last byte of the declared span. Otherwise the mismatch is recorded
	// as an Anomaly.
	StrictLpStr bool
}

// DefaultOptions returns default decoder configuration.
func DefaultOptions() Options {
	return Options{
		MaxElements: DefaultMaxElements,
		UTF16:       wire.UTF16Strict,
	}
}

func (o Options) WithMaxElements(n int) Options {
	o.MaxElements = n
	return o
}

func (o Options) WithUTF16(mode wire.UTF16Mode) Options {
	o.UTF16 = mode
	return o
}

func (o Options) WithStrictLpStr(strict bool) Options {
	o.StrictLpStr = strict
	return o
}

func (o Options) maxElements() int {
	if o.MaxElements <= 0 {
		return DefaultMaxElements
	}
	return o.MaxElements
}
