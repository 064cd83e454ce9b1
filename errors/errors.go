package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // wire bytes to values
	PhaseEncode    Phase = "encode"    // values to wire bytes
	PhaseValidate  Phase = "validate"  // dissector result checks
	PhaseCapture   Phase = "capture"   // pcap ingestion
	PhaseTransport Phase = "transport" // Wirego/ZMQ exchange
	PhaseConfig    Phase = "config"    // options and flags
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds     Kind = "out_of_bounds"
	KindUnknownType     Kind = "unknown_type"
	KindUnknownModifier Kind = "unknown_modifier"
	KindOverflow        Kind = "overflow"
	KindTooLarge        Kind = "too_large"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindInvalidData     Kind = "invalid_data"
	KindUnsupported     Kind = "unsupported"
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindTransport       Kind = "transport"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	Path      []string
	Offset    int
	hasOffset bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.hasOffset {
		b.WriteString(" @ offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && e.Phase != t.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// HasOffset reports whether the error records a byte offset.
func (e *Error) HasOffset() bool {
	return e.hasOffset
}

// Sentinel targets for errors.Is, matching on Kind across all phases.
var (
	ErrOutOfBounds     = &Error{Kind: KindOutOfBounds}
	ErrUnknownType     = &Error{Kind: KindUnknownType}
	ErrUnknownModifier = &Error{Kind: KindUnknownModifier}
	ErrOverflow        = &Error{Kind: KindOverflow}
	ErrTooLarge        = &Error{Kind: KindTooLarge}
	ErrInvalidEncoding = &Error{Kind: KindInvalidEncoding}
	ErrUnsupported     = &Error{Kind: KindUnsupported}
)

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// WithPath prefixes the field path of err when it is an *Error. Inner
// decoders report paths relative to themselves; callers prepend their own
// location while the error propagates.
func WithPath(err error, prefix ...string) error {
	var e *Error
	if err == nil || len(prefix) == 0 || !stderrors.As(err, &e) {
		return err
	}
	path := make([]string, 0, len(prefix)+len(e.Path))
	path = append(path, prefix...)
	e.Path = append(path, e.Path...)
	return err
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// At records the byte offset the error refers to
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	b.err.hasOffset = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an error for a read of length bytes at offset in a
// space of size bytes.
func OutOfBounds(phase Phase, path []string, offset, length, size int) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindOutOfBounds,
		Path:      path,
		Detail:    fmt.Sprintf("read of %d bytes at offset %d (size %d)", length, offset, size),
		Value:     offset,
		Offset:    offset,
		hasOffset: true,
	}
}

// UnknownType creates an error for a type tag missing from the registry
func UnknownType(phase Phase, path []string, offset int, tag uint16) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindUnknownType,
		Path:      path,
		Detail:    fmt.Sprintf("unknown base type 0x%02X in tag 0x%04X", tag&0xFF, tag),
		Value:     tag,
		Offset:    offset,
		hasOffset: true,
	}
}

// UnknownModifier creates an error for tag modifier bits other than none,
// vector or array
func UnknownModifier(phase Phase, path []string, offset int, tag uint16) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindUnknownModifier,
		Path:      path,
		Detail:    fmt.Sprintf("unknown modifier 0x%04X in tag 0x%04X", tag&0xFF00, tag),
		Value:     tag,
		Offset:    offset,
		hasOffset: true,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, offset int, what string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindOverflow,
		Path:      path,
		Detail:    what + " overflows",
		Offset:    offset,
		hasOffset: true,
	}
}

// TooLarge creates an error for a declared count above a configured limit
func TooLarge(phase Phase, path []string, offset int, count uint64, limit uint64) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTooLarge,
		Path:      path,
		Detail:    fmt.Sprintf("count %d exceeds maximum %d", count, limit),
		Value:     count,
		Offset:    offset,
		hasOffset: true,
	}
}

// InvalidEncoding creates a malformed text error
func InvalidEncoding(phase Phase, path []string, offset int, detail string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidEncoding,
		Path:      path,
		Detail:    detail,
		Offset:    offset,
		hasOffset: true,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Transport wraps a messaging failure
func Transport(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseTransport,
		Kind:   KindTransport,
		Detail: detail,
		Cause:  cause,
	}
}

// Capture wraps a pcap ingestion failure
func Capture(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCapture,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
