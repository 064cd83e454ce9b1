package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "full error",
			err: New(PhaseDecode, KindOutOfBounds).
				Path("variant", "vector[1]").
				At(14).
				Detail("read of 4 bytes at offset 14 (size 16)").
				Build(),
			contains: []string{"[decode]", "out_of_bounds", "variant.vector[1]", "@ offset 14", "size 16"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindUnknownType,
			},
			contains: []string{"[decode]", "unknown_type"},
			excludes: []string{"offset", " at "},
		},
		{
			name:     "offset zero is printed",
			err:      New(PhaseDecode, KindUnknownType).At(0).Build(),
			contains: []string{"@ offset 0"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseTransport,
				Kind:   KindTransport,
				Detail: "send reply",
				Cause:  errors.New("socket closed"),
			},
			contains: []string{"[transport]", "transport", "send reply", "caused by", "socket closed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseCapture, KindInvalidData, cause, "read packet")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindOverflow,
		Path:  []string{"array"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindOverflow}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseValidate, Kind: KindOverflow}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTooLarge}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrOverflow) {
		t.Error("errors.Is should match kind sentinel in any phase")
	}
	if errors.Is(err, ErrOutOfBounds) {
		t.Error("errors.Is should not match other sentinel")
	}

	wrapped := fmt.Errorf("decode payload: %w", err)
	if !errors.Is(wrapped, ErrOverflow) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(nil); k != "" {
		t.Errorf("KindOf(nil) = %q", k)
	}
	if k := KindOf(errors.New("plain")); k != "" {
		t.Errorf("KindOf(plain) = %q", k)
	}
	err := fmt.Errorf("outer: %w", UnknownModifier(PhaseDecode, nil, 0, 0x4003))
	if k := KindOf(err); k != KindUnknownModifier {
		t.Errorf("KindOf = %q, want %q", k, KindUnknownModifier)
	}
}

func TestWithPath(t *testing.T) {
	inner := OutOfBounds(PhaseDecode, []string{"element[2]"}, 20, 4, 22)
	err := WithPath(inner, "variant", "vector")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected *Error")
	}
	if got := strings.Join(e.Path, "."); got != "variant.vector.element[2]" {
		t.Errorf("Path = %q", got)
	}

	if WithPath(nil, "x") != nil {
		t.Error("WithPath(nil) should be nil")
	}
	plain := errors.New("plain")
	if WithPath(plain, "x") != plain {
		t.Error("WithPath should pass through foreign errors")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidEncoding).
		Path("variant", "value").
		At(8).
		Value(0xD800).
		Cause(cause).
		Detail("unpaired surrogate 0x%04X", 0xD800).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidEncoding {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidEncoding)
	}
	if len(err.Path) != 2 || err.Path[0] != "variant" || err.Path[1] != "value" {
		t.Errorf("Path = %v, want [variant value]", err.Path)
	}
	if !err.HasOffset() || err.Offset != 8 {
		t.Errorf("Offset = %d (set %v), want 8", err.Offset, err.HasOffset())
	}
	if err.Value != 0xD800 {
		t.Errorf("Value = %v, want 0xD800", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unpaired surrogate 0xD800" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		kind   Kind
		detail string
		offset int
	}{
		{"OutOfBounds", OutOfBounds(PhaseDecode, nil, 10, 4, 12), KindOutOfBounds, "offset 10", 10},
		{"UnknownType", UnknownType(PhaseDecode, nil, 0, 0x00FF), KindUnknownType, "0xFF", 0},
		{"UnknownModifier", UnknownModifier(PhaseDecode, nil, 2, 0x4003), KindUnknownModifier, "0x4000", 2},
		{"Overflow", Overflow(PhaseDecode, nil, 4, "array element count"), KindOverflow, "overflows", 4},
		{"TooLarge", TooLarge(PhaseDecode, nil, 4, 1<<20, 1<<16), KindTooLarge, "exceeds", 4},
		{"InvalidEncoding", InvalidEncoding(PhaseDecode, nil, 6, "bad"), KindInvalidEncoding, "bad", 6},
		{"InvalidData", InvalidData(PhaseValidate, nil, "bad field"), KindInvalidData, "bad field", -1},
		{"Unsupported", Unsupported(PhaseDecode, "compressed strings"), KindUnsupported, "compressed", -1},
		{"InvalidInput", InvalidInput(PhaseConfig, "bad hex"), KindInvalidInput, "bad hex", -1},
		{"NotFound", NotFound(PhaseValidate, "field", "wspvariant.x"), KindNotFound, "not found", -1},
		{"Transport", Transport("recv", errors.New("eof")), KindTransport, "recv", -1},
		{"Capture", Capture("open", errors.New("eof")), KindInvalidData, "open", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Detail, tt.detail) {
				t.Errorf("Detail = %q, should contain %q", tt.err.Detail, tt.detail)
			}
			if tt.offset < 0 {
				if tt.err.HasOffset() {
					t.Error("unexpected offset")
				}
				return
			}
			if !tt.err.HasOffset() || tt.err.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", tt.err.Offset, tt.offset)
			}
		})
	}
}
