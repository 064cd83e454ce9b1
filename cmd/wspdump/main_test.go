package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wippyai/wsp-dissect/dissector"
	"github.com/wippyai/wsp-dissect/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"03 10 00 00", []byte{0x03, 0x10, 0x00, 0x00}},
		{"0x03,0x10", []byte{0x03, 0x10}},
		{"03100000", []byte{0x03, 0x10, 0x00, 0x00}},
		{"3 a\n", []byte{0x03, 0x0A}},
		{"", []byte{}},
	}
	for _, tt := range tests {
		got, err := parseHex(tt.in)
		if err != nil {
			t.Errorf("parseHex(%q): %v", tt.in, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("parseHex(%q) = % X, want % X", tt.in, got, tt.want)
		}
	}
	if _, err := parseHex("zz"); errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("parseHex(zz) = %v", err)
	}
}

func TestOptionsConfig(t *testing.T) {
	cfg, err := options{row64: true, base: 0x1000, maxElements: 16, heuristic: true}.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Framing != dissector.FramingRow || !cfg.Layout.Is64Bit || cfg.Layout.BaseAddress != 0x1000 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Heuristic {
		t.Error("Heuristic not set")
	}
	if cfg.Options.MaxElements != 16 {
		t.Errorf("MaxElements = %d", cfg.Options.MaxElements)
	}

	if _, err := (options{row: true, restriction: true}).config(); err == nil {
		t.Error("-row with -restriction accepted")
	}
	if _, err := (options{guest: true}).config(); err == nil {
		t.Error("-guest without -row accepted")
	}
}

func TestRunHex(t *testing.T) {
	var out bytes.Buffer
	o := options{hex: "03 10 00 00 02 00 00 00 01 00 00 00 02 00 00 00", maxElements: 1 << 10}
	if err := run(context.Background(), o, &printer{w: &out}); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Variant: VT_I4|VT_VECTOR: [1, 2] [0+16]", "  Vector: 2 elements [4+12]", "    Element: [1] 2 [12+4]"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunReportsDecodeError(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{hex: "FF 00 00 00", maxElements: 16}, &printer{w: &out})
	if errors.KindOf(err) != errors.KindUnknownType {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out.String(), "Error: ") {
		t.Errorf("no error node printed:\n%s", out.String())
	}
}

func TestRunGuestRow(t *testing.T) {
	var out bytes.Buffer
	o := options{
		hex:         "03 00 00 00 00 00 00 00 2A 00 00 00 00 00 00 00",
		row:         true,
		guest:       true,
		maxElements: 16,
	}
	if err := run(context.Background(), o, &printer{w: &out}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Value: 42 [8+4]") {
		t.Errorf("output:\n%s", out.String())
	}
}
