package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wsp-dissect/capture"
	"github.com/wippyai/wsp-dissect/dissector"
	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/guestmem"
	"github.com/wippyai/wsp-dissect/variant"
	"github.com/wippyai/wsp-dissect/wire"
	"github.com/wippyai/wsp-dissect/wirego"
)

type options struct {
	hex         string
	file        string
	pcap        string
	port        int
	heuristic   bool
	transport   string
	offset      int
	row         bool
	row64       bool
	base        uint64
	guest       bool
	restriction bool
	lossy       bool
	strictLpStr bool
	maxElements int
	serve       string
	interactive bool
	verbose     bool
}

func (o options) config() (dissector.Config, error) {
	cfg := dissector.DefaultConfig()
	cfg.Port = o.port
	cfg.Heuristic = o.heuristic
	cfg.Offset = o.offset
	cfg.Options = cfg.Options.
		WithMaxElements(o.maxElements).
		WithStrictLpStr(o.strictLpStr)
	if o.lossy {
		cfg.Options = cfg.Options.WithUTF16(wire.UTF16Lossy)
	}

	switch {
	case (o.row || o.row64) && o.restriction:
		return cfg, errors.InvalidInput(errors.PhaseConfig, "-row and -restriction are exclusive")
	case o.row || o.row64:
		cfg.Framing = dissector.FramingRow
		cfg.Layout = variant.RowLayout{Is64Bit: o.row64, BaseAddress: o.base}
	case o.restriction:
		cfg.Framing = dissector.FramingRestriction
	}
	if o.guest && cfg.Framing != dissector.FramingRow {
		return cfg, errors.InvalidInput(errors.PhaseConfig, "-guest needs -row or -row64")
	}
	return cfg, nil
}

// input returns the bytes named by -hex or -file.
func (o options) input() ([]byte, error) {
	switch {
	case o.hex != "" && o.file != "":
		return nil, errors.InvalidInput(errors.PhaseConfig, "-hex and -file are exclusive")
	case o.hex != "":
		return parseHex(o.hex)
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

// parseHex accepts "03 10 00 00", "0x03,0x10" and "03100000".
func parseHex(s string) ([]byte, error) {
	var clean strings.Builder
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t' || r == '\r'
	}) {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		if len(tok)%2 == 1 {
			tok = "0" + tok
		}
		clean.WriteString(tok)
	}
	data, err := hex.DecodeString(clean.String())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse hex")
	}
	return data, nil
}

func run(ctx context.Context, o options, p *printer) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	d, err := dissector.New(cfg)
	if err != nil {
		return err
	}

	if o.pcap != "" {
		return dumpCapture(o, d, p)
	}

	data, err := o.input()
	if err != nil {
		return err
	}
	if o.guest {
		return dumpGuest(ctx, d, data, p)
	}
	res := d.Dissect(data)
	p.result(res)
	return res.Err
}

func dumpCapture(o options, d *dissector.Dissector, p *printer) error {
	f, err := os.Open(o.pcap)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	r, err := capture.Open(f, capture.Filter{Port: o.port, Transport: o.transport})
	if err != nil {
		return err
	}
	failed := 0
	err = r.Each(func(pl capture.Payload) error {
		p.frame(pl)
		res := d.Dissect(pl.Data)
		p.result(res)
		if res.Err != nil {
			failed++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d payloads failed to decode", failed)
	}
	return nil
}

// dumpGuest copies the row buffer into a scratch WebAssembly memory and
// decodes it from there.
func dumpGuest(ctx context.Context, d *dissector.Dissector, data []byte, p *printer) error {
	pages := uint32(len(data)/guestmem.PageSize + 1)
	scratch, err := guestmem.NewScratch(ctx, pages)
	if err != nil {
		return err
	}
	defer scratch.Close(ctx)

	mem, err := scratch.Load(0, data)
	if err != nil {
		return err
	}
	cfg := d.Config()
	v, err := variant.NewDecoder(cfg.Options).DecodeRow(mem, cfg.Offset, cfg.Layout)
	if err != nil {
		return err
	}
	p.tree(dissector.BuildRow(v, cfg.Layout))
	return nil
}

func serve(ctx context.Context, o options, logger *zap.Logger) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	d, err := dissector.New(cfg)
	if err != nil {
		return err
	}
	wg, err := wirego.New(o.serve, false, dissector.NewPlugin(d))
	if err != nil {
		return err
	}
	wg.SetLogger(logger.Named("wirego"))
	logger.Info("serving", zap.String("endpoint", o.serve), zap.String("framing", cfg.Framing.String()))
	return wg.Listen(ctx)
}

var (
	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	rangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	frameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// printer writes trees, styled when the output is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, color: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) frame(pl capture.Payload) {
	title := fmt.Sprintf("frame %d", pl.Number)
	fmt.Fprintf(p.w, "%s %s:%d -> %s:%d (%s, %d bytes)\n",
		p.style(frameStyle, title), pl.Src, pl.SrcPort, pl.Dst, pl.DstPort, pl.Layer, len(pl.Data))
}

func (p *printer) result(res *dissector.Result) {
	for _, n := range res.Nodes {
		p.tree(n)
	}
	if len(res.Nodes) == 0 {
		fmt.Fprintln(p.w, p.style(rangeStyle, "(no values)"))
	}
}

func (p *printer) tree(n *dissector.Node) {
	fmt.Fprint(p.w, renderTree(n, p))
}

func renderTree(n *dissector.Node, p *printer) string {
	var b bytes.Buffer
	n.Walk(func(depth int, x *dissector.Node) bool {
		label := p.style(labelStyle, x.Label)
		if x.Field == dissector.FieldError {
			label = p.style(errorStyle, x.Label)
		}
		fmt.Fprintf(&b, "%s%s: %s %s\n",
			strings.Repeat("  ", depth),
			p.style(fieldStyle, x.Field.String()),
			label,
			p.style(rangeStyle, fmt.Sprintf("[%d+%d]", x.Offset, x.Length)))
		return true
	})
	return b.String()
}
