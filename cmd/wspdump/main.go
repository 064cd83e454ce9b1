package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wsp-dissect/capture"
	"github.com/wippyai/wsp-dissect/dissector"
	"github.com/wippyai/wsp-dissect/variant"
)

func main() {
	var o options
	flag.StringVar(&o.hex, "hex", "", "Hex bytes to decode (whitespace, commas and 0x prefixes allowed)")
	flag.StringVar(&o.file, "file", "", "Binary file to decode")
	flag.StringVar(&o.pcap, "pcap", "", "pcap or pcapng capture to decode")
	flag.IntVar(&o.port, "port", 0, "Only decode payloads to or from this port; announced to Wireshark with -serve")
	flag.BoolVar(&o.heuristic, "heuristic", false, "Register the heuristic detector on tcp and udp with -serve")
	flag.StringVar(&o.transport, "transport", "", "Only decode tcp or udp payloads from -pcap")
	flag.IntVar(&o.offset, "offset", 0, "Offset of the first value in each payload")
	flag.BoolVar(&o.row, "row", false, "Decode a 32-bit row buffer variant")
	flag.BoolVar(&o.row64, "row64", false, "Decode a 64-bit row buffer variant")
	flag.Uint64Var(&o.base, "base", 0, "Base address of row buffer pointers")
	flag.BoolVar(&o.guest, "guest", false, "Decode row input from a wazero guest memory")
	flag.BoolVar(&o.restriction, "restriction", false, "Payloads are CPropertyRestriction structures")
	flag.BoolVar(&o.lossy, "lossy", false, "Replace invalid UTF-16 with U+FFFD instead of failing")
	flag.BoolVar(&o.strictLpStr, "strict-lpstr", false, "Fail on VT_LPSTR length mismatches")
	flag.IntVar(&o.maxElements, "max-elements", variant.DefaultMaxElements, "Largest vector or array accepted")
	flag.StringVar(&o.serve, "serve", "", "Serve the dissector to Wirego on this ZMQ endpoint (e.g. ipc:///tmp/wirego0)")
	flag.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&o.verbose, "v", false, "Verbose logging")
	flag.Parse()

	logger := newLogger(o.verbose)
	defer logger.Sync() //nolint:errcheck
	variant.SetLogger(logger.Named("variant"))
	dissector.SetLogger(logger.Named("dissector"))
	capture.SetLogger(logger.Named("capture"))

	if o.hex == "" && o.file == "" && o.pcap == "" && o.serve == "" && !o.interactive {
		fmt.Fprintln(os.Stderr, "Usage: wspdump -hex '03 10 00 00 ...' [-offset n] [-row|-row64 -base addr] [-restriction]")
		fmt.Fprintln(os.Stderr, "       wspdump -file payload.bin")
		fmt.Fprintln(os.Stderr, "       wspdump -pcap capture.pcap [-port n] [-transport tcp|udp]")
		fmt.Fprintln(os.Stderr, "       wspdump -serve ipc:///tmp/wirego0 [-port n]")
		fmt.Fprintln(os.Stderr, "       wspdump -i [-hex ...]  (interactive mode)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	var err error
	switch {
	case o.serve != "":
		err = serve(ctx, o, logger)
	case o.interactive:
		err = runInteractive(o)
	default:
		err = run(ctx, o, newPrinter(os.Stdout))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
