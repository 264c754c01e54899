// Command canspec decodes CAN frames against a bus specification.
//
// Usage:
//
//	canspec <command> [flags] [args]
//
// Commands:
//
//	decode   Decode frames given as arguments or read from stdin
//	list     Show the messages and signals of a bus spec
//	shell    Decode interactively
//	log      View a decode trace (.clog)
//
// Examples:
//
//	# Decode two frames
//	canspec decode -spec body.yaml 100#401F8201 0A0#01
//
//	# Decode a capture, only the engine message, as JSON lines
//	candump -L can0 | cut -d' ' -f3 | canspec decode -spec body.yaml -only engine -format json
//
//	# Keep a trace of the session and view its unmatched frames later
//	canspec decode -spec body.yaml -protocol-log session.clog < capture.txt
//	canspec log -category unmatched session.clog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/parsecan/parsecan-go/cmd/canspec/commands"
	"github.com/parsecan/parsecan-go/pkg/decode"
	"github.com/parsecan/parsecan-go/pkg/log"
	"github.com/parsecan/parsecan-go/pkg/specparse"
)

const usage = `canspec - CAN bus specification decoder

Usage:
  canspec <command> [flags] [args]

Commands:
  decode   Decode frames given as arguments or read from stdin
  list     Show the messages and signals of a bus spec
  shell    Decode interactively
  log      View a decode trace (.clog)

Use "canspec <command> -help" for more information about a command.
`

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "decode":
		runDecode(args)
	case "list":
		runList(args)
	case "shell":
		runShell(args)
	case "log":
		runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `canspec decode - Decode frames against a bus spec

Usage:
  canspec decode -spec <file> [flags] [frame...]

Frames use candump compact notation (123#DEADBEEF). Without frame
arguments, one frame per line is read from stdin.

Flags:
`)
		fs.PrintDefaults()
	}

	specPath := fs.String("spec", "", "Bus specification file (.yaml, .yml, .toml)")
	var only stringList
	fs.Var(&only, "only", "Decode only these message names or ids (repeatable, comma separated)")
	raw := fs.Bool("raw", false, "Print raw values without scaling or labels")
	format := fs.String("format", "text", "Output format (text, json, cbor)")
	noColor := fs.Bool("no-color", false, "Disable colored frame output")
	protocolLog := fs.String("protocol-log", "", "Append a decode trace to this .clog file")
	debug := fs.Bool("debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	f, err := commands.ParseFormat(*format)
	if err != nil {
		fail(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := commands.DecodeOptions{
		Spec:        *specPath,
		Only:        only,
		Raw:         *raw,
		Format:      f,
		Color:       !*noColor && !color.NoColor,
		ProtocolLog: *protocolLog,
		Logger:      newLogger(*debug),
	}
	if _, err := commands.RunDecode(ctx, opts, fs.Args(), os.Stdin, os.Stdout); err != nil {
		fail(err)
	}
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `canspec list - Show the messages and signals of a bus spec

Usage:
  canspec list [flags] <spec>

Flags:
`)
		fs.PrintDefaults()
	}

	var only stringList
	fs.Var(&only, "only", "List only these message names or ids")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: spec file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunList(fs.Arg(0), only, os.Stdout); err != nil {
		fail(err)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `canspec shell - Decode interactively

Usage:
  canspec shell [flags] <spec>

Flags:
`)
		fs.PrintDefaults()
	}

	protocolLog := fs.String("protocol-log", "", "Append a decode trace to this .clog file")
	noColor := fs.Bool("no-color", false, "Disable colored frame output")
	debug := fs.Bool("debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: spec file path required")
		fs.Usage()
		os.Exit(1)
	}

	bus, err := specparse.LoadSpec(fs.Arg(0))
	if err != nil {
		fail(fmt.Errorf("loading spec: %w", err))
	}

	opts := []decode.Option{decode.WithLogger(newLogger(*debug))}
	if *protocolLog != "" {
		fl, err := log.NewFileLogger(*protocolLog)
		if err != nil {
			fail(err)
		}
		defer fl.Close()
		opts = append(opts, decode.WithTraceLogger(fl))
	}

	ctx, cancel := signalContext()
	defer cancel()

	sh := commands.NewShell(bus, decode.New(bus, opts...), os.Stdout, !*noColor && !color.NoColor)
	if err := sh.Run(ctx); err != nil {
		fail(err)
	}
}

func runLog(args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `canspec log - View a decode trace

Usage:
  canspec log [flags] <file.clog>

Flags:
`)
		fs.PrintDefaults()
	}

	var opts commands.LogOptions
	fs.StringVar(&opts.Session, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Bus, "bus", "", "Filter by bus name")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (decoded, unmatched, error)")
	fs.StringVar(&opts.FrameID, "id", "", "Filter by frame id (decimal or 0x hex)")
	fs.StringVar(&opts.Since, "since", "", "Show events at or after this time (RFC3339)")
	fs.StringVar(&opts.Until, "until", "", "Show events before this time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunLog(fs.Arg(0), opts, os.Stdout); err != nil {
		fail(err)
	}
}
