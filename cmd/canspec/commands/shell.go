package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/parsecan/parsecan-go/pkg/decode"
	"github.com/parsecan/parsecan-go/pkg/spec"
)

const shellHelp = `Commands:
  decode <frame>...    Decode frames in candump notation (alias: d)
  only [name|id]...    Restrict decoding to these messages; no args clears
  list                 Show the messages currently decoded (alias: ls)
  stats                Show session counters
  reset                Zero the session counters
  help                 Show this help (alias: ?)
  quit                 Leave the shell (alias: exit)
`

// Shell is an interactive decode session over one bus.
type Shell struct {
	bus     *spec.Bus
	decoder *decode.Decoder
	out     io.Writer
	color   bool
}

// NewShell creates a shell decoding against bus.
func NewShell(bus *spec.Bus, decoder *decode.Decoder, out io.Writer, color bool) *Shell {
	return &Shell{bus: bus, decoder: decoder, out: out, color: color}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "decode", "d":
		s.cmdDecode(args)
	case "only":
		s.cmdOnly(args)
	case "list", "ls":
		writeView(s.out, s.decoder.View())
	case "stats":
		s.cmdStats()
	case "reset":
		s.decoder.ResetStats()
		fmt.Fprintln(s.out, "counters cleared")
	case "quit", "exit", "q":
		return false
	default:
		// A bare frame is decoded directly.
		if strings.Contains(cmd, "#") {
			s.cmdDecode(parts)
			return true
		}
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help')\n", cmd)
	}
	return true
}

func (s *Shell) cmdDecode(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: decode <frame>...")
		return
	}

	rw := newResultWriter(s.out, FormatText, s.color)
	for _, arg := range args {
		f, decoded, err := s.decoder.DecodeString(arg)
		_ = rw.write(decode.Result{Line: arg, Frame: f, Decoded: decoded, Err: err})
	}
}

func (s *Shell) cmdOnly(args []string) {
	view, err := buildView(s.bus, ParseInterests(args...))
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.decoder.SetView(view)

	if len(args) == 0 {
		fmt.Fprintln(s.out, "decoding all messages")
		return
	}
	var names []string
	for m := range view.All() {
		names = append(names, m.Name())
	}
	fmt.Fprintf(s.out, "decoding only: %s\n", strings.Join(names, ", "))
}

func (s *Shell) cmdStats() {
	st := s.decoder.Stats()
	fmt.Fprintf(s.out, "session %s\n", s.decoder.SessionID())
	fmt.Fprintf(s.out, "frames %d, unmatched %d, errors %d\n", st.Frames, st.Unmatched, st.Errors)

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for m := range s.bus.All() {
		if n := st.Matches[m.Name()]; n > 0 {
			fmt.Fprintf(tw, "  %s\t%d\n", m.Name(), n)
		}
	}
	tw.Flush()
}

// Run reads commands with line editing until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.bus.Name() + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.out = rl.Stdout()
	fmt.Fprint(s.out, shellHelp)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return nil
		}
		if !s.Execute(line) {
			return nil
		}
	}
}
