package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/parsecan/parsecan-go/pkg/decode"
	"github.com/parsecan/parsecan-go/pkg/log"
	"github.com/parsecan/parsecan-go/pkg/spec"
	"github.com/parsecan/parsecan-go/pkg/specparse"
)

// DecodeOptions configures the decode command.
type DecodeOptions struct {
	// Spec is the bus specification file.
	Spec string

	// Only restricts decoding to these message names or ids.
	Only []string

	// Raw skips scaling and enumeration labels.
	Raw bool

	Format Format
	Color  bool

	// ProtocolLog, when set, appends a trace of every input to this file.
	ProtocolLog string

	// Logger receives operational debug output. May be nil.
	Logger *slog.Logger
}

// DecodeSummary reports what RunDecode processed.
type DecodeSummary struct {
	SessionID string
	Stats     decode.Stats
}

// RunDecode decodes frames given as arguments, or one per line from in when
// there are none, and writes the results to out. Inputs that are not valid
// frames are reported in the output and do not stop the run.
func RunDecode(ctx context.Context, opts DecodeOptions, frames []string, in io.Reader, out io.Writer) (DecodeSummary, error) {
	if opts.Spec == "" {
		return DecodeSummary{}, fmt.Errorf("spec file (-spec) required")
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	bus, err := specparse.LoadSpec(opts.Spec)
	if err != nil {
		return DecodeSummary{}, fmt.Errorf("loading spec: %w", err)
	}
	view, err := buildView(bus, ParseInterests(opts.Only...))
	if err != nil {
		return DecodeSummary{}, err
	}

	decoderOpts := []decode.Option{}
	if opts.Raw {
		decoderOpts = append(decoderOpts, decode.WithUnpackOptions(spec.WithRaw()))
	}
	if opts.Logger != nil {
		decoderOpts = append(decoderOpts, decode.WithLogger(opts.Logger))
	}
	if opts.ProtocolLog != "" {
		fl, err := log.NewFileLogger(opts.ProtocolLog)
		if err != nil {
			return DecodeSummary{}, err
		}
		defer fl.Close()
		decoderOpts = append(decoderOpts, decode.WithTraceLogger(fl))
	}

	d := decode.New(view, decoderOpts...)
	rw := newResultWriter(out, opts.Format, opts.Color)

	if len(frames) > 0 {
		in = strings.NewReader(strings.Join(frames, "\n"))
	}
	err = d.DecodeLines(ctx, in, rw.write)

	summary := DecodeSummary{SessionID: d.SessionID(), Stats: d.Stats()}
	if opts.Logger != nil {
		opts.Logger.Debug("decode finished",
			"session", summary.SessionID,
			"frames", summary.Stats.Frames,
			"unmatched", summary.Stats.Unmatched,
			"errors", summary.Stats.Errors)
	}
	return summary, err
}
