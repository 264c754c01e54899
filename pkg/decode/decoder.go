// Package decode runs frames through a bus view and records what happened.
//
// A Decoder owns a session: every frame it sees is counted in its Stats and,
// when a trace logger is configured, written as a log.Event tagged with the
// session ID.
package decode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parsecan/parsecan-go/pkg/frame"
	"github.com/parsecan/parsecan-go/pkg/log"
	"github.com/parsecan/parsecan-go/pkg/spec"
)

// Stats counts the outcome of every input seen by a Decoder.
type Stats struct {
	Frames    int
	Unmatched int
	Errors    int

	// Matches counts decoded frames per message name.
	Matches map[string]int
}

// Result is the outcome of decoding one input line.
type Result struct {
	Line    string
	Frame   *frame.Frame
	Decoded spec.Decoded
	Err     error
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithTraceLogger records a trace event for every input.
func WithTraceLogger(l log.Logger) Option {
	return func(d *Decoder) { d.trace = l }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithSessionID replaces the generated session ID.
func WithSessionID(id string) Option {
	return func(d *Decoder) { d.session = id }
}

// WithUnpackOptions applies opts to every decode.
func WithUnpackOptions(opts ...spec.UnpackOption) Option {
	return func(d *Decoder) { d.unpack = append(d.unpack, opts...) }
}

// WithClock sets the time source for frames without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) { d.now = now }
}

// Decoder decodes frames against a spec.View.
// It is safe for concurrent use; the view itself is not locked.
type Decoder struct {
	mu      sync.RWMutex
	view    spec.View
	trace   log.Logger
	logger  *slog.Logger
	session string
	unpack  []spec.UnpackOption
	now     func() time.Time
	stats   Stats
}

// New creates a Decoder for view with a fresh session ID.
func New(view spec.View, opts ...Option) *Decoder {
	d := &Decoder{
		view:    view,
		trace:   log.NoopLogger{},
		session: uuid.New().String(),
		now:     time.Now,
		stats:   Stats{Matches: make(map[string]int)},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.trace == nil {
		d.trace = log.NoopLogger{}
	}
	return d
}

// SessionID returns the session ID stamped on trace events.
func (d *Decoder) SessionID() string {
	return d.session
}

// View returns the current view.
func (d *Decoder) View() spec.View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// SetView swaps the view used by later decodes. Stats are kept.
func (d *Decoder) SetView(view spec.View) {
	d.mu.Lock()
	d.view = view
	d.mu.Unlock()
}

// Decode unpacks f against the view. The result is empty when no message
// matched; a nil frame never matches.
func (d *Decoder) Decode(f *frame.Frame) spec.Decoded {
	d.mu.RLock()
	view := d.view
	d.mu.RUnlock()

	decoded := view.Unpack(f, d.unpack...)

	category := log.CategoryDecoded
	d.mu.Lock()
	d.stats.Frames++
	if len(decoded) == 0 {
		d.stats.Unmatched++
		category = log.CategoryUnmatched
	}
	for name := range decoded {
		d.stats.Matches[name]++
	}
	d.mu.Unlock()

	if d.logger != nil && category == log.CategoryUnmatched {
		if f == nil {
			d.logger.Debug("no message matched", "bus", view.Name(), "frame", nil)
		} else {
			d.logger.Debug("no message matched", "bus", view.Name(), "frame", f.Compact())
		}
	}

	d.trace.Log(log.Event{
		Timestamp: d.timestamp(f),
		SessionID: d.session,
		Bus:       view.Name(),
		Category:  category,
		Frame:     log.NewFrameEvent(f),
		Decoded:   decoded,
	})
	return decoded
}

// DecodeString parses s in candump compact notation and decodes it. A parse
// failure is counted and traced as an error.
func (d *Decoder) DecodeString(s string) (*frame.Frame, spec.Decoded, error) {
	f, err := frame.Parse(s)
	if err != nil {
		d.fail(s, err)
		return nil, nil, err
	}
	return f, d.Decode(f), nil
}

// DecodeAll decodes frames in order, stopping early when ctx is done.
func (d *Decoder) DecodeAll(ctx context.Context, frames []*frame.Frame) ([]spec.Decoded, error) {
	out := make([]spec.Decoded, 0, len(frames))
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, d.Decode(f))
	}
	return out, nil
}

// DecodeLines reads one frame per line from r and hands each result to fn.
// Blank lines and lines starting with '#' are skipped. A parse failure is
// reported through Result.Err and does not stop the scan; an error returned
// by fn does.
func (d *Decoder) DecodeLines(ctx context.Context, r io.Reader, fn func(Result) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		f, decoded, err := d.DecodeString(line)
		if err := fn(Result{Line: line, Frame: f, Decoded: decoded, Err: err}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading frames: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (d *Decoder) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := d.stats
	s.Matches = maps.Clone(d.stats.Matches)
	return s
}

// ResetStats zeroes the counters.
func (d *Decoder) ResetStats() {
	d.mu.Lock()
	d.stats = Stats{Matches: make(map[string]int)}
	d.mu.Unlock()
}

func (d *Decoder) fail(input string, err error) {
	d.mu.Lock()
	d.stats.Errors++
	view := d.view
	d.mu.Unlock()

	if d.logger != nil {
		d.logger.Debug("skipping input", "input", input, "error", err)
	}

	d.trace.Log(log.Event{
		Timestamp: d.now(),
		SessionID: d.session,
		Bus:       view.Name(),
		Category:  log.CategoryError,
		Error:     &log.ErrorEvent{Message: err.Error(), Context: input},
	})
}

func (d *Decoder) timestamp(f *frame.Frame) time.Time {
	if f != nil && !f.Timestamp.IsZero() {
		return f.Timestamp
	}
	return d.now()
}
