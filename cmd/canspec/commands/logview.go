package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/parsecan/parsecan-go/pkg/log"
)

// LogOptions holds the raw filter flags of the log command.
type LogOptions struct {
	Session  string
	Bus      string
	Category string
	FrameID  string
	Since    string
	Until    string
}

// Filter converts the flags into a log.Filter.
func (o LogOptions) Filter() (log.Filter, error) {
	f := log.Filter{SessionID: o.Session, Bus: o.Bus}

	if o.Category != "" {
		c, ok := log.ParseCategory(o.Category)
		if !ok {
			return log.Filter{}, fmt.Errorf("invalid category %q (valid: decoded, unmatched, error)", o.Category)
		}
		f.Category = &c
	}
	if o.FrameID != "" {
		id, err := strconv.ParseUint(o.FrameID, 0, 32)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid frame id %q: %w", o.FrameID, err)
		}
		id32 := uint32(id)
		f.FrameID = &id32
	}
	if o.Since != "" {
		t, err := time.Parse(time.RFC3339, o.Since)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid since time: %w", err)
		}
		f.Since = &t
	}
	if o.Until != "" {
		t, err := time.Parse(time.RFC3339, o.Until)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid until time: %w", err)
		}
		f.Until = &t
	}
	return f, nil
}

// RunLog prints the events of a .clog trace that match opts.
func RunLog(path string, opts LogOptions, w io.Writer) error {
	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes one event as a header line followed by its details.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [session:%s] %s %s", ts, shortenID(event.SessionID), event.Bus, event.Category)
	if event.Frame != nil {
		fmt.Fprintf(w, " %s", event.Frame.ToFrame(event.Timestamp).Compact())
	}
	fmt.Fprintln(w)

	switch event.Category {
	case log.CategoryDecoded:
		writeDecoded(w, event.Decoded, "  ")
	case log.CategoryError:
		if event.Error != nil {
			fmt.Fprintf(w, "  error: %s\n", event.Error.Message)
			if event.Error.Context != "" {
				fmt.Fprintf(w, "  input: %s\n", event.Error.Context)
			}
		}
	}
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
