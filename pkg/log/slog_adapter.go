package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("category", event.Category.String()),
	}
	if event.Bus != "" {
		attrs = append(attrs, slog.String("bus", event.Bus))
	}

	if event.Frame != nil {
		attrs = append(attrs,
			slog.Uint64("frame_id", uint64(event.Frame.ID)),
			slog.Int("frame_len", len(event.Frame.Data)),
		)
		if event.Frame.Extended {
			attrs = append(attrs, slog.Bool("extended", true))
		}
	}
	if len(event.Decoded) > 0 {
		attrs = append(attrs, slog.Any("messages", event.Decoded.Names()))
	}
	if event.Error != nil {
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("input", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "decode", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
