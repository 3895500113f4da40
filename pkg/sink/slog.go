package sink

import (
	"context"
	"log/slog"

	"github.com/relaykit/relaykit/pkg/domain"
)

// Slog writes each event to a structured logger, one record per event.
// It is the technical event log for headless runs.
type Slog struct {
	log   *slog.Logger
	level slog.Level
}

var _ Sink = (*Slog)(nil)

// NewSlog logs events at debug level. A nil log falls back to the default
// logger.
func NewSlog(log *slog.Logger) *Slog {
	if log == nil {
		log = slog.Default()
	}
	return &Slog{log: log, level: slog.LevelDebug}
}

func (s *Slog) OnEvent(e domain.RunEvent) {
	attrs := []any{"type", e.Type}
	if e.RunID != "" {
		attrs = append(attrs, "run_id", e.RunID)
	}
	if e.ToolCallID != "" {
		attrs = append(attrs, "tool_call_id", e.ToolCallID)
	}
	if e.ToolName != "" {
		attrs = append(attrs, "tool", e.ToolName)
	}
	if e.MessageID != "" {
		attrs = append(attrs, "message_id", e.MessageID)
	}
	if e.Status != "" {
		attrs = append(attrs, "status", e.Status)
	}
	if e.Code != "" {
		attrs = append(attrs, "code", e.Code)
	}
	s.log.Log(context.Background(), s.level, "Run event", attrs...)
}
