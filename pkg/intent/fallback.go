package intent

import (
	"context"
	"log/slog"

	"github.com/relaykit/relaykit/pkg/domain"
)

// Fallback tries the primary resolver and, on any error, delegates to the
// standby. The primary's failure is logged through the injected logger and
// never surfaced to the caller; with a total standby such as Local the
// combined resolver is itself total.
type Fallback struct {
	primary Resolver
	standby Resolver
	log     *slog.Logger
}

var _ Resolver = (*Fallback)(nil)

// NewFallback composes primary over standby. A nil log falls back to the
// default logger.
func NewFallback(primary, standby Resolver, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{primary: primary, standby: standby, log: log}
}

// Resolve returns the primary's result when it succeeds, otherwise the
// standby's.
func (f *Fallback) Resolve(ctx context.Context, prompt string) ([]domain.ToolRequest, error) {
	reqs, err := f.primary.Resolve(ctx, prompt)
	if err == nil {
		return reqs, nil
	}
	f.log.Warn("Intent resolution failed, using fallback", "error", err)
	return f.standby.Resolve(ctx, prompt)
}
