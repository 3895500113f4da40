package runner

import (
	"context"
	"time"
)

// DefaultChunkDelay is the pause between streamed response chunks.
const DefaultChunkDelay = 100 * time.Millisecond

// Pacer spaces consecutive response chunks.
type Pacer interface {
	// Pause blocks for one inter-chunk gap, or returns the context error
	// if the run is canceled first.
	Pause(ctx context.Context) error
}

// FixedPacer pauses for a fixed delay between chunks.
type FixedPacer struct {
	Delay time.Duration
}

func (p FixedPacer) Pause(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NopPacer never pauses. Tests use it to keep streamed runs fast.
type NopPacer struct{}

func (NopPacer) Pause(context.Context) error { return nil }
