package sink

import (
	"sync"

	"github.com/relaykit/relaykit/pkg/domain"
)

// Memory records events in memory and exposes deterministic snapshots. It
// backs protocol assertions in tests and the session-scoped run history of
// the server.
type Memory struct {
	mu     sync.RWMutex
	events []domain.RunEvent
}

var _ Sink = (*Memory)(nil)

// NewMemory returns an empty recorder.
func NewMemory() *Memory {
	return &Memory{events: make([]domain.RunEvent, 0)}
}

func (m *Memory) OnEvent(e domain.RunEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of everything recorded so far, in order.
func (m *Memory) Events() []domain.RunEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.RunEvent, len(m.events))
	copy(out, m.events)
	return out
}

// ByType filters the recording.
func (m *Memory) ByType(t domain.EventType) []domain.RunEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.RunEvent
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// RecordedRun is one run's slice of the recording.
type RecordedRun struct {
	ThreadID string            `json:"thread_id"`
	RunID    string            `json:"run_id"`
	Status   domain.RunStatus  `json:"status,omitempty"`
	Events   []domain.RunEvent `json:"events"`
}

// Runs groups the recording into runs. Only run lifecycle events carry the
// run ID, but at most one run is ever active, so a run's events are exactly
// the contiguous region between its run_started and its run_finished.
// Events outside any run (busy notices) are dropped from the grouping.
func (m *Memory) Runs() []RecordedRun {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var runs []RecordedRun
	var current *RecordedRun
	for _, e := range m.events {
		switch {
		case e.Type == domain.EventRunStarted:
			runs = append(runs, RecordedRun{ThreadID: e.ThreadID, RunID: e.RunID})
			current = &runs[len(runs)-1]
			current.Events = append(current.Events, e)
		case current != nil:
			current.Events = append(current.Events, e)
			if e.Type == domain.EventRunFinished {
				current.Status = e.Status
				current = nil
			}
		}
	}
	return runs
}

// Reset drops the recording.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = m.events[:0]
}
