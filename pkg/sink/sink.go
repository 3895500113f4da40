// Package sink delivers run events to consumers: recording for tests and
// history, structured logs, JSON lines, and a terminal renderer.
package sink

import "github.com/relaykit/relaykit/pkg/domain"

// Sink receives every event of the stream exactly once, in emission order.
// Implementations must not panic and should return quickly; a slow sink
// stalls the whole run.
type Sink interface {
	OnEvent(e domain.RunEvent)
}

// Func adapts a function to the Sink interface.
type Func func(domain.RunEvent)

func (f Func) OnEvent(e domain.RunEvent) { f(e) }

type fanout []Sink

func (f fanout) OnEvent(e domain.RunEvent) {
	for _, s := range f {
		s.OnEvent(e)
	}
}

// Fanout delivers each event to every sink, in the given order.
func Fanout(sinks ...Sink) Sink {
	return fanout(sinks)
}
