package domain

import "github.com/google/uuid"

// IDSource produces the correlation identifiers a run is threaded with.
// The orchestrator takes it as a dependency so tests can substitute a
// deterministic source.
type IDSource interface {
	ThreadID() string
	RunID() string
	ToolCallID() string
	MessageID() string
}

// UUIDSource is the default IDSource, producing prefixed UUIDs.
type UUIDSource struct{}

var _ IDSource = UUIDSource{}

func (UUIDSource) ThreadID() string   { return "thread-" + uuid.NewString() }
func (UUIDSource) RunID() string      { return "run-" + uuid.NewString() }
func (UUIDSource) ToolCallID() string { return "call-" + uuid.NewString() }
func (UUIDSource) MessageID() string  { return "msg-" + uuid.NewString() }
