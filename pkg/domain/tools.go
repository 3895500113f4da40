package domain

// ToolRequest is one resolved tool invocation. A resolver returns requests
// in the order they should execute.
type ToolRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolOutcome records what happened to one request during a run. The
// orchestrator keeps outcomes so the response can be phrased from them
// without executing any tool a second time.
type ToolOutcome struct {
	Name       string `json:"name"`
	ToolCallID string `json:"tool_call_id"`
	MessageID  string `json:"message_id"`
	Result     any    `json:"result,omitempty"`
	Err        error  `json:"-"`
}

// Failed reports whether the call ended in an error.
func (o ToolOutcome) Failed() bool { return o.Err != nil }
