package domain

import (
	"errors"
	"fmt"
	"time"
)

// EventType discriminates the variants of RunEvent.
type EventType string

const (
	// EventRunStarted opens a run.
	EventRunStarted EventType = "run_started"
	// EventRunFinished closes a run with a terminal status.
	EventRunFinished EventType = "run_finished"
	// EventRunError reports an uncaught failure before the run closes.
	EventRunError EventType = "run_error"
	// EventToolCallStarted announces a tool invocation.
	EventToolCallStarted EventType = "tool_call_started"
	// EventToolCallArguments carries the serialized arguments of a call.
	// Omitted entirely for calls with no arguments.
	EventToolCallArguments EventType = "tool_call_arguments"
	// EventToolCallEnded marks the end of a tool invocation.
	EventToolCallEnded EventType = "tool_call_ended"
	// EventToolCallResult carries the serialized outcome of a call.
	EventToolCallResult EventType = "tool_call_result"
	// EventTextMessageStarted opens an assistant message.
	EventTextMessageStarted EventType = "text_message_started"
	// EventTextMessageContent carries one chunk of assistant text.
	EventTextMessageContent EventType = "text_message_content"
	// EventTextMessageEnded closes an assistant message.
	EventTextMessageEnded EventType = "text_message_ended"
	// EventCustom carries out-of-band information, e.g. a busy notice.
	EventCustom EventType = "custom"
)

// RunStatus is the terminal state reported by a run_finished event.
type RunStatus string

const (
	// RunCompleted means the run reached the end of the protocol, even if
	// individual tool calls failed along the way.
	RunCompleted RunStatus = "completed"
	// RunErrored means the run was cut short by an uncaught failure.
	RunErrored RunStatus = "error"
)

// RunEvent is the closed union of everything the pipeline emits. Type is the
// discriminant; the remaining fields are populated per variant and omitted
// from the wire otherwise. Sinks receive events in emission order.
type RunEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	ThreadID string    `json:"thread_id,omitempty"`
	RunID    string    `json:"run_id,omitempty"`
	Status   RunStatus `json:"status,omitempty"`

	// Message doubles as the human-readable error text on run_error and the
	// payload of custom events.
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`

	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
	ArgsJSON   string `json:"args,omitempty"`
	ResultJSON string `json:"result,omitempty"`

	MessageID string `json:"message_id,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Delta     string `json:"delta,omitempty"`
}

func stamp(e RunEvent) RunEvent {
	e.Timestamp = time.Now().UTC()
	return e
}

// NewRunStarted opens the run identified by runID on the given thread.
func NewRunStarted(threadID, runID string) RunEvent {
	return stamp(RunEvent{Type: EventRunStarted, ThreadID: threadID, RunID: runID})
}

// NewRunFinished closes the run with a terminal status.
func NewRunFinished(threadID, runID string, status RunStatus) RunEvent {
	return stamp(RunEvent{Type: EventRunFinished, ThreadID: threadID, RunID: runID, Status: status})
}

// NewRunError reports an uncaught failure with a stable code.
func NewRunError(threadID, runID, message, code string) RunEvent {
	return stamp(RunEvent{Type: EventRunError, ThreadID: threadID, RunID: runID, Message: message, Code: code})
}

// NewToolCallStarted announces the invocation of toolName. The message ID
// groups the call with its result.
func NewToolCallStarted(toolCallID, toolName, messageID string) RunEvent {
	return stamp(RunEvent{Type: EventToolCallStarted, ToolCallID: toolCallID, ToolName: toolName, MessageID: messageID})
}

// NewToolCallArguments carries the serialized arguments of the call.
func NewToolCallArguments(toolCallID, argsJSON string) RunEvent {
	return stamp(RunEvent{Type: EventToolCallArguments, ToolCallID: toolCallID, ArgsJSON: argsJSON})
}

// NewToolCallEnded marks the end of the invocation.
func NewToolCallEnded(toolCallID string) RunEvent {
	return stamp(RunEvent{Type: EventToolCallEnded, ToolCallID: toolCallID})
}

// NewToolCallResult carries the serialized outcome of the call.
func NewToolCallResult(messageID, toolCallID, resultJSON string) RunEvent {
	return stamp(RunEvent{Type: EventToolCallResult, MessageID: messageID, ToolCallID: toolCallID, ResultJSON: resultJSON})
}

// NewTextMessageStarted opens a message authored by role.
func NewTextMessageStarted(messageID string, role Role) RunEvent {
	return stamp(RunEvent{Type: EventTextMessageStarted, MessageID: messageID, Role: role})
}

// NewTextMessageContent carries one chunk of message text.
func NewTextMessageContent(messageID, delta string) RunEvent {
	return stamp(RunEvent{Type: EventTextMessageContent, MessageID: messageID, Delta: delta})
}

// NewTextMessageEnded closes the message.
func NewTextMessageEnded(messageID string) RunEvent {
	return stamp(RunEvent{Type: EventTextMessageEnded, MessageID: messageID})
}

// NewCustom carries an out-of-band informational message.
func NewCustom(message string) RunEvent {
	return stamp(RunEvent{Type: EventCustom, Message: message})
}

// ErrInvalidEvent is returned when an event is missing variant fields.
var ErrInvalidEvent = errors.New("invalid event")

// ValidateEvent checks that the event carries the fields its variant
// requires. It is applied at publish boundaries.
func ValidateEvent(e RunEvent) error {
	if e.Type == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidEvent)
	}
	switch e.Type {
	case EventRunStarted:
		return requireRunIDs(e)
	case EventRunFinished:
		if err := requireRunIDs(e); err != nil {
			return err
		}
		if e.Status != RunCompleted && e.Status != RunErrored {
			return fmt.Errorf("%w: %s: status %q", ErrInvalidEvent, e.Type, e.Status)
		}
	case EventRunError:
		if err := requireRunIDs(e); err != nil {
			return err
		}
		if e.Message == "" {
			return fmt.Errorf("%w: %s: missing message", ErrInvalidEvent, e.Type)
		}
		if e.Code == "" {
			return fmt.Errorf("%w: %s: missing code", ErrInvalidEvent, e.Type)
		}
	case EventToolCallStarted:
		if e.ToolCallID == "" || e.ToolName == "" || e.MessageID == "" {
			return fmt.Errorf("%w: %s: missing tool_call_id, tool_name, or message_id", ErrInvalidEvent, e.Type)
		}
	case EventToolCallArguments:
		if e.ToolCallID == "" {
			return fmt.Errorf("%w: %s: missing tool_call_id", ErrInvalidEvent, e.Type)
		}
		if e.ArgsJSON == "" {
			return fmt.Errorf("%w: %s: missing args", ErrInvalidEvent, e.Type)
		}
	case EventToolCallEnded:
		if e.ToolCallID == "" {
			return fmt.Errorf("%w: %s: missing tool_call_id", ErrInvalidEvent, e.Type)
		}
	case EventToolCallResult:
		if e.ToolCallID == "" || e.MessageID == "" {
			return fmt.Errorf("%w: %s: missing tool_call_id or message_id", ErrInvalidEvent, e.Type)
		}
		if e.ResultJSON == "" {
			return fmt.Errorf("%w: %s: missing result", ErrInvalidEvent, e.Type)
		}
	case EventTextMessageStarted:
		if e.MessageID == "" {
			return fmt.Errorf("%w: %s: missing message_id", ErrInvalidEvent, e.Type)
		}
		if e.Role == "" {
			return fmt.Errorf("%w: %s: missing role", ErrInvalidEvent, e.Type)
		}
	case EventTextMessageContent:
		if e.MessageID == "" {
			return fmt.Errorf("%w: %s: missing message_id", ErrInvalidEvent, e.Type)
		}
		if e.Delta == "" {
			return fmt.Errorf("%w: %s: empty delta", ErrInvalidEvent, e.Type)
		}
	case EventTextMessageEnded:
		if e.MessageID == "" {
			return fmt.Errorf("%w: %s: missing message_id", ErrInvalidEvent, e.Type)
		}
	case EventCustom:
		if e.Message == "" {
			return fmt.Errorf("%w: %s: missing message", ErrInvalidEvent, e.Type)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	return nil
}

func requireRunIDs(e RunEvent) error {
	if e.ThreadID == "" {
		return fmt.Errorf("%w: %s: missing thread_id", ErrInvalidEvent, e.Type)
	}
	if e.RunID == "" {
		return fmt.Errorf("%w: %s: missing run_id", ErrInvalidEvent, e.Type)
	}
	return nil
}
