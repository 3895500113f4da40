package domain

import (
	"errors"
	"fmt"
)

// ErrOutOfOrder is returned by SequenceTracker when an event violates the
// run protocol ordering.
var ErrOutOfOrder = errors.New("event out of order")

type seqPhase int

const (
	phaseIdle seqPhase = iota // before run_started
	phaseRun                  // inside the run, no structure open
	phaseToolOpen             // between tool_call_started and tool_call_ended
	phaseToolEnded            // between tool_call_ended and tool_call_result
	phaseMessage              // between text_message_started and text_message_ended
	phaseErrored              // run_error seen, awaiting run_finished
	phaseDone                 // run_finished seen
)

// SequenceTracker checks one run's event stream incrementally against the
// protocol: run_started first, tool calls and text messages properly nested
// and correlated, exactly one run_finished last, run_error only before an
// errored finish. Custom events may appear anywhere.
//
// The zero value is ready to use.
type SequenceTracker struct {
	phase seqPhase

	threadID string
	runID    string

	callID        string
	callMessageID string
	callArgsSeen  bool

	messageID string
}

// Done reports whether the run has finished.
func (t *SequenceTracker) Done() bool { return t.phase == phaseDone }

// Observe validates the event and advances the tracker. The tracker does
// not advance past an event it rejects.
func (t *SequenceTracker) Observe(e RunEvent) error {
	if err := ValidateEvent(e); err != nil {
		return err
	}
	if e.Type == EventCustom {
		// Informational, e.g. a busy notice while another run holds the
		// pipeline. Valid at any point.
		return nil
	}
	if t.phase == phaseDone {
		return fmt.Errorf("%w: %s after run_finished", ErrOutOfOrder, e.Type)
	}

	switch e.Type {
	case EventRunStarted:
		if t.phase != phaseIdle {
			return fmt.Errorf("%w: duplicate run_started", ErrOutOfOrder)
		}
		t.threadID, t.runID = e.ThreadID, e.RunID
		t.phase = phaseRun

	case EventRunError:
		if t.phase == phaseIdle {
			return fmt.Errorf("%w: run_error before run_started", ErrOutOfOrder)
		}
		if t.phase == phaseErrored {
			return fmt.Errorf("%w: duplicate run_error", ErrOutOfOrder)
		}
		if err := t.matchRun(e); err != nil {
			return err
		}
		t.phase = phaseErrored

	case EventRunFinished:
		if err := t.matchRun(e); err != nil {
			return err
		}
		switch {
		case t.phase == phaseRun && e.Status == RunCompleted:
		case t.phase == phaseErrored && e.Status == RunErrored:
		case t.phase == phaseIdle:
			return fmt.Errorf("%w: run_finished before run_started", ErrOutOfOrder)
		default:
			return fmt.Errorf("%w: run_finished with status %q in mid-run state", ErrOutOfOrder, e.Status)
		}
		t.phase = phaseDone

	case EventToolCallStarted:
		if t.phase != phaseRun {
			return fmt.Errorf("%w: tool_call_started while %s", ErrOutOfOrder, t.describe())
		}
		t.callID, t.callMessageID, t.callArgsSeen = e.ToolCallID, e.MessageID, false
		t.phase = phaseToolOpen

	case EventToolCallArguments:
		if t.phase != phaseToolOpen {
			return fmt.Errorf("%w: tool_call_arguments while %s", ErrOutOfOrder, t.describe())
		}
		if e.ToolCallID != t.callID {
			return fmt.Errorf("%w: tool_call_arguments for %q, open call is %q", ErrOutOfOrder, e.ToolCallID, t.callID)
		}
		if t.callArgsSeen {
			return fmt.Errorf("%w: duplicate tool_call_arguments for %q", ErrOutOfOrder, e.ToolCallID)
		}
		t.callArgsSeen = true

	case EventToolCallEnded:
		if t.phase != phaseToolOpen {
			return fmt.Errorf("%w: tool_call_ended while %s", ErrOutOfOrder, t.describe())
		}
		if e.ToolCallID != t.callID {
			return fmt.Errorf("%w: tool_call_ended for %q, open call is %q", ErrOutOfOrder, e.ToolCallID, t.callID)
		}
		t.phase = phaseToolEnded

	case EventToolCallResult:
		if t.phase != phaseToolEnded {
			return fmt.Errorf("%w: tool_call_result while %s", ErrOutOfOrder, t.describe())
		}
		if e.ToolCallID != t.callID {
			return fmt.Errorf("%w: tool_call_result for %q, open call is %q", ErrOutOfOrder, e.ToolCallID, t.callID)
		}
		if e.MessageID != t.callMessageID {
			return fmt.Errorf("%w: tool_call_result message %q, call opened with %q", ErrOutOfOrder, e.MessageID, t.callMessageID)
		}
		t.callID, t.callMessageID = "", ""
		t.phase = phaseRun

	case EventTextMessageStarted:
		if t.phase != phaseRun {
			return fmt.Errorf("%w: text_message_started while %s", ErrOutOfOrder, t.describe())
		}
		t.messageID = e.MessageID
		t.phase = phaseMessage

	case EventTextMessageContent:
		if t.phase != phaseMessage {
			return fmt.Errorf("%w: text_message_content while %s", ErrOutOfOrder, t.describe())
		}
		if e.MessageID != t.messageID {
			return fmt.Errorf("%w: text_message_content for %q, open message is %q", ErrOutOfOrder, e.MessageID, t.messageID)
		}

	case EventTextMessageEnded:
		if t.phase != phaseMessage {
			return fmt.Errorf("%w: text_message_ended while %s", ErrOutOfOrder, t.describe())
		}
		if e.MessageID != t.messageID {
			return fmt.Errorf("%w: text_message_ended for %q, open message is %q", ErrOutOfOrder, e.MessageID, t.messageID)
		}
		t.messageID = ""
		t.phase = phaseRun
	}
	return nil
}

func (t *SequenceTracker) matchRun(e RunEvent) error {
	if t.phase == phaseIdle {
		return nil
	}
	if e.ThreadID != t.threadID || e.RunID != t.runID {
		return fmt.Errorf("%w: %s for run %s/%s, tracking %s/%s",
			ErrOutOfOrder, e.Type, e.ThreadID, e.RunID, t.threadID, t.runID)
	}
	return nil
}

func (t *SequenceTracker) describe() string {
	switch t.phase {
	case phaseIdle:
		return "no run is active"
	case phaseRun:
		return "no structure is open"
	case phaseToolOpen:
		return fmt.Sprintf("tool call %q is open", t.callID)
	case phaseToolEnded:
		return fmt.Sprintf("tool call %q awaits its result", t.callID)
	case phaseMessage:
		return fmt.Sprintf("message %q is open", t.messageID)
	case phaseErrored:
		return "the run has errored"
	default:
		return "the run has finished"
	}
}

// CheckSequence validates a complete event stream with a fresh tracker.
func CheckSequence(events []RunEvent) error {
	var t SequenceTracker
	for i, e := range events {
		if err := t.Observe(e); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}
