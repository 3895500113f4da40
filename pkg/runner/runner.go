// Package runner orchestrates a prompt through intent resolution, tool
// execution, and the response message, emitting the protocol event stream
// to the configured sink.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/intent"
	"github.com/relaykit/relaykit/pkg/sink"
	"github.com/relaykit/relaykit/pkg/tool"
)

var (
	// ErrRunActive rejects a prompt while another run holds the pipeline.
	ErrRunActive = errors.New("a run is already active")
	// ErrRunFailed marks a run that ended with run_error.
	ErrRunFailed = errors.New("run failed")
)

// busyMessage is the single informational event emitted for a rejected
// prompt.
const busyMessage = "The agent is busy with another run. Try again in a moment."

// Result is what ProcessPrompt hands back after the stream has ended.
type Result struct {
	ThreadID string               `json:"thread_id"`
	RunID    string               `json:"run_id"`
	Status   domain.RunStatus     `json:"status"`
	Response string               `json:"response"`
	Outcomes []domain.ToolOutcome `json:"outcomes,omitempty"`
}

// Runner owns the busy flag, the only run state it keeps. One run is
// processed at a time; everything else about a run lives on the stack of
// ProcessPrompt.
type Runner struct {
	registry *tool.Registry
	events   sink.Sink
	ids      domain.IDSource
	pacer    Pacer
	log      *slog.Logger

	// The resolver and phraser can be swapped while the runner lives, e.g.
	// when a credential is configured and remote resolution becomes
	// available.
	mu       sync.RWMutex
	resolver intent.Resolver
	phraser  Phraser

	threadID string
	busy     atomic.Bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithIDSource substitutes the correlation ID generator.
func WithIDSource(src domain.IDSource) Option {
	return func(r *Runner) { r.ids = src }
}

// WithPacer substitutes the pause applied between response chunks.
func WithPacer(p Pacer) Option {
	return func(r *Runner) { r.pacer = p }
}

// WithPhraser enables model-backed response phrasing.
func WithPhraser(p Phraser) Option {
	return func(r *Runner) { r.phraser = p }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New creates a Runner. The registry and resolver are required; a nil
// events sink discards the stream.
func New(registry *tool.Registry, resolver intent.Resolver, events sink.Sink, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		resolver: resolver,
		events:   events,
		ids:      domain.UUIDSource{},
		pacer:    FixedPacer{Delay: DefaultChunkDelay},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.events == nil {
		r.events = sink.Func(func(domain.RunEvent) {})
	}
	r.threadID = r.ids.ThreadID()
	return r
}

// ThreadID identifies the conversation this runner threads its runs on.
func (r *Runner) ThreadID() string { return r.threadID }

// Busy reports whether a run is active right now.
func (r *Runner) Busy() bool { return r.busy.Load() }

// SetResolver swaps the intent resolver for subsequent runs.
func (r *Runner) SetResolver(res intent.Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = res
}

// SetPhraser swaps the response phraser for subsequent runs. A nil phraser
// falls back to the template summary.
func (r *Runner) SetPhraser(p Phraser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phraser = p
}

// ProcessPrompt executes one run end to end and returns once the stream
// has ended. While another run is active it emits one custom busy event
// and returns ErrRunActive. Uncaught failures close the stream with
// run_error and run_finished{error}; the busy flag is released no matter
// how the run ends.
func (r *Runner) ProcessPrompt(ctx context.Context, prompt string) (Result, error) {
	if !r.busy.CompareAndSwap(false, true) {
		r.emit(domain.NewCustom(busyMessage))
		return Result{}, ErrRunActive
	}
	defer r.busy.Store(false)

	r.mu.RLock()
	resolver, phraser := r.resolver, r.phraser
	r.mu.RUnlock()

	runID := r.ids.RunID()
	res := Result{ThreadID: r.threadID, RunID: runID}

	r.emit(domain.NewRunStarted(r.threadID, runID))

	if err := r.run(ctx, resolver, phraser, prompt, &res); err != nil {
		r.log.Error("Run failed", "run_id", runID, "error", err)
		r.emit(domain.NewRunError(r.threadID, runID, err.Error(), errorCode(err)))
		r.emit(domain.NewRunFinished(r.threadID, runID, domain.RunErrored))
		res.Status = domain.RunErrored
		return res, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	r.emit(domain.NewRunFinished(r.threadID, runID, domain.RunCompleted))
	res.Status = domain.RunCompleted
	return res, nil
}

// run drives the protocol between run_started and the terminal events. A
// panic anywhere inside is converted to an error so the caller can close
// the stream properly.
func (r *Runner) run(ctx context.Context, resolver intent.Resolver, phraser Phraser, prompt string, res *Result) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	reqs, err := resolver.Resolve(ctx, prompt)
	if err != nil {
		return fmt.Errorf("resolving intent: %w", err)
	}

	outcomes := make([]domain.ToolOutcome, 0, len(reqs))
	for _, req := range reqs {
		outcomes = append(outcomes, r.executeRequest(ctx, req))
	}
	res.Outcomes = outcomes

	response, err := r.respond(ctx, phraser, prompt, outcomes)
	if err != nil {
		return err
	}
	res.Response = response
	return nil
}

// executeRequest runs one tool call and emits its lifecycle events. A
// failed call is recorded in the outcome and the run carries on.
func (r *Runner) executeRequest(ctx context.Context, req domain.ToolRequest) domain.ToolOutcome {
	callID := r.ids.ToolCallID()
	msgID := r.ids.MessageID()
	out := domain.ToolOutcome{Name: req.Name, ToolCallID: callID, MessageID: msgID}

	r.emit(domain.NewToolCallStarted(callID, req.Name, msgID))
	if len(req.Args) > 0 {
		if argsJSON, err := json.Marshal(req.Args); err == nil {
			r.emit(domain.NewToolCallArguments(callID, string(argsJSON)))
		} else {
			r.log.Warn("Dropping unserializable tool arguments", "tool", req.Name, "error", err)
		}
	}

	result, err := r.registry.Execute(ctx, req.Name, req.Args)
	r.emit(domain.NewToolCallEnded(callID))

	var resultJSON string
	if err == nil {
		b, mErr := json.Marshal(result)
		if mErr != nil {
			err = fmt.Errorf("serializing result: %w", mErr)
		} else {
			resultJSON = string(b)
		}
	}
	if err != nil {
		out.Err = err
		r.emit(domain.NewToolCallResult(msgID, callID, failurePayload(err)))
		return out
	}

	out.Result = result
	r.emit(domain.NewToolCallResult(msgID, callID, resultJSON))
	return out
}

// failurePayload is the wire shape of a failed call's result.
func failurePayload(err error) string {
	b, _ := json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, err.Error()})
	return string(b)
}

// emit delivers one event to the sink. A sink panic is contained here so a
// misbehaving consumer cannot break the run.
func (r *Runner) emit(e domain.RunEvent) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Event sink panicked", "type", e.Type, "panic", p)
		}
	}()
	r.events.OnEvent(e)
}

// errorCode maps a run failure to the stable code reported on run_error.
func errorCode(err error) string {
	switch {
	case errors.Is(err, intent.ErrResolverTransport):
		return "resolver_transport"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unhandled_failure"
	}
}
