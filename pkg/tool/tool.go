// Package tool holds the registry of invocable tools and their static
// parameter declarations.
package tool

import (
	"context"
	"errors"
	"fmt"
)

// Handler executes a tool. Args may be nil when the caller supplied no
// arguments. The returned value must be JSON-marshalable.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool couples a name and free-text description with an executable handler
// and an optional parameter declaration. The declaration, not the
// description, is what model providers receive as the callable schema.
type Tool struct {
	Name        string
	Description string
	Params      *Params
	Handler     Handler
}

// Descriptor is the read-only view of a registered tool.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      *Params `json:"params,omitempty"`
}

var (
	// ErrInvalidTool rejects a registration with no name or no handler.
	ErrInvalidTool = errors.New("invalid tool definition")
	// ErrToolNotFound reports a lookup or execution of an unregistered name.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolFailed marks handler failures. Execution errors unwrap to both
	// this sentinel and the handler's own error.
	ErrToolFailed = errors.New("tool execution failed")
)

// ExecutionError wraps a handler failure with the tool's name.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrToolFailed) match without severing the cause chain.
func (e *ExecutionError) Is(target error) bool { return target == ErrToolFailed }
