// Package intent turns a user prompt into an ordered list of tool call
// requests. Two strategies exist: a local rules engine that never fails and
// a remote model-backed resolver, composed by a fallback combinator so
// remote failures degrade silently to local resolution.
package intent

import (
	"context"
	"errors"

	"github.com/relaykit/relaykit/pkg/domain"
)

// Resolver maps a prompt to tool call requests. The returned order is the
// execution order.
type Resolver interface {
	Resolve(ctx context.Context, prompt string) ([]domain.ToolRequest, error)
}

// ErrResolverTransport marks failures to reach or parse the remote
// completion service. Callers composing with a fallback treat it the same
// as any other resolver error.
var ErrResolverTransport = errors.New("intent resolver transport failed")
