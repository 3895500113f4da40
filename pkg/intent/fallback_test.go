package intent_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/intent"
)

type stubResolver struct {
	reqs  []domain.ToolRequest
	err   error
	calls int
}

func (s *stubResolver) Resolve(context.Context, string) ([]domain.ToolRequest, error) {
	s.calls++
	return s.reqs, s.err
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &stubResolver{reqs: []domain.ToolRequest{{Name: "getPortfolio"}}}
	standby := &stubResolver{reqs: []domain.ToolRequest{{Name: "somethingElse"}}}

	f := intent.NewFallback(primary, standby, slog.New(slog.DiscardHandler))
	reqs, err := f.Resolve(context.Background(), "show my portfolio")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Name != "getPortfolio" {
		t.Errorf("Resolve = %#v", reqs)
	}
	if standby.calls != 0 {
		t.Errorf("standby called %d times, want 0", standby.calls)
	}
}

func TestFallbackOnPrimaryFailure(t *testing.T) {
	primary := &stubResolver{err: intent.ErrResolverTransport}
	standby := &stubResolver{reqs: []domain.ToolRequest{{Name: "getPortfolio"}}}

	var logBuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logBuf, nil))

	f := intent.NewFallback(primary, standby, log)
	reqs, err := f.Resolve(context.Background(), "show my portfolio")
	if err != nil {
		t.Fatalf("Resolve surfaced the primary failure: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Name != "getPortfolio" {
		t.Errorf("Resolve = %#v", reqs)
	}
	if standby.calls != 1 {
		t.Errorf("standby called %d times, want 1", standby.calls)
	}
	if !strings.Contains(logBuf.String(), "fallback") {
		t.Errorf("diagnostics log missing fallback notice: %s", logBuf.String())
	}
}

func TestFallbackSurfacesStandbyError(t *testing.T) {
	wantErr := errors.New("standby also down")
	primary := &stubResolver{err: errors.New("primary down")}
	standby := &stubResolver{err: wantErr}

	f := intent.NewFallback(primary, standby, slog.New(slog.DiscardHandler))
	_, err := f.Resolve(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve error = %v, want standby's", err)
	}
}
