package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/relaykit/relaykit/pkg/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir() + "/settings.db")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, store.KeyProvider, "openai"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, store.KeyProvider)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "openai" {
		t.Errorf("Get = %q, want %q", got, "openai")
	}

	// Set on an existing key replaces the value.
	if err := s.Set(ctx, store.KeyProvider, "gemini"); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	got, _ = s.Get(ctx, store.KeyProvider)
	if got != "gemini" {
		t.Errorf("after replace: Get = %q, want %q", got, "gemini")
	}

	if err := s.Set(ctx, store.KeyGeminiKey, "secret"); err != nil {
		t.Fatalf("Set second key: %v", err)
	}
	values, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("List len = %d, want 2", len(values))
	}
	if values[store.KeyGeminiKey] != "secret" {
		t.Errorf("List[%s] = %q, want %q", store.KeyGeminiKey, values[store.KeyGeminiKey], "secret")
	}

	if err := s.Delete(ctx, store.KeyProvider); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, store.KeyProvider); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "never.set")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestDeleteAbsentKey(t *testing.T) {
	s := newTestStore(t)

	if err := s.Delete(context.Background(), "never.set"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := t.TempDir() + "/settings.db"
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Set(ctx, store.KeyOpenAIModel, "gpt-4o-mini"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, store.KeyOpenAIModel)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got != "gpt-4o-mini" {
		t.Errorf("Get = %q, want %q", got, "gpt-4o-mini")
	}
}
