package memory

import (
	"context"
	"testing"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	store := New(0)
	ctx := context.Background()

	access, err := store.Load(ctx)
	if err != nil || access != "" {
		t.Fatalf("expected absence on fresh store, got %q err=%v", access, err)
	}

	if err := store.Save(ctx, domain.TokenPair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	access, _ = store.Load(ctx)
	if access != "a" {
		t.Fatalf("expected %q, got %q", "a", access)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	access, _ = store.Load(ctx)
	if access != "" {
		t.Fatalf("expected absence after clear, got %q", access)
	}

	// Clear on an empty store is a no-op, not an error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}
