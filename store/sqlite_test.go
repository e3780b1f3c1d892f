package store

import (
	"context"
	"testing"
	"time"

	"github.com/wellmedai/gateway/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreSessionAndMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateSession(ctx, "s1", time.Now()); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	// Replaying the mirror must not error.
	if err := store.CreateSession(ctx, "s1", time.Now()); err != nil {
		t.Fatalf("repeated CreateSession failed: %v", err)
	}

	base := time.Now()
	msgs := []domain.Message{
		{MessageID: "m1", Role: domain.RoleSystem, Kind: domain.KindPersona, Content: "persona", CreatedAt: base},
		{MessageID: "m2", Role: domain.RoleUser, Kind: domain.KindTurn, Content: "I have a fever", CreatedAt: base.Add(time.Second)},
		{MessageID: "m3", Role: domain.RoleAssistant, Kind: domain.KindTurn, Content: "reply", CreatedAt: base.Add(2 * time.Second)},
	}
	for i := range msgs {
		if err := store.CreateMessage(ctx, "s1", &msgs[i]); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	got, err := store.GetMessages(ctx, "s1", 10, "")
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	if got[0].Kind != domain.KindPersona || got[1].Role != domain.RoleUser || got[2].Role != domain.RoleAssistant {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestSQLiteStoreGetMessagesLimitAndCursor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateSession(ctx, "s1", time.Now()); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	base := time.Now()
	for i, id := range []string{"m1", "m2", "m3"} {
		msg := domain.Message{
			MessageID: id,
			Role:      domain.RoleUser,
			Kind:      domain.KindTurn,
			Content:   "hello",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateMessage(ctx, "s1", &msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	limited, err := store.GetMessages(ctx, "s1", 2, "")
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(limited))
	}

	before, err := store.GetMessages(ctx, "s1", 10, "m3")
	if err != nil {
		t.Fatalf("GetMessages with cursor failed: %v", err)
	}
	if len(before) != 2 || before[len(before)-1].MessageID != "m2" {
		t.Fatalf("unexpected cursor page: %+v", before)
	}
}

func TestSQLiteStoreUnknownSessionEmpty(t *testing.T) {
	store := newTestStore(t)
	got, err := store.GetMessages(context.Background(), "nope", 10, "")
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no messages, got %d", len(got))
	}
}
