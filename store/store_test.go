package store

import (
	"testing"

	"github.com/wellmedai/gateway/domain"
)

func TestSessionStoreGetOrCreateSeedsPersona(t *testing.T) {
	s := NewSessionStore("persona directive")

	sess, created := s.GetOrCreate("s1")
	if !created {
		t.Fatal("expected session to be created")
	}
	if sess.SessionID != "s1" {
		t.Fatalf("unexpected id: %s", sess.SessionID)
	}

	snap := sess.Log.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected one seeded message, got %d", len(snap))
	}
	if snap[0].Role != domain.RoleSystem || snap[0].Kind != domain.KindPersona || snap[0].Content != "persona directive" {
		t.Fatalf("unexpected seed message: %+v", snap[0])
	}

	again, created := s.GetOrCreate("s1")
	if created || again != sess {
		t.Fatal("expected the same session back")
	}
}

func TestSessionStoreGetAbsent(t *testing.T) {
	s := NewSessionStore("p")
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected absent session")
	}
}

func TestSetDocumentContextCreatesAndOverwrites(t *testing.T) {
	s := NewSessionStore("p")

	sess := s.SetDocumentContext("s2", "first text")
	if sess.DocumentContext != "first text" {
		t.Fatalf("unexpected context: %q", sess.DocumentContext)
	}
	if _, ok := s.Get("s2"); !ok {
		t.Fatal("upload should have created the session")
	}

	s.SetDocumentContext("s2", "second text")
	if sess.DocumentContext != "second text" {
		t.Fatalf("context not overwritten: %q", sess.DocumentContext)
	}
}

func TestSetDocumentContextDropsInjectedEntry(t *testing.T) {
	s := NewSessionStore("p")
	sess, _ := s.GetOrCreate("s2")
	sess.Log.InsertAt(1, domain.Message{
		Role: domain.RoleSystem, Kind: domain.KindDocumentContext, Content: "old doc",
	})

	s.SetDocumentContext("s2", "new doc")
	if sess.Log.ContainsKind(domain.KindDocumentContext) {
		t.Fatal("stale injected context survived re-upload")
	}
}
