package injector

import (
	"strings"
	"testing"

	"github.com/wellmedai/gateway/domain"
)

func newLog(extra ...domain.Message) *domain.MessageLog {
	seed := []domain.Message{{Role: domain.RoleSystem, Kind: domain.KindPersona, Content: "persona"}}
	return domain.NewMessageLog(append(seed, extra...)...)
}

func TestEnsureInjectedEmptyTextIsNoop(t *testing.T) {
	l := newLog()
	New(0).EnsureInjected(l, "")
	if l.Len() != 1 {
		t.Fatalf("expected untouched log, got %d messages", l.Len())
	}
}

func TestEnsureInjectedPosition(t *testing.T) {
	l := newLog(
		domain.Message{Role: domain.RoleUser, Kind: domain.KindTurn, Content: "q"},
		domain.Message{Role: domain.RoleAssistant, Kind: domain.KindTurn, Content: "a"},
	)
	New(0).EnsureInjected(l, "Patient BP: 140/90")

	snap := l.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(snap))
	}
	if snap[0].Kind != domain.KindPersona {
		t.Fatalf("persona displaced: %+v", snap[0])
	}
	ctx := snap[1]
	if ctx.Kind != domain.KindDocumentContext || ctx.Role != domain.RoleSystem {
		t.Fatalf("unexpected context entry: %+v", ctx)
	}
	if !strings.HasPrefix(ctx.Content, Preamble) || !strings.Contains(ctx.Content, "140/90") {
		t.Fatalf("unexpected context content: %q", ctx.Content)
	}
	if snap[2].Content != "q" || snap[3].Content != "a" {
		t.Fatalf("existing turns reordered: %+v", snap)
	}
}

func TestEnsureInjectedIdempotent(t *testing.T) {
	l := newLog()
	in := New(0)
	for i := 0; i < 5; i++ {
		in.EnsureInjected(l, "doc text")
	}
	count := 0
	for _, m := range l.Snapshot() {
		if m.Kind == domain.KindDocumentContext {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one context entry, got %d", count)
	}
}

func TestEnsureInjectedTruncates(t *testing.T) {
	l := newLog()
	New(10).EnsureInjected(l, strings.Repeat("x", 100))

	content := l.Snapshot()[1].Content
	if got := strings.TrimPrefix(content, Preamble); len(got) != 10 {
		t.Fatalf("expected 10 chars of document text, got %d", len(got))
	}
}

func TestEnsureInjectedTruncatesOnRuneBoundary(t *testing.T) {
	l := newLog()
	New(3).EnsureInjected(l, "日本語テキスト")

	got := strings.TrimPrefix(l.Snapshot()[1].Content, Preamble)
	if got != "日本語" {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}
