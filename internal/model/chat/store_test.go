package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/azadmehtiyev/darkai/backend/internal/model/chat"
)

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	store := chat.NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		turn := chat.NewTurn("s1", chat.SenderUser, fmt.Sprintf("msg-%d", i))
		if err := store.Insert(ctx, turn); err != nil {
			t.Fatalf("Insert err: %v", err)
		}
	}

	turns, err := store.Recent(ctx, "s1", 50)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Text != "msg-2" || turns[2].Text != "msg-0" {
		t.Fatalf("expected newest-first order, got %q .. %q", turns[0].Text, turns[2].Text)
	}
}

func TestMemoryStoreRecentCap(t *testing.T) {
	store := chat.NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if err := store.Insert(ctx, chat.NewTurn("s1", chat.SenderUser, fmt.Sprintf("msg-%d", i))); err != nil {
			t.Fatalf("Insert err: %v", err)
		}
	}

	turns, err := store.Recent(ctx, "s1", 50)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(turns) != 50 {
		t.Fatalf("expected 50 turns, got %d", len(turns))
	}
	if turns[0].Text != "msg-59" {
		t.Fatalf("expected newest turn first, got %q", turns[0].Text)
	}
}

func TestMemoryStoreRecentFiltersSession(t *testing.T) {
	store := chat.NewMemoryStore()
	ctx := context.Background()

	_ = store.Insert(ctx, chat.NewTurn("s1", chat.SenderUser, "one"))
	_ = store.Insert(ctx, chat.NewTurn("s2", chat.SenderUser, "two"))
	_ = store.Insert(ctx, chat.NewTurn("s1", chat.SenderAssistant, "three"))

	turns, err := store.Recent(ctx, "s1", 50)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns for s1, got %d", len(turns))
	}
	for _, turn := range turns {
		if turn.SessionID != "s1" {
			t.Fatalf("unexpected session %q in result", turn.SessionID)
		}
	}

	all, err := store.Recent(ctx, "", 50)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 turns without filter, got %d", len(all))
	}
}

func TestMemoryStoreMarkAudioOnce(t *testing.T) {
	store := chat.NewMemoryStore()
	ctx := context.Background()

	turn := chat.NewTurn("s1", chat.SenderAssistant, "hello")
	if err := store.Insert(ctx, turn); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	if err := store.MarkAudio(ctx, turn.ID, "data:audio/mpeg;base64,AAAA"); err != nil {
		t.Fatalf("MarkAudio err: %v", err)
	}

	turns, _ := store.Recent(ctx, "s1", 1)
	if !turns[0].HasAudio || turns[0].AudioURL == "" {
		t.Fatalf("expected audio fields set, got %+v", turns[0])
	}

	if err := store.MarkAudio(ctx, turn.ID, "data:audio/mpeg;base64,BBBB"); err == nil {
		t.Fatal("expected error marking audio twice")
	}
	if err := store.MarkAudio(ctx, "missing", "x"); err == nil {
		t.Fatal("expected error for unknown turn")
	}
}
