package ai

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestSessionHistoryWindow(t *testing.T) {
	svc := &Service{history: make(map[string][]*schema.Message)}

	for i := 0; i < 12; i++ {
		svc.remember("s1",
			schema.UserMessage(fmt.Sprintf("q-%d", i)),
			schema.AssistantMessage(fmt.Sprintf("a-%d", i), nil),
		)
	}

	got := svc.snapshot("s1")
	if len(got) != historyWindow {
		t.Fatalf("expected %d messages, got %d", historyWindow, len(got))
	}
	if got[len(got)-1].Content != "a-11" {
		t.Fatalf("expected latest reply retained, got %q", got[len(got)-1].Content)
	}
}

func TestSessionHistoryIsolation(t *testing.T) {
	svc := &Service{history: make(map[string][]*schema.Message)}

	svc.remember("s1", schema.UserMessage("hello"))

	if got := svc.snapshot("s2"); got != nil {
		t.Fatalf("expected empty context for unrelated session, got %d messages", len(got))
	}
	if got := svc.snapshot("s1"); len(got) != 1 {
		t.Fatalf("expected 1 message for s1, got %d", len(got))
	}
}
