package llm

import (
	"testing"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
)

func TestTurn_Terminal(t *testing.T) {
	terminal := &Turn{Text: "done"}
	if !terminal.Terminal() {
		t.Error("turn with no calls: Terminal() = false, want true")
	}

	pending := &Turn{Calls: []CallRequest{{ID: "c1", Name: "district_search"}}}
	if pending.Terminal() {
		t.Error("turn with calls: Terminal() = true, want false")
	}
}

func TestHistoryParams_BatchesToolResults(t *testing.T) {
	history := []conv.Message{
		conv.NewUserMessage("query"),
		conv.NewAssistantMessage("", conv.ToolCall{ID: "c1", Name: "a"}, conv.ToolCall{ID: "c2", Name: "b"}),
		conv.NewToolResult("c1", "r1", false),
		conv.NewToolResult("c2", "r2", true),
	}

	params := historyParams(history)

	// user, assistant, then one user message carrying both tool results
	if len(params) != 3 {
		t.Fatalf("historyParams length = %d, want 3", len(params))
	}
	if len(params[2].Content) != 2 {
		t.Errorf("final user message blocks = %d, want 2 tool results", len(params[2].Content))
	}
}

func TestHistoryParams_FlushesBeforeNextUserTurn(t *testing.T) {
	history := []conv.Message{
		conv.NewUserMessage("q1"),
		conv.NewAssistantMessage("", conv.ToolCall{ID: "c1", Name: "a"}),
		conv.NewToolResult("c1", "r1", false),
		conv.NewUserMessage("q2"),
	}

	params := historyParams(history)

	if len(params) != 4 {
		t.Fatalf("historyParams length = %d, want 4", len(params))
	}
}

func TestHistoryParams_SkipsEmptyAssistant(t *testing.T) {
	history := []conv.Message{
		conv.NewUserMessage("q"),
		conv.NewAssistantMessage(""),
	}

	params := historyParams(history)

	if len(params) != 1 {
		t.Fatalf("historyParams length = %d, want 1 (empty assistant dropped)", len(params))
	}
}

func TestResolveMaxTokens(t *testing.T) {
	tests := []struct {
		name   string
		req    int64
		client int64
		want   int64
	}{
		{"request overrides", 1024, 4096, 1024},
		{"client default", 0, 4096, 4096},
		{"built-in fallback", 0, 0, 8192},
	}
	for _, tt := range tests {
		if got := resolveMaxTokens(tt.req, tt.client); got != tt.want {
			t.Errorf("%s: resolveMaxTokens(%d, %d) = %d, want %d", tt.name, tt.req, tt.client, got, tt.want)
		}
	}
}

func TestTokenTracker_Cost(t *testing.T) {
	tr := NewTokenTracker()
	tr.Add(1_000_000, 100_000)

	// $3/1M input + $15/1M output
	if got := tr.Cost(); got != 4.5 {
		t.Errorf("Cost() = %v, want 4.5", got)
	}
}

func TestTokenTracker(t *testing.T) {
	tr := NewTokenTracker()
	tr.Add(100, 50)
	tr.Add(200, 25)

	in, out := tr.Total()
	if in != 300 || out != 75 {
		t.Errorf("Total() = (%d, %d), want (300, 75)", in, out)
	}
	if tr.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tr.Calls())
	}

	tr.Reset()
	in, out = tr.Total()
	if in != 0 || out != 0 {
		t.Errorf("after Reset, Total() = (%d, %d), want (0, 0)", in, out)
	}
}
