package conv

import (
	"testing"
)

func TestMerge_AppendsNewMessages(t *testing.T) {
	history := []Message{NewUserMessage("hello")}
	reply := NewAssistantMessage("hi")

	merged := Merge(history, reply)

	if len(merged) != 2 {
		t.Fatalf("Merge length = %d, want 2", len(merged))
	}
	if merged[1].ID != reply.ID {
		t.Errorf("appended message ID = %q, want %q", merged[1].ID, reply.ID)
	}
}

func TestMerge_ReplacesByIDInPlace(t *testing.T) {
	first := NewUserMessage("hello")
	second := NewAssistantMessage("draft")
	history := []Message{first, second}

	updated := second
	updated.Content = "final"

	merged := Merge(history, updated)

	if len(merged) != 2 {
		t.Fatalf("Merge length = %d, want 2", len(merged))
	}
	if merged[1].Content != "final" {
		t.Errorf("replaced content = %q, want %q", merged[1].Content, "final")
	}
	if merged[0].ID != first.ID {
		t.Errorf("untouched message moved: got ID %q at index 0, want %q", merged[0].ID, first.ID)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	first := NewUserMessage("hello")
	history := []Message{first}

	updated := first
	updated.Content = "changed"
	Merge(history, updated, NewAssistantMessage("extra"))

	if history[0].Content != "hello" {
		t.Errorf("input history mutated: content = %q", history[0].Content)
	}
	if len(history) != 1 {
		t.Errorf("input history length = %d, want 1", len(history))
	}
}

func TestMerge_ToolResultFollowsAssistant(t *testing.T) {
	call := ToolCall{ID: "call_1", Name: "district_search"}
	assistant := NewAssistantMessage("", call)
	result := NewToolResult(call.ID, "three results", false)

	merged := Merge([]Message{NewUserMessage("q")}, assistant, result)

	if merged[1].Role != RoleAssistant || merged[2].Role != RoleTool {
		t.Fatalf("turn order = [%s %s %s], want [user assistant tool]",
			merged[0].Role, merged[1].Role, merged[2].Role)
	}
	if merged[2].ToolCallID != call.ID {
		t.Errorf("tool result call ID = %q, want %q", merged[2].ToolCallID, call.ID)
	}
}

func TestLastAssistant(t *testing.T) {
	a1 := NewAssistantMessage("first")
	a2 := NewAssistantMessage("second")
	history := []Message{NewUserMessage("q"), a1, NewToolResult("c", "r", false), a2}

	got, ok := LastAssistant(history)
	if !ok {
		t.Fatal("LastAssistant returned ok = false")
	}
	if got.ID != a2.ID {
		t.Errorf("LastAssistant ID = %q, want %q", got.ID, a2.ID)
	}

	if _, ok := LastAssistant([]Message{NewUserMessage("q")}); ok {
		t.Error("LastAssistant on user-only history returned ok = true")
	}
}

func TestState_CloneIsDeep(t *testing.T) {
	st := NewState()
	st.Query = "hotpot near Wuhou"
	st.Append(NewUserMessage("hi"))

	dup := st.Clone()
	dup.Append(NewAssistantMessage("reply"))
	dup.Messages[0].Content = "changed"

	if len(st.Messages) != 1 {
		t.Errorf("original message count = %d, want 1", len(st.Messages))
	}
	if st.Messages[0].Content != "hi" {
		t.Errorf("original message content = %q, want %q", st.Messages[0].Content, "hi")
	}
}
