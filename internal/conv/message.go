// Package conv defines the conversation state shared by all controllers:
// identified turns, merge-by-ID append semantics, and the per-thread state
// record that stage-gated controllers and the router pipeline mutate.
package conv

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool is a capability-result turn. It always follows the assistant
	// turn that requested the call.
	RoleTool Role = "tool"
)

// ToolCall is a capability invocation requested by an assistant turn.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// Message is one turn in a conversation thread.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// ToolCalls is set on assistant turns that request capability calls.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID links a tool turn back to the call that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// IsError marks a tool turn carrying a capability failure the model
	// should self-correct from.
	IsError bool `json:"is_error,omitempty"`
}

// NewUserMessage creates a user turn with a fresh identity.
func NewUserMessage(content string) Message {
	return Message{ID: uuid.New().String(), Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant turn with a fresh identity.
func NewAssistantMessage(content string, calls ...ToolCall) Message {
	return Message{ID: uuid.New().String(), Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// NewToolResult creates a capability-result turn for the given call ID.
func NewToolResult(callID, content string, isError bool) Message {
	return Message{ID: uuid.New().String(), Role: RoleTool, Content: content, ToolCallID: callID, IsError: isError}
}

// Merge appends msgs to history. A message whose ID matches an existing one
// replaces it in place; all others are appended in order. The input slice is
// not mutated.
func Merge(history []Message, msgs ...Message) []Message {
	merged := make([]Message, len(history), len(history)+len(msgs))
	copy(merged, history)

	index := make(map[string]int, len(merged))
	for i, m := range merged {
		index[m.ID] = i
	}

	for _, m := range msgs {
		if i, ok := index[m.ID]; ok {
			merged[i] = m
			continue
		}
		index[m.ID] = len(merged)
		merged = append(merged, m)
	}
	return merged
}

// LastAssistant returns the most recent assistant turn, if any.
func LastAssistant(history []Message) (Message, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleAssistant {
			return history[i], true
		}
	}
	return Message{}, false
}
