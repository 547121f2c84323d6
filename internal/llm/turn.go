package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
)

// CallRequest is one capability invocation requested by a model turn.
type CallRequest struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Turn is the outcome of one model turn: either a terminal assistant message
// (no calls) or one or more capability-call requests to execute before the
// next turn.
type Turn struct {
	Text  string
	Calls []CallRequest
}

// Terminal reports whether the turn requested no capability calls.
func (t *Turn) Terminal() bool {
	return len(t.Calls) == 0
}

// TurnRequest describes one model turn: the active instruction, the exact
// capability set visible to the model, and the thread history so far.
type TurnRequest struct {
	Instruction string
	Tools       []anthropic.ToolUnionParam
	History     []conv.Message
	// MaxTokens caps the response size. Zero means the client's default.
	MaxTokens int64
}

// Complete executes a single model turn.
func (c *Client) Complete(ctx context.Context, req TurnRequest) (*Turn, error) {
	resp, err := c.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: resolveMaxTokens(req.MaxTokens, c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.Instruction},
		},
		Messages: historyParams(req.History),
		Tools:    req.Tools,
	})
	if err != nil {
		return nil, fmt.Errorf("model turn: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	turn := &Turn{}
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			turn.Text += variant.Text
		case anthropic.ToolUseBlock:
			turn.Calls = append(turn.Calls, CallRequest{
				ID:    variant.ID,
				Name:  variant.Name,
				Input: json.RawMessage(variant.Input),
			})
		}
	}
	return turn, nil
}

// resolveMaxTokens picks the response cap: the request's override, then the
// client's configured default, then 8192.
func resolveMaxTokens(reqTokens, clientTokens int64) int64 {
	if reqTokens > 0 {
		return reqTokens
	}
	if clientTokens > 0 {
		return clientTokens
	}
	return 8192
}

// historyParams converts thread history to Anthropic message params.
// Consecutive capability-result turns are batched into the single user
// message the API expects after an assistant turn with tool use.
func historyParams(history []conv.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	var pendingResults []anthropic.ContentBlockParamUnion

	flushResults := func() {
		if len(pendingResults) > 0 {
			out = append(out, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, m := range history {
		switch m.Role {
		case conv.RoleUser:
			flushResults()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))

		case conv.RoleAssistant:
			flushResults()
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, call := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Input, call.Name))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}

		case conv.RoleTool:
			pendingResults = append(pendingResults,
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, m.IsError))
		}
	}
	flushResults()
	return out
}
