package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// StructuredRequest asks the model to emit a single object conforming to a
// schema, implemented as a forced tool call. The returned value is the raw
// argument object of that call.
type StructuredRequest struct {
	Instruction string
	UserText    string
	// ToolName identifies the schema tool the model is forced to call.
	ToolName        string
	ToolDescription string
	Properties      map[string]interface{}
	Required        []string
}

// Structured executes a single schema-constrained model call.
func (c *Client) Structured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	resp, err := c.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: req.Instruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserText)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        req.ToolName,
					Description: anthropic.String(req.ToolDescription),
					InputSchema: anthropic.ToolInputSchemaParam{
						Properties: req.Properties,
						Required:   req.Required,
					},
				},
			},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.ToolName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("structured call: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.ToolUseBlock); ok && variant.Name == req.ToolName {
			return json.RawMessage(variant.Input), nil
		}
	}
	return nil, fmt.Errorf("structured call: model returned no %s invocation", req.ToolName)
}
