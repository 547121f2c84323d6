package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dhr613/Location-QA-Assistant/internal/capability"
)

// AsCapability wraps a runner as a single named capability: invoking it runs
// the whole sub-conversation and returns the last assistant message as the
// result text. stage, when non-empty, is attached as a stage directive so a
// controller switching to the wrapped worker records the transition in the
// same turn.
func AsCapability(name, description, stage string, r *Runner) capability.Capability {
	return capability.New(capability.Spec{
		Name:        name,
		Description: description,
		Properties: map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "交给该助手处理的完整子任务描述",
			},
		},
		Required: []string{"query"},
	}, func(ctx context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, fmt.Errorf("decode query: %w", err)
		}

		text, err := r.Run(ctx, args.Query)
		if err != nil {
			return capability.Result{}, err
		}

		result := capability.Result{Content: text}
		if stage != "" {
			result.Directive = &capability.Directive{SetStage: stage}
		}
		return result, nil
	})
}
