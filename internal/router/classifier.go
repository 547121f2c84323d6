// Package router implements the classify, fan-out, synthesize pipeline: one
// structured model call splits a query across specialized workers, the
// dispatcher runs them concurrently, and the synthesizer merges their outputs
// into one answer.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhr613/Location-QA-Assistant/internal/llm"
	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

// ClassificationError reports a model classification that violates the
// schema. Fatal to the request; never retried.
type ClassificationError struct {
	Reason string
}

func (e *ClassificationError) Error() string {
	return "classification: " + e.Reason
}

// StructuredCompleter executes one schema-constrained model call.
// *llm.Client satisfies it.
type StructuredCompleter interface {
	Structured(ctx context.Context, req llm.StructuredRequest) (json.RawMessage, error)
}

const classifierInstruction = `你是问题分类器。把用户的出行问题拆分到合适的查询助手：
- place_lookup: 查找店铺、景点、设施等地点信息
- route_planner: 规划两地之间的出行路线
一个问题可能只需要其中一个助手，也可能两个都需要。为每个助手改写出只包含它负责部分的子问题。与地点或路线无关的问题返回空列表。`

// Classifier maps a raw query to zero or more worker assignments.
type Classifier struct {
	model StructuredCompleter
}

// NewClassifier creates a classifier backed by the given model.
func NewClassifier(model StructuredCompleter) *Classifier {
	return &Classifier{model: model}
}

// Classify produces the worker assignments for one query. A blank query
// short-circuits to an empty list without a model call.
func (c *Classifier) Classify(ctx context.Context, query string) ([]models.Classification, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	raw, err := c.model.Structured(ctx, llm.StructuredRequest{
		Instruction:     classifierInstruction,
		UserText:        query,
		ToolName:        "record_classifications",
		ToolDescription: "记录每个查询助手应处理的子问题",
		Properties: map[string]interface{}{
			"classifications": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"source": map[string]interface{}{
							"type": "string",
							"enum": []string{string(models.WorkerPlace), string(models.WorkerRoute)},
						},
						"query": map[string]interface{}{"type": "string"},
					},
					"required": []string{"source", "query"},
				},
			},
		},
		Required: []string{"classifications"},
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	var decoded struct {
		Classifications []models.Classification `json:"classifications"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ClassificationError{Reason: fmt.Sprintf("unparseable model output: %v", err)}
	}
	for _, cl := range decoded.Classifications {
		if !cl.Source.Valid() {
			return nil, &ClassificationError{Reason: fmt.Sprintf("unknown worker kind %q", cl.Source)}
		}
	}
	return decoded.Classifications, nil
}
