// Package handoff implements the stage-gated controllers: one conversational
// loop whose instruction and capability set are swapped per stage, with
// transitions requested only through capability invocations. Three variants
// share the discipline: explicit stage jumps, workers fused into transition
// capabilities, and full control transfer between sibling graph nodes.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
)

// Stage is a named point in a controller's state machine.
type Stage string

// StageConfig fixes one stage's instruction and visible capability set.
// Targets declares every stage a transition capability in this set may move
// to; the controller validates them all at construction.
type StageConfig struct {
	Instruction  string
	Capabilities *capability.Set
	Targets      []Stage
}

// UnknownStageError reports a current stage with no configuration. Indicates
// a wiring bug; fatal, never user-recoverable.
type UnknownStageError struct {
	Stage Stage
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("no configuration for stage %q", e.Stage)
}

// Completer executes one model turn. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.TurnRequest) (*llm.Turn, error)
}

// Transition builds a capability whose only effect is moving the controller
// to the target stage in the same turn.
func Transition(name, description string, target Stage) capability.Capability {
	return capability.New(capability.Spec{
		Name:        name,
		Description: description,
		Properties: map[string]interface{}{
			"reason": map[string]interface{}{
				"type":        "string",
				"description": "切换阶段的原因",
			},
		},
	}, func(_ context.Context, _ json.RawMessage) (capability.Result, error) {
		return capability.Result{
			Content:   fmt.Sprintf("已切换到 %s 阶段。", target),
			Directive: &capability.Directive{SetStage: string(target)},
		}, nil
	})
}

// Transfer builds a capability that hands control to a sibling graph node.
// The enclosing scheduler, not this node's loop, acts on it.
func Transfer(name, description string, target Stage) capability.Capability {
	return capability.New(capability.Spec{
		Name:        name,
		Description: description,
		Properties: map[string]interface{}{
			"reason": map[string]interface{}{
				"type":        "string",
				"description": "转交任务的原因",
			},
		},
	}, func(_ context.Context, _ json.RawMessage) (capability.Result, error) {
		return capability.Result{
			Content:   fmt.Sprintf("已将任务转交给 %s。", target),
			Directive: &capability.Directive{TransferTo: string(target)},
		}, nil
	})
}

// instructionVars are the placeholders a stage instruction template may use.
type instructionVars struct {
	Position string
	Skill    string
	Query    string
}

func formatInstruction(template string, vars instructionVars) string {
	position := vars.Position
	if position == "" {
		position = "未知"
	}
	return strings.NewReplacer(
		"{position}", position,
		"{skill}", vars.Skill,
		"{query}", vars.Query,
	).Replace(template)
}
