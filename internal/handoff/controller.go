package handoff

import (
	"context"
	"fmt"

	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
	"github.com/dhr613/Location-QA-Assistant/internal/progress"
)

// ControllerConfig wires one stage-gated controller.
type ControllerConfig struct {
	Stages map[Stage]StageConfig
	Entry  Stage
	// MaxTurns bounds one Run call. Zero means the default (16).
	MaxTurns int
	// Emit receives a node event after every completed turn. Optional.
	Emit func(progress.NodeEvent)
}

// Controller drives the stage-gated conversational loop shared by the
// stage-jump and worker-delegation variants.
type Controller struct {
	model Completer
	cfg   ControllerConfig
}

// NewController validates the stage table and builds a controller. Every
// declared transition target must be mapped, and the entry stage must exist;
// a miss fails construction rather than a later turn.
func NewController(model Completer, cfg ControllerConfig) (*Controller, error) {
	if _, ok := cfg.Stages[cfg.Entry]; !ok {
		return nil, &UnknownStageError{Stage: cfg.Entry}
	}
	for stage, sc := range cfg.Stages {
		for _, target := range sc.Targets {
			if _, ok := cfg.Stages[target]; !ok {
				return nil, fmt.Errorf("stage %q declares transition to unmapped stage: %w",
					stage, &UnknownStageError{Stage: target})
			}
		}
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 16
	}
	if cfg.Emit == nil {
		cfg.Emit = func(progress.NodeEvent) {}
	}
	return &Controller{model: model, cfg: cfg}, nil
}

// Run processes one user query on the thread state, looping turns until the
// model answers without capability calls. The stage persists on the state
// across Run calls.
func (c *Controller) Run(ctx context.Context, state *conv.State, query string) (string, error) {
	state.Query = query
	state.Append(conv.NewUserMessage(query))
	if state.Stage == "" {
		state.Stage = string(c.cfg.Entry)
	}

	for turn := 0; turn < c.cfg.MaxTurns; turn++ {
		sc, ok := c.cfg.Stages[Stage(state.Stage)]
		if !ok {
			return "", &UnknownStageError{Stage: Stage(state.Stage)}
		}

		instruction := formatInstruction(sc.Instruction, instructionVars{
			Position: state.Position,
			Skill:    state.Skill,
			Query:    state.Query,
		})
		t, err := c.model.Complete(ctx, llm.TurnRequest{
			Instruction: instruction,
			Tools:       sc.Capabilities.ToolParams(),
			History:     state.Messages,
		})
		if err != nil {
			return "", err
		}

		if t.Terminal() {
			state.FinalAnswer = t.Text
			state.Append(conv.NewAssistantMessage(t.Text))
			c.cfg.Emit(progress.NodeEvent{Node: state.Stage, State: state.Clone()})
			return t.Text, nil
		}

		applyTurn(ctx, state, sc.Capabilities, t)
		c.cfg.Emit(progress.NodeEvent{Node: state.Stage, State: state.Clone()})
	}

	return "", fmt.Errorf("controller: turn budget (%d) exhausted", c.cfg.MaxTurns)
}

// applyTurn appends the assistant turn, invokes its capability calls against
// the stage's set, and applies any directives atomically with the result
// append, so the next turn already sees the new stage, skill, and position.
func applyTurn(ctx context.Context, state *conv.State, caps *capability.Set, t *llm.Turn) {
	calls := make([]conv.ToolCall, len(t.Calls))
	for i, call := range t.Calls {
		calls[i] = conv.ToolCall{ID: call.ID, Name: call.Name, Input: call.Input}
	}
	state.Append(conv.NewAssistantMessage(t.Text, calls...))

	for _, call := range t.Calls {
		cap, ok := caps.Get(call.Name)
		if !ok {
			state.Append(conv.NewToolResult(call.ID,
				fmt.Sprintf("当前阶段不允许调用 %s。", call.Name), true))
			continue
		}

		result, err := cap.Invoke(ctx, call.Input)
		if err != nil {
			state.Append(conv.NewToolResult(call.ID,
				fmt.Sprintf("调用失败: %v。请调整参数后重试，例如使用更完整的地点名称。", err), true))
			continue
		}

		state.Append(conv.NewToolResult(call.ID, result.Content, false))
		applyDirective(state, result.Directive)
	}
}

func applyDirective(state *conv.State, d *capability.Directive) {
	if d == nil {
		return
	}
	if d.SetStage != "" {
		state.Stage = d.SetStage
	}
	if d.SetSkill != "" {
		state.Skill = d.SetSkill
	}
	if d.SetPosition != "" {
		state.Position = d.SetPosition
	}
	if d.TransferTo != "" {
		state.Stage = d.TransferTo
	}
}
