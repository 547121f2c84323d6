// Package worker runs bounded sub-conversations: a fixed instruction, a fixed
// capability set, a fresh private history per run, and a turn budget. A runner
// can itself be wrapped as a capability, which is how stage controllers fuse
// "jump to X" with invoking X's whole sub-conversation.
package worker

import (
	"context"
	"fmt"

	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
)

// Completer executes one model turn. *llm.Client satisfies it; tests swap in
// scripted fakes.
type Completer interface {
	Complete(ctx context.Context, req llm.TurnRequest) (*llm.Turn, error)
}

// Config describes one worker: its instruction, the only capabilities it may
// call, and its error policy.
type Config struct {
	Name         string
	Instruction  string
	Capabilities *capability.Set
	// MaxTurns bounds the sub-conversation. Zero means the default (8).
	MaxTurns int
	// SelfCorrect surfaces capability failures to the model as error results
	// so it can retry with adjusted arguments. When false, the first failure
	// aborts the run.
	SelfCorrect bool
}

// Runner drives one worker's sub-conversation to completion.
type Runner struct {
	model Completer
	cfg   Config
}

// NewRunner creates a runner for the given worker config.
func NewRunner(model Completer, cfg Config) *Runner {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 8
	}
	if cfg.Capabilities == nil {
		cfg.Capabilities = capability.NewSet()
	}
	return &Runner{model: model, cfg: cfg}
}

// Name returns the worker name.
func (r *Runner) Name() string {
	return r.cfg.Name
}

// Run executes the sub-conversation for one query and returns the final
// assistant text. The history is private to the run; nothing leaks between
// invocations.
func (r *Runner) Run(ctx context.Context, query string) (string, error) {
	history := []conv.Message{conv.NewUserMessage(query)}
	lastText := ""

	for turn := 0; turn < r.cfg.MaxTurns; turn++ {
		t, err := r.model.Complete(ctx, llm.TurnRequest{
			Instruction: r.cfg.Instruction,
			Tools:       r.cfg.Capabilities.ToolParams(),
			History:     history,
		})
		if err != nil {
			return "", fmt.Errorf("worker %s: %w", r.cfg.Name, err)
		}
		if t.Text != "" {
			lastText = t.Text
		}
		if t.Terminal() {
			return t.Text, nil
		}

		calls := make([]conv.ToolCall, len(t.Calls))
		for i, c := range t.Calls {
			calls[i] = conv.ToolCall{ID: c.ID, Name: c.Name, Input: c.Input}
		}
		history = conv.Merge(history, conv.NewAssistantMessage(t.Text, calls...))

		for _, call := range t.Calls {
			result, err := r.invoke(ctx, call)
			if err != nil {
				return "", err
			}
			history = conv.Merge(history, result)
		}
	}

	return lastText, fmt.Errorf("worker %s: turn budget (%d) exhausted", r.cfg.Name, r.cfg.MaxTurns)
}

func (r *Runner) invoke(ctx context.Context, call llm.CallRequest) (conv.Message, error) {
	cap, ok := r.cfg.Capabilities.Get(call.Name)
	if !ok {
		err := &capability.InvocationError{Capability: call.Name, Err: fmt.Errorf("not in this worker's catalog")}
		if !r.cfg.SelfCorrect {
			return conv.Message{}, err
		}
		return conv.NewToolResult(call.ID, correctionHint(err), true), nil
	}

	result, err := cap.Invoke(ctx, call.Input)
	if err != nil {
		ierr := &capability.InvocationError{Capability: call.Name, Err: err}
		if !r.cfg.SelfCorrect {
			return conv.Message{}, ierr
		}
		return conv.NewToolResult(call.ID, correctionHint(ierr), true), nil
	}
	return conv.NewToolResult(call.ID, result.Content, false), nil
}

func correctionHint(err error) string {
	return fmt.Sprintf("调用失败: %v。请调整参数后重试，例如使用更完整的地点名称。", err)
}
