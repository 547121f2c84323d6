package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
	"github.com/dhr613/Location-QA-Assistant/internal/progress"
)

// LoadSkill builds the capability that discloses one skill's content and
// records it as the active bundle.
func LoadSkill(catalog *Catalog) capability.Capability {
	return capability.New(capability.Spec{
		Name:        "load_skill",
		Description: "加载一个技能，获取它的详细说明并启用它的能力。",
		Properties: map[string]interface{}{
			"skill_name": map[string]interface{}{
				"type":        "string",
				"description": "技能目录中列出的技能名称",
			},
		},
		Required: []string{"skill_name"},
	}, func(_ context.Context, input json.RawMessage) (capability.Result, error) {
		var args struct {
			SkillName string `json:"skill_name"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return capability.Result{}, err
		}
		s, ok := catalog.Get(args.SkillName)
		if !ok {
			return capability.Result{}, fmt.Errorf("技能 %q 不存在", args.SkillName)
		}
		return capability.Result{
			Content:   s.Content,
			Directive: &capability.Directive{SetSkill: s.Name},
		}, nil
	})
}

// Completer executes one model turn. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.TurnRequest) (*llm.Turn, error)
}

// ControllerConfig wires the skill-gated controller.
type ControllerConfig struct {
	Instruction string
	// Bundles maps each skill name to the capability set it unlocks.
	Bundles map[string]*capability.Set
	// MaxTurns bounds one Run call. Zero means the default (16).
	MaxTurns int
	Emit     func(progress.NodeEvent)
}

// Controller runs the skill-gated loop: the model always sees the catalog
// summary and load_skill; a skill's capabilities and content appear only
// after it is loaded.
type Controller struct {
	model   Completer
	catalog *Catalog
	cfg     ControllerConfig
}

// NewController builds a skill-gated controller over the catalog.
func NewController(model Completer, catalog *Catalog, cfg ControllerConfig) *Controller {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 16
	}
	if cfg.Emit == nil {
		cfg.Emit = func(progress.NodeEvent) {}
	}
	return &Controller{model: model, catalog: catalog, cfg: cfg}
}

func (c *Controller) activeSet(skill string) *capability.Set {
	caps := []capability.Capability{LoadSkill(c.catalog)}
	if bundle, ok := c.cfg.Bundles[skill]; ok {
		caps = append(caps, bundle.All()...)
	}
	return capability.NewSet(caps...)
}

func (c *Controller) instruction(skill string) string {
	var b strings.Builder
	b.WriteString(c.cfg.Instruction)
	b.WriteString("\n\n可用技能:\n")
	b.WriteString(c.catalog.Summary())
	if s, ok := c.catalog.Get(skill); ok {
		fmt.Fprintf(&b, "\n当前已加载技能 %s:\n%s\n", s.Name, s.Content)
	}
	return b.String()
}

// Run processes one user query, looping until a terminal assistant turn.
func (c *Controller) Run(ctx context.Context, state *conv.State, query string) (string, error) {
	state.Query = query
	state.Append(conv.NewUserMessage(query))

	for turn := 0; turn < c.cfg.MaxTurns; turn++ {
		caps := c.activeSet(state.Skill)
		t, err := c.model.Complete(ctx, llm.TurnRequest{
			Instruction: c.instruction(state.Skill),
			Tools:       caps.ToolParams(),
			History:     state.Messages,
		})
		if err != nil {
			return "", err
		}

		if t.Terminal() {
			state.FinalAnswer = t.Text
			state.Append(conv.NewAssistantMessage(t.Text))
			c.cfg.Emit(progress.NodeEvent{Node: "skills", State: state.Clone()})
			return t.Text, nil
		}

		calls := make([]conv.ToolCall, len(t.Calls))
		for i, call := range t.Calls {
			calls[i] = conv.ToolCall{ID: call.ID, Name: call.Name, Input: call.Input}
		}
		state.Append(conv.NewAssistantMessage(t.Text, calls...))

		for _, call := range t.Calls {
			cap, ok := caps.Get(call.Name)
			if !ok {
				state.Append(conv.NewToolResult(call.ID,
					fmt.Sprintf("该能力未启用，请先用 load_skill 加载对应技能。调用: %s", call.Name), true))
				continue
			}
			result, err := cap.Invoke(ctx, call.Input)
			if err != nil {
				state.Append(conv.NewToolResult(call.ID,
					fmt.Sprintf("调用失败: %v。请调整参数后重试。", err), true))
				continue
			}
			state.Append(conv.NewToolResult(call.ID, result.Content, false))
			if result.Directive != nil {
				if result.Directive.SetSkill != "" {
					state.Skill = result.Directive.SetSkill
				}
				if result.Directive.SetPosition != "" {
					state.Position = result.Directive.SetPosition
				}
			}
		}
		c.cfg.Emit(progress.NodeEvent{Node: "skills", State: state.Clone()})
	}

	return "", fmt.Errorf("skills controller: turn budget (%d) exhausted", c.cfg.MaxTurns)
}
