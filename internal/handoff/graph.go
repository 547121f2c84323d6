package handoff

import (
	"context"
	"fmt"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
	"github.com/dhr613/Location-QA-Assistant/internal/progress"
)

// DecisionKind is the outcome of one node pass, consumed by the scheduler.
type DecisionKind int

const (
	// Terminate ends the request; the final answer is on the state.
	Terminate DecisionKind = iota
	// ContinueSelf schedules another pass at the same node.
	ContinueSelf
	// ContinueAt resumes execution at the sibling node named in the
	// decision.
	ContinueAt
)

// Decision tells the scheduler where execution goes next.
type Decision struct {
	Kind DecisionKind
	Node Stage
}

// GraphNode is one sibling execution node: its own instruction and
// capability set, including the transfer capabilities that hand control to
// siblings.
type GraphNode struct {
	Name Stage
	StageConfig
}

// GraphConfig wires the sibling-node scheduler.
type GraphConfig struct {
	Nodes []GraphNode
	Entry Stage
	// MaxPasses bounds scheduler iterations per Run. Zero means the default
	// (16).
	MaxPasses int
	Emit      func(progress.NodeEvent)
}

// Graph runs sibling nodes under an outer scheduler. A node's transfer
// capability does not flip a field mid-loop; it yields a decision the
// scheduler acts on, carrying the last assistant turn and a transfer notice
// into the next node's context.
type Graph struct {
	model Completer
	nodes map[Stage]GraphNode
	cfg   GraphConfig
}

// NewGraph validates node wiring and builds the scheduler.
func NewGraph(model Completer, cfg GraphConfig) (*Graph, error) {
	nodes := make(map[Stage]GraphNode, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		nodes[n.Name] = n
	}
	if _, ok := nodes[cfg.Entry]; !ok {
		return nil, &UnknownStageError{Stage: cfg.Entry}
	}
	for _, n := range cfg.Nodes {
		for _, target := range n.Targets {
			if _, ok := nodes[target]; !ok {
				return nil, fmt.Errorf("node %q declares transfer to unmapped node: %w",
					n.Name, &UnknownStageError{Stage: target})
			}
		}
	}
	if cfg.MaxPasses == 0 {
		cfg.MaxPasses = 16
	}
	if cfg.Emit == nil {
		cfg.Emit = func(progress.NodeEvent) {}
	}
	return &Graph{model: model, nodes: nodes, cfg: cfg}, nil
}

// Run processes one query. After each node pass the scheduler routes: a
// terminal assistant turn ends the request; otherwise execution continues at
// the node recorded on the state, defaulting to the entry node.
func (g *Graph) Run(ctx context.Context, state *conv.State, query string) (string, error) {
	state.Query = query
	state.Append(conv.NewUserMessage(query))
	if state.Stage == "" {
		state.Stage = string(g.cfg.Entry)
	}

	for pass := 0; pass < g.cfg.MaxPasses; pass++ {
		node, ok := g.nodes[Stage(state.Stage)]
		if !ok {
			return "", &UnknownStageError{Stage: Stage(state.Stage)}
		}

		decision, err := g.step(ctx, node, state)
		if err != nil {
			return "", err
		}
		g.cfg.Emit(progress.NodeEvent{Node: string(node.Name), State: state.Clone()})

		switch decision.Kind {
		case Terminate:
			return state.FinalAnswer, nil
		case ContinueAt:
			state.Stage = string(decision.Node)
		case ContinueSelf:
			// Stage unchanged; same node runs again.
		}
	}

	return "", fmt.Errorf("graph: pass budget (%d) exhausted", g.cfg.MaxPasses)
}

// step runs one model turn at a node. A transfer directive stops the node's
// remaining work and yields control; calls after the transfer are answered
// with a skip notice so the history stays well-formed.
func (g *Graph) step(ctx context.Context, node GraphNode, state *conv.State) (Decision, error) {
	instruction := formatInstruction(node.Instruction, instructionVars{
		Position: state.Position,
		Skill:    state.Skill,
		Query:    state.Query,
	})
	t, err := g.model.Complete(ctx, llm.TurnRequest{
		Instruction: instruction,
		Tools:       node.Capabilities.ToolParams(),
		History:     state.Messages,
	})
	if err != nil {
		return Decision{}, err
	}

	if t.Terminal() {
		state.FinalAnswer = t.Text
		state.Append(conv.NewAssistantMessage(t.Text))
		return Decision{Kind: Terminate}, nil
	}

	calls := make([]conv.ToolCall, len(t.Calls))
	for i, call := range t.Calls {
		calls[i] = conv.ToolCall{ID: call.ID, Name: call.Name, Input: call.Input}
	}
	state.Append(conv.NewAssistantMessage(t.Text, calls...))

	transferred := ""
	for _, call := range t.Calls {
		if transferred != "" {
			state.Append(conv.NewToolResult(call.ID, "控制已转移，该调用未执行。", true))
			continue
		}

		cap, ok := node.Capabilities.Get(call.Name)
		if !ok {
			state.Append(conv.NewToolResult(call.ID,
				fmt.Sprintf("当前节点不允许调用 %s。", call.Name), true))
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
			if result.Directive.SetPosition != "" {
				state.Position = result.Directive.SetPosition
			}
			if result.Directive.TransferTo != "" {
				transferred = result.Directive.TransferTo
				state.Append(conv.NewUserMessage(
					fmt.Sprintf("任务已从 %s 转交到 %s，请基于以上对话继续处理。", node.Name, transferred)))
			}
		}
	}

	if transferred != "" {
		return Decision{Kind: ContinueAt, Node: Stage(transferred)}, nil
	}
	return Decision{Kind: ContinueSelf}, nil
}
