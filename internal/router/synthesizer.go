package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
	"github.com/dhr613/Location-QA-Assistant/internal/progress"
	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

// NoResultsAnswer is the fixed terminal answer when no worker produced
// anything. Returned without a model call.
const NoResultsAnswer = "没有找到任何知识来源的结果。"

const synthesizerInstruction = `你是结果整合助手。根据各查询助手返回的结果回答用户的原始问题，要求：
1. 去除不同来源之间重复的信息
2. 优先呈现可直接行动的细节（地址、路线、耗时、价格）
3. 来源之间信息冲突时明确指出
4. 结构清晰、简洁，不要罗列无关内容`

// Completer executes one model turn. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.TurnRequest) (*llm.Turn, error)
}

// Synthesizer merges accumulated worker outputs into one final answer.
type Synthesizer struct {
	model Completer
}

// NewSynthesizer creates a synthesizer backed by the given model.
func NewSynthesizer(model Completer) *Synthesizer {
	return &Synthesizer{model: model}
}

// Synthesize produces the final answer from the accumulated results. Empty
// results short-circuit to the fixed no-results answer.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []models.WorkerOutput) (string, error) {
	if len(results) == 0 {
		return NoResultsAnswer, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "用户问题: %s\n\n", query)
	for _, r := range results {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", r.Source, r.Result)
	}

	turn, err := s.model.Complete(ctx, llm.TurnRequest{
		Instruction: synthesizerInstruction,
		History:     []conv.Message{conv.NewUserMessage(b.String())},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	return turn.Text, nil
}

// Pipeline chains classifier, dispatcher, and synthesizer over one state,
// emitting a node event after each step for the progress projector.
type Pipeline struct {
	classifier  *Classifier
	dispatcher  *Dispatcher
	synthesizer *Synthesizer
	emit        func(progress.NodeEvent)
}

// NewPipeline assembles the full router pipeline. emit may be nil when no
// progress stream is attached.
func NewPipeline(c *Classifier, d *Dispatcher, s *Synthesizer, emit func(progress.NodeEvent)) *Pipeline {
	if emit == nil {
		emit = func(progress.NodeEvent) {}
	}
	return &Pipeline{classifier: c, dispatcher: d, synthesizer: s, emit: emit}
}

// Run processes one query end to end and records the outcome on state.
func (p *Pipeline) Run(ctx context.Context, state *conv.State, query string) (string, error) {
	state.Query = query
	state.Append(conv.NewUserMessage(query))

	classifications, err := p.classifier.Classify(ctx, query)
	if err != nil {
		return "", err
	}
	state.Classifications = classifications
	p.emit(progress.NodeEvent{Node: "classify_query", State: state.Clone()})

	outputs, err := p.dispatcher.Dispatch(ctx, classifications)
	if err != nil {
		return "", err
	}
	for _, out := range outputs {
		state.AddResult(out)
	}
	p.emit(progress.NodeEvent{Node: "dispatch_workers", State: state.Clone()})

	answer, err := p.synthesizer.Synthesize(ctx, query, state.Results)
	if err != nil {
		return "", err
	}
	state.FinalAnswer = answer
	state.Append(conv.NewAssistantMessage(answer))
	p.emit(progress.NodeEvent{Node: "synthesize_results", State: state.Clone()})

	return answer, nil
}
