// Package progress projects internal node-completion events into the
// user-facing output stream: deduplicated progress notices followed by
// exactly one final-answer or fallback chunk.
package progress

import (
	"fmt"
	"strings"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

// NodeEvent reports that one execution node finished a pass over the state.
type NodeEvent struct {
	// Node names the execution node, e.g. "classify_query" or "place_worker".
	Node string
	// State is a snapshot after the node completed. Nil when Err is set.
	State *conv.State
	Err   error
}

// FallbackNotice ends the stream when no final answer was produced.
const FallbackNotice = "未能生成最终回答。"

var kindLabels = map[models.WorkerKind]string{
	models.WorkerPlace: "地点查询",
	models.WorkerRoute: "路线规划",
}

func kindLabel(k models.WorkerKind) string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// Projector turns node events into progress chunks. Each milestone's dedup
// key is emitted at most once per request, even when execution revisits a
// node. Not safe for concurrent use; one projector serves one request.
type Projector struct {
	seen      map[string]bool
	finalSent bool
}

// NewProjector creates a projector for one request.
func NewProjector() *Projector {
	return &Projector{seen: make(map[string]bool)}
}

func (p *Projector) once(key, chunk string, chunks []string) []string {
	if p.seen[key] {
		return chunks
	}
	p.seen[key] = true
	return append(chunks, chunk)
}

// Consume maps one event to zero or more output chunks.
func (p *Projector) Consume(ev NodeEvent) []string {
	var chunks []string

	if ev.Err != nil {
		return p.once("error:"+ev.Node, fmt.Sprintf("处理出错: %v", ev.Err), chunks)
	}
	if ev.State == nil {
		return nil
	}

	if len(ev.State.Classifications) > 0 {
		labels := make([]string, len(ev.State.Classifications))
		for i, c := range ev.State.Classifications {
			labels[i] = kindLabel(c.Source)
		}
		chunks = p.once("classified", "已完成问题分类: "+strings.Join(labels, " / "), chunks)
	}

	for _, r := range ev.State.Results {
		chunks = p.once("worker:"+string(r.Source), kindLabel(r.Source)+"已返回结果", chunks)
	}

	if ev.State.FinalAnswer != "" && !p.finalSent {
		p.finalSent = true
		chunks = append(chunks, ev.State.FinalAnswer)
	}
	return chunks
}

// Finish ends the stream. If no final answer was seen, the fixed fallback
// notice becomes the terminal chunk.
func (p *Projector) Finish() []string {
	if p.finalSent {
		return nil
	}
	p.finalSent = true
	return []string{FallbackNotice}
}

// Stream consumes events until the channel closes and yields the chunk
// sequence. The returned channel is closed after the terminal chunk.
func (p *Projector) Stream(events <-chan NodeEvent) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for ev := range events {
			for _, chunk := range p.Consume(ev) {
				out <- chunk
			}
		}
		for _, chunk := range p.Finish() {
			out <- chunk
		}
	}()
	return out
}
