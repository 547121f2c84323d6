// Package capability defines the named, schema-typed operations a model turn
// may invoke: network lookups, stage transitions, and whole sub-conversations
// wrapped behind the same contract.
package capability

import (
	"context"
	"encoding/json"
	"fmt"
)

// Spec describes a capability to the model: its name, what it does, and the
// JSON schema of its argument object.
type Spec struct {
	Name        string
	Description string
	// Properties is the JSON-schema property map for the argument object.
	Properties map[string]interface{}
	// Required lists the mandatory argument names.
	Required []string
}

// Capability is a named operation invocable by a model turn. Invoke receives
// the JSON argument object and returns a result, which may carry a directive
// requesting state mutation or control transfer.
type Capability interface {
	Spec() Spec
	Invoke(ctx context.Context, input json.RawMessage) (Result, error)
}

// Result is the outcome of a capability invocation.
type Result struct {
	// Content is the result text surfaced to the model as the tool result.
	Content string
	// Directive, if set, requests state updates applied atomically with the
	// message append for this turn.
	Directive *Directive
}

// Directive requests a state-field update and/or a control transfer alongside
// a capability result.
type Directive struct {
	// SetStage moves the controller to the named stage before the next turn.
	SetStage string
	// SetSkill records the capability bundle disclosed to the model.
	SetSkill string
	// SetPosition records the last resolved coordinate for instruction
	// templates.
	SetPosition string
	// TransferTo signals the enclosing graph to resume execution at the
	// named sibling node.
	TransferTo string
}

// InvocationError wraps a failed capability call with the capability name.
type InvocationError struct {
	Capability string
	Err        error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("capability %s: %v", e.Capability, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Func adapts a function to the Capability interface.
type Func struct {
	spec Spec
	fn   func(ctx context.Context, input json.RawMessage) (Result, error)
}

// New creates a capability from a spec and an invoke function.
func New(spec Spec, fn func(ctx context.Context, input json.RawMessage) (Result, error)) *Func {
	return &Func{spec: spec, fn: fn}
}

// Spec returns the capability's schema.
func (f *Func) Spec() Spec {
	return f.spec
}

// Invoke runs the wrapped function.
func (f *Func) Invoke(ctx context.Context, input json.RawMessage) (Result, error) {
	return f.fn(ctx, input)
}
