package conv

import (
	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

// State is the unit of persistence for one dialogue thread. It is owned
// exclusively by the control loop processing the thread; workers get their
// own fresh State and report back only through return values.
type State struct {
	Messages []Message `json:"messages"`

	// Stage is the active controller's current stage identifier. Mutated
	// only by capability directives or coordinator logic.
	Stage string `json:"current_stage,omitempty"`
	// Skill is the currently disclosed capability bundle (skills
	// controller only). Empty until the model loads one.
	Skill string `json:"skill_name,omitempty"`
	// Position carries the last resolved coordinate for stage instruction
	// templates.
	Position string `json:"current_position,omitempty"`

	// Router pipeline fields.
	Query           string                  `json:"query,omitempty"`
	Classifications []models.Classification `json:"classifications,omitempty"`
	Results         []models.WorkerOutput   `json:"results,omitempty"`
	FinalAnswer     string                  `json:"final_answer,omitempty"`
}

// NewState creates an empty conversation state.
func NewState() *State {
	return &State{}
}

// Append merges the given turns into the thread history.
func (s *State) Append(msgs ...Message) {
	s.Messages = Merge(s.Messages, msgs...)
}

// AddResult accumulates one worker output. Accumulation is commutative: the
// final multiset does not depend on completion order.
func (s *State) AddResult(out models.WorkerOutput) {
	s.Results = append(s.Results, out)
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	dup := *s
	dup.Messages = make([]Message, len(s.Messages))
	copy(dup.Messages, s.Messages)
	dup.Classifications = append([]models.Classification(nil), s.Classifications...)
	dup.Results = append([]models.WorkerOutput(nil), s.Results...)
	return &dup
}
