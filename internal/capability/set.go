package capability

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// Set is an ordered collection of capabilities exposed to one model turn.
// A stage's allowed capability set is exactly one of these; nothing outside
// the set is visible to the model.
type Set struct {
	caps   []Capability
	byName map[string]Capability
}

// NewSet builds a set from the given capabilities. Later duplicates by name
// replace earlier ones.
func NewSet(caps ...Capability) *Set {
	s := &Set{byName: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		name := c.Spec().Name
		if _, ok := s.byName[name]; ok {
			for i, existing := range s.caps {
				if existing.Spec().Name == name {
					s.caps[i] = c
					break
				}
			}
		} else {
			s.caps = append(s.caps, c)
		}
		s.byName[name] = c
	}
	return s
}

// Get looks up a capability by name.
func (s *Set) Get(name string) (Capability, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Names returns the capability names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.caps))
	for i, c := range s.caps {
		names[i] = c.Spec().Name
	}
	return names
}

// All returns the capabilities in declaration order.
func (s *Set) All() []Capability {
	return append([]Capability(nil), s.caps...)
}

// Len returns the number of capabilities in the set.
func (s *Set) Len() int {
	return len(s.caps)
}

// ToolParams projects the set into Anthropic tool definitions.
func (s *Set) ToolParams() []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(s.caps))
	for _, c := range s.caps {
		spec := c.Spec()
		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        spec.Name,
				Description: anthropic.String(spec.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: spec.Properties,
					Required:   spec.Required,
				},
			},
		})
	}
	return params
}
