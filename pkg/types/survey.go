// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Question is one named free-text prompt in a survey. The template may
// reference the scenario ({{scenario.paper}}) or the answer of an earlier
// question in the same survey ({{<name>.answer}}).
type Question struct {
	// Name uniquely identifies the question within its survey. It is also
	// the placeholder name used by report templates.
	Name string `json:"name" yaml:"name"`

	// Template is the prompt text with zero or more variable references.
	Template string `json:"template" yaml:"template"`
}

// Survey is an ordered question set. Order is evaluation order: a question
// may only reference the answers of questions declared before it.
type Survey struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len returns the number of questions in the survey.
func (s Survey) Len() int { return len(s.Questions) }

// Names returns the question names in declaration order.
func (s Survey) Names() []string {
	names := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		names[i] = q.Name
	}
	return names
}
