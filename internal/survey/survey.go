// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package survey builds and validates ordered question sets and resolves
// their prompt templates against the scenario and prior answers.
//
// Template syntax: {{scenario.paper}} substitutes the bound document text;
// {{<question>.answer}} substitutes the answer an earlier question in the
// same survey produced for the same model. References are resolved in
// declaration order, so a question may never reference a later question.
package survey

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/referee/pkg/types"
)

// DefaultPrompt is the review prompt used when --prompt is not given.
const DefaultPrompt = "Write a full economics-style critical review of this paper:"

// rebuttalPrompt drives the chained second question in rebuttal mode.
const rebuttalPrompt = "On behalf of the authors, write a point-by-point response to this referee report:"

// Question names used by the default surveys and the default report template.
const (
	NameFullReview = "full_review"
	NameRebuttal   = "response_to_review"
)

// placeholderRe matches {{object.field}} references, tolerating inner
// whitespace ({{ scenario.paper }}).
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Reference is one parsed template variable reference.
type Reference struct {
	// Object is the reference target: "scenario" or a question name.
	Object string

	// Field is the accessed field: a scenario slot or "answer".
	Field string
}

// References extracts all variable references from a template, in order.
func References(template string) []Reference {
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Reference{Object: m[1], Field: m[2]})
	}
	return refs
}

// ResolutionError reports a dangling template reference. It is fatal for the
// whole run and raised before any model call.
type ResolutionError struct {
	Question    string
	Placeholder string
	Reason      string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("question %q: cannot resolve {{%s}}: %s", e.Question, e.Placeholder, e.Reason)
}

// Default builds the parameterized default survey: one free-text review
// question, plus a chained author-rebuttal question when rebuttal is set.
// An empty prompt falls back to DefaultPrompt.
func Default(prompt string, rebuttal bool) types.Survey {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	questions := []types.Question{
		{
			Name:     NameFullReview,
			Template: fmt.Sprintf("%s {{scenario.paper}}", prompt),
		},
	}
	if rebuttal {
		questions = append(questions, types.Question{
			Name:     NameRebuttal,
			Template: fmt.Sprintf("%s {{%s.answer}}", rebuttalPrompt, NameFullReview),
		})
	}
	return types.Survey{Questions: questions}
}

// Validate checks the survey against the scenario: unique non-empty question
// names, scenario references bound to existing slots, and answer references
// pointing only at earlier questions. Any violation is a ResolutionError.
func Validate(s types.Survey, sc types.Scenario) error {
	if s.Len() == 0 {
		return fmt.Errorf("%w: survey has no questions", types.ErrInvalidArgument)
	}

	declared := make(map[string]bool, s.Len())
	for _, q := range s.Questions {
		if q.Name == "" {
			return fmt.Errorf("%w: question with empty name", types.ErrInvalidArgument)
		}
		if declared[q.Name] {
			return fmt.Errorf("%w: duplicate question name %q", types.ErrInvalidArgument, q.Name)
		}

		for _, ref := range References(q.Template) {
			placeholder := ref.Object + "." + ref.Field
			switch {
			case ref.Object == "scenario":
				if _, ok := sc[ref.Field]; !ok {
					return &ResolutionError{Question: q.Name, Placeholder: placeholder, Reason: fmt.Sprintf("scenario has no slot %q", ref.Field)}
				}
			case ref.Field != "answer":
				return &ResolutionError{Question: q.Name, Placeholder: placeholder, Reason: fmt.Sprintf("only .answer may be referenced on question %q", ref.Object)}
			case ref.Object == q.Name:
				return &ResolutionError{Question: q.Name, Placeholder: placeholder, Reason: "question references its own answer"}
			case !declared[ref.Object]:
				return &ResolutionError{Question: q.Name, Placeholder: placeholder, Reason: fmt.Sprintf("question %q is not declared before %q", ref.Object, q.Name)}
			}
		}

		declared[q.Name] = true
	}
	return nil
}

// Resolve substitutes every reference in the template: scenario slots get
// the bound document text, answer references get the prior answer for the
// same model. An unresolvable reference is a ResolutionError; Validate
// catches these before execution, so hitting one here means answers for an
// earlier question are missing.
func Resolve(question types.Question, sc types.Scenario, answers map[string]string) (string, error) {
	var resolveErr error

	resolved := placeholderRe.ReplaceAllStringFunc(question.Template, func(match string) string {
		if resolveErr != nil {
			return match
		}
		m := placeholderRe.FindStringSubmatch(match)
		object, field := m[1], m[2]
		placeholder := object + "." + field

		if object == "scenario" {
			ref, ok := sc[field]
			if !ok {
				resolveErr = &ResolutionError{Question: question.Name, Placeholder: placeholder, Reason: fmt.Sprintf("scenario has no slot %q", field)}
				return match
			}
			return ref.Text
		}

		if field != "answer" {
			resolveErr = &ResolutionError{Question: question.Name, Placeholder: placeholder, Reason: fmt.Sprintf("only .answer may be referenced on question %q", object)}
			return match
		}
		answer, ok := answers[object]
		if !ok {
			resolveErr = &ResolutionError{Question: question.Name, Placeholder: placeholder, Reason: fmt.Sprintf("no answer recorded for question %q", object)}
			return match
		}
		return answer
	})

	if resolveErr != nil {
		return "", resolveErr
	}
	return resolved, nil
}
