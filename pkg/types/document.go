// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the referee pipeline:
// document references, surveys, model configurations, result matrices,
// publish records, and per-stage configuration structs.
package types

// DocumentReference identifies a resolved source document. It is immutable
// once constructed by the document store; the pipeline passes it by value.
type DocumentReference struct {
	// Path is the local filesystem path the document was resolved from.
	Path string `json:"path" yaml:"path"`

	// Name is the base filename including extension (e.g. "sample.pdf").
	Name string `json:"name" yaml:"name"`

	// Stem is the base filename without extension (e.g. "sample"). Output
	// filenames are derived from it.
	Stem string `json:"stem" yaml:"stem"`

	// Pages is the page-count truncation applied during resolution.
	// Zero means the full document was used.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Text is the extracted document text substituted into prompt templates.
	Text string `json:"-" yaml:"-"`
}

// ScenarioSlotPaper is the single slot name a Scenario binds. Every question
// template references the document through this name.
const ScenarioSlotPaper = "paper"

// Scenario binds named slots to document references. Exactly one scenario
// exists per invocation and it carries exactly the "paper" slot.
type Scenario map[string]DocumentReference

// Paper returns the document bound to the "paper" slot.
func (s Scenario) Paper() (DocumentReference, bool) {
	ref, ok := s[ScenarioSlotPaper]
	return ref, ok
}
