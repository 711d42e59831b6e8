// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResultCell is the answer one model produced for one question.
type ResultCell struct {
	// Model is the model name the cell belongs to.
	Model string `json:"model" yaml:"model"`

	// Question is the question name the cell answers.
	Question string `json:"question" yaml:"question"`

	// Answer is the free-text answer returned by the model runner.
	Answer string `json:"answer" yaml:"answer"`
}

// ResultMatrix is the complete (model × question) answer grid for one run.
// It preserves model and question declaration order so that report sections
// come out in model-set order regardless of execution order.
type ResultMatrix struct {
	// Models lists the model configs in declaration order.
	Models []ModelConfig `json:"models" yaml:"models"`

	// Questions lists the question names in evaluation order.
	Questions []string `json:"questions" yaml:"questions"`

	cells map[matrixKey]ResultCell
}

type matrixKey struct {
	model    string
	question string
}

// NewResultMatrix creates an empty matrix for the given model and question
// ordering.
func NewResultMatrix(models []ModelConfig, questions []string) *ResultMatrix {
	return &ResultMatrix{
		Models:    models,
		Questions: questions,
		cells:     make(map[matrixKey]ResultCell, len(models)*len(questions)),
	}
}

// Set stores the cell for (model, question), overwriting any previous value.
func (m *ResultMatrix) Set(cell ResultCell) {
	m.cells[matrixKey{cell.Model, cell.Question}] = cell
}

// Get returns the cell for (model, question).
func (m *ResultMatrix) Get(model, question string) (ResultCell, bool) {
	c, ok := m.cells[matrixKey{model, question}]
	return c, ok
}

// Size returns the number of populated cells.
func (m *ResultMatrix) Size() int { return len(m.cells) }

// Complete reports whether every (model, question) pair has a cell.
func (m *ResultMatrix) Complete() bool {
	return len(m.cells) == len(m.Models)*len(m.Questions)
}

// PublishRecord describes an artifact published to the artifact registry.
// Read-only; used to enrich the description of a subsequently published
// artifact.
type PublishRecord struct {
	// URL is the canonical location of the published artifact.
	URL string `json:"url" yaml:"url"`

	// AliasURL is a human-friendly alias for URL, when the registry
	// assigns one.
	AliasURL string `json:"alias_url,omitempty" yaml:"alias_url,omitempty"`

	// UID is the registry-assigned unique identifier.
	UID string `json:"uid" yaml:"uid"`

	// Version is the registry object version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Visibility is the access level the artifact was published with
	// (e.g. "unlisted", "public").
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}
