// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document resolves a source document into a scenario binding:
// it verifies the file, extracts its text (with an optional page limit),
// and binds the result to the single "paper" slot used by prompt templates.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/referee/pkg/types"
)

// InvalidDocumentError reports a source document that could not be resolved:
// missing, unreadable, or empty after extraction.
type InvalidDocumentError struct {
	Path string
	Err  error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid document %s: %v", e.Path, e.Err)
}

func (e *InvalidDocumentError) Unwrap() error { return e.Err }

// Resolve produces an immutable DocumentReference for the file at path.
// pages > 0 truncates extraction to the first pages pages; pages == 0 means
// no truncation. Negative pages are rejected at the CLI before Resolve is
// called, but Resolve guards anyway.
func Resolve(path string, pages int, ex Extractor) (types.DocumentReference, error) {
	if pages < 0 {
		return types.DocumentReference{}, fmt.Errorf("%w: pages must be positive, got %d", types.ErrInvalidArgument, pages)
	}
	if ex == nil {
		ex = DefaultExtractor(path)
	}

	text, err := ex.ExtractText(path, pages)
	if err != nil {
		return types.DocumentReference{}, &InvalidDocumentError{Path: path, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return types.DocumentReference{}, &InvalidDocumentError{Path: path, Err: fmt.Errorf("extraction produced no text")}
	}

	name := filepath.Base(path)
	return types.DocumentReference{
		Path:  path,
		Name:  name,
		Stem:  strings.TrimSuffix(name, filepath.Ext(name)),
		Pages: pages,
		Text:  text,
	}, nil
}

// Bind wraps the reference in a Scenario with the "paper" slot bound.
func Bind(ref types.DocumentReference) types.Scenario {
	return types.Scenario{types.ScenarioSlotPaper: ref}
}
