// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a result matrix into the final report: one section
// per model, in model-set order, in either plain-text or docx form.
//
// Rendering is pure: the same matrix and template always produce the same
// bytes. Template placeholders are {{model}} for the model identity and
// {{<question_name>}} for that model's answer to the named question.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/referee/internal/docx"
	"github.com/pdiddy/referee/pkg/types"
)

// Format selects the rendering target.
type Format string

const (
	// FormatText renders a plain string.
	FormatText Format = "text"

	// FormatDocument renders a structured docx document.
	FormatDocument Format = "document"
)

// ModelPlaceholder is the placeholder substituted with the model identity.
const ModelPlaceholder = "model"

// placeholderRe matches {{name}} placeholders, tolerating inner whitespace.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// UnknownPlaceholderError reports a template placeholder naming a question
// absent from the result matrix.
type UnknownPlaceholderError struct {
	Name string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("template references unknown question %q", e.Name)
}

// UnsupportedFormatError reports a format tag other than text or document.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported report format %q (want text or document)", e.Format)
}

// DefaultTemplate builds the section template for the given question order:
// a heading line with the model identity, then each answer in order.
func DefaultTemplate(questions []string) string {
	var b strings.Builder
	b.WriteString("# Review by {{model}}\n")
	for _, q := range questions {
		fmt.Fprintf(&b, "\n{{%s}}\n", q)
	}
	return b.String()
}

// Validate checks that every placeholder in the template resolves against
// the matrix's question set (or {{model}}).
func Validate(m *types.ResultMatrix, template string) error {
	known := make(map[string]bool, len(m.Questions)+1)
	known[ModelPlaceholder] = true
	for _, q := range m.Questions {
		known[q] = true
	}
	for _, match := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if !known[match[1]] {
			return &UnknownPlaceholderError{Name: match[1]}
		}
	}
	return nil
}

// Text renders the matrix with the template in plain-text form: one section
// per model in model-set order, sections separated by a single blank line.
func Text(m *types.ResultMatrix, template string) (string, error) {
	if err := Validate(m, template); err != nil {
		return "", err
	}

	sections := make([]string, 0, len(m.Models))
	for _, model := range m.Models {
		section, err := renderSection(m, model, template)
		if err != nil {
			return "", err
		}
		sections = append(sections, strings.TrimRight(section, "\n"))
	}
	return strings.Join(sections, "\n\n") + "\n", nil
}

// Document renders the matrix with the template as a docx document. Each
// section begins with a heading carrying the model identity; template lines
// prefixed with "# " become headings, and a heading line containing the
// {{model}} placeholder collapses to the bare identity so readers recover
// the model names from the headings alone.
func Document(m *types.ResultMatrix, template string) (*docx.Document, error) {
	if err := Validate(m, template); err != nil {
		return nil, err
	}

	doc := docx.New()
	for _, model := range m.Models {
		for _, line := range strings.Split(template, "\n") {
			heading, isHeading := strings.CutPrefix(line, "# ")
			if isHeading {
				if strings.Contains(heading, "{{") && referencesModel(heading) {
					doc.AddHeading(model.String())
					continue
				}
				doc.AddHeading(heading)
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			rendered, err := substitute(m, model, line)
			if err != nil {
				return nil, err
			}
			doc.AddParagraph(rendered)
		}
	}
	return doc, nil
}

// Render dispatches on the format tag. The text result is returned as a
// string; the document result as a *docx.Document.
func Render(m *types.ResultMatrix, template string, format Format) (string, *docx.Document, error) {
	switch format {
	case FormatText:
		s, err := Text(m, template)
		return s, nil, err
	case FormatDocument:
		d, err := Document(m, template)
		return "", d, err
	default:
		return "", nil, &UnsupportedFormatError{Format: string(format)}
	}
}

func renderSection(m *types.ResultMatrix, model types.ModelConfig, template string) (string, error) {
	return substitute(m, model, template)
}

func substitute(m *types.ResultMatrix, model types.ModelConfig, text string) (string, error) {
	var substErr error
	out := placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if name == ModelPlaceholder {
			return model.String()
		}
		cell, ok := m.Get(model.Name, name)
		if !ok {
			if substErr == nil {
				substErr = &UnknownPlaceholderError{Name: name}
			}
			return match
		}
		return cell.Answer
	})
	if substErr != nil {
		return "", substErr
	}
	return out, nil
}

func referencesModel(line string) bool {
	for _, match := range placeholderRe.FindAllStringSubmatch(line, -1) {
		if match[1] == ModelPlaceholder {
			return true
		}
	}
	return false
}
