package survey

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/referee/pkg/types"
)

func testScenario(text string) types.Scenario {
	return types.Scenario{
		types.ScenarioSlotPaper: types.DocumentReference{
			Path: "paper.pdf",
			Name: "paper.pdf",
			Stem: "paper",
			Text: text,
		},
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []Reference
	}{
		{
			name:     "scenario reference",
			template: "Review this: {{scenario.paper}}",
			want:     []Reference{{Object: "scenario", Field: "paper"}},
		},
		{
			name:     "answer reference with whitespace",
			template: "Respond to {{ full_review.answer }}",
			want:     []Reference{{Object: "full_review", Field: "answer"}},
		},
		{
			name:     "multiple references",
			template: "{{scenario.paper}} and {{full_review.answer}}",
			want: []Reference{
				{Object: "scenario", Field: "paper"},
				{Object: "full_review", Field: "answer"},
			},
		},
		{
			name:     "no references",
			template: "plain prompt",
			want:     nil,
		},
		{
			name:     "bare placeholder without field is not a reference",
			template: "{{model}}",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := References(tt.template)
			if len(got) != len(tt.want) {
				t.Fatalf("References() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("reference %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDefault(t *testing.T) {
	s := Default("", false)
	if s.Len() != 1 {
		t.Fatalf("expected 1 question, got %d", s.Len())
	}
	if s.Questions[0].Name != NameFullReview {
		t.Errorf("question name = %q, want %q", s.Questions[0].Name, NameFullReview)
	}
	if !strings.Contains(s.Questions[0].Template, DefaultPrompt) {
		t.Errorf("template %q does not contain the default prompt", s.Questions[0].Template)
	}
	if !strings.Contains(s.Questions[0].Template, "{{scenario.paper}}") {
		t.Errorf("template %q does not reference the scenario", s.Questions[0].Template)
	}

	s = Default("Custom prompt:", true)
	if s.Len() != 2 {
		t.Fatalf("expected 2 questions, got %d", s.Len())
	}
	if s.Questions[1].Name != NameRebuttal {
		t.Errorf("second question = %q, want %q", s.Questions[1].Name, NameRebuttal)
	}
	if !strings.Contains(s.Questions[1].Template, "{{full_review.answer}}") {
		t.Errorf("rebuttal template %q does not chain to the review", s.Questions[1].Template)
	}
	if !strings.Contains(s.Questions[0].Template, "Custom prompt:") {
		t.Errorf("custom prompt not applied: %q", s.Questions[0].Template)
	}
}

func TestValidate(t *testing.T) {
	sc := testScenario("paper text")

	tests := []struct {
		name      string
		questions []types.Question
		wantErr   bool
		wantInErr string
	}{
		{
			name: "valid chain",
			questions: []types.Question{
				{Name: "full_review", Template: "Review {{scenario.paper}}"},
				{Name: "response_to_review", Template: "Respond to {{full_review.answer}}"},
			},
		},
		{
			name: "unknown scenario slot",
			questions: []types.Question{
				{Name: "q1", Template: "Review {{scenario.appendix}}"},
			},
			wantErr:   true,
			wantInErr: "appendix",
		},
		{
			name: "forward reference",
			questions: []types.Question{
				{Name: "q1", Template: "Consider {{q2.answer}}"},
				{Name: "q2", Template: "Review {{scenario.paper}}"},
			},
			wantErr:   true,
			wantInErr: "not declared before",
		},
		{
			name: "self reference",
			questions: []types.Question{
				{Name: "q1", Template: "Improve {{q1.answer}}"},
			},
			wantErr:   true,
			wantInErr: "its own answer",
		},
		{
			name: "non-answer field on question",
			questions: []types.Question{
				{Name: "q1", Template: "Review {{scenario.paper}}"},
				{Name: "q2", Template: "Use {{q1.template}}"},
			},
			wantErr:   true,
			wantInErr: "only .answer",
		},
		{
			name: "duplicate names",
			questions: []types.Question{
				{Name: "q1", Template: "a"},
				{Name: "q1", Template: "b"},
			},
			wantErr:   true,
			wantInErr: "duplicate",
		},
		{
			name:      "empty survey",
			questions: nil,
			wantErr:   true,
			wantInErr: "no questions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(types.Survey{Questions: tt.questions}, sc)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantInErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantInErr)
			}
		})
	}
}

func TestValidateForwardReferenceType(t *testing.T) {
	sc := testScenario("text")
	s := types.Survey{Questions: []types.Question{
		{Name: "q1", Template: "Consider {{q2.answer}}"},
		{Name: "q2", Template: "Review {{scenario.paper}}"},
	}}

	err := Validate(s, sc)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Validate() = %T, want *ResolutionError", err)
	}
	if resErr.Question != "q1" {
		t.Errorf("offending question = %q, want q1", resErr.Question)
	}
}

func TestResolve(t *testing.T) {
	sc := testScenario("THE PAPER TEXT")

	q := types.Question{Name: "full_review", Template: "Review this paper: {{scenario.paper}}"}
	got, err := Resolve(q, sc, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "Review this paper: THE PAPER TEXT" {
		t.Errorf("Resolve() = %q", got)
	}

	q2 := types.Question{Name: "response_to_review", Template: "Respond: {{full_review.answer}}"}
	got, err = Resolve(q2, sc, map[string]string{"full_review": "a harsh review"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "Respond: a harsh review" {
		t.Errorf("Resolve() = %q", got)
	}

	// Missing answer surfaces as a ResolutionError.
	_, err = Resolve(q2, sc, map[string]string{})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() = %T, want *ResolutionError", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "survey.yaml")
	content := `questions:
  - name: full_review
    template: "Review: {{scenario.paper}}"
  - name: response_to_review
    template: "Respond: {{full_review.answer}}"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 questions, got %d", s.Len())
	}
	if s.Questions[0].Name != "full_review" || s.Questions[1].Name != "response_to_review" {
		t.Errorf("unexpected question order: %v", s.Names())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("questions: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(empty); err == nil {
		t.Error("expected error for survey without questions")
	}
}
