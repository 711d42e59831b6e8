package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/referee/pkg/types"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve(t *testing.T) {
	path := writeDoc(t, "paper.txt", "the paper body")

	ref, err := Resolve(path, 0, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if ref.Name != "paper.txt" {
		t.Errorf("Name = %q, want paper.txt", ref.Name)
	}
	if ref.Stem != "paper" {
		t.Errorf("Stem = %q, want paper", ref.Stem)
	}
	if ref.Text != "the paper body" {
		t.Errorf("Text = %q", ref.Text)
	}
	if ref.Pages != 0 {
		t.Errorf("Pages = %d, want 0", ref.Pages)
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.txt"), 0, nil)
	var docErr *InvalidDocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Resolve() = %T, want *InvalidDocumentError", err)
	}
}

func TestResolveEmptyText(t *testing.T) {
	path := writeDoc(t, "blank.txt", "   \n\t\n")

	_, err := Resolve(path, 0, nil)
	var docErr *InvalidDocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Resolve() = %T, want *InvalidDocumentError", err)
	}
	if !strings.Contains(err.Error(), "no text") {
		t.Errorf("error %q does not mention empty extraction", err)
	}
}

func TestResolveNegativePages(t *testing.T) {
	path := writeDoc(t, "paper.txt", "body")

	_, err := Resolve(path, -1, nil)
	if !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("Resolve() = %v, want ErrInvalidArgument", err)
	}
}

func TestResolvePageLimit(t *testing.T) {
	path := writeDoc(t, "paper.txt", "page one\fpage two\fpage three")

	ref, err := Resolve(path, 2, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if ref.Text != "page one\fpage two" {
		t.Errorf("Text = %q, want first two pages", ref.Text)
	}
	if ref.Pages != 2 {
		t.Errorf("Pages = %d, want 2", ref.Pages)
	}
}

func TestPlainExtractorPageLimitBeyondDocument(t *testing.T) {
	path := writeDoc(t, "short.txt", "only page")

	text, err := (&PlainExtractor{}).ExtractText(path, 10)
	if err != nil {
		t.Fatalf("ExtractText() error: %v", err)
	}
	if text != "only page" {
		t.Errorf("ExtractText() = %q", text)
	}
}

func TestBind(t *testing.T) {
	ref := types.DocumentReference{Path: "p.pdf", Name: "p.pdf", Stem: "p", Text: "t"}
	sc := Bind(ref)

	got, ok := sc.Paper()
	if !ok {
		t.Fatal("paper slot not bound")
	}
	if got != ref {
		t.Errorf("bound reference = %+v, want %+v", got, ref)
	}
}

func TestDefaultExtractor(t *testing.T) {
	if _, ok := DefaultExtractor("paper.pdf").(*PdftotextExtractor); !ok {
		t.Error("expected pdftotext for .pdf")
	}
	if _, ok := DefaultExtractor("paper.PDF").(*PdftotextExtractor); !ok {
		t.Error("expected pdftotext for .PDF")
	}
	if _, ok := DefaultExtractor("paper.txt").(*PlainExtractor); !ok {
		t.Error("expected plain for .txt")
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: "plain"},
		{name: "pdftotext", want: "pdftotext"},
		{name: "plain", want: "plain"},
		{name: "ocr", wantErr: true},
	}

	for _, tt := range tests {
		ex, err := ForName(tt.name, "paper.txt")
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForName(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForName(%q) error: %v", tt.name, err)
			continue
		}
		switch tt.want {
		case "pdftotext":
			if _, ok := ex.(*PdftotextExtractor); !ok {
				t.Errorf("ForName(%q) = %T, want *PdftotextExtractor", tt.name, ex)
			}
		case "plain":
			if _, ok := ex.(*PlainExtractor); !ok {
				t.Errorf("ForName(%q) = %T, want *PlainExtractor", tt.name, ex)
			}
		}
	}
}

func TestPdftotextExtractorMissingBinary(t *testing.T) {
	ex := &PdftotextExtractor{Bin: "definitely-not-a-real-binary"}
	_, err := ex.ExtractText("paper.pdf", 0)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("ExtractText() = %v, want missing-binary error", err)
	}
}
