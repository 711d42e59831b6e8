// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Extractor turns a document file into plain text. Different backends
// (pdftotext for PDFs, plain reads for text files) implement this interface.
type Extractor interface {
	// ExtractText reads the file at path and returns its text content.
	// pages > 0 limits extraction to the first pages pages.
	ExtractText(path string, pages int) (string, error)
}

// DefaultExtractor picks an extractor based on the file extension:
// pdftotext for .pdf, plain reads otherwise.
func DefaultExtractor(path string) Extractor {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &PdftotextExtractor{}
	}
	return &PlainExtractor{}
}

// ForName returns the extractor configured by name, or the extension-based
// default when name is empty.
func ForName(name, path string) (Extractor, error) {
	switch name {
	case "":
		return DefaultExtractor(path), nil
	case "pdftotext":
		return &PdftotextExtractor{}, nil
	case "plain":
		return &PlainExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want pdftotext or plain)", name)
	}
}

// PdftotextExtractor shells out to the poppler pdftotext binary.
type PdftotextExtractor struct {
	// Bin overrides the binary name, for tests. Empty means "pdftotext".
	Bin string
}

// ExtractText runs pdftotext over the PDF and returns its stdout. A page
// limit maps to pdftotext's -l flag.
func (p *PdftotextExtractor) ExtractText(path string, pages int) (string, error) {
	bin := p.Bin
	if bin == "" {
		bin = "pdftotext"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("pdftotext not found on PATH: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	args := []string{"-layout"}
	if pages > 0 {
		args = append(args, "-l", strconv.Itoa(pages))
	}
	// "-" sends the text to stdout.
	args = append(args, path, "-")

	var out, errBuf strings.Builder
	cmd := exec.Command(bin, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext %s: %w: %s", path, err, strings.TrimSpace(errBuf.String()))
	}
	return out.String(), nil
}

// PlainExtractor reads the file verbatim. Pages are delimited by form-feed
// characters, matching pdftotext's own page separator, so a page limit on a
// plain file keeps the first N form-feed-separated chunks.
type PlainExtractor struct{}

// ExtractText reads path and applies the page limit, if any.
func (p *PlainExtractor) ExtractText(path string, pages int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	if pages <= 0 {
		return text, nil
	}
	chunks := strings.Split(text, "\f")
	if pages < len(chunks) {
		chunks = chunks[:pages]
	}
	return strings.Join(chunks, "\f"), nil
}
