// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Read parses a .docx archive back into its block sequence. Only paragraph
// styles and run text are recovered, which is all Save emits.
func Read(r io.ReaderAt, size int64) ([]Block, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("opening word/document.xml: %w", err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

// ReadFile parses the .docx at path.
func ReadFile(path string) ([]Block, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening docx %s: %w", path, err)
	}
	defer zr.Close()

	rc, err := zr.Open("word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("opening word/document.xml in %s: %w", path, err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

// Headings filters blocks down to heading text, in document order.
func Headings(blocks []Block) []string {
	var out []string
	for _, b := range blocks {
		if b.Style == StyleHeading1 {
			out = append(out, b.Text)
		}
	}
	return out
}

func parseDocumentXML(r io.Reader) ([]Block, error) {
	dec := xml.NewDecoder(r)

	var blocks []Block
	var current *Block
	var inText bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current = &Block{}
			case "pStyle":
				if current != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" {
							current.Style = attr.Value
						}
					}
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if current != nil {
					blocks = append(blocks, *current)
					current = nil
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && current != nil {
				current.Text += string(t)
			}
		}
	}

	// Strip trailing whitespace artifacts from decoding.
	for i := range blocks {
		blocks[i].Text = strings.TrimRight(blocks[i].Text, "\r")
	}
	return blocks, nil
}
