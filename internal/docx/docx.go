// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx writes and reads a minimal subset of the OOXML word-processing
// format: flat sequences of paragraphs, optionally styled as headings. This
// covers exactly what a rendered report needs — a heading per model section
// followed by answer paragraphs — while staying a valid .docx any reader
// can open.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// StyleHeading1 is the paragraph style applied to section headings.
const StyleHeading1 = "Heading1"

// Block is one paragraph with an optional style.
type Block struct {
	// Style is the paragraph style ID; empty for body text.
	Style string

	// Text is the paragraph content.
	Text string
}

// Document is an ordered sequence of blocks.
type Document struct {
	blocks []Block
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// AddHeading appends a level-1 heading paragraph.
func (d *Document) AddHeading(text string) {
	d.blocks = append(d.blocks, Block{Style: StyleHeading1, Text: text})
}

// AddParagraph appends body paragraphs; text is split on newlines so that
// multi-line answers keep their paragraph structure.
func (d *Document) AddParagraph(text string) {
	for _, line := range strings.Split(text, "\n") {
		d.blocks = append(d.blocks, Block{Text: line})
	}
}

// Blocks returns the document content in order.
func (d *Document) Blocks() []Block {
	return d.blocks
}

// Save serializes the document as a .docx (zip) archive to w.
func (d *Document) Save(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", d.documentXML()},
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.content); err != nil {
			return fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	return zw.Close()
}

// WriteFile saves the document to path, overwriting any existing file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// documentXML builds word/document.xml.
func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, block := range d.blocks {
		b.WriteString("<w:p>")
		if block.Style != "" {
			fmt.Fprintf(&b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, block.Style)
		}
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		xml.EscapeText(&b, []byte(block.Text))
		b.WriteString("</w:t></w:r></w:p>")
	}

	b.WriteString("</w:body></w:document>")
	return b.String()
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:styleId="Heading1">` +
	`<w:name w:val="heading 1"/>` +
	`<w:pPr><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="32"/></w:rPr>` +
	`</w:style>` +
	`</w:styles>`
