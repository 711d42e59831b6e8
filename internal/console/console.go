// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console provides the progress reporter the pipeline threads
// through every stage. The reporter carries no data needed for correctness;
// Nop drops everything and the pipeline behaves identically.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Reporter receives human-readable progress notifications from the pipeline.
type Reporter interface {
	// StageStart announces that a pipeline stage began.
	StageStart(stage string)

	// StageDone announces that a stage completed, with a short status line.
	StageDone(stage, status string)

	// Infof prints an informational line.
	Infof(format string, args ...any)

	// Warnf prints a warning line.
	Warnf(format string, args ...any)

	// Summary prints a tabular run summary as label/value rows.
	Summary(title string, rows [][2]string)
}

// Color palette shared by the styled reporter.
var (
	colorSuccess = lipgloss.Color("#00D787")
	colorWarning = lipgloss.Color("#FFAF00")
	colorInfo    = lipgloss.Color("#5FAFFF")
	colorMuted   = lipgloss.Color("#888888")
)

var (
	styleStage   = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	styleDone    = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleTitle   = lipgloss.NewStyle().Bold(true)
)

// Styled is a Reporter that writes lipgloss-styled lines to an io.Writer.
type Styled struct {
	W io.Writer
}

// NewStyled returns a styled reporter writing to w.
func NewStyled(w io.Writer) *Styled {
	return &Styled{W: w}
}

func (s *Styled) StageStart(stage string) {
	fmt.Fprintf(s.W, "%s %s\n", styleStage.Render("→"), stage)
}

func (s *Styled) StageDone(stage, status string) {
	fmt.Fprintf(s.W, "%s %s: %s\n", styleDone.Render("✓"), stage, status)
}

func (s *Styled) Infof(format string, args ...any) {
	fmt.Fprintf(s.W, "%s\n", fmt.Sprintf(format, args...))
}

func (s *Styled) Warnf(format string, args ...any) {
	fmt.Fprintf(s.W, "%s %s\n", styleWarning.Render("warning:"), fmt.Sprintf(format, args...))
}

func (s *Styled) Summary(title string, rows [][2]string) {
	fmt.Fprintln(s.W, styleTitle.Render(title))
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		fmt.Fprintf(s.W, "  %s  %s\n", styleMuted.Render(fmt.Sprintf("%-*s", width, row[0])), row[1])
	}
}

// Nop is a Reporter that discards every notification.
type Nop struct{}

func (Nop) StageStart(string)           {}
func (Nop) StageDone(string, string)    {}
func (Nop) Infof(string, ...any)        {}
func (Nop) Warnf(string, ...any)        {}
func (Nop) Summary(string, [][2]string) {}
