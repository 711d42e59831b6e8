// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the referee stages together: document resolution,
// survey construction, matrix execution, rendering, and delivery. The CLI
// is a thin shell around Run.
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pdiddy/referee/internal/console"
	"github.com/pdiddy/referee/internal/document"
	"github.com/pdiddy/referee/internal/matrix"
	"github.com/pdiddy/referee/internal/report"
	"github.com/pdiddy/referee/internal/sink"
	"github.com/pdiddy/referee/internal/survey"
	"github.com/pdiddy/referee/pkg/types"
)

// Options configures one pipeline invocation. Optional fields document
// their zero-value behavior.
type Options struct {
	// DocumentPath is the source document. Required.
	DocumentPath string

	// Pages truncates the document to its first N pages. Zero means no
	// truncation; negative is rejected before any model call.
	Pages int

	// Prompt overrides the first question's prompt text. Empty means the
	// default economics-style critique prompt.
	Prompt string

	// Rebuttal chains a second question that answers the review on the
	// authors' behalf.
	Rebuttal bool

	// SurveyFile loads the question set from a YAML file instead of the
	// default survey; it overrides Prompt and Rebuttal.
	SurveyFile string

	// Survey supplies a pre-built question set directly, overriding
	// SurveyFile, Prompt, and Rebuttal. Used by tests.
	Survey *types.Survey

	// Models is the ordered model set. Empty means types.DefaultModels().
	Models []types.ModelConfig

	// Sink selects the report destination. Empty means the local file.
	Sink sink.Kind

	// OutputPath overrides the local-file sink's path.
	OutputPath string

	// Template overrides the report template. Empty derives the default
	// from the survey's question order.
	Template string

	// BestEffort records placeholders for failed cells instead of
	// aborting. Off by default.
	BestEffort bool

	// Extractor overrides document text extraction. Nil picks by file
	// extension.
	Extractor document.Extractor

	// Runner dispatches prompts to model backends. Required.
	Runner matrix.Runner

	// Publisher is the artifact registry client; required only for the
	// remote sink.
	Publisher sink.Publisher

	// TempDir overrides the remote sink's temporary directory.
	TempDir string

	// Reporter receives progress output. Nil means silent.
	Reporter console.Reporter
}

// Result is what a successful run produced.
type Result struct {
	Matrix       *types.ResultMatrix
	Sink         sink.Result
	SourceRecord *types.PublishRecord
}

// ValidatePages rejects an explicit non-positive page limit. The CLI calls
// this before Run so the error surfaces before any model call.
func ValidatePages(set bool, pages int) error {
	if set && pages <= 0 {
		return fmt.Errorf("%w: --pages must be a positive integer, got %d", types.ErrInvalidArgument, pages)
	}
	return nil
}

// Run executes the full pipeline. The failure policy is all-or-nothing
// unless BestEffort is set: once matrix construction begins, no partial
// report ever reaches the sink.
func Run(ctx context.Context, opts Options) (Result, error) {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = console.Nop{}
	}
	if opts.Sink == "" {
		opts.Sink = sink.KindLocalFile
	}

	// Document resolution and scenario binding.
	reporter.StageStart(fmt.Sprintf("processing document %s", opts.DocumentPath))
	ref, err := document.Resolve(opts.DocumentPath, opts.Pages, opts.Extractor)
	if err != nil {
		return Result{}, err
	}
	if ref.Pages > 0 {
		reporter.StageDone("document accepted", fmt.Sprintf("%s, limited to first %d pages", ref.Name, ref.Pages))
	} else {
		reporter.StageDone("document accepted", ref.Name)
	}
	scenario := document.Bind(ref)

	// Question set.
	sv, err := buildSurvey(opts)
	if err != nil {
		return Result{}, err
	}
	if err := survey.Validate(sv, scenario); err != nil {
		return Result{}, err
	}

	models := opts.Models
	if len(models) == 0 {
		models = types.DefaultModels()
	}

	// The source document is published before execution so the report's
	// description can reference a real URL. A failure here only degrades
	// that reference to "unknown".
	var sourceRecord *types.PublishRecord
	if opts.Sink == sink.KindRemote && opts.Publisher != nil {
		reporter.StageStart("publishing source document")
		record, err := opts.Publisher.Publish(ctx, ref.Path, fmt.Sprintf("Paper being reviewed: %s", ref.Name))
		if err != nil {
			reporter.Warnf("source publish failed, report will reference it as unknown: %v", err)
		} else {
			sourceRecord = &record
			reporter.StageDone("source published", record.URL)
		}
	}

	// Fan out and collect.
	reporter.StageStart(fmt.Sprintf("running %d questions across %d models", sv.Len(), len(models)))
	m, err := matrix.Build(ctx, matrix.BuildOptions{
		Scenario:   scenario,
		Survey:     sv,
		Models:     models,
		Runner:     opts.Runner,
		BestEffort: opts.BestEffort,
		Reporter:   reporter,
	})
	if err != nil {
		return Result{}, err
	}
	reporter.StageDone("answers collected", fmt.Sprintf("%d cells", m.Size()))

	// Render and deliver.
	template := opts.Template
	if template == "" {
		template = report.DefaultTemplate(sv.Names())
	}

	delivered, err := sink.Deliver(ctx, sink.Options{
		Kind:         opts.Sink,
		Matrix:       m,
		Template:     template,
		Source:       ref,
		OutputPath:   opts.OutputPath,
		Publisher:    opts.Publisher,
		SourceRecord: sourceRecord,
		TempDir:      opts.TempDir,
	})
	if err != nil {
		return Result{}, err
	}

	switch delivered.Kind {
	case sink.KindClipboard:
		reporter.StageDone("report copied", "clipboard")
	case sink.KindRemote:
		reporter.StageDone("report published", delivered.Record.URL)
		reporter.Infof("temporary report file: %s", delivered.Path)
	default:
		reporter.StageDone("report generated", delivered.Path)
	}

	reporter.Summary("run summary", [][2]string{
		{"document", ref.Name},
		{"models", strconv.Itoa(len(models))},
		{"questions", strconv.Itoa(sv.Len())},
		{"cells", strconv.Itoa(m.Size())},
		{"sink", string(delivered.Kind)},
	})

	return Result{Matrix: m, Sink: delivered, SourceRecord: sourceRecord}, nil
}

func buildSurvey(opts Options) (types.Survey, error) {
	if opts.Survey != nil {
		return *opts.Survey, nil
	}
	if opts.SurveyFile != "" {
		return survey.LoadFile(opts.SurveyFile)
	}
	return survey.Default(opts.Prompt, opts.Rebuttal), nil
}
