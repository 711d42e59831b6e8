// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink delivers the rendered report to exactly one destination:
// the system clipboard, a local docx file, or the remote artifact registry.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/pdiddy/referee/internal/report"
	"github.com/pdiddy/referee/pkg/types"
)

// Kind names one of the three mutually exclusive destinations.
type Kind string

const (
	// KindClipboard renders text and writes it to the system clipboard.
	KindClipboard Kind = "clipboard"

	// KindRemote renders a docx, writes it to a uniquely named temporary
	// file, and publishes it to the artifact registry.
	KindRemote Kind = "remote"

	// KindLocalFile renders a docx to referee_report_<stem>.docx. Default.
	KindLocalFile Kind = "file"
)

// Select maps the CLI sink flags to a Kind. Both flags set is an invalid
// argument; neither selects the local-file default.
func Select(toClipboard, toRemote bool) (Kind, error) {
	switch {
	case toClipboard && toRemote:
		return "", fmt.Errorf("%w: --clipboard and --to-remote are mutually exclusive", types.ErrInvalidArgument)
	case toClipboard:
		return KindClipboard, nil
	case toRemote:
		return KindRemote, nil
	default:
		return KindLocalFile, nil
	}
}

// Publisher is the registry capability the remote sink needs.
type Publisher interface {
	Publish(ctx context.Context, path, description string) (types.PublishRecord, error)
}

// Options configures one delivery.
type Options struct {
	// Kind selects the destination.
	Kind Kind

	// Matrix and Template drive rendering.
	Matrix   *types.ResultMatrix
	Template string

	// Source is the reviewed document; output filenames and publish
	// descriptions derive from it.
	Source types.DocumentReference

	// OutputPath overrides the local-file destination. Ignored, with a
	// warning from the caller, for the other sinks.
	OutputPath string

	// Publisher is required for the remote sink.
	Publisher Publisher

	// SourceRecord is the publish record of the source document when it
	// was published this run; nil downgrades the description reference
	// to "unknown".
	SourceRecord *types.PublishRecord

	// TempDir overrides the temporary directory for the remote sink.
	// Empty means os.TempDir(). Tests use it to inspect the leaked file.
	TempDir string
}

// Result describes what a delivery produced.
type Result struct {
	Kind Kind

	// Path is the written file for the local and remote sinks (for the
	// remote sink, the temporary file that was published).
	Path string

	// Record is the report's publish record for the remote sink.
	Record *types.PublishRecord
}

// Deliver renders the report in the format the sink requires and performs
// the side effect. No partial output reaches the destination: rendering
// errors surface before anything is written.
func Deliver(ctx context.Context, opts Options) (Result, error) {
	switch opts.Kind {
	case KindClipboard:
		return deliverClipboard(opts)
	case KindRemote:
		return deliverRemote(ctx, opts)
	case KindLocalFile:
		return deliverLocalFile(opts)
	default:
		return Result{}, fmt.Errorf("%w: unknown sink %q", types.ErrInvalidArgument, opts.Kind)
	}
}

func deliverClipboard(opts Options) (Result, error) {
	text, err := report.Text(opts.Matrix, opts.Template)
	if err != nil {
		return Result{}, err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return Result{}, fmt.Errorf("writing clipboard: %w", err)
	}
	return Result{Kind: KindClipboard}, nil
}

func deliverLocalFile(opts Options) (Result, error) {
	doc, err := report.Document(opts.Matrix, opts.Template)
	if err != nil {
		return Result{}, err
	}

	path := opts.OutputPath
	if path == "" {
		path = LocalFilename(opts.Source)
	}
	if err := doc.WriteFile(path); err != nil {
		return Result{}, fmt.Errorf("writing report %s: %w", path, err)
	}
	return Result{Kind: KindLocalFile, Path: path}, nil
}

func deliverRemote(ctx context.Context, opts Options) (Result, error) {
	if opts.Publisher == nil {
		return Result{}, fmt.Errorf("%w: remote sink requires a registry client", types.ErrInvalidArgument)
	}

	doc, err := report.Document(opts.Matrix, opts.Template)
	if err != nil {
		return Result{}, err
	}

	// The temporary file is deliberately left in place after a successful
	// publish: one leaked file per invocation, see docs. Uniqueness comes
	// from the uuid suffix.
	path := TempFilename(opts.TempDir)
	if err := doc.WriteFile(path); err != nil {
		return Result{}, fmt.Errorf("writing temporary report %s: %w", path, err)
	}

	record, err := opts.Publisher.Publish(ctx, path, Description(opts.Source, opts.SourceRecord))
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindRemote, Path: path, Record: &record}, nil
}

// Description builds the publish description for the rendered report. When
// the source document was not published this run the reference degrades to
// the literal "unknown".
func Description(source types.DocumentReference, sourceRecord *types.PublishRecord) string {
	paperURL := "unknown"
	if sourceRecord != nil && sourceRecord.URL != "" {
		paperURL = sourceRecord.URL
	}
	return fmt.Sprintf("Review of paper: %s. Paper at %s", source.Name, paperURL)
}

// LocalFilename derives the default local report filename from the source
// document's stem.
func LocalFilename(source types.DocumentReference) string {
	return fmt.Sprintf("referee_report_%s.docx", source.Stem)
}

// TempFilename builds a uniquely named temporary docx path under dir
// (os.TempDir() when dir is empty).
func TempFilename(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("referee_report_%s.docx", uuid.NewString()))
}
