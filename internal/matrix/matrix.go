// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package matrix fans the survey out across the model set and collects the
// (model × question) result matrix.
//
// Within one model the question chain is strictly sequential, because later
// questions may reference earlier answers. Models never share answers, so
// the per-model chains run concurrently; declaration order is restored when
// the matrix is assembled, not during execution.
package matrix

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/referee/internal/console"
	"github.com/pdiddy/referee/internal/survey"
	"github.com/pdiddy/referee/pkg/types"
)

// Runner abstracts the external model runner so tests can supply a mock.
// Implementations evaluate one rendered prompt against one model backend.
type Runner interface {
	Evaluate(ctx context.Context, model types.ModelConfig, prompt string) (string, error)
}

// ExecutionError reports a model runner failure for one (model, question)
// cell. Under the default all-or-nothing policy it aborts the whole build.
type ExecutionError struct {
	Model    string
	Question string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("model %s failed on question %q: %v", e.Model, e.Question, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// BuildOptions configures one matrix build.
type BuildOptions struct {
	// Scenario is the single bound scenario.
	Scenario types.Scenario

	// Survey is the ordered question set; must pass survey.Validate.
	Survey types.Survey

	// Models is the ordered model set. Report sections follow this order.
	Models []types.ModelConfig

	// Runner dispatches rendered prompts to the model backends.
	Runner Runner

	// BestEffort fills failed cells with an error placeholder instead of
	// aborting the build. Off by default: the report is all-or-nothing.
	BestEffort bool

	// Reporter receives per-cell progress lines. Nil means no output.
	Reporter console.Reporter
}

// Build evaluates the full question chain for every model and returns the
// complete result matrix. Template references are validated before any model
// call; a dangling reference is fatal for the whole run.
//
// On the first runner failure (default policy) all in-flight sibling chains
// are cancelled and no partial matrix is returned.
func Build(ctx context.Context, opts BuildOptions) (*types.ResultMatrix, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("%w: no runner configured", types.ErrInvalidArgument)
	}
	if len(opts.Models) == 0 {
		return nil, fmt.Errorf("%w: model set is empty", types.ErrInvalidArgument)
	}
	if err := survey.Validate(opts.Survey, opts.Scenario); err != nil {
		return nil, err
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = console.Nop{}
	}

	// One slot per model so chains never contend; order is restored below.
	chains := make([][]types.ResultCell, len(opts.Models))

	g, gctx := errgroup.WithContext(ctx)
	for i, model := range opts.Models {
		i, model := i, model
		g.Go(func() error {
			cells, err := runChain(gctx, model, opts, reporter)
			if err != nil {
				return err
			}
			chains[i] = cells
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := types.NewResultMatrix(opts.Models, opts.Survey.Names())
	for _, cells := range chains {
		for _, cell := range cells {
			m.Set(cell)
		}
	}
	return m, nil
}

// runChain evaluates the full question chain for one model, in declaration
// order, threading each answer into the template context for the questions
// after it.
func runChain(ctx context.Context, model types.ModelConfig, opts BuildOptions, reporter console.Reporter) ([]types.ResultCell, error) {
	answers := make(map[string]string, opts.Survey.Len())
	cells := make([]types.ResultCell, 0, opts.Survey.Len())

	for _, q := range opts.Survey.Questions {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		prompt, err := survey.Resolve(q, opts.Scenario, answers)
		if err != nil {
			return nil, err
		}

		reporter.Infof("  %s ← %s", model.Name, q.Name)

		answer, err := opts.Runner.Evaluate(ctx, model, prompt)
		if err != nil {
			execErr := &ExecutionError{Model: model.Name, Question: q.Name, Err: err}
			if !opts.BestEffort {
				return nil, execErr
			}
			reporter.Warnf("%v (best-effort: recording placeholder)", execErr)
			answer = errorPlaceholder(execErr)
		}

		answers[q.Name] = answer
		cells = append(cells, types.ResultCell{
			Model:    model.Name,
			Question: q.Name,
			Answer:   answer,
		})
	}

	return cells, nil
}

// errorPlaceholder is the cell content recorded for a failed call in
// best-effort mode.
func errorPlaceholder(err *ExecutionError) string {
	return fmt.Sprintf("[unavailable: %v]", err)
}
