// Package provision models a single bootstrap run as an ordered sequence of
// named steps and drives them with fail-fast semantics.
package provision

import (
	"context"
	"fmt"
)

// Step is one unit of work in a bootstrap run.
type Step struct {
	// Name identifies the step in results and error messages.
	Name string
	// Fn performs the step. A non-nil error halts the run.
	Fn func(ctx context.Context) error
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Name string
	Err  error
}

// Run accumulates the results of executed steps across one bootstrap
// invocation. Results are always a prefix of the steps handed to Execute:
// once a step fails, no later step runs or is recorded.
type Run struct {
	results []StepResult
	skipped bool
}

// NewRun creates an empty Run.
func NewRun() *Run {
	return &Run{}
}

// Execute runs the given steps in order, recording one StepResult per step
// that was started. It stops at the first failure and returns the failing
// step's error wrapped with the step name.
func (r *Run) Execute(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		err := step.Fn(ctx)
		r.results = append(r.results, StepResult{Name: step.Name, Err: err})

		if err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	return nil
}

// MarkSkipped records that the run short-circuited at the skip gate.
// Steps executed before the gate remain recorded.
func (r *Run) MarkSkipped() {
	r.skipped = true
}

// Skipped reports whether the run short-circuited at the skip gate.
func (r *Run) Skipped() bool {
	return r.skipped
}

// Results returns the recorded step results in execution order.
func (r *Run) Results() []StepResult {
	out := make([]StepResult, len(r.results))
	copy(out, r.results)

	return out
}
