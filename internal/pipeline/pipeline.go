// Package pipeline runs an ordered sequence of named fallible steps,
// stopping at the first failure.
package pipeline

import (
	"context"
	"fmt"

	"github.com/crs4/seekimages/internal/logs"
)

// Step is one unit of work in a pipeline. Name is used for progress
// reporting and to annotate failures.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError wraps the error returned by a failed step together with the
// step's name and position.
type StepError struct {
	StepName string
	Index    int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline holds an ordered list of steps under a common name.
type Pipeline struct {
	name  string
	steps []Step
}

func New(name string, steps ...Step) *Pipeline {
	return &Pipeline{
		name:  name,
		steps: steps,
	}
}

// Append adds steps to the end of the pipeline.
func (p *Pipeline) Append(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Len returns the number of steps currently in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Execute runs every step in order. The first failing step aborts the run
// and its error is returned wrapped in a *StepError. Context cancellation
// is checked before each step.
func (p *Pipeline) Execute(ctx context.Context) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{StepName: step.Name, Index: i, Err: err}
		}

		logs.Infof("[%s] %s (%d/%d)", p.name, step.Name, i+1, len(p.steps))

		if err := step.Run(ctx); err != nil {
			return &StepError{StepName: step.Name, Index: i, Err: err}
		}
	}

	return nil
}
