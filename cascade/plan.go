package cascade

import (
	"context"
	"fmt"
	"time"
)

// Step is one named unit of work in a Plan.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Plan runs steps in order and stops at the first failure. Completed steps
// are recorded and never undone; recovery is by re-running the whole
// operation.
type Plan struct {
	name      string
	steps     []Step
	completed []string

	// OnStepComplete is called after every step, successful or not.
	OnStepComplete func(name string, elapsed time.Duration, err error)
}

// NewPlan creates an empty plan. The name prefixes step names in hooks.
func NewPlan(name string) *Plan {
	return &Plan{name: name}
}

// Add appends a step.
func (p *Plan) Add(step Step) {
	p.steps = append(p.steps, step)
}

// AddIf appends a step only when cond is true.
func (p *Plan) AddIf(cond bool, step Step) {
	if cond {
		p.Add(step)
	}
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Execute runs every step in order. On failure it returns the failing step's
// name and its error.
func (p *Plan) Execute(ctx context.Context) (string, error) {
	for _, step := range p.steps {
		start := time.Now()
		err := runStep(ctx, step)
		if p.OnStepComplete != nil {
			p.OnStepComplete(p.qualified(step.Name), time.Since(start), err)
		}
		if err != nil {
			return step.Name, err
		}
		p.completed = append(p.completed, step.Name)
	}
	return "", nil
}

// Completed returns the names of steps that succeeded, in order.
func (p *Plan) Completed() []string {
	out := make([]string, len(p.completed))
	copy(out, p.completed)
	return out
}

func (p *Plan) qualified(step string) string {
	if p.name == "" {
		return step
	}
	return p.name + "." + step
}

// runStep converts a panicking step into an error.
func runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", step.Name, r)
		}
	}()
	return step.Run(ctx)
}
