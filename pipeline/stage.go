package pipeline

import "context"

// Stage is one named unit of work in a pipeline.
//
// Run receives the current State and returns a partial State to merge back
// into it. Stages must encode external-call failures in-band: catch the
// failure, log it, and return a partial carrying a sentinel value in the
// stage's primary output field plus a message under ErrorKey. The error
// return is reserved for context cancellation and programming mistakes;
// a returned error aborts the whole run.
type Stage interface {
	// Name returns the stage name used in chain wiring and logs.
	Name() string
	// Run executes the stage against the current state.
	Run(ctx context.Context, s State) (State, error)
}

// StageFunc is the function form of a stage body.
type StageFunc func(ctx context.Context, s State) (State, error)

// FuncStage adapts a plain function into a Stage.
type FuncStage struct {
	name string
	fn   StageFunc
}

// NewFuncStage creates a stage from a function.
func NewFuncStage(name string, fn StageFunc) *FuncStage {
	return &FuncStage{name: name, fn: fn}
}

func (s *FuncStage) Name() string { return s.name }

func (s *FuncStage) Run(ctx context.Context, state State) (State, error) {
	return s.fn(ctx, state)
}
