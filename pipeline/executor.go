package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer receives execution events from a running chain. Implementations
// must be safe for concurrent use when the chain is shared across runs.
type Observer interface {
	// StageCompleted is called after each stage's partial has been merged.
	// degraded is true when the partial carried an ErrorKey entry.
	StageCompleted(stage string, degraded bool, duration time.Duration)
	// RunCompleted is called once the finish stage has been merged.
	RunCompleted(duration time.Duration)
}

// Chain is a compiled pipeline: an ordered list of stages with a fixed
// entry and finish. Chains hold no per-run state and are reusable; every
// call to Run threads its own State copy through the stages.
type Chain struct {
	name     string
	stages   []Stage
	logger   *zap.Logger
	observer Observer
}

// Name returns the pipeline name.
func (c *Chain) Name() string { return c.name }

// Stages returns the stage names in execution order.
func (c *Chain) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes the chain once against a copy of the initial state and
// returns the state after the finish stage has been merged.
//
// Stages execute strictly in chain order: stage i+1 never starts before
// stage i's partial has been merged. Stage-level failures never surface
// here; they arrive merged into the returned state under ErrorKey. The
// only error conditions are context cancellation and a stage breaking its
// contract by returning a non-nil error.
func (c *Chain) Run(ctx context.Context, initial State) (State, error) {
	runID := uuid.NewString()
	start := time.Now()

	c.logger.Info("pipeline run started",
		zap.String("pipeline", c.name),
		zap.String("run_id", runID),
		zap.Int("stages", len(c.stages)),
	)

	current := initial.Clone()

	for i, stage := range c.stages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stageStart := time.Now()
		partial, err := stage.Run(ctx, current)
		stageDuration := time.Since(stageStart)
		if err != nil {
			c.logger.Error("stage aborted run",
				zap.String("run_id", runID),
				zap.String("stage", stage.Name()),
				zap.Duration("duration", stageDuration),
				zap.Error(err),
			)
			return nil, fmt.Errorf("stage %d (%s) failed: %w", i+1, stage.Name(), err)
		}

		degraded := partial.Has(ErrorKey)
		current = Merge(current, partial)

		if c.observer != nil {
			c.observer.StageCompleted(stage.Name(), degraded, stageDuration)
		}
		c.logger.Debug("stage completed",
			zap.String("run_id", runID),
			zap.String("stage", stage.Name()),
			zap.Bool("degraded", degraded),
			zap.Int("fields", len(partial)),
			zap.Duration("duration", stageDuration),
		)
	}

	total := time.Since(start)
	if c.observer != nil {
		c.observer.RunCompleted(total)
	}
	c.logger.Info("pipeline run completed",
		zap.String("pipeline", c.name),
		zap.String("run_id", runID),
		zap.Duration("duration", total),
	)

	return current, nil
}
