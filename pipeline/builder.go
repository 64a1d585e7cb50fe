package pipeline

import (
	"fmt"

	"go.uber.org/zap"
)

// Builder assembles and validates a linear pipeline definition.
//
// Stages are registered by name, connected with directed edges, and marked
// with an entry and a finish stage. Build compiles the definition into a
// Chain, failing fast when the definition is not a single connected
// entry-to-finish chain.
type Builder struct {
	name     string
	stages   map[string]Stage
	edges    map[string]string
	entry    string
	finish   string
	logger   *zap.Logger
	observer Observer

	// deferred registration errors, surfaced by Build
	errs []error
}

// NewBuilder creates a builder for a pipeline with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:   name,
		stages: make(map[string]Stage),
		edges:  make(map[string]string),
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used by the builder and the built chain.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithObserver sets the execution observer for the built chain.
func (b *Builder) WithObserver(obs Observer) *Builder {
	b.observer = obs
	return b
}

// AddStage registers a stage under its own name.
func (b *Builder) AddStage(s Stage) *Builder {
	if s == nil || s.Name() == "" {
		b.errs = append(b.errs, fmt.Errorf("stage must be non-nil and named"))
		return b
	}
	if _, exists := b.stages[s.Name()]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate stage: %s", s.Name()))
		return b
	}
	b.stages[s.Name()] = s
	return b
}

// AddEdge connects two stages. A stage may have at most one outgoing edge;
// registering a second one is a definition error surfaced by Build.
func (b *Builder) AddEdge(from, to string) *Builder {
	if _, exists := b.edges[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("stage %s already has an outgoing edge", from))
		return b
	}
	b.edges[from] = to
	return b
}

// SetEntry marks the stage the run starts from.
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

// SetFinish marks the stage the run ends at.
func (b *Builder) SetFinish(name string) *Builder {
	b.finish = name
	return b
}

// Build validates the definition and compiles it into a runnable Chain.
func (b *Builder) Build() (*Chain, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", b.name, err)
	}

	order, err := b.resolveOrder()
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", b.name, err)
	}

	b.logger.Info("pipeline built",
		zap.String("pipeline", b.name),
		zap.Int("stages", len(order)),
		zap.String("entry", b.entry),
		zap.String("finish", b.finish),
	)

	return &Chain{
		name:     b.name,
		stages:   order,
		logger:   b.logger.With(zap.String("component", "pipeline")),
		observer: b.observer,
	}, nil
}

func (b *Builder) validate() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	if len(b.stages) == 0 {
		return fmt.Errorf("no stages registered")
	}
	if b.entry == "" {
		return fmt.Errorf("entry stage not set")
	}
	if b.finish == "" {
		return fmt.Errorf("finish stage not set")
	}
	if _, ok := b.stages[b.entry]; !ok {
		return fmt.Errorf("entry stage not registered: %s", b.entry)
	}
	if _, ok := b.stages[b.finish]; !ok {
		return fmt.Errorf("finish stage not registered: %s", b.finish)
	}
	for from, to := range b.edges {
		if _, ok := b.stages[from]; !ok {
			return fmt.Errorf("edge references unregistered stage: %s", from)
		}
		if _, ok := b.stages[to]; !ok {
			return fmt.Errorf("edge references unregistered stage: %s", to)
		}
	}
	if _, ok := b.edges[b.finish]; ok {
		return fmt.Errorf("finish stage %s must not have an outgoing edge", b.finish)
	}
	return nil
}

// resolveOrder walks the chain from entry to finish and returns the stages
// in execution order. The walk doubles as cycle and connectivity detection:
// revisiting a stage means a cycle, and any stage left unvisited is
// unreachable from the entry.
func (b *Builder) resolveOrder() ([]Stage, error) {
	visited := make(map[string]bool, len(b.stages))
	order := make([]Stage, 0, len(b.stages))

	current := b.entry
	for {
		if visited[current] {
			return nil, fmt.Errorf("cycle detected at stage: %s", current)
		}
		visited[current] = true
		order = append(order, b.stages[current])

		next, ok := b.edges[current]
		if !ok {
			break
		}
		current = next
	}

	if current != b.finish {
		return nil, fmt.Errorf("chain ends at %s, not at finish stage %s", current, b.finish)
	}
	if len(order) != len(b.stages) {
		for name := range b.stages {
			if !visited[name] {
				return nil, fmt.Errorf("stage not reachable from entry: %s", name)
			}
		}
	}

	return order, nil
}
