package staleness

import (
	"go.trai.ch/stale/internal/core/ports"
)

// Engine creates Evaluators, each with its own filesystem view and cache.
type Engine struct {
	factory ports.FileSystemFactory
}

// NewEngine creates a new Engine.
func NewEngine(factory ports.FileSystemFactory) *Engine {
	return &Engine{factory: factory}
}

// NewEvaluator starts a session: a fresh filesystem configured by opts and an empty cache.
func (e *Engine) NewEvaluator(opts ports.FileSystemOptions) (*Evaluator, error) {
	fsys, err := e.factory.New(opts)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(fsys, NewCache()), nil
}
