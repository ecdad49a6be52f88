package mdkatex

import (
	"context"
	"fmt"
)

// Engine renders one LaTeX source string to markup. Instances are
// expensive to initialize and must only ever be called from the worker
// that owns them; the orchestrator gives each worker exactly one.
type Engine interface {
	Render(ctx context.Context, source string, displayMode bool) (string, error)
	Close() error
}

// EngineFactory constructs a fresh Engine for one worker. Factories are
// called lazily, at most once per worker.
type EngineFactory func(opts *RenderOptions) (Engine, error)

// RenderError is a typed engine failure carrying the offending source and
// the engine-reported message.
type RenderError struct {
	Source  string
	Message string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRenderFailed, e.Message)
}

func (e *RenderError) Unwrap() error { return ErrRenderFailed }

// RenderOutcome is the tagged per-span result: Markup on success, Err on
// a typed engine failure.
type RenderOutcome struct {
	Markup string
	Err    *RenderError
}

// OK reports whether the span rendered successfully.
func (o RenderOutcome) OK() bool { return o.Err == nil }
