// Package transformer turns raw LMS log events into xAPI statements. The
// Dispatcher routes each event to the transform registered for its type; the
// transforms compose the shared normalizers, the verb catalog and the
// activity builders into complete statements.
package transformer

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// Env bundles the read-only collaborators every transform receives: the
// configuration and the record resolver. Transforms never mutate either.
type Env struct {
	Cfg *config.Config
	Res *lms.Resolver
}

// Func is one event transform. It returns the ordered statements derived
// from the event. Most event types yield exactly one; fan-out types
// (question answered, feedback items) may yield several.
type Func func(ctx context.Context, env *Env, evt *v1.Event) ([]xapi.Statement, error)

// Dispatcher routes events to their registered transform and assembles batch
// output in input order.
type Dispatcher struct {
	env      *Env
	registry map[string]Func
	workers  int
}

// NewDispatcher creates a dispatcher over the given registry. workers bounds
// concurrent per-event transforms during batch processing; values below 1
// mean sequential.
func NewDispatcher(cfg *config.Config, repo lms.Repository, registry map[string]Func, workers int) *Dispatcher {
	if cfg == nil {
		panic("transformer: config must not be nil")
	}
	if repo == nil {
		panic("transformer: repository must not be nil")
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		env:      &Env{Cfg: cfg, Res: lms.NewResolver(repo)},
		registry: registry,
		workers:  workers,
	}
}

// Supported reports whether a transform is registered for the event type.
func (d *Dispatcher) Supported(eventName string) bool {
	_, ok := d.registry[eventName]
	return ok
}

// Transform produces the statements for a single event. Events with no
// registered transform yield a nil slice and no error: they are intentionally
// skipped, not failed.
func (d *Dispatcher) Transform(ctx context.Context, evt *v1.Event) ([]xapi.Statement, error) {
	fn, ok := d.registry[evt.EventName]
	if !ok {
		slog.Debug("No transform registered, skipping event", "event_name", evt.EventName)
		return nil, nil
	}

	statements, err := fn(ctx, d.env, evt)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", evt.EventName, err)
	}
	return statements, nil
}

// TransformBatch transforms a batch of events. Independent events may run in
// parallel, but the flattened output preserves input event order via an
// indexed join. Any transform error fails the whole batch.
func (d *Dispatcher) TransformBatch(ctx context.Context, events []*v1.Event) ([]xapi.Statement, error) {
	results := make([][]xapi.Statement, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, evt := range events {
		g.Go(func() error {
			statements, err := d.Transform(gctx, evt)
			if err != nil {
				return err
			}
			results[i] = statements
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []xapi.Statement
	for _, statements := range results {
		out = append(out, statements...)
	}
	return out, nil
}
