// Package flow implements automatic value passing: the engine captures each
// stage's return value and hands it straight to the downstream stage as its
// input. Stage code never touches a shared store.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"calcflow/internal/dag"
	"calcflow/internal/task"
)

// Runner evaluates stages with automatic value passing.
//
// It holds the return value of every completed stage for the duration of
// one run and resolves each stage's input from its single upstream.
type Runner struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewRunner creates a Runner for one run of a pipeline.
func NewRunner() *Runner {
	return &Runner{values: make(map[string]int64)}
}

// CheckGraph verifies the graph is usable with automatic passing: every
// stage has at most one upstream, since a stage input is a single return
// value.
func CheckGraph(g *dag.TaskGraph) error {
	if g.MaxFanIn() > 1 {
		return errors.New("automatic passing requires at most one upstream per stage")
	}
	return nil
}

// Run implements dag.StageRunner.
func (r *Runner) Run(ctx context.Context, node *dag.TaskNode, deps []string) (*dag.NodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := node.Task

	var in int64
	if t.Op != task.OpStart {
		if len(deps) != 1 {
			return nil, fmt.Errorf("stage %q: automatic passing requires exactly one upstream, got %d", t.Name, len(deps))
		}
		r.mu.Lock()
		v, ok := r.values[deps[0]]
		r.mu.Unlock()
		if !ok {
			// The executor only runs a stage once its parents completed,
			// so a missing value indicates an engine bug, not a stage failure.
			return nil, fmt.Errorf("stage %q: no value recorded for upstream %q", t.Name, deps[0])
		}
		in = v
	}

	out, err := task.Apply(t.Op, t.Operand, in)
	if err != nil {
		if errors.Is(err, task.ErrOverflow) {
			return &dag.NodeResult{Failure: err, Reason: dag.ReasonOverflow}, nil
		}
		return nil, fmt.Errorf("stage %q: %w", t.Name, err)
	}

	r.mu.Lock()
	r.values[t.Name] = out
	r.mu.Unlock()

	return &dag.NodeResult{
		Value: out,
		Line:  task.Logline(t.Op, t.Operand, in, out),
	}, nil
}

// Value returns the recorded return value for a completed stage.
func (r *Runner) Value(stage string) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[stage]
	return v, ok
}
