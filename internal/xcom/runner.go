package xcom

import (
	"context"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"calcflow/internal/dag"
	"calcflow/internal/task"
)

// Runner evaluates stages with manual value passing.
//
// Each stage pulls its upstream's value from the shared store, applies its
// operation, and pushes the result under its own key. The executor never
// sees stage values; the store is the only channel between stages.
type Runner struct {
	Store Store
	RunID string
}

// NewRunner creates a Runner for one run of a pipeline.
func NewRunner(store Store, runID string) *Runner {
	return &Runner{Store: store, RunID: runID}
}

// Run implements dag.StageRunner.
func (r *Runner) Run(ctx context.Context, node *dag.TaskNode, deps []string) (*dag.NodeResult, error) {
	t := node.Task

	var in int64
	if t.Op != task.OpStart {
		if len(deps) != 1 {
			return nil, fmt.Errorf("stage %q: manual passing requires exactly one upstream, got %d", t.Name, len(deps))
		}
		v, err := r.Store.Pull(ctx, Key(r.RunID, deps[0]))
		if pkgerrors.Is(err, ErrNotFound) {
			return &dag.NodeResult{Failure: err, Reason: dag.ReasonMissingUpstream}, nil
		}
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "stage %q", t.Name)
		}
		in = v
	}

	out, err := task.Apply(t.Op, t.Operand, in)
	if err != nil {
		if pkgerrors.Is(err, task.ErrOverflow) {
			return &dag.NodeResult{Failure: err, Reason: dag.ReasonOverflow}, nil
		}
		return nil, pkgerrors.Wrapf(err, "stage %q", t.Name)
	}

	if err := r.Store.Push(ctx, Key(r.RunID, t.Name), out); err != nil {
		return nil, pkgerrors.Wrapf(err, "stage %q", t.Name)
	}

	return &dag.NodeResult{
		Value: out,
		Line:  task.Logline(t.Op, t.Operand, in, out),
	}, nil
}
