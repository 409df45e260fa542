package dag

import (
	"context"
	"fmt"
	"sync"

	"calcflow/internal/trace"
)

// StageRunner evaluates a single stage.
//
// deps are the stage's direct upstream names in deterministic order. A
// non-nil NodeResult with Failure set records a stage-level failure (the
// executor propagates skips downstream); a non-nil error indicates an
// infrastructure problem and aborts the whole run.
type StageRunner interface {
	Run(ctx context.Context, node *TaskNode, deps []string) (*NodeResult, error)
}

// Executor executes a TaskGraph deterministically in serial mode.
//
// All state mutations are guarded by a single mutex so the scheduler and
// state machine observe a consistent view even when a runner spawns
// goroutines internally.
type Executor struct {
	Graph  *TaskGraph
	Runner StageRunner
	Sink   trace.Sink

	mu    sync.Mutex
	state ExecutionState
}

// NewExecutor creates an executor with all nodes initialized to PENDING.
func NewExecutor(g *TaskGraph, runner StageRunner) (*Executor, error) {
	if g == nil {
		return nil, fmt.Errorf("nil graph")
	}
	if runner == nil {
		return nil, fmt.Errorf("nil runner")
	}

	state := make(ExecutionState, len(g.nodes))
	for _, n := range g.nodes {
		state[n.Name] = TaskPending
	}

	return &Executor{Graph: g, Runner: runner, Sink: trace.NopSink{}, state: state}, nil
}

// StateSnapshot returns a copy of the current execution state.
func (e *Executor) StateSnapshot() ExecutionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	cp := make(ExecutionState, len(e.state))
	for k, v := range e.state {
		cp[k] = v
	}
	return cp
}

// RunSerial executes the graph in serial mode.
//
// Determinism:
//   - All state mutations are guarded by a single mutex.
//   - The scheduler is polled deterministically.
//   - The next stage chosen is always the first element of the scheduler's ordered list.
func (e *Executor) RunSerial(ctx context.Context) (*GraphResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	order := make([]string, 0, len(e.Graph.nodes))
	values := make(map[string]int64, len(e.Graph.nodes))
	lines := make(map[string]string, len(e.Graph.nodes))
	reasons := make(map[string]string)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("execution cancelled: %w", err)
		}

		e.mu.Lock()
		ready := GetReadyTasks(e.Graph, e.state)

		if len(ready) == 0 {
			// No runnable stages: either we are finished, or deadlocked due to inconsistent state.
			allTerminal := true
			for _, st := range e.state {
				if !IsTerminal(st) {
					allTerminal = false
					break
				}
			}
			e.mu.Unlock()

			if allTerminal {
				return &GraphResult{
					GraphHash:      e.Graph.Hash(),
					FinalState:     e.StateSnapshot(),
					ExecutionOrder: order,
					Values:         values,
					Lines:          lines,
					FailureReasons: reasons,
				}, nil
			}
			return nil, fmt.Errorf("no ready stages but graph not finished")
		}

		next := ready[0]
		node := e.Graph.nodesByName[next]

		if err := Transition(e.state, next, TaskPending, TaskRunning); err != nil {
			e.mu.Unlock()
			return nil, err
		}
		e.mu.Unlock()

		// Evaluate the stage outside the lock.
		res, err := e.Runner.Run(ctx, node, e.Graph.Parents(next))
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", next, err)
		}
		if res == nil {
			return nil, fmt.Errorf("evaluating %q: nil result", next)
		}

		e.mu.Lock()
		order = append(order, next)

		if res.Failure == nil {
			values[next] = res.Value
			lines[next] = res.Line
			if err := Transition(e.state, next, TaskRunning, TaskCompleted); err != nil {
				e.mu.Unlock()
				return nil, err
			}
			trace.SafeRecord(e.Sink, trace.Event{
				Kind:   trace.EventStageExecuted,
				Stage:  next,
				Value:  res.Value,
				HasVal: true,
			})
			e.mu.Unlock()
			continue
		}

		// Failure: mark failed and propagate skipped.
		reasons[next] = res.Reason
		skipped, err := FailAndPropagate(e.Graph, e.state, next)
		if err != nil {
			e.mu.Unlock()
			return nil, err
		}
		trace.SafeRecord(e.Sink, trace.Event{
			Kind:   trace.EventStageFailed,
			Stage:  next,
			Reason: res.Reason,
		})
		for _, s := range skipped {
			trace.SafeRecord(e.Sink, trace.Event{
				Kind:       trace.EventStageSkipped,
				Stage:      s,
				CauseStage: next,
			})
		}
		e.mu.Unlock()
	}
}
