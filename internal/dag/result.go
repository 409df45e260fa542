package dag

// NodeResult is the outcome of evaluating a single stage.
//
// Failure is non-nil when the stage itself failed (e.g. overflow or a
// missing upstream value). Reason carries a stable, logical code for the
// failure suitable for traces; it must not contain runtime-dependent text.
type NodeResult struct {
	Value   int64
	Line    string
	Failure error
	Reason  string
}

// GraphResult is the deterministic summary of a graph execution attempt.
//
// This intentionally includes:
//   - Final per-node states
//   - The observed execution order (useful for determinism proofs/tests)
//   - Per-stage values and console lines
type GraphResult struct {
	GraphHash GraphHash

	// FinalState is the terminal state of each node by name.
	FinalState ExecutionState

	// ExecutionOrder is the ordered list of stages that were started
	// (transitioned to RUNNING).
	ExecutionOrder []string

	// Values records each executed stage's output value.
	Values map[string]int64

	// Lines records each executed stage's console line.
	Lines map[string]string

	// FailureReasons records the stable reason code for each failed stage.
	FailureReasons map[string]string
}

// Failed reports whether any stage ended in FAILED state.
func (r *GraphResult) Failed() bool {
	for _, st := range r.FinalState {
		if st == TaskFailed {
			return true
		}
	}
	return false
}

// FinalValue returns the value of the single sink stage (a stage no other
// stage depends on), if exactly one exists and it completed.
func (r *GraphResult) FinalValue(g *TaskGraph) (int64, bool) {
	var sink string
	count := 0
	for _, n := range g.Nodes() {
		if len(g.outgoing[n.canonicalIndex]) == 0 {
			sink = n.Name
			count++
		}
	}
	if count != 1 {
		return 0, false
	}
	if r.FinalState[sink] != TaskCompleted {
		return 0, false
	}
	v, ok := r.Values[sink]
	return v, ok
}
