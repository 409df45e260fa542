package dag

// TaskState is the runtime execution state of a node.
//
// This is intentionally separated from TaskGraph, which is immutable.
type TaskState string

const (
	TaskPending   TaskState = "PENDING"
	TaskRunning   TaskState = "RUNNING"
	TaskCompleted TaskState = "COMPLETED"
	TaskFailed    TaskState = "FAILED"
	TaskSkipped   TaskState = "SKIPPED"
)

// ExecutionState maps stage name to its current TaskState.
//
// It is intentionally a plain map so the scheduler can remain a pure function
// without coupling to an executor implementation.
type ExecutionState map[string]TaskState
