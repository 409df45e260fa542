package dag

import "calcflow/internal/task"

// GraphHash is the deterministic identity of a TaskGraph.
//
// It is computed solely from stage definition content and dependency
// structure. It MUST be stable across different insertion orders of
// stages and edges.
type GraphHash string

// TaskDefHash is the deterministic identity of a stage definition.
//
// It is computed from the declarative fields (op, operand, needs) and
// is independent of the stage name.
type TaskDefHash string

// Edge represents a dependency relation: To depends on From.
//
// A directed edge From -> To means To can only run after From completes
// successfully.
type Edge struct {
	From string
	To   string
}

// TaskNode is an immutable node in the TaskGraph.
//
// Name is an external identifier used for addressing edges, store keys
// and debugging. The graph hash primarily derives from the stage
// definition content and the canonicalized dependency structure.
type TaskNode struct {
	Name           string
	Task           task.Task
	DefinitionHash TaskDefHash
	canonicalIndex int
}

// CanonicalIndex returns the node's deterministic position in the graph's canonical ordering.
func (n *TaskNode) CanonicalIndex() int { return n.canonicalIndex }

// String returns the string representation of the GraphHash.
func (h GraphHash) String() string { return string(h) }

// String returns the string representation of the TaskDefHash.
func (h TaskDefHash) String() string { return string(h) }
