// Package pipeline defines pipeline documents and orchestrates runs.
package pipeline

import (
	"calcflow/internal/dag"
	"calcflow/internal/task"
)

// Definition is a declarative pipeline document: a named, ordered list of
// arithmetic stages wired by their Needs lists.
type Definition struct {
	Name   string      `json:"name" yaml:"name"`
	Stages []task.Task `json:"stages" yaml:"stages"`
}

// Validate checks the stage list before graph construction.
//
// Value pipelines are chains over single inputs: a start stage consumes
// nothing and every other stage consumes exactly one upstream value.
// Structural properties (duplicate names, unknown references, cycles) are
// validated by the graph builder.
func (d Definition) Validate() error {
	if d.Name == "" {
		return errInvalid("pipeline name is required")
	}
	if len(d.Stages) == 0 {
		return errInvalid("pipeline has no stages")
	}
	for _, s := range d.Stages {
		if s.Name == "" {
			return errInvalid("stage name is required")
		}
		if !s.Op.Valid() {
			return errInvalidf("stage %q: unknown op %q", s.Name, s.Op)
		}
		if s.Op == task.OpStart && len(s.Needs) != 0 {
			return errInvalidf("stage %q: start takes no upstream", s.Name)
		}
		if s.Op != task.OpStart && len(s.Needs) != 1 {
			return errInvalidf("stage %q: exactly one upstream required, got %d", s.Name, len(s.Needs))
		}
	}
	return nil
}

// Graph validates the definition and builds its TaskGraph.
func (d Definition) Graph() (*dag.TaskGraph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return dag.FromTasks(d.Stages)
}

// Arithmetic returns the built-in five-stage pipeline:
// start(10) -> add 5 -> multiply by 2 -> subtract 3 -> square.
// Its final value is 729.
func Arithmetic() Definition {
	return Definition{
		Name: "arithmetic",
		Stages: []task.Task{
			{Name: "start", Op: task.OpStart, Operand: 10},
			{Name: "add_five", Op: task.OpAdd, Operand: 5, Needs: []string{"start"}},
			{Name: "multiply_by_two", Op: task.OpMultiply, Operand: 2, Needs: []string{"add_five"}},
			{Name: "subtract_three", Op: task.OpSubtract, Operand: 3, Needs: []string{"multiply_by_two"}},
			{Name: "square", Op: task.OpSquare, Needs: []string{"subtract_three"}},
		},
	}
}
