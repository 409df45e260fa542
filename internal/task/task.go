package task

import (
	"errors"
	"fmt"
	"math"
)

// Op identifies an arithmetic stage operation.
//
// The string values appear in pipeline files and in hashes; do not rename.
type Op string

const (
	// OpStart produces the pipeline's initial literal (the operand).
	OpStart Op = "start"

	// OpAdd returns input + operand.
	OpAdd Op = "add"

	// OpSubtract returns input - operand.
	OpSubtract Op = "subtract"

	// OpMultiply returns input * operand.
	OpMultiply Op = "multiply"

	// OpSquare returns input * input. The operand is ignored.
	OpSquare Op = "square"
)

// Valid reports whether op is a known operation.
func (op Op) Valid() bool {
	switch op {
	case OpStart, OpAdd, OpSubtract, OpMultiply, OpSquare:
		return true
	default:
		return false
	}
}

// Task is a declarative definition of a single pipeline stage.
//
// Required: name, op. Operand is required for start/add/subtract/multiply
// and ignored by square. Needs lists upstream stage names whose values
// this stage consumes.
type Task struct {
	// Name is the stage identifier, used for addressing edges and
	// for store keys.
	Name string `json:"name" yaml:"name"`

	// Op selects the arithmetic operation.
	Op Op `json:"op" yaml:"op"`

	// Operand is the literal applied by the operation.
	Operand int64 `json:"operand,omitempty" yaml:"operand,omitempty"`

	// Needs lists upstream stages this stage depends on.
	Needs []string `json:"needs,omitempty" yaml:"needs,omitempty"`
}

// ErrOverflow is returned when an operation exceeds the int64 range.
var ErrOverflow = errors.New("arithmetic overflow")

// Apply evaluates op with the given operand and input value.
//
// All operations are overflow-checked; overflow is the only runtime
// failure an arithmetic stage can produce.
func Apply(op Op, operand, in int64) (int64, error) {
	switch op {
	case OpStart:
		return operand, nil
	case OpAdd:
		return addChecked(in, operand)
	case OpSubtract:
		return subChecked(in, operand)
	case OpMultiply:
		return mulChecked(in, operand)
	case OpSquare:
		return mulChecked(in, in)
	default:
		return 0, fmt.Errorf("unknown op: %q", op)
	}
}

// Logline renders the per-stage console line, e.g. "Add 5: 10 + 5 = 15".
func Logline(op Op, operand, in, out int64) string {
	switch op {
	case OpStart:
		return fmt.Sprintf("Start: %d", out)
	case OpAdd:
		return fmt.Sprintf("Add %d: %d + %d = %d", operand, in, operand, out)
	case OpSubtract:
		return fmt.Sprintf("Subtract %d: %d - %d = %d", operand, in, operand, out)
	case OpMultiply:
		return fmt.Sprintf("Multiply by %d: %d * %d = %d", operand, in, operand, out)
	case OpSquare:
		return fmt.Sprintf("Square: %d * %d = %d", in, in, out)
	default:
		return fmt.Sprintf("%s: %d -> %d", op, in, out)
	}
}

func addChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func subChecked(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, ErrOverflow
	}
	return a - b, nil
}

func mulChecked(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return r, nil
}
