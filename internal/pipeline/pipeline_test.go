package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcflow/internal/dag"
	"calcflow/internal/task"
	"calcflow/internal/xcom"
)

var wantLines = "Start: 10\n" +
	"Add 5: 10 + 5 = 15\n" +
	"Multiply by 2: 15 * 2 = 30\n" +
	"Subtract 3: 30 - 3 = 27\n" +
	"Square: 27 * 27 = 729\n" +
	"Result: 729\n"

func TestRun_ArithmeticManualStyle(t *testing.T) {
	var out bytes.Buffer
	r := Runner{Out: &out, RunID: "test-run"}

	report, err := r.Run(context.Background(), Arithmetic(), StyleManual)
	require.NoError(t, err)

	assert.False(t, report.Result.Failed())
	assert.True(t, report.HasFinal)
	assert.Equal(t, int64(729), report.Final)
	assert.Equal(t, wantLines, out.String())
	assert.Equal(t,
		[]string{"start", "add_five", "multiply_by_two", "subtract_three", "square"},
		report.Result.ExecutionOrder)
}

func TestRun_ArithmeticAutoStyle(t *testing.T) {
	var out bytes.Buffer
	r := Runner{Out: &out}

	report, err := r.Run(context.Background(), Arithmetic(), StyleAuto)
	require.NoError(t, err)

	assert.True(t, report.HasFinal)
	assert.Equal(t, int64(729), report.Final)
	assert.Equal(t, wantLines, out.String())
}

func TestRun_StylesProduceIdenticalTraces(t *testing.T) {
	ctx := context.Background()

	manual, err := (&Runner{RunID: "run-m"}).Run(ctx, Arithmetic(), StyleManual)
	require.NoError(t, err)
	auto, err := (&Runner{}).Run(ctx, Arithmetic(), StyleAuto)
	require.NoError(t, err)

	hm, err := manual.Trace.Hash()
	require.NoError(t, err)
	ha, err := auto.Trace.Hash()
	require.NoError(t, err)

	// The passing mechanism is invisible in the canonical trace.
	assert.Equal(t, hm, ha)
	assert.NotEmpty(t, hm)
}

func TestRun_ManualStyleLeavesValuesInStore(t *testing.T) {
	ctx := context.Background()
	store := xcom.NewMemStore()
	r := Runner{Store: store, RunID: "run-1"}

	_, err := r.Run(ctx, Arithmetic(), StyleManual)
	require.NoError(t, err)

	v, err := store.Pull(ctx, xcom.Key("run-1", "square"))
	require.NoError(t, err)
	assert.Equal(t, int64(729), v)

	v, err = store.Pull(ctx, xcom.Key("run-1", "add_five"))
	require.NoError(t, err)
	assert.Equal(t, int64(15), v)
}

func TestRun_OverflowFailsStageAndSkipsDownstream(t *testing.T) {
	def := Definition{
		Name: "overflowing",
		Stages: []task.Task{
			{Name: "start", Op: task.OpStart, Operand: 1 << 62},
			{Name: "blow_up", Op: task.OpMultiply, Operand: 4, Needs: []string{"start"}},
			{Name: "never_runs", Op: task.OpAdd, Operand: 1, Needs: []string{"blow_up"}},
		},
	}

	for _, style := range []Style{StyleManual, StyleAuto} {
		var out bytes.Buffer
		r := Runner{Out: &out}
		report, err := r.Run(context.Background(), def, style)
		require.NoError(t, err, string(style))

		assert.True(t, report.Result.Failed(), string(style))
		assert.False(t, report.HasFinal, string(style))
		assert.Equal(t, dag.TaskFailed, report.Result.FinalState["blow_up"], string(style))
		assert.Equal(t, dag.TaskSkipped, report.Result.FinalState["never_runs"], string(style))
		assert.Contains(t, out.String(), "Stage blow_up failed: Overflow", string(style))
	}
}

func TestRun_AutoStyleRejectsFanIn(t *testing.T) {
	def := Definition{
		Name: "fan-in",
		Stages: []task.Task{
			{Name: "a", Op: task.OpStart, Operand: 1},
			{Name: "b", Op: task.OpStart, Operand: 2},
			{Name: "c", Op: task.OpAdd, Operand: 3, Needs: []string{"a", "b"}},
		},
	}

	// Rejected by definition validation before the style is even consulted.
	_, err := (&Runner{}).Run(context.Background(), def, StyleAuto)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("manual")
	require.NoError(t, err)
	assert.Equal(t, StyleManual, s)

	s, err = ParseStyle("auto")
	require.NoError(t, err)
	assert.Equal(t, StyleAuto, s)

	_, err = ParseStyle("psychic")
	assert.Error(t, err)
}

func TestDefinitionValidate(t *testing.T) {
	assert.ErrorIs(t, Definition{}.Validate(), ErrInvalidDefinition)

	def := Definition{Name: "p", Stages: []task.Task{{Name: "s", Op: task.OpStart, Needs: []string{"x"}}}}
	assert.ErrorIs(t, def.Validate(), ErrInvalidDefinition)

	def = Definition{Name: "p", Stages: []task.Task{{Name: "s", Op: task.OpAdd, Operand: 1}}}
	assert.ErrorIs(t, def.Validate(), ErrInvalidDefinition)

	assert.NoError(t, Arithmetic().Validate())
}
