package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcflow/internal/dag"
	"calcflow/internal/task"
)

func TestRunner_ThreadsReturnValues(t *testing.T) {
	ctx := context.Background()
	g, err := dag.FromTasks([]task.Task{
		{Name: "start", Op: task.OpStart, Operand: 10},
		{Name: "add_five", Op: task.OpAdd, Operand: 5, Needs: []string{"start"}},
		{Name: "square", Op: task.OpSquare, Needs: []string{"add_five"}},
	})
	require.NoError(t, err)

	r := NewRunner()
	for _, name := range g.TopologicalOrder() {
		node, ok := g.Node(name)
		require.True(t, ok)
		res, err := r.Run(ctx, node, g.Parents(name))
		require.NoError(t, err)
		require.Nil(t, res.Failure)
	}

	v, ok := r.Value("square")
	require.True(t, ok)
	assert.Equal(t, int64(225), v)
}

func TestRunner_MissingUpstreamValueIsEngineError(t *testing.T) {
	g, err := dag.FromTasks([]task.Task{
		{Name: "start", Op: task.OpStart, Operand: 10},
		{Name: "add_five", Op: task.OpAdd, Operand: 5, Needs: []string{"start"}},
	})
	require.NoError(t, err)

	r := NewRunner()
	node, _ := g.Node("add_five")

	// Running a stage before its upstream is an engine bug, not a stage failure.
	_, err = r.Run(context.Background(), node, g.Parents("add_five"))
	assert.Error(t, err)
}

func TestRunner_OverflowIsStageFailure(t *testing.T) {
	ctx := context.Background()
	g, err := dag.FromTasks([]task.Task{
		{Name: "start", Op: task.OpStart, Operand: 1 << 62},
		{Name: "square", Op: task.OpSquare, Needs: []string{"start"}},
	})
	require.NoError(t, err)

	r := NewRunner()
	startNode, _ := g.Node("start")
	_, err = r.Run(ctx, startNode, nil)
	require.NoError(t, err)

	squareNode, _ := g.Node("square")
	res, err := r.Run(ctx, squareNode, g.Parents("square"))
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, res.Failure, task.ErrOverflow)
	assert.Equal(t, dag.ReasonOverflow, res.Reason)
}

func TestCheckGraph_RejectsFanIn(t *testing.T) {
	g, err := dag.NewTaskGraph(
		[]task.Task{
			{Name: "a", Op: task.OpStart, Operand: 1},
			{Name: "b", Op: task.OpStart, Operand: 2},
			{Name: "c", Op: task.OpAdd, Operand: 3},
		},
		[]dag.Edge{{From: "a", To: "c"}, {From: "b", To: "c"}},
	)
	require.NoError(t, err)

	assert.Error(t, CheckGraph(g))
}

func TestCheckGraph_AcceptsChain(t *testing.T) {
	g, err := dag.FromTasks([]task.Task{
		{Name: "start", Op: task.OpStart, Operand: 10},
		{Name: "add_five", Op: task.OpAdd, Operand: 5, Needs: []string{"start"}},
	})
	require.NoError(t, err)

	assert.NoError(t, CheckGraph(g))
}
