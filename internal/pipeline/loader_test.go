package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcflow/internal/task"
)

const arithmeticYAML = `name: arithmetic
stages:
  - name: start
    op: start
    operand: 10
  - name: add_five
    op: add
    operand: 5
    needs: [start]
  - name: multiply_by_two
    op: multiply
    operand: 2
    needs: [add_five]
  - name: subtract_three
    op: subtract
    operand: 3
    needs: [multiply_by_two]
  - name: square
    op: square
    needs: [subtract_three]
`

func TestParse_ArithmeticDocument(t *testing.T) {
	def, err := Parse([]byte(arithmeticYAML))
	require.NoError(t, err)

	assert.Equal(t, "arithmetic", def.Name)
	require.Len(t, def.Stages, 5)
	assert.Equal(t, task.OpStart, def.Stages[0].Op)
	assert.Equal(t, int64(10), def.Stages[0].Operand)
	assert.Equal(t, []string{"subtract_three"}, def.Stages[4].Needs)

	// The document is equivalent to the built-in pipeline.
	gFile, err := def.Graph()
	require.NoError(t, err)
	gBuiltin, err := Arithmetic().Graph()
	require.NoError(t, err)
	assert.Equal(t, gBuiltin.Hash(), gFile.Hash())
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("stages: ["))
	assert.Error(t, err)
}

func TestParse_RejectsInvalidDefinition(t *testing.T) {
	_, err := Parse([]byte("name: p\nstages:\n  - name: s\n    op: divide\n"))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(arithmeticYAML), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "arithmetic", def.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
