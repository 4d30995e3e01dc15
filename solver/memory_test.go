package solver_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMemoryFixture(t *testing.T) (*model.Model, *model.VariableProxy, *solver.Memory) {
	t.Helper()
	m := model.New("memory")
	x, err := m.NewVariables("x", 4)
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 1))
	m.Minimize(model.SumProxy(x))
	_, err = m.NewConstraint("cap", model.SumProxy(x).LessEqual(2))
	require.NoError(t, err)
	require.NoError(t, m.Setup(model.DefaultSetupOptions()))
	return m, x, solver.NewMemory(m)
}

// TestMemory_UpdateAndReset verifies the short- and long-term counters.
func TestMemory_UpdateAndReset(t *testing.T) {
	_, x, mem := buildMemoryFixture(t)

	v := x.Element(1)
	assert.Equal(t, -1000, mem.LastUpdateIteration(v), "sentinel before any update")

	mv := model.NewMove(model.MoveSenseBinary, model.Alteration{Variable: v, Value: 1})
	mem.Update(&mv, 7)

	assert.Equal(t, 7, mem.LastUpdateIteration(v))
	assert.Equal(t, 1, mem.UpdateCount(v))
	assert.Equal(t, int64(1), mem.TotalUpdateCount())

	mem.ResetLastUpdateIterations()
	assert.Equal(t, -1000, mem.LastUpdateIteration(v))
	assert.Equal(t, 1, mem.UpdateCount(v), "long-term memory survives the reset")
}

// TestMemory_UpdateWithWidth verifies the randomized tenure stamp stays in
// [iteration−width, iteration+width).
func TestMemory_UpdateWithWidth(t *testing.T) {
	_, x, mem := buildMemoryFixture(t)
	rng := rand.New(rand.NewSource(5))

	v := x.Element(0)
	mv := model.NewMove(model.MoveSenseBinary, model.Alteration{Variable: v, Value: 1})
	for i := 0; i < 50; i++ {
		mem.UpdateWithWidth(&mv, 100, 10, rng)
		got := mem.LastUpdateIteration(v)
		assert.GreaterOrEqual(t, got, 90)
		assert.Less(t, got, 110)
	}
}

// TestMemory_Bias verifies the concentration measure: uniform effort over n
// variables gives 1/n; all effort on one variable gives 1.
func TestMemory_Bias(t *testing.T) {
	_, x, mem := buildMemoryFixture(t)
	assert.Zero(t, mem.Bias(), "no updates yet")

	for i := 0; i < 4; i++ {
		mv := model.NewMove(model.MoveSenseBinary, model.Alteration{Variable: x.Element(i), Value: 1})
		mem.Update(&mv, i)
	}
	assert.InDelta(t, 0.25, mem.Bias(), 1e-9, "uniform effort over 4 variables")

	_, x, mem = buildMemoryFixture(t)
	v := x.Element(2)
	for i := 0; i < 6; i++ {
		mv := model.NewMove(model.MoveSenseBinary, model.Alteration{Variable: v, Value: 1})
		mem.Update(&mv, i)
	}
	assert.InDelta(t, 1.0, mem.Bias(), 1e-9, "all effort on one variable")
}
