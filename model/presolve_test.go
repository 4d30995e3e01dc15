package model_test

import (
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPresolve_FixingAndTightening: x[0..9] ∈ [−10, 10],
// minimize Σ x, constraints 2·x0 = 4, 3·x1 ≤ 10, 8·x1 ≥ 20, x1 + x2 + 1 = 8.
// After presolve: x0=2, x1=3, x2=4, x3..x9 = −10, all constraints disabled.
func TestPresolve_FixingAndTightening(t *testing.T) {
	m := model.New("presolve")
	x, err := m.NewVariables("x", 10)
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(-10, 10))

	m.Minimize(model.SumProxy(x))

	g0, err := m.NewConstraint("g0", model.NewLinear().Add(2, x.Element(0)).Equal(4))
	require.NoError(t, err)
	g1, err := m.NewConstraint("g1", model.NewLinear().Add(3, x.Element(1)).LessEqual(10))
	require.NoError(t, err)
	g2, err := m.NewConstraint("g2", model.NewLinear().Add(8, x.Element(1)).GreaterEqual(20))
	require.NoError(t, err)
	g3, err := m.NewConstraint("g3",
		model.NewLinear().Add(1, x.Element(1)).Add(1, x.Element(2)).AddConstant(1).Equal(8))
	require.NoError(t, err)

	require.NoError(t, m.Setup(model.DefaultSetupOptions()))

	assert.Equal(t, int64(2), x.Element(0).Value())
	assert.Equal(t, int64(3), x.Element(1).Value())
	assert.Equal(t, int64(4), x.Element(2).Value())
	for i := 3; i < 10; i++ {
		assert.Equal(t, int64(-10), x.Element(i).Value(), "x[%d] pinned to its optimal bound", i)
	}

	for _, g := range []*model.Constraint{g0, g1, g2, g3} {
		assert.False(t, g.IsEnabled(), "%s must be disabled", g.Name())
	}

	assert.Equal(t, 10, m.NumberOfFixedVariables())
	assert.Equal(t, 0, m.NumberOfNotFixedVariables())

	// The fixed point satisfies everything: total violation is zero.
	assert.InDelta(t, 0.0, m.TotalViolation(), 1e-9)
	assert.InDelta(t, 2+3+4-70.0, m.ObjectiveValue(), 1e-9)
}

// TestPresolve_ImplicitlyFixed verifies that collapsed ranges become Fixed.
func TestPresolve_ImplicitlyFixed(t *testing.T) {
	m := model.New("implicit")
	x, err := m.NewVariable("x")
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(5, 5))

	y, err := m.NewVariable("y")
	require.NoError(t, err)
	require.NoError(t, y.SetBounds(0, 1))

	m.Minimize(model.NewLinear().Add(1, x).Add(1, y))
	require.NoError(t, m.Setup(model.DefaultSetupOptions()))

	assert.True(t, x.IsFixed())
	assert.Equal(t, model.VariableFixed, x.Sense())
	assert.Equal(t, int64(5), x.Value())

	// y is unconstrained with a positive objective coefficient.
	assert.True(t, y.IsFixed())
	assert.Equal(t, int64(0), y.Value())
}

// TestPresolve_KeepsInfeasibleSingleton verifies that a singleton the
// variable bounds cannot satisfy stays enabled for the search to report.
func TestPresolve_KeepsInfeasibleSingleton(t *testing.T) {
	m := model.New("infeasible")
	x, err := m.NewVariable("x")
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 3))

	g, err := m.NewConstraint("g", model.NewLinear().Add(1, x).GreaterEqual(7))
	require.NoError(t, err)
	m.Minimize(model.NewLinear().Add(1, x))

	require.NoError(t, m.Setup(model.DefaultSetupOptions()))
	assert.True(t, g.IsEnabled(), "unsatisfiable constraint must stay visible")
	assert.False(t, x.IsFixed())
	assert.Greater(t, m.TotalViolation(), 0.0)
}
