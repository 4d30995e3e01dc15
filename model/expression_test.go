package model_test

import (
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpression_BuilderAccumulation verifies that repeated Add of one
// variable accumulates and cancelled terms disappear.
func TestExpression_BuilderAccumulation(t *testing.T) {
	m := model.New("builder")
	x, err := m.NewVariable("x")
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 10))
	y, err := m.NewVariable("y")
	require.NoError(t, err)
	require.NoError(t, y.SetBounds(0, 10))

	e, err := m.NewExpression("e",
		model.NewLinear().Add(2, x).Add(3, x).Add(1, y).Add(-1, y).AddConstant(4))
	require.NoError(t, err)

	require.Len(t, e.Terms(), 1, "y cancelled, x accumulated")
	assert.Equal(t, 5.0, e.Coefficient(x))
	assert.Equal(t, 0.0, e.Coefficient(y))
	assert.Equal(t, 4.0, e.Constant())

	x.SetValue(2)
	assert.InDelta(t, 14.0, e.Evaluate(nil), 1e-9)
}

// TestExpression_AddExpressionMerges verifies composing expressions.
func TestExpression_AddExpressionMerges(t *testing.T) {
	m := model.New("compose")
	x, err := m.NewVariable("x")
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 10))

	inner, err := m.NewExpression("inner", model.NewLinear().Add(2, x).AddConstant(1))
	require.NoError(t, err)

	outer, err := m.NewExpression("outer",
		model.NewLinear().AddExpression(3, inner).Add(1, x))
	require.NoError(t, err)

	assert.Equal(t, 7.0, outer.Coefficient(x), "3·2 + 1")
	assert.Equal(t, 3.0, outer.Constant())
}

// TestExpression_ValueParityAfterUpdate checks value parity of a registered
// expression across Update and Apply.
func TestExpression_ValueParityAfterUpdate(t *testing.T) {
	m := model.New("parity")
	x, err := m.NewVariables("x", 3)
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 9))

	e, err := m.NewExpression("e", model.NewLinear().
		Add(1, x.Element(0)).Add(2, x.Element(1)).Add(3, x.Element(2)).AddConstant(-1))
	require.NoError(t, err)

	m.Minimize(model.SumProxy(x))
	_, err = m.NewConstraint("cap", model.SumProxy(x).LessEqual(20))
	require.NoError(t, err)

	opt := model.DefaultSetupOptions()
	opt.IsEnabledPresolve = false
	require.NoError(t, m.Setup(opt))
	assert.InDelta(t, -1.0, e.Value(), 1e-9)

	mv := model.NewMove(model.MoveSenseUserDefined,
		model.Alteration{Variable: x.Element(1), Value: 4},
		model.Alteration{Variable: x.Element(2), Value: 2},
	)
	m.Apply(&mv)
	assert.InDelta(t, 2*4+3*2-1.0, e.Value(), 1e-9, "incremental path")

	m.Update()
	assert.InDelta(t, 13.0, e.Value(), 1e-9, "full recomputation agrees")
}
