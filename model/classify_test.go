package model_test

import (
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classifyFixture builds a model with named constraints and runs only the
// pipeline stages classification depends on.
type classifyFixture struct {
	m *model.Model
	t *testing.T
}

func newClassifyFixture(t *testing.T) *classifyFixture {
	return &classifyFixture{m: model.New("shapes"), t: t}
}

func (f *classifyFixture) binaries(name string, n int) *model.VariableProxy {
	p, err := f.m.NewVariables(name, n)
	require.NoError(f.t, err)
	require.NoError(f.t, p.SetBounds(0, 1))
	return p
}

func (f *classifyFixture) integers(name string, n int, lower, upper int64) *model.VariableProxy {
	p, err := f.m.NewVariables(name, n)
	require.NoError(f.t, err)
	require.NoError(f.t, p.SetBounds(lower, upper))
	return p
}

func (f *classifyFixture) constraint(name string, c *model.Comparison) *model.Constraint {
	g, err := f.m.NewConstraint(name, c)
	require.NoError(f.t, err)
	return g
}

func (f *classifyFixture) classify() {
	f.m.SetupVariableRelatedConstraints()
	f.m.CategorizeVariables()
	f.m.CategorizeConstraints()
}

// TestClassify_AggregationBeatsGeneralLinear: 2·x + 3·y = 10 with
// x, y ∈ [−10, 10] lands in the Aggregation bucket, not GeneralLinear.
func TestClassify_AggregationBeatsGeneralLinear(t *testing.T) {
	f := newClassifyFixture(t)
	xy := f.integers("xy", 2, -10, 10)
	g := f.constraint("agg",
		model.NewLinear().Add(2, xy.Element(0)).Add(3, xy.Element(1)).Equal(10))
	f.classify()

	assert.Equal(t, model.ShapeAggregation, g.Shape())
	assert.Len(t, f.m.ConstraintsByShape(model.ShapeAggregation), 1)
	assert.Empty(t, f.m.ConstraintsByShape(model.ShapeGeneralLinear))
}

// TestClassify_PriorityTable walks the priority table row by row.
func TestClassify_PriorityTable(t *testing.T) {
	f := newClassifyFixture(t)
	b := f.binaries("b", 6)
	z := f.integers("z", 3, 0, 20)

	single := f.constraint("single", model.NewLinear().Add(3, b.Element(0)).LessEqual(1))
	precedence := f.constraint("precedence",
		model.NewLinear().Add(4, z.Element(0)).Add(-4, z.Element(1)).LessEqual(0))
	varBound := f.constraint("var_bound",
		model.NewLinear().Add(2, b.Element(0)).Add(5, z.Element(0)).LessEqual(9))
	partition := f.constraint("partition",
		model.Sum(b.Element(0), b.Element(1), b.Element(2)).Equal(1))
	packing := f.constraint("packing",
		model.Sum(b.Element(0), b.Element(1), b.Element(2)).LessEqual(1))
	covering := f.constraint("covering",
		model.Sum(b.Element(3), b.Element(4), b.Element(5)).GreaterEqual(1))
	cardinality := f.constraint("cardinality",
		model.Sum(b.Element(0), b.Element(1), b.Element(2)).Equal(2))
	invariantKnapsack := f.constraint("inv_knapsack",
		model.Sum(b.Element(0), b.Element(1), b.Element(2), b.Element(3)).LessEqual(2))
	equationKnapsack := f.constraint("eq_knapsack",
		model.NewLinear().Add(2, b.Element(0)).Add(3, b.Element(1)).Add(1, b.Element(2)).Equal(4))
	binPacking := f.constraint("bin_packing",
		model.NewLinear().Add(1, b.Element(0)).Add(1, b.Element(1)).Add(1, b.Element(2)).Add(-3, b.Element(3)).LessEqual(0))
	knapsack := f.constraint("knapsack",
		model.NewLinear().Add(2, b.Element(0)).Add(5, b.Element(1)).Add(7, b.Element(2)).LessEqual(9))
	integerKnapsack := f.constraint("int_knapsack",
		model.NewLinear().Add(2, z.Element(0)).Add(3, z.Element(1)).Add(5, z.Element(2)).LessEqual(30))
	general := f.constraint("general",
		model.NewLinear().Add(1.5, b.Element(0)).Add(-2, z.Element(0)).Add(1, z.Element(1)).LessEqual(3))

	f.classify()

	assert.Equal(t, model.ShapeSingleton, single.Shape())
	assert.Equal(t, model.ShapePrecedence, precedence.Shape())
	assert.Equal(t, model.ShapeVariableBound, varBound.Shape())
	assert.Equal(t, model.ShapeSetPartitioning, partition.Shape())
	assert.Equal(t, model.ShapeSetPacking, packing.Shape())
	assert.Equal(t, model.ShapeSetCovering, covering.Shape())
	assert.Equal(t, model.ShapeCardinality, cardinality.Shape())
	assert.Equal(t, model.ShapeInvariantKnapsack, invariantKnapsack.Shape())
	assert.Equal(t, model.ShapeEquationKnapsack, equationKnapsack.Shape())
	assert.Equal(t, model.ShapeBinPacking, binPacking.Shape())
	assert.Equal(t, model.ShapeKnapsack, knapsack.Shape())
	assert.Equal(t, model.ShapeIntegerKnapsack, integerKnapsack.Shape())
	assert.Equal(t, model.ShapeGeneralLinear, general.Shape())
}

// TestClassify_NonlinearCallback verifies the opaque bucket.
func TestClassify_NonlinearCallback(t *testing.T) {
	f := newClassifyFixture(t)
	z := f.integers("z", 1, 0, 5)

	g, err := f.m.NewConstraint("opaque")
	require.NoError(t, err)
	g.DefineFunc(func(mv *model.Move) float64 {
		v := float64(z.Element(0).Evaluate(mv))
		return v*v - 9
	}, model.LessEqual)

	f.classify()
	assert.Equal(t, model.ShapeNonlinear, g.Shape())
}
