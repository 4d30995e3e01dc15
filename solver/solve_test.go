package solver_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOptions returns defaults shrunk to test-sized budgets.
func testOptions() solver.Options {
	opt := solver.DefaultOptions()
	opt.IterationMax = 8
	opt.TimeMax = 30
	opt.TabuSearch.IterationMax = 60
	opt.TabuSearch.StagnationBreakWindow = 30
	opt.LocalSearch.IterationMax = 500
	return opt
}

// buildSelectionModel: x[0..9] ∈ {0,1}, Σ x = 1,
// minimize Σ (i+1)·x[i] + 1. Optimum: x[0] = 1, objective 2.
func buildSelectionModel(t *testing.T) (*model.Model, *model.VariableProxy) {
	t.Helper()
	m := model.New("selection10")
	x, err := m.NewVariables("x", 10)
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 1))

	objective := model.NewLinear().AddConstant(1)
	for i := 0; i < 10; i++ {
		objective.Add(float64(i+1), x.Element(i))
	}
	m.Minimize(objective)

	_, err = m.NewConstraint("one_hot", model.SumProxy(x).Equal(1))
	require.NoError(t, err)
	return m, x
}

// TestSolve_SelectionScenario solves the one-hot model to its optimum.
func TestSolve_SelectionScenario(t *testing.T) {
	m, x := buildSelectionModel(t)

	result, err := solver.Solve(m, testOptions())
	require.NoError(t, err)

	assert.True(t, result.Status.IsFoundFeasibleSolution)
	assert.True(t, result.Solution.IsFeasible)
	assert.InDelta(t, 2.0, result.Solution.Objective, 1e-9)
	assert.Equal(t, int64(1), x.Element(0).Value())
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 10, result.Status.ModelSummary.NumberOfVariables)
}

// buildKnapsackModel: maximize Σ (i+1)·x[i] s.t. Σ x ≤ 5.
// Optimum: the five largest items, objective 6+7+8+9+10 = 40.
func buildKnapsackModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("knapsack10")
	x, err := m.NewVariables("x", 10)
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 1))

	objective := model.NewLinear()
	for i := 0; i < 10; i++ {
		objective.Add(float64(i+1), x.Element(i))
	}
	m.Maximize(objective)

	_, err = m.NewConstraint("capacity", model.SumProxy(x).LessEqual(5))
	require.NoError(t, err)
	return m
}

// TestSolve_KnapsackScenario solves the knapsack to its optimum, exported in
// the user's (maximization) orientation.
func TestSolve_KnapsackScenario(t *testing.T) {
	m := buildKnapsackModel(t)

	result, err := solver.Solve(m, testOptions())
	require.NoError(t, err)

	assert.True(t, result.Solution.IsFeasible)
	assert.InDelta(t, 40.0, result.Solution.Objective, 1e-9)

	values := result.Solution.VariableValues["x"].Values()
	picked := int64(0)
	for _, v := range values {
		picked += v
	}
	assert.Equal(t, int64(5), picked)
	for i := 5; i < 10; i++ {
		assert.Equal(t, int64(1), values[i], "item %d belongs to the optimum", i)
	}
}

// TestSolve_Deterministic verifies byte-reproducibility: identical models,
// options and seed yield identical solutions and statistics.
func TestSolve_Deterministic(t *testing.T) {
	opt := testOptions()
	opt.Seed = 31337

	r1, err := solver.Solve(buildKnapsackModel(t), opt)
	require.NoError(t, err)
	r2, err := solver.Solve(buildKnapsackModel(t), opt)
	require.NoError(t, err)

	assert.Equal(t, r1.Solution.Objective, r2.Solution.Objective)
	assert.Equal(t,
		r1.Solution.VariableValues["x"].Values(),
		r2.Solution.VariableValues["x"].Values())
	assert.Equal(t,
		r1.Status.NumberOfTabuSearchIterations,
		r2.Status.NumberOfTabuSearchIterations)
}

// TestSolve_LagrangeDualWarmStart verifies the subgradient path runs and
// the final answer is still optimal.
func TestSolve_LagrangeDualWarmStart(t *testing.T) {
	m := model.New("lagrange")
	x, err := m.NewVariable("x")
	require.NoError(t, err)
	require.NoError(t, x.SetBounds(0, 10))

	m.Minimize(model.NewLinear().Add(1, x))
	_, err = m.NewConstraint("floor", model.NewLinear().Add(1, x).GreaterEqual(3))
	require.NoError(t, err)

	opt := testOptions()
	opt.IsEnabledLagrangeDual = true
	opt.IsEnabledPresolve = false

	result, err := solver.Solve(m, opt)
	require.NoError(t, err)

	assert.Positive(t, result.Status.NumberOfLagrangeDualIterations)
	assert.True(t, result.Solution.IsFeasible)
	assert.InDelta(t, 3.0, result.Solution.Objective, 1e-9)
}

// TestSolve_SecondSolveFails verifies the single-solve latch surfaces as
// model.ErrAlreadySolved.
func TestSolve_SecondSolveFails(t *testing.T) {
	m := buildKnapsackModel(t)
	_, err := solver.Solve(m, testOptions())
	require.NoError(t, err)

	_, err = solver.Solve(m, testOptions())
	assert.ErrorIs(t, err, model.ErrAlreadySolved)
}

// TestSolve_CallbackStop verifies the cooperative stop: the callback ends
// the outer loop cleanly after its first invocation.
func TestSolve_CallbackStop(t *testing.T) {
	m := buildKnapsackModel(t)
	calls := 0
	m.SetCallback(func() error {
		calls++
		return solver.ErrStopRequested
	})

	result, err := solver.Solve(m, testOptions())
	require.NoError(t, err, "a requested stop is not an error")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, result.Status.NumberOfTabuSearchLoops)
}

// TestSolve_CallbackErrorPreservesIncumbent: a failing callback
// unwinds with ErrUserCallback while the Result keeps the best incumbent.
func TestSolve_CallbackErrorPreservesIncumbent(t *testing.T) {
	m := buildKnapsackModel(t)
	boom := errors.New("telemetry sink unavailable")
	m.SetCallback(func() error { return boom })

	result, err := solver.Solve(m, testOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, solver.ErrUserCallback)

	require.NotNil(t, result)
	assert.Equal(t, result.ErrorMessage, err.Error())
	assert.True(t, result.Solution.IsFeasible, "incumbent survives the unwind")
	assert.InDelta(t, 40.0, result.Solution.Objective, 1e-9)
}

// TestSolve_InvalidOptions verifies option validation.
func TestSolve_InvalidOptions(t *testing.T) {
	opt := testOptions()
	opt.PenaltyCoefficientRelaxingRate = 1.5

	_, err := solver.Solve(buildKnapsackModel(t), opt)
	assert.ErrorIs(t, err, model.ErrInvalidOption)
}

// TestSolve_TargetObjectiveStopsEarly verifies target-reaching termination.
func TestSolve_TargetObjectiveStopsEarly(t *testing.T) {
	opt := testOptions()
	opt.TargetObjectiveValue = 30 // any feasible pack worth ≥ 30 suffices

	result, err := solver.Solve(buildKnapsackModel(t), opt)
	require.NoError(t, err)
	assert.True(t, result.Solution.IsFeasible)
	assert.GreaterOrEqual(t, result.Solution.Objective, 30.0)
}

// TestSolve_HistoricalData verifies the bounded feasible-solution archive.
func TestSolve_HistoricalData(t *testing.T) {
	opt := testOptions()
	opt.IsEnabledCollectHistoricalData = true
	opt.HistoricalDataCapacity = 5

	result, err := solver.Solve(buildKnapsackModel(t), opt)
	require.NoError(t, err)

	require.NotEmpty(t, result.History.FeasibleSolutions)
	assert.LessOrEqual(t, len(result.History.FeasibleSolutions), 5)
	for _, s := range result.History.FeasibleSolutions {
		assert.True(t, s.IsFeasible)
	}
	best := result.History.FeasibleSolutions[0]
	for _, s := range result.History.FeasibleSolutions[1:] {
		assert.LessOrEqual(t, best.Objective, s.Objective, "archive is sorted best first")
	}
}
