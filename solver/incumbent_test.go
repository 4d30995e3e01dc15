package solver_test

import (
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/solver"
	"github.com/stretchr/testify/assert"
)

func score(objective, violation, localW, globalW float64) model.SolutionScore {
	return model.SolutionScore{
		Objective:                objective,
		TotalViolation:           violation,
		LocalPenalty:             localW * violation,
		GlobalPenalty:            globalW * violation,
		LocalAugmentedObjective:  objective + localW*violation,
		GlobalAugmentedObjective: objective + globalW*violation,
		IsFeasible:               violation == 0,
	}
}

// TestIncumbentHolder_UpdateStatus verifies the bitmask semantics of
// TryUpdate over a sequence of offers.
func TestIncumbentHolder_UpdateStatus(t *testing.T) {
	h := solver.NewIncumbentHolder()
	s := &model.Solution{}

	// First offer: infeasible, updates both augmented incumbents.
	status := h.TryUpdate(s, score(10, 2, 1, 1))
	assert.Equal(t,
		solver.StatusLocalAugmentedIncumbentUpdate|solver.StatusGlobalAugmentedIncumbentUpdate,
		status)
	assert.False(t, h.FoundFeasibleSolution())

	// Feasible and better on every axis.
	status = h.TryUpdate(s, score(8, 0, 1, 1))
	assert.Equal(t,
		solver.StatusLocalAugmentedIncumbentUpdate|
			solver.StatusGlobalAugmentedIncumbentUpdate|
			solver.StatusFeasibleIncumbentUpdate,
		status)
	assert.True(t, h.FoundFeasibleSolution())
	assert.Equal(t, 8.0, h.FeasibleIncumbentObjective())

	// Worse on every axis: nothing moves.
	assert.Equal(t, solver.StatusNoUpdated, h.TryUpdate(s, score(9, 1, 1, 1)))
	assert.Equal(t, 8.0, h.GlobalAugmentedIncumbentObjective())
}

// TestIncumbentHolder_LocalReset verifies the per-loop reset touches only
// the local augmented incumbent objective.
func TestIncumbentHolder_LocalReset(t *testing.T) {
	h := solver.NewIncumbentHolder()
	s := &model.Solution{}
	h.TryUpdate(s, score(5, 0, 1, 1))

	h.ResetLocalAugmentedIncumbent()

	status := h.TryUpdate(s, score(7, 0, 1, 1))
	assert.NotZero(t, status&solver.StatusLocalAugmentedIncumbentUpdate,
		"local incumbent restarts fresh")
	assert.Zero(t, status&solver.StatusGlobalAugmentedIncumbentUpdate,
		"global incumbent remembers the better offer")
	assert.Equal(t, 5.0, h.GlobalAugmentedIncumbentObjective())
	assert.Equal(t, 5.0, h.FeasibleIncumbentObjective())
}

// TestIncumbentHolder_FeasibleTracksPureObjective verifies the feasible
// incumbent compares raw objectives, not augmented ones.
func TestIncumbentHolder_FeasibleTracksPureObjective(t *testing.T) {
	h := solver.NewIncumbentHolder()
	s := &model.Solution{}

	h.TryUpdate(s, score(10, 0, 1, 1))
	// Infeasible with a lower augmented objective: must not steal the
	// feasible incumbent.
	status := h.TryUpdate(s, score(1, 3, 1, 1))
	assert.Zero(t, status&solver.StatusFeasibleIncumbentUpdate)
	assert.Equal(t, 10.0, h.FeasibleIncumbentObjective())
}
