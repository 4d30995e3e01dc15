package solver

import (
	"math"

	"github.com/katalvlaran/mipmh/model"
)

// Update-status bits returned by IncumbentHolder.TryUpdate.
const (
	StatusNoUpdated                      = 0
	StatusLocalAugmentedIncumbentUpdate  = 1
	StatusGlobalAugmentedIncumbentUpdate = 2
	StatusFeasibleIncumbentUpdate        = 4
)

// defaultIncumbentObjective is the empty-incumbent objective.
const defaultIncumbentObjective = math.MaxFloat64

// IncumbentHolder tracks the three incumbents: the local-augmented (per
// tabu-search loop), the global-augmented, and the best feasible solution.
// Solutions are stored by value — the holder never aliases live model state.
//
// All stored objectives are as-minimization.
type IncumbentHolder struct {
	foundFeasibleSolution bool

	localAugmentedIncumbentSolution  *model.Solution
	globalAugmentedIncumbentSolution *model.Solution
	feasibleIncumbentSolution        *model.Solution

	localAugmentedIncumbentObjective  float64
	globalAugmentedIncumbentObjective float64
	feasibleIncumbentObjective        float64

	localAugmentedIncumbentScore  model.SolutionScore
	globalAugmentedIncumbentScore model.SolutionScore
	feasibleIncumbentScore        model.SolutionScore
}

// NewIncumbentHolder returns an empty holder.
func NewIncumbentHolder() *IncumbentHolder {
	return &IncumbentHolder{
		localAugmentedIncumbentObjective:  defaultIncumbentObjective,
		globalAugmentedIncumbentObjective: defaultIncumbentObjective,
		feasibleIncumbentObjective:        defaultIncumbentObjective,
	}
}

// Clone copies the holder. Stored solutions are shared: they are immutable
// once stored (every update replaces, never mutates).
func (h *IncumbentHolder) Clone() *IncumbentHolder {
	c := *h
	return &c
}

// TryUpdate offers a snapshot with its score and reports which incumbents
// improved as an OR of Status… bits.
func (h *IncumbentHolder) TryUpdate(solution *model.Solution, score model.SolutionScore) int {
	status := StatusNoUpdated

	if score.LocalAugmentedObjective < h.localAugmentedIncumbentObjective {
		status += StatusLocalAugmentedIncumbentUpdate
		h.localAugmentedIncumbentSolution = solution
		h.localAugmentedIncumbentScore = score
		h.localAugmentedIncumbentObjective = score.LocalAugmentedObjective
	}

	if score.GlobalAugmentedObjective < h.globalAugmentedIncumbentObjective {
		status += StatusGlobalAugmentedIncumbentUpdate
		h.globalAugmentedIncumbentSolution = solution
		h.globalAugmentedIncumbentScore = score
		h.globalAugmentedIncumbentObjective = score.GlobalAugmentedObjective
	}

	if score.IsFeasible {
		h.foundFeasibleSolution = true
		if score.Objective < h.feasibleIncumbentObjective {
			status += StatusFeasibleIncumbentUpdate
			h.feasibleIncumbentSolution = solution
			h.feasibleIncumbentScore = score
			h.feasibleIncumbentObjective = score.Objective
		}
	}
	return status
}

// TryUpdateFromModel offers the model's current state, exporting the
// snapshot lazily — only when at least one incumbent actually improves.
func (h *IncumbentHolder) TryUpdateFromModel(m *model.Model, score model.SolutionScore) int {
	improves := score.LocalAugmentedObjective < h.localAugmentedIncumbentObjective ||
		score.GlobalAugmentedObjective < h.globalAugmentedIncumbentObjective ||
		(score.IsFeasible && score.Objective < h.feasibleIncumbentObjective)

	if score.IsFeasible {
		h.foundFeasibleSolution = true
	}
	if !improves {
		return StatusNoUpdated
	}
	return h.TryUpdate(m.ExportSolution(), score)
}

// ResetLocalAugmentedIncumbent clears the per-loop incumbent; each
// tabu-search loop starts it fresh.
func (h *IncumbentHolder) ResetLocalAugmentedIncumbent() {
	h.localAugmentedIncumbentObjective = defaultIncumbentObjective
}

// FoundFeasibleSolution reports whether any feasible solution was seen.
func (h *IncumbentHolder) FoundFeasibleSolution() bool { return h.foundFeasibleSolution }

// LocalAugmentedIncumbentSolution returns the per-loop incumbent snapshot.
func (h *IncumbentHolder) LocalAugmentedIncumbentSolution() *model.Solution {
	return h.localAugmentedIncumbentSolution
}

// GlobalAugmentedIncumbentSolution returns the global incumbent snapshot.
func (h *IncumbentHolder) GlobalAugmentedIncumbentSolution() *model.Solution {
	return h.globalAugmentedIncumbentSolution
}

// FeasibleIncumbentSolution returns the best feasible snapshot (nil when
// none was found).
func (h *IncumbentHolder) FeasibleIncumbentSolution() *model.Solution {
	return h.feasibleIncumbentSolution
}

// LocalAugmentedIncumbentObjective returns the per-loop incumbent objective
// (as minimization).
func (h *IncumbentHolder) LocalAugmentedIncumbentObjective() float64 {
	return h.localAugmentedIncumbentObjective
}

// GlobalAugmentedIncumbentObjective returns the global incumbent objective
// (as minimization).
func (h *IncumbentHolder) GlobalAugmentedIncumbentObjective() float64 {
	return h.globalAugmentedIncumbentObjective
}

// FeasibleIncumbentObjective returns the best feasible objective (as
// minimization).
func (h *IncumbentHolder) FeasibleIncumbentObjective() float64 {
	return h.feasibleIncumbentObjective
}

// LocalAugmentedIncumbentScore returns the per-loop incumbent score.
func (h *IncumbentHolder) LocalAugmentedIncumbentScore() model.SolutionScore {
	return h.localAugmentedIncumbentScore
}

// GlobalAugmentedIncumbentScore returns the global incumbent score.
func (h *IncumbentHolder) GlobalAugmentedIncumbentScore() model.SolutionScore {
	return h.globalAugmentedIncumbentScore
}

// FeasibleIncumbentScore returns the best feasible score.
func (h *IncumbentHolder) FeasibleIncumbentScore() model.SolutionScore {
	return h.feasibleIncumbentScore
}
