package solver

import (
	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/multiarray"
)

// localSearchResult reports the descent back to the outer loop.
type localSearchResult struct {
	holder             *IncumbentHolder
	totalUpdateStatus  int
	numberOfIterations int
}

// localSearch performs best-improvement descent under the locally-augmented
// objective: per iteration the single best strictly-improving candidate is
// applied; the loop stops at a local optimum, the iteration cap or the time
// cap. Move scoring is shared with the tabu driver.
func localSearch(
	m *model.Model,
	opt *Options,
	local, global model.PenaltyWeights,
	initial []*multiarray.Proxy[int64],
	holder *IncumbentHolder,
	mem *Memory,
	pr *printer,
	timeUp func() bool,
) localSearchResult {
	result := localSearchResult{holder: holder}

	if err := m.ImportVariableValues(initial); err != nil {
		panic(err)
	}
	m.Update()
	holder.ResetLocalAugmentedIncumbent()

	currentScore := m.Evaluate(nil, local, global)
	result.totalUpdateStatus |= holder.TryUpdateFromModel(m, currentScore)

	neighborhood := m.Neighborhood()

	for k := 1; k <= opt.LocalSearch.IterationMax; k++ {
		if k%opt.TabuSearch.TimeCheckInterval == 0 && timeUp() {
			break
		}

		moves := neighborhood.Update()
		bestIndex := -1
		var bestScore model.SolutionScore
		for i, mv := range moves {
			score := m.EvaluateWithScore(mv, currentScore, local, global)
			if score.LocalAugmentedObjective >= currentScore.LocalAugmentedObjective {
				continue
			}
			if bestIndex < 0 || betterMove(mv, score, moves[bestIndex], bestScore) {
				bestIndex = i
				bestScore = score
			}
		}
		if bestIndex < 0 {
			// Local optimum of the locally-augmented objective.
			break
		}
		result.numberOfIterations = k

		m.Apply(moves[bestIndex])
		mem.Update(moves[bestIndex], k)
		currentScore = bestScore
		result.totalUpdateStatus |= holder.TryUpdateFromModel(m, currentScore)
	}

	pr.outer(" - Local search reached iteration %d with local augmented objective %.3f.",
		result.numberOfIterations, currentScore.LocalAugmentedObjective*m.Sign())
	return result
}
