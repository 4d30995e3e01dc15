package solver

import (
	"math/rand"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/multiarray"
)

// tabuSearchInput carries the per-loop parameters the outer loop adapts
// between restarts.
type tabuSearchInput struct {
	iterationMax                int
	initialTabuTenure           int
	numberOfInitialModification int
}

// tabuSearchResult reports one inner loop back to the outer loop.
type tabuSearchResult struct {
	holder            *IncumbentHolder
	totalUpdateStatus int

	numberOfIterations                         int
	lastLocalAugmentedIncumbentUpdateIteration int
	isEarlyStopped                             bool

	feasibleSolutions []*model.Solution
}

// tabuSearch runs one inner loop: per iteration it asks the neighborhood
// for candidates, scores each through the delta kernel, picks the best
// admissible (non-tabu or aspiration) move, applies it and updates memory
// and incumbents.
//
// A move is tabu when any altered variable was updated within the tenure;
// tabu status is overridden when the move would improve the global
// augmented incumbent. Ties on the locally-augmented objective break on
// smaller total violation, then on the smaller (proxy, flat) key of the
// first altered variable, so a given state always picks the same move.
func tabuSearch(
	m *model.Model,
	opt *Options,
	in tabuSearchInput,
	local, global model.PenaltyWeights,
	initial []*multiarray.Proxy[int64],
	holder *IncumbentHolder,
	mem *Memory,
	rng *rand.Rand,
	pr *printer,
	timeUp func() bool,
) tabuSearchResult {
	result := tabuSearchResult{holder: holder}

	if err := m.ImportVariableValues(initial); err != nil {
		// The initial proxies come from this model's own exports; a
		// mismatch means corrupted solver state.
		panic(err)
	}
	m.Update()
	mem.ResetLastUpdateIterations()
	holder.ResetLocalAugmentedIncumbent()

	tenure := in.initialTabuTenure
	if notFixed := m.NumberOfNotFixedVariables(); tenure > notFixed {
		tenure = notFixed
	}
	if tenure < 1 {
		tenure = 1
	}

	currentScore := m.Evaluate(nil, local, global)
	result.totalUpdateStatus |= holder.TryUpdateFromModel(m, currentScore)

	pr.tableHeader()
	pr.tableInitial(m.Sign(), currentScore, holder)

	neighborhood := m.Neighborhood()
	lastGlobalUpdate := 0
	scores := make([]model.SolutionScore, 0, 256)

	for k := 1; k <= in.iterationMax; k++ {
		if k%opt.TabuSearch.TimeCheckInterval == 0 && timeUp() {
			result.isEarlyStopped = true
			break
		}

		moves := neighborhood.Update()
		if len(moves) == 0 {
			result.isEarlyStopped = true
			break
		}
		result.numberOfIterations = k

		// Random kick phase: escape the restart point before the scored
		// search begins. The randomized memory width desynchronizes the
		// tenure expiry of the kicked variables.
		if k <= in.numberOfInitialModification {
			mv := moves[rng.Intn(len(moves))]
			m.Apply(mv)
			mem.UpdateWithWidth(mv, k, tenure, rng)
			currentScore = m.Evaluate(nil, local, global)
			result.totalUpdateStatus |= holder.TryUpdateFromModel(m, currentScore)
			continue
		}

		scores = scores[:0]
		feasibleCount := 0
		permissibleCount := 0
		improvableCount := 0

		bestIndex := -1
		bestScreened := false
		for i, mv := range moves {
			score := m.EvaluateWithScore(mv, currentScore, local, global)
			scores = append(scores, score)

			if score.IsFeasible {
				feasibleCount++
			}
			improvable := score.IsObjectiveImprovable || score.IsConstraintImprovable
			if improvable {
				improvableCount++
			}

			tabu := false
			for j := range mv.Alterations {
				if k-mem.LastUpdateIteration(mv.Alterations[j].Variable) < tenure {
					tabu = true
					break
				}
			}
			aspiration := score.GlobalAugmentedObjective < holder.GlobalAugmentedIncumbentObjective()
			if !tabu {
				permissibleCount++
			}
			if tabu && !aspiration {
				continue
			}

			screened := !opt.IsEnabledImprovabilityScreening || improvable
			switch {
			case bestIndex < 0,
				screened && !bestScreened,
				screened == bestScreened && betterMove(mv, score, moves[bestIndex], scores[bestIndex]):
				bestIndex = i
				bestScreened = screened
			}
		}

		if bestIndex < 0 {
			result.isEarlyStopped = true
			break
		}

		best := moves[bestIndex]
		m.Apply(best)
		mem.Update(best, k)
		currentScore = scores[bestIndex]

		status := holder.TryUpdateFromModel(m, currentScore)
		result.totalUpdateStatus |= status

		if status&StatusLocalAugmentedIncumbentUpdate != 0 {
			result.lastLocalAugmentedIncumbentUpdateIteration = k
		}
		if status&StatusGlobalAugmentedIncumbentUpdate != 0 {
			lastGlobalUpdate = k
		}

		if status&(StatusGlobalAugmentedIncumbentUpdate|StatusFeasibleIncumbentUpdate) != 0 {
			neighborhood.ClearChainMoves()
		} else {
			neighborhood.SynthesizeChainMoves(best)
		}

		if opt.IsEnabledCollectHistoricalData && currentScore.IsFeasible {
			result.feasibleSolutions = append(result.feasibleSolutions, m.ExportSolution())
		}

		pr.tableBody(m.Sign(), k, len(moves), feasibleCount, permissibleCount,
			improvableCount, currentScore, status, holder)

		if holder.FoundFeasibleSolution() && k-lastGlobalUpdate > opt.TabuSearch.StagnationBreakWindow {
			result.isEarlyStopped = true
			break
		}
	}

	pr.tableFooter()
	return result
}

// betterMove orders candidates by locally-augmented objective, then total
// violation, then the first altered variable's (proxy, flat) key.
func betterMove(mv *model.Move, s model.SolutionScore, bestMove *model.Move, best model.SolutionScore) bool {
	if s.LocalAugmentedObjective != best.LocalAugmentedObjective {
		return s.LocalAugmentedObjective < best.LocalAugmentedObjective
	}
	if s.TotalViolation != best.TotalViolation {
		return s.TotalViolation < best.TotalViolation
	}
	p1, f1 := mv.FirstAlteredKey()
	p2, f2 := bestMove.FirstAlteredKey()
	if p1 != p2 {
		return p1 < p2
	}
	return f1 < f2
}
