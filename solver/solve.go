package solver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/multiarray"
)

// Solve runs the outer loop on the model: setup, optional Lagrange-dual
// warm start, optional local search, then repeated tabu-search loops with
// adaptive tenure, random restart kicks and penalty-coefficient updates,
// until the time or iteration budget is exhausted or the target objective
// is reached.
//
// Pass a single Options value built from DefaultOptions(); with no options
// the defaults apply. A model can be solved once: a second call returns
// model.ErrAlreadySolved.
func Solve(m *model.Model, options ...Options) (*Result, error) {
	opt := DefaultOptions()
	if len(options) > 0 {
		opt = options[0]
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := m.MarkSolved(); err != nil {
		return nil, err
	}

	pr := newPrinter(&opt)
	start := time.Now()
	elapsed := func() float64 { return time.Since(start).Seconds() }
	timeUp := func() bool { return elapsed() > opt.TimeMax }

	// Default-target the objective: a user-set target is converted to the
	// internal minimization orientation; without an objective the search
	// stops at the first feasible solution.
	target := opt.TargetObjectiveValue
	if math.Abs(target/DefaultTargetObjective-1.0) > model.Epsilon {
		target *= m.Sign()
	} else if !m.IsDefinedObjective() {
		target = 0
	}

	if err := m.Setup(model.SetupOptions{
		IsEnabledPresolve:               opt.IsEnabledPresolve,
		IsEnabledInitialValueCorrection: opt.IsEnabledInitialValueCorrection,
		IsEnabledAggregationMove:        opt.IsEnabledAggregationMove,
		IsEnabledPrecedenceMove:         opt.IsEnabledPrecedenceMove,
		IsEnabledVariableBoundMove:      opt.IsEnabledVariableBoundMove,
		IsEnabledExclusiveMove:          opt.IsEnabledExclusiveMove,
		IsEnabledUserDefinedMove:        opt.IsEnabledUserDefinedMove,
		IsEnabledChainMove:              opt.IsEnabledChainMove,
		SelectionMode:                   opt.SelectionMode,
	}); err != nil {
		return nil, err
	}

	pr.outer("Optimization starts: %d variables (%d fixed), %d constraints.",
		m.NumberOfVariables(), m.NumberOfFixedVariables(), m.NumberOfConstraints())

	neighborhood := m.Neighborhood()
	if opt.IsEnabledBinaryMove {
		neighborhood.EnableBinaryMove()
	}
	if opt.IsEnabledIntegerMove {
		neighborhood.EnableIntegerMove()
	}
	if opt.IsEnabledUserDefinedMove {
		neighborhood.EnableUserDefinedMove()
	}
	if opt.SelectionMode != model.SelectionModeNone {
		neighborhood.EnableSelectionMove()
	}

	// Special families stay dormant until stagnation switches them on.
	hasSpecialMoves := neighborhood.HasSpecialMoveFamilies(opt.IsEnabledChainMove)

	rng := rngFromSeed(opt.Seed)

	localWeights := model.PenaltyWeights(m.NewConstraintFloatProxies(opt.InitialPenaltyCoefficient))
	globalWeights := localWeights.Clone()

	memory := NewMemory(m)
	pool := newSolutionPool(opt.HistoricalDataCapacity)

	m.Update()
	currentSolution := m.ExportSolution()
	holder := NewIncumbentHolder()
	holder.TryUpdate(currentSolution, m.Evaluate(nil, localWeights, globalWeights))

	numberOfLagrangeDualIterations := 0
	numberOfLocalSearchIterations := 0
	numberOfTabuSearchIterations := 0
	numberOfTabuSearchLoops := 0

	// Optional Lagrange-dual warm start.
	if opt.IsEnabledLagrangeDual {
		switch {
		case !m.IsLinear():
			pr.warning("Solving lagrange dual was skipped because the problem is nonlinear.")
		case m.NumberOfSelectionVariables() > 0:
			pr.warning("Solving lagrange dual was skipped because it is not applicable to selection variables.")
		case timeUp():
			pr.outer("Lagrange dual was skipped because of time-over (%.3fsec).", elapsed())
		default:
			sub := holder.Clone()
			r := lagrangeDual(m, &opt, localWeights, globalWeights,
				currentSolution.VariableValueProxies, sub, pr, timeUp)

			currentSolution = r.holder.GlobalAugmentedIncumbentSolution()
			holder.TryUpdate(r.holder.GlobalAugmentedIncumbentSolution(), r.holder.GlobalAugmentedIncumbentScore())
			if r.holder.FoundFeasibleSolution() {
				holder.TryUpdate(r.holder.FeasibleIncumbentSolution(), r.holder.FeasibleIncumbentScore())
			}
			numberOfLagrangeDualIterations = r.numberOfIterations
			pr.outer("Solving Lagrange dual was finished. Total elapsed time: %.3fsec", elapsed())
		}
	}

	// Optional local-search refinement of the starting point.
	if opt.IsEnabledLocalSearch && !timeUp() {
		sub := holder.Clone()
		r := localSearch(m, &opt, localWeights, globalWeights,
			currentSolution.VariableValueProxies, sub, memory, pr, timeUp)

		currentSolution = r.holder.GlobalAugmentedIncumbentSolution()
		holder.TryUpdate(r.holder.GlobalAugmentedIncumbentSolution(), r.holder.GlobalAugmentedIncumbentScore())
		if r.holder.FoundFeasibleSolution() {
			holder.TryUpdate(r.holder.FeasibleIncumbentSolution(), r.holder.FeasibleIncumbentScore())
		}
		numberOfLocalSearchIterations = r.numberOfIterations
		pr.outer("Local search was finished. Total elapsed time: %.3fsec", elapsed())
	}

	// Repeated tabu-search loops with adaptive restart parameters.
	iteration := 0
	notUpdateCount := 0
	nextNumberOfInitialModification := 0
	nextInitialTabuTenure := opt.TabuSearch.InitialTabuTenure
	nextIterationMax := opt.TabuSearch.IterationMax
	penaltyResetFlag := false
	bias := memory.Bias()

	var callbackErr error

	for {
		if timeUp() {
			pr.outer("Outer loop was terminated because of time-over (%.3fsec).", elapsed())
			break
		}
		if iteration >= opt.IterationMax {
			pr.outer("Outer loop was terminated because of iteration limit (%d iterations).", iteration)
			break
		}
		if holder.FeasibleIncumbentObjective() <= target {
			pr.outer("Outer loop was terminated because the feasible objective reached the target (%d iterations).", iteration)
			break
		}

		in := tabuSearchInput{
			iterationMax:                opt.TabuSearch.IterationMax,
			initialTabuTenure:           nextInitialTabuTenure,
			numberOfInitialModification: nextNumberOfInitialModification,
		}
		if opt.TabuSearch.IsEnabledAutomaticIterationAdjustment {
			in.iterationMax = nextIterationMax
		}

		sub := holder.Clone()
		r := tabuSearch(m, &opt, in, localWeights, globalWeights,
			currentSolution.VariableValueProxies, sub, memory,
			deriveRNG(rng, uint64(iteration)), pr, timeUp)

		resultLocal := r.holder.LocalAugmentedIncumbentSolution()
		resultGlobal := r.holder.GlobalAugmentedIncumbentSolution()

		var isChanged bool
		switch opt.TabuSearch.RestartMode {
		case RestartModeLocal:
			isChanged = !resultLocal.HasSameValues(currentSolution)
			currentSolution = resultLocal
		default:
			isChanged = !resultGlobal.HasSameValues(currentSolution)
			currentSolution = resultGlobal
		}

		pool.push(r.feasibleSolutions...)

		updateStatus := holder.TryUpdate(
			r.holder.GlobalAugmentedIncumbentSolution(), r.holder.GlobalAugmentedIncumbentScore())
		if updateStatus&StatusGlobalAugmentedIncumbentUpdate != 0 {
			notUpdateCount = 0
			penaltyResetFlag = false
			// The global vector ratchets only on global-incumbent progress.
			ratchetGlobalPenaltyCoefficients(localWeights, globalWeights)
		} else {
			notUpdateCount++
			penaltyResetFlag = false
			if notUpdateCount == opt.PenaltyCoefficientResetCountThreshold {
				penaltyResetFlag = true
				notUpdateCount = 0
			}
		}
		if r.holder.FoundFeasibleSolution() {
			holder.TryUpdate(r.holder.FeasibleIncumbentSolution(), r.holder.FeasibleIncumbentScore())
		}

		// Local penalty adaptation from this loop's local incumbent.
		gap := holder.GlobalAugmentedIncumbentObjective() - r.holder.LocalAugmentedIncumbentObjective()
		updateLocalPenaltyCoefficients(&opt, localWeights, globalWeights, penaltyResetFlag, gap, resultLocal)
		if penaltyResetFlag {
			pr.outer("The penalty coefficients were reset due to search stagnation.")
		}

		// Tabu tenure for the next loop follows the bias signal.
		previousBias := bias
		bias = memory.Bias()
		if opt.TabuSearch.IsEnabledAutomaticTabuTenureAdjustment {
			switch {
			case r.totalUpdateStatus&StatusGlobalAugmentedIncumbentUpdate != 0:
				nextInitialTabuTenure = min(opt.TabuSearch.InitialTabuTenure, m.NumberOfNotFixedVariables())
			case bias > previousBias:
				nextInitialTabuTenure = min(in.initialTabuTenure+1, m.NumberOfNotFixedVariables())
			case bias < previousBias:
				nextInitialTabuTenure = max(in.initialTabuTenure-1, 1)
			}
		} else {
			nextInitialTabuTenure = opt.TabuSearch.InitialTabuTenure
		}
		pr.outer("The tabu tenure for the next loop was set to %d.", nextInitialTabuTenure)

		// Random kick width for the next restart: proportional to the
		// tenure, randomized, and suppressed right after an improvement.
		if r.totalUpdateStatus&(StatusFeasibleIncumbentUpdate|StatusGlobalAugmentedIncumbentUpdate) != 0 {
			nextNumberOfInitialModification = 0
		} else if opt.TabuSearch.IsEnabledInitialModification && !isChanged {
			nominal := int(math.Floor(opt.TabuSearch.InitialModificationFixedRate * float64(nextInitialTabuTenure)))
			width := int(opt.TabuSearch.InitialModificationRandomizeRate * float64(nominal))
			count := nominal
			if width > 0 {
				count += rng.Intn(2*width) - width
			}
			nextNumberOfInitialModification = max(1, count)
			pr.outer("For the initial %d iterations of the next loop, the solution will be randomly updated.",
				nextNumberOfInitialModification)
		}

		// Iteration cap for the next loop.
		if opt.TabuSearch.IsEnabledAutomaticIterationAdjustment && !r.isEarlyStopped {
			var next int
			if r.totalUpdateStatus&StatusGlobalAugmentedIncumbentUpdate != 0 {
				next = int(math.Ceil(float64(r.lastLocalAugmentedIncumbentUpdateIteration) *
					opt.TabuSearch.IterationIncreaseRate))
			} else {
				next = int(math.Ceil(float64(in.iterationMax) * opt.TabuSearch.IterationIncreaseRate))
			}
			nextIterationMax = max(opt.TabuSearch.InitialTabuTenure, min(opt.TabuSearch.IterationMax, next))
		}

		// Special neighborhood families: off after progress, on under
		// stagnation (only for full-length loops, so short adaptive loops
		// don't flap them).
		toggledOff := false
		toggledOn := false
		if r.totalUpdateStatus&StatusGlobalAugmentedIncumbentUpdate != 0 {
			toggledOff = disableSpecialMoves(&opt, neighborhood)
		} else if !r.isEarlyStopped && in.iterationMax == opt.TabuSearch.IterationMax {
			toggledOn = enableSpecialMoves(&opt, neighborhood)
		}
		if hasSpecialMoves && toggledOff {
			pr.outer("Special neighborhood moves were disabled.")
		}
		if hasSpecialMoves && toggledOn {
			pr.outer("Special neighborhood moves were enabled.")
		}

		numberOfTabuSearchIterations += r.numberOfIterations
		numberOfTabuSearchLoops++

		pr.outer("Tabu search loop (%d/%d) was finished. Total elapsed time: %.3fsec",
			iteration+1, opt.IterationMax, elapsed())
		pr.outer(" - Global augmented incumbent objective: %.3f",
			holder.GlobalAugmentedIncumbentObjective()*m.Sign())
		pr.outer(" - Feasible incumbent objective: %.3f",
			holder.FeasibleIncumbentObjective()*m.Sign())

		iteration++

		if err := m.Callback(); err != nil {
			if errors.Is(err, ErrStopRequested) {
				pr.outer("Outer loop was terminated by the user callback.")
				break
			}
			callbackErr = fmt.Errorf("%w: %v", ErrUserCallback, err)
			break
		}
	}

	// Export: the feasible incumbent when one exists, otherwise the global
	// augmented incumbent; re-imported so every disabled constraint's value
	// is refreshed too.
	incumbent := holder.GlobalAugmentedIncumbentSolution()
	if holder.FoundFeasibleSolution() {
		incumbent = holder.FeasibleIncumbentSolution()
	}
	if err := m.ImportVariableValues(incumbent.VariableValueProxies); err != nil {
		return nil, err
	}
	m.Update()
	incumbent = m.ExportSolution()

	result := &Result{
		RunID:    uuid.NewString(),
		Solution: m.ConvertToNamedSolution(incumbent),
		Status: Status{
			ModelSummary:                   m.ExportSummary(),
			PenaltyCoefficients:            namedPenaltyCoefficients(localWeights),
			UpdateCounts:                   namedUpdateCounts(memory),
			IsFoundFeasibleSolution:        holder.FoundFeasibleSolution(),
			ElapsedTime:                    elapsed(),
			NumberOfLagrangeDualIterations: numberOfLagrangeDualIterations,
			NumberOfLocalSearchIterations:  numberOfLocalSearchIterations,
			NumberOfTabuSearchIterations:   numberOfTabuSearchIterations,
			NumberOfTabuSearchLoops:        numberOfTabuSearchLoops,
		},
		History: History{FeasibleSolutions: pool.all()},
	}

	if callbackErr != nil {
		result.Err = callbackErr
		result.ErrorMessage = callbackErr.Error()
		return result, callbackErr
	}
	return result, nil
}

func namedPenaltyCoefficients(local model.PenaltyWeights) map[string]*multiarray.Proxy[float64] {
	out := make(map[string]*multiarray.Proxy[float64], len(local))
	for _, p := range local {
		out[p.Name()] = p.Clone()
	}
	return out
}

func namedUpdateCounts(memory *Memory) map[string]*multiarray.Proxy[int] {
	out := make(map[string]*multiarray.Proxy[int], len(memory.UpdateCounts()))
	for _, p := range memory.UpdateCounts() {
		out[p.Name()] = p.Clone()
	}
	return out
}

// enableSpecialMoves switches every configured stagnation family on,
// reporting whether anything changed.
func enableSpecialMoves(opt *Options, n *model.Neighborhood) bool {
	changed := false
	if opt.IsEnabledAggregationMove && !n.IsEnabledAggregationMove() {
		n.EnableAggregationMove()
		changed = true
	}
	if opt.IsEnabledPrecedenceMove && !n.IsEnabledPrecedenceMove() {
		n.EnablePrecedenceMove()
		changed = true
	}
	if opt.IsEnabledVariableBoundMove && !n.IsEnabledVariableBoundMove() {
		n.EnableVariableBoundMove()
		changed = true
	}
	if opt.IsEnabledExclusiveMove && !n.IsEnabledExclusiveMove() {
		n.EnableExclusiveMove()
		changed = true
	}
	if opt.IsEnabledChainMove && !n.IsEnabledChainMove() {
		n.EnableChainMove()
		changed = true
	}
	if opt.IsEnabledIntegerMove {
		n.EnableIntegerBoundMove()
	}
	return changed
}

// disableSpecialMoves switches every active stagnation family off,
// reporting whether anything changed.
func disableSpecialMoves(opt *Options, n *model.Neighborhood) bool {
	changed := false
	if opt.IsEnabledAggregationMove && n.IsEnabledAggregationMove() {
		n.DisableAggregationMove()
		changed = true
	}
	if opt.IsEnabledPrecedenceMove && n.IsEnabledPrecedenceMove() {
		n.DisablePrecedenceMove()
		changed = true
	}
	if opt.IsEnabledVariableBoundMove && n.IsEnabledVariableBoundMove() {
		n.DisableVariableBoundMove()
		changed = true
	}
	if opt.IsEnabledExclusiveMove && n.IsEnabledExclusiveMove() {
		n.DisableExclusiveMove()
		changed = true
	}
	if opt.IsEnabledChainMove && n.IsEnabledChainMove() {
		n.DisableChainMove()
		changed = true
	}
	if opt.IsEnabledIntegerMove {
		n.DisableIntegerBoundMove()
	}
	return changed
}
