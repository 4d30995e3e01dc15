package solver

import (
	"math"

	"github.com/katalvlaran/mipmh/model"
)

// updateLocalPenaltyCoefficients applies the per-loop adaptation of the
// local weight vector after a tabu-search loop.
//
//   - reset:   local ← global (stagnation trigger fired).
//   - tighten: the gap (global augmented incumbent − local augmented
//     incumbent) is positive and the loop's local incumbent is infeasible;
//     every weight grows by a blend of a constant share of the gap and a
//     share proportional to that constraint's violation, capped at the
//     initial penalty coefficient.
//   - relax:   otherwise every weight whose constraint the local incumbent
//     satisfies shrinks by the relaxing rate.
func updateLocalPenaltyCoefficients(
	opt *Options,
	local, global model.PenaltyWeights,
	reset bool,
	gap float64,
	localIncumbent *model.Solution,
) {
	if reset {
		for i, p := range global {
			copy(local[i].Values(), p.Values())
		}
		return
	}

	if gap > model.Epsilon && !localIncumbent.IsFeasible {
		totalPenalty := 0.0
		totalSquaredViolation := 0.0
		for _, proxy := range localIncumbent.ViolationValueProxies {
			for _, violation := range proxy.Values() {
				totalPenalty += violation
				totalSquaredViolation += violation * violation
			}
		}
		if totalPenalty <= model.Epsilon || totalSquaredViolation <= model.Epsilon {
			return
		}

		balance := opt.PenaltyCoefficientUpdatingBalance
		for i, proxy := range local {
			violations := localIncumbent.ViolationValueProxies[i].Values()
			values := proxy.Values()
			for flat := range values {
				deltaConstant := gap / totalPenalty
				deltaProportional := gap / totalSquaredViolation * violations[flat]
				values[flat] += opt.PenaltyCoefficientTighteningRate *
					(balance*deltaConstant + (1.0-balance)*deltaProportional)
			}

			if opt.IsEnabledGroupingPenaltyCoefficient {
				maxPenalty := 0.0
				for _, v := range values {
					maxPenalty = math.Max(maxPenalty, v)
				}
				for flat := range values {
					values[flat] = maxPenalty
				}
			}

			// Coefficients stay bounded by the configured initial value.
			for flat := range values {
				values[flat] = math.Min(values[flat], opt.InitialPenaltyCoefficient)
			}
		}
		return
	}

	for i, proxy := range local {
		violations := localIncumbent.ViolationValueProxies[i].Values()
		values := proxy.Values()
		for flat := range values {
			if violations[flat] < model.Epsilon {
				values[flat] *= opt.PenaltyCoefficientRelaxingRate
			}
		}
	}
}

// ratchetGlobalPenaltyCoefficients raises every global weight to the
// corresponding local one. Called only when the global augmented incumbent
// improved, keeping the global vector monotone non-decreasing.
func ratchetGlobalPenaltyCoefficients(local, global model.PenaltyWeights) {
	for i, proxy := range global {
		localValues := local[i].Values()
		values := proxy.Values()
		for flat := range values {
			values[flat] = math.Max(values[flat], localValues[flat])
		}
	}
}
