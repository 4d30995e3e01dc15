package solver

import (
	"math"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/multiarray"
)

// lagrangeDualResult reports the warm start back to the outer loop.
type lagrangeDualResult struct {
	holder             *IncumbentHolder
	totalUpdateStatus  int
	numberOfIterations int
}

// lagrangeDual runs subgradient ascent on the dual multipliers of a linear
// model. Each iteration minimizes the Lagrangian independently per variable
// (every reduced cost pins the variable to one of its bounds), offers the
// resulting primal point to the incumbents, and steps the multipliers along
// the constraint values with a geometrically adapted step size.
//
// Callers guarantee the model is linear and has no selection variables.
func lagrangeDual(
	m *model.Model,
	opt *Options,
	local, global model.PenaltyWeights,
	initial []*multiarray.Proxy[int64],
	holder *IncumbentHolder,
	pr *printer,
	timeUp func() bool,
) lagrangeDualResult {
	result := lagrangeDualResult{holder: holder}

	if err := m.ImportVariableValues(initial); err != nil {
		panic(err)
	}
	m.Update()

	multipliers := model.PenaltyWeights(m.NewConstraintFloatProxies(0))
	stepSize := 1.0
	bestDual := math.Inf(-1)
	sign := m.Sign()

	for k := 1; k <= opt.LagrangeDual.IterationMax; k++ {
		if k%opt.TabuSearch.TimeCheckInterval == 0 && timeUp() {
			break
		}
		result.numberOfIterations = k

		// Primal step: the Lagrangian is separable, so each free variable
		// sits at the bound its reduced cost points to.
		var alterations []model.Alteration
		for _, p := range m.VariableProxies() {
			for flat := 0; flat < p.Len(); flat++ {
				v := p.Element(flat)
				if v.IsFixed() {
					continue
				}
				reduced := sign * v.ObjectiveSensitivity()
				for _, g := range v.RelatedConstraints() {
					if g.IsEnabled() {
						reduced += multipliers.Of(g) * v.ConstraintSensitivity(g)
					}
				}
				target := v.UpperBound()
				if reduced > 0 {
					target = v.LowerBound()
				}
				if target != v.Value() {
					alterations = append(alterations, model.Alteration{Variable: v, Value: target})
				}
			}
		}
		if len(alterations) > 0 {
			mv := model.NewMove(model.MoveSenseUserDefined, alterations...)
			m.Apply(&mv)
		}

		score := m.Evaluate(nil, local, global)
		result.totalUpdateStatus |= holder.TryUpdateFromModel(m, score)

		// Dual value and subgradient step.
		dual := score.Objective
		for _, p := range m.ConstraintProxies() {
			for flat := 0; flat < p.Len(); flat++ {
				g := p.Element(flat)
				if !g.IsEnabled() {
					continue
				}
				dual += multipliers.Of(g) * g.Value()
			}
		}

		if dual > bestDual+model.Epsilon {
			bestDual = dual
			stepSize *= opt.LagrangeDual.StepSizeExtendRate
		} else {
			stepSize *= opt.LagrangeDual.StepSizeReduceRate
		}
		if stepSize < opt.LagrangeDual.Tolerance {
			break
		}

		for _, p := range m.ConstraintProxies() {
			for flat := 0; flat < p.Len(); flat++ {
				g := p.Element(flat)
				if !g.IsEnabled() {
					continue
				}
				multiplier := multipliers.Of(g) + stepSize*g.Value()
				switch g.Sense() {
				case model.LessEqual:
					multiplier = math.Max(0, multiplier)
				case model.GreaterEqual:
					multiplier = math.Min(0, multiplier)
				}
				multipliers.Set(g, multiplier)
			}
		}
	}

	pr.outer(" - Lagrange dual finished after %d iterations (best dual bound %.3f).",
		result.numberOfIterations, bestDual*sign)
	return result
}
