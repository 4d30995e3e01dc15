package model

import "github.com/katalvlaran/mipmh/multiarray"

// PenaltyWeights is a per-constraint weight vector, one proxy per constraint
// proxy, aligned by (proxyIndex, flatIndex).
type PenaltyWeights []*multiarray.Proxy[float64]

// Of returns the weight of constraint g.
func (w PenaltyWeights) Of(g *Constraint) float64 {
	return w[g.proxyIndex].At(g.flatIndex)
}

// Set stores the weight of constraint g.
func (w PenaltyWeights) Set(g *Constraint, value float64) {
	w[g.proxyIndex].Set(g.flatIndex, value)
}

// Clone deep-copies the weight vector.
func (w PenaltyWeights) Clone() PenaltyWeights {
	return PenaltyWeights(multiarray.CloneAll(w))
}

// NewConstraintFloatProxies allocates one float64 proxy per constraint
// proxy, every element set to initial. Penalty-coefficient vectors and
// violation snapshots are built from it.
func (m *Model) NewConstraintFloatProxies(initial float64) []*multiarray.Proxy[float64] {
	out := make([]*multiarray.Proxy[float64], len(m.constraintProxies))
	for i, p := range m.constraintProxies {
		out[i] = multiarray.FilledProxy(p.index, p.name, p.shape, initial)
	}
	return out
}

// NewVariableIntProxies allocates one int proxy per variable proxy, every
// element set to initial. The solver's memory counters are built from it.
func (m *Model) NewVariableIntProxies(initial int) []*multiarray.Proxy[int] {
	out := make([]*multiarray.Proxy[int], len(m.variableProxies))
	for i, p := range m.variableProxies {
		out[i] = multiarray.FilledProxy(p.index, p.name, p.shape, initial)
	}
	return out
}

// moveDelta returns the change of g's linear body under the move:
// Σ (v' − v) · coefficient_in_g(v) over the move's alterations.
func moveDelta(move *Move, g *Constraint) float64 {
	delta := 0.0
	for i := range move.Alterations {
		alt := &move.Alterations[i]
		c := alt.Variable.ConstraintSensitivity(g)
		if c != 0 {
			delta += c * float64(alt.Value-alt.Variable.value)
		}
	}
	return delta
}

// candidateObjective returns the raw objective value under the move, using
// the sensitivity delta for linear objectives and a full callback invocation
// otherwise.
func (m *Model) candidateObjective(move *Move) float64 {
	if !m.isDefinedObjective {
		return 0
	}
	if m.objective.fn != nil {
		return m.objective.fn(move)
	}
	raw := m.objective.value
	if move != nil {
		for i := range move.Alterations {
			alt := &move.Alterations[i]
			raw += float64(alt.Value-alt.Variable.value) * alt.Variable.objectiveSensitivity
		}
	}
	return raw
}

// Evaluate scores a candidate move against the current assignment without
// mutating any state. The full form walks every enabled constraint; use
// EvaluateWithScore on the hot path.
//
// Passing a nil (or empty) move scores the current assignment itself.
func (m *Model) Evaluate(move *Move, local, global PenaltyWeights) SolutionScore {
	objective := m.Sign() * m.candidateObjective(move)

	totalViolation := 0.0
	localPenalty := 0.0
	globalPenalty := 0.0

	m.eachConstraint(func(g *Constraint) {
		if !g.isDefined || !g.isEnabled {
			return
		}
		// Callback constraints are opaque: every evaluation is a full
		// invocation. Linear ones start from the cache.
		viol := g.violation
		if g.fn != nil {
			viol = ViolationOf(g.sense, g.fn(move))
		}
		totalViolation += viol
		localPenalty += local.Of(g) * viol
		globalPenalty += global.Of(g) * viol
	})

	// Replace the cached contribution of the touched linear constraints.
	if move != nil {
		for _, g := range move.RelatedConstraints {
			if !g.isEnabled || g.fn != nil {
				continue
			}
			newViol := ViolationOf(g.sense, g.value+moveDelta(move, g))
			diff := newViol - g.violation
			totalViolation += diff
			localPenalty += local.Of(g) * diff
			globalPenalty += global.Of(g) * diff
		}
	}

	return m.assembleScore(objective, totalViolation, localPenalty, globalPenalty)
}

// EvaluateWithScore performs the Δ-update of scoreBefore, which must be the
// score of the model's current assignment under the same weights. The result
// is field-wise identical to the full form up to floating-point
// determinism, in time O(|move.alterations| · avg constraint degree).
func (m *Model) EvaluateWithScore(move *Move, scoreBefore SolutionScore, local, global PenaltyWeights) SolutionScore {
	if !m.isLinear {
		// The incremental path is unavailable for opaque bodies.
		return m.Evaluate(move, local, global)
	}

	objective := m.Sign() * m.candidateObjective(move)

	totalViolation := scoreBefore.TotalViolation
	localPenalty := scoreBefore.LocalPenalty
	globalPenalty := scoreBefore.GlobalPenalty

	for _, g := range move.RelatedConstraints {
		if !g.isEnabled {
			continue
		}
		newViol := ViolationOf(g.sense, g.value+moveDelta(move, g))
		diff := newViol - g.violation
		totalViolation += diff
		localPenalty += local.Of(g) * diff
		globalPenalty += global.Of(g) * diff
	}

	return m.assembleScore(objective, totalViolation, localPenalty, globalPenalty)
}

func (m *Model) assembleScore(objective, totalViolation, localPenalty, globalPenalty float64) SolutionScore {
	if totalViolation < 0 {
		// Accumulated float drift; violations are magnitudes.
		totalViolation = 0
	}
	return SolutionScore{
		Objective:                objective,
		TotalViolation:           totalViolation,
		LocalPenalty:             localPenalty,
		GlobalPenalty:            globalPenalty,
		LocalAugmentedObjective:  objective + localPenalty,
		GlobalAugmentedObjective: objective + globalPenalty,
		IsFeasible:               totalViolation <= Epsilon,
		IsObjectiveImprovable:    objective < m.InternalObjective(),
		IsConstraintImprovable:   totalViolation < m.totalViolation,
	}
}

// Apply commits the move: the single write path that mutates variable
// values. Cached expression values, constraint values, violations, the
// violation total and the objective are refreshed with the same delta
// formulas the kernel scores with.
func (m *Model) Apply(move *Move) {
	for i := range move.Alterations {
		alt := &move.Alterations[i]
		delta := float64(alt.Value - alt.Variable.value)
		if delta == 0 {
			continue
		}
		for _, e := range alt.Variable.relatedExpressions {
			e.shiftValue(e.sensitivities[alt.Variable] * delta)
		}
		alt.Variable.value = alt.Value
	}

	for _, g := range move.RelatedConstraints {
		old := g.violation
		if g.fn != nil {
			g.setValue(g.fn(nil))
		} else {
			g.setValue(g.expression.value)
		}
		if g.isEnabled {
			m.totalViolation += g.violation - old
		}
	}

	if !m.isLinear {
		// Opaque constraints have no sensitivity links; refresh them all.
		m.eachConstraint(func(g *Constraint) {
			if !g.isDefined || g.fn == nil {
				return
			}
			old := g.violation
			g.setValue(g.fn(nil))
			if g.isEnabled {
				m.totalViolation += g.violation - old
			}
		})
	}

	if m.isDefinedObjective {
		if m.objective.fn != nil {
			m.objective.value = m.objective.fn(nil)
		} else {
			m.objective.value = m.objective.expression.value
		}
	}
}
