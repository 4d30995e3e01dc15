package model

import "math"

// Presolve simplifies a linear model in place: fixes implicitly fixed
// variables, tightens bounds through single-free-variable constraints,
// disables constraints implied by bounds, and pins variables untouched by
// any enabled constraint to their objective-optimal bound. The passes
// iterate to a fixed point.
func (m *Model) Presolve() {
	for {
		changed := m.fixImplicitFixedVariables()
		if m.tightenBoundsAndDisableRedundantConstraints() {
			changed = true
		}
		if m.fixIndependentVariables() {
			changed = true
		}
		if !changed {
			return
		}
	}
}

// fixImplicitFixedVariables pins every variable whose range collapsed.
func (m *Model) fixImplicitFixedVariables() bool {
	changed := false
	m.eachVariable(func(v *Variable) {
		if !v.isFixed && v.lower == v.upper {
			v.Fix(v.lower)
			changed = true
		}
	})
	return changed
}

// tightenBoundsAndDisableRedundantConstraints handles every enabled linear
// constraint with exactly one free variable: the induced bound on that
// variable is derived from the sense and the fixed remainder, the range is
// tightened, and the constraint is disabled once variable bounds imply it.
func (m *Model) tightenBoundsAndDisableRedundantConstraints() bool {
	changed := false
	m.eachConstraint(func(g *Constraint) {
		if !g.isDefined || !g.isEnabled || g.fn != nil {
			return
		}

		var free *Variable
		coefficient := 0.0
		rest := g.expression.constant
		freeCount := 0
		for _, t := range g.expression.terms {
			if t.Variable.isFixed {
				rest += t.Coefficient * float64(t.Variable.value)
				continue
			}
			freeCount++
			free = t.Variable
			coefficient = t.Coefficient
		}

		switch freeCount {
		case 0:
			// Fully fixed body: the constraint is either satisfied forever
			// or a permanent violation the search cannot repair; both ways
			// it is decided, and a satisfied one is dropped.
			if ViolationOf(g.sense, rest) <= Epsilon {
				g.Disable()
				changed = true
			}
			return
		case 1:
			// a·x + rest ⋄ 0 induces a one-sided (or exact) bound on x.
			if coefficient == 0 {
				return
			}
			bound := -rest / coefficient

			switch g.sense {
			case Equal:
				if bound != math.Trunc(bound) {
					// No integer satisfies the equation; leave it to the
					// search, which will report the infeasibility.
					return
				}
				value := int64(bound)
				if value < free.lower || value > free.upper {
					return
				}
				free.Fix(value)
				g.Disable()
				changed = true
			case LessEqual, GreaterEqual:
				// For ≤: a>0 caps x above, a<0 caps below; mirrored for ≥.
				upperSide := (g.sense == LessEqual) == (coefficient > 0)
				if upperSide {
					limit := int64(math.Floor(bound + Epsilon))
					if limit < free.upper {
						if limit < free.lower {
							return
						}
						_ = free.SetBounds(free.lower, limit)
						changed = true
					}
				} else {
					limit := int64(math.Ceil(bound - Epsilon))
					if limit > free.lower {
						if limit > free.upper {
							return
						}
						_ = free.SetBounds(limit, free.upper)
						changed = true
					}
				}
				// After tightening, the variable range satisfies the
				// constraint for every remaining value.
				g.Disable()
				changed = true
			}
		}
	})
	return changed
}

// fixIndependentVariables pins every free variable that participates in no
// enabled constraint to the bound that optimizes its objective coefficient
// (as minimization).
func (m *Model) fixIndependentVariables() bool {
	changed := false
	sign := m.Sign()
	m.eachVariable(func(v *Variable) {
		if v.isFixed {
			return
		}
		for _, g := range v.relatedConstraints {
			if g.isEnabled {
				return
			}
		}
		if sign*v.objectiveSensitivity > 0 {
			v.Fix(v.lower)
		} else {
			v.Fix(v.upper)
		}
		changed = true
	})
	return changed
}
