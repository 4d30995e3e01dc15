package model

import "math"

// Family generators. Every generator reads the current assignment and
// writes into the pooled move slice through push, which enforces the
// common guards (no fixed variables, in-bounds, not a no-op).

func (n *Neighborhood) updateBinaryMoves() {
	for _, v := range n.model.variableCategory.binary {
		n.push(Move{
			Sense:              MoveSenseBinary,
			Alterations:        []Alteration{{Variable: v, Value: 1 - v.value}},
			RelatedConstraints: v.relatedConstraints,
		})
	}
}

func (n *Neighborhood) updateIntegerMoves() {
	for _, v := range n.model.variableCategory.integer {
		if v.value < v.upper {
			n.push(Move{
				Sense:              MoveSenseInteger,
				Alterations:        []Alteration{{Variable: v, Value: v.value + 1}},
				RelatedConstraints: v.relatedConstraints,
			})
		}
		if v.value > v.lower {
			n.push(Move{
				Sense:              MoveSenseInteger,
				Alterations:        []Alteration{{Variable: v, Value: v.value - 1}},
				RelatedConstraints: v.relatedConstraints,
			})
		}
		if n.isEnabledIntegerBound {
			// Stagnation escape: snap straight to a bound.
			if v.value-v.lower > 1 {
				n.push(Move{
					Sense:              MoveSenseInteger,
					Alterations:        []Alteration{{Variable: v, Value: v.lower}},
					RelatedConstraints: v.relatedConstraints,
				})
			}
			if v.upper-v.value > 1 {
				n.push(Move{
					Sense:              MoveSenseInteger,
					Alterations:        []Alteration{{Variable: v, Value: v.upper}},
					RelatedConstraints: v.relatedConstraints,
				})
			}
		}
	}
}

func (n *Neighborhood) updateSelectionMoves() {
	for _, sel := range n.model.selections {
		selected := sel.SelectedVariable()
		if selected == nil {
			continue
		}
		for _, v := range sel.variables {
			if v == selected || v.isFixed || v.value == 1 {
				continue
			}
			mv := NewMove(MoveSenseSelection,
				Alteration{Variable: selected, Value: 0},
				Alteration{Variable: v, Value: 1},
			)
			n.push(mv)
		}
	}
}

// updateAggregationMoves enumerates repairs of a1·x1 + a2·x2 + c = 0: each
// variable moved onto the line given the other, plus paired ±1 shifts when
// the coefficient ratio keeps both alterations integral.
func (n *Neighborhood) updateAggregationMoves() {
	for _, g := range n.aggregationConstraints {
		if !g.isEnabled {
			continue
		}
		t1, t2 := g.expression.terms[0], g.expression.terms[1]
		c := g.expression.constant

		n.pushAggregationRepair(t1, t2, c)
		n.pushAggregationRepair(t2, t1, c)

		// Paired shifts stay on the line when a1/a2 is integral.
		ratio := t1.Coefficient / t2.Coefficient
		if ratio == math.Trunc(ratio) {
			step := int64(ratio)
			n.push(NewMove(MoveSenseAggregation,
				Alteration{Variable: t1.Variable, Value: t1.Variable.value + 1},
				Alteration{Variable: t2.Variable, Value: t2.Variable.value - step},
			))
			n.push(NewMove(MoveSenseAggregation,
				Alteration{Variable: t1.Variable, Value: t1.Variable.value - 1},
				Alteration{Variable: t2.Variable, Value: t2.Variable.value + step},
			))
		}
	}
}

// pushAggregationRepair emits "move t1's variable onto the line" when the
// induced value is integral.
func (n *Neighborhood) pushAggregationRepair(t1, t2 Term, c float64) {
	value := (-c - t2.Coefficient*float64(t2.Variable.value)) / t1.Coefficient
	if value != math.Trunc(value) {
		return
	}
	n.push(Move{
		Sense:              MoveSenseAggregation,
		Alterations:        []Alteration{{Variable: t1.Variable, Value: int64(value)}},
		RelatedConstraints: t1.Variable.relatedConstraints,
	})
}

// updatePrecedenceMoves shifts both ends of a·x1 − a·x2 ⋄ b together,
// preserving the left-hand side.
func (n *Neighborhood) updatePrecedenceMoves() {
	for _, g := range n.precedenceConstraints {
		if !g.isEnabled {
			continue
		}
		v1 := g.expression.terms[0].Variable
		v2 := g.expression.terms[1].Variable
		n.push(NewMove(MoveSensePrecedence,
			Alteration{Variable: v1, Value: v1.value + 1},
			Alteration{Variable: v2, Value: v2.value + 1},
		))
		n.push(NewMove(MoveSensePrecedence,
			Alteration{Variable: v1, Value: v1.value - 1},
			Alteration{Variable: v2, Value: v2.value - 1},
		))
	}
}

// updateVariableBoundMoves pushes each variable of a two-variable
// inequality to the boundary value induced by the other's current value.
func (n *Neighborhood) updateVariableBoundMoves() {
	for _, g := range n.variableBoundConstraints {
		if !g.isEnabled || g.sense == Equal {
			continue
		}
		t1, t2 := g.expression.terms[0], g.expression.terms[1]
		n.pushBoundaryMove(g, t1, t2)
		n.pushBoundaryMove(g, t2, t1)
	}
}

// pushBoundaryMove emits "set t1's variable to the tightest value satisfying
// the constraint with t2's variable held at its current value", clipped to
// the variable's own bounds.
func (n *Neighborhood) pushBoundaryMove(g *Constraint, t1, t2 Term) {
	rest := g.expression.constant + t2.Coefficient*float64(t2.Variable.value)
	bound := -rest / t1.Coefficient

	// For ≤ with a positive coefficient the boundary caps from above;
	// flipping either the sense or the coefficient sign mirrors it.
	upperSide := (g.sense == LessEqual) == (t1.Coefficient > 0)

	var value int64
	if upperSide {
		value = int64(math.Floor(bound + Epsilon))
		if value > t1.Variable.upper {
			value = t1.Variable.upper
		}
	} else {
		value = int64(math.Ceil(bound - Epsilon))
		if value < t1.Variable.lower {
			value = t1.Variable.lower
		}
	}

	n.push(Move{
		Sense:              MoveSenseVariableBound,
		Alterations:        []Alteration{{Variable: t1.Variable, Value: value}},
		RelatedConstraints: t1.Variable.relatedConstraints,
	})
}

// updateExclusiveMoves turns one member of a set-partitioning/packing
// constraint on while switching every currently-on sibling off.
func (n *Neighborhood) updateExclusiveMoves() {
	for _, g := range n.exclusiveConstraints {
		if !g.isEnabled {
			continue
		}
		for _, t := range g.expression.terms {
			v := t.Variable
			if v.isFixed || v.value != 0 {
				continue
			}
			alterations := []Alteration{{Variable: v, Value: 1}}
			for _, s := range g.expression.terms {
				if s.Variable != v && s.Variable.value == 1 && !s.Variable.isFixed {
					alterations = append(alterations, Alteration{Variable: s.Variable, Value: 0})
				}
			}
			if len(alterations) < 2 {
				continue
			}
			n.push(NewMove(MoveSenseExclusive, alterations...))
		}
	}
}
