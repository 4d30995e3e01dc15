package model

import "math"

// CategorizeVariables partitions variables into Fixed, Binary, Integer and
// Selection and refreshes the per-category counts. Variables covered by an
// extracted selection group keep the Selection sense.
func (m *Model) CategorizeVariables() {
	m.variableCategory = variableCategory{}
	m.eachVariable(func(v *Variable) {
		switch {
		case v.isFixed:
			v.sense = VariableFixed
			m.variableCategory.fixed = append(m.variableCategory.fixed, v)
		case v.selection != nil:
			v.sense = VariableSelection
			m.variableCategory.selection = append(m.variableCategory.selection, v)
		case v.lower == 0 && v.upper == 1:
			v.sense = VariableBinary
			m.variableCategory.binary = append(m.variableCategory.binary, v)
		default:
			v.sense = VariableInteger
			m.variableCategory.integer = append(m.variableCategory.integer, v)
		}
	})
}

// CategorizeConstraints assigns a shape tag to every defined constraint and
// rebuilds the shape buckets consulted by the presolver and the
// neighborhood generator.
func (m *Model) CategorizeConstraints() {
	m.constraintCategory = make(map[ConstraintShape][]*Constraint)
	m.eachConstraint(func(g *Constraint) {
		if !g.isDefined {
			return
		}
		g.shape = classifyConstraint(g)
		m.constraintCategory[g.shape] = append(m.constraintCategory[g.shape], g)
	})
}

// classifyConstraint applies the shape priority table; the first matching
// row wins.
func classifyConstraint(g *Constraint) ConstraintShape {
	if g.fn != nil {
		return ShapeNonlinear
	}

	terms := g.expression.terms
	n := len(terms)
	// The body is Σ a·x + c ⋄ 0, so the conventional right-hand side is −c.
	rhs := -g.expression.constant

	switch {
	case n == 1:
		return ShapeSingleton
	case n == 2 && g.sense == Equal:
		return ShapeAggregation
	case n == 2 && terms[0].Coefficient == -terms[1].Coefficient:
		return ShapePrecedence
	case n == 2:
		return ShapeVariableBound
	}

	allBinary := true
	allInteger := true
	allUnit := true
	allNonnegative := true
	negatives := 0
	negativeLarge := false
	for _, t := range terms {
		v := t.Variable
		if v.lower != 0 || v.upper != 1 {
			allBinary = false
		}
		if t.Coefficient != math.Trunc(t.Coefficient) {
			allInteger = false
		}
		if t.Coefficient != 1 {
			allUnit = false
		}
		if t.Coefficient < 0 {
			allNonnegative = false
			negatives++
			if t.Coefficient <= -2 {
				negativeLarge = true
			}
		}
	}
	integralRHS := rhs == math.Trunc(rhs)

	if allBinary && allInteger && integralRHS {
		switch {
		case allUnit && rhs == 1 && g.sense == Equal:
			return ShapeSetPartitioning
		case allUnit && rhs == 1 && g.sense == LessEqual:
			return ShapeSetPacking
		case allUnit && rhs == 1 && g.sense == GreaterEqual:
			return ShapeSetCovering
		case allUnit && rhs >= 1 && g.sense == Equal:
			return ShapeCardinality
		case allUnit && rhs >= 1 && g.sense == LessEqual:
			return ShapeInvariantKnapsack
		case allNonnegative && g.sense == Equal:
			return ShapeEquationKnapsack
		case negatives == 1 && negativeLarge && rhs == 0 && g.sense == LessEqual && unitButOneNegative(terms):
			return ShapeBinPacking
		case allNonnegative && (g.sense == LessEqual || g.sense == GreaterEqual):
			return ShapeKnapsack
		}
	}

	if !allBinary && allNonnegative && (g.sense == LessEqual || g.sense == GreaterEqual) {
		return ShapeIntegerKnapsack
	}

	return ShapeGeneralLinear
}

// unitButOneNegative reports whether every coefficient is +1 except a single
// negative "capacity" coefficient.
func unitButOneNegative(terms []Term) bool {
	for _, t := range terms {
		if t.Coefficient != 1 && t.Coefficient >= 0 {
			return false
		}
	}
	return true
}
