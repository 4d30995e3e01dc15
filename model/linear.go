package model

// EvalFunc is a user-supplied opaque evaluation callback. It receives the
// candidate move (nil or empty for the current state) and must compute its
// value through Variable.Evaluate / Expression.Evaluate so hypothetical
// states score correctly. Installing one marks the model nonlinear and
// disables the incremental delta path for the component it defines.
type EvalFunc func(*Move) float64

// linearTerm is one (coefficient, variable) pair of a builder.
type linearTerm struct {
	variable    *Variable
	coefficient float64
}

// Linear is the fluent builder for sparse linear forms:
//
//	NewLinear().Add(2, x).Add(3, y).AddConstant(-5)   // 2·x + 3·y − 5
//
// Builders are write-only staging values; they become live model state only
// when handed to Minimize/Maximize, Constraint.Define or
// Expression.SetLinear. Repeated Add of the same variable accumulates.
type Linear struct {
	terms    []linearTerm
	constant float64
}

// NewLinear returns an empty linear form.
func NewLinear() *Linear {
	return &Linear{}
}

// Add appends coefficient·v to the form and returns the receiver.
func (l *Linear) Add(coefficient float64, v *Variable) *Linear {
	l.terms = append(l.terms, linearTerm{variable: v, coefficient: coefficient})
	return l
}

// AddConstant adds a constant term and returns the receiver.
func (l *Linear) AddConstant(c float64) *Linear {
	l.constant += c
	return l
}

// AddExpression appends coefficient·e by merging e's terms and constant.
func (l *Linear) AddExpression(coefficient float64, e *Expression) *Linear {
	for _, t := range e.terms {
		l.terms = append(l.terms, linearTerm{variable: t.Variable, coefficient: coefficient * t.Coefficient})
	}
	l.constant += coefficient * e.constant
	return l
}

// Sum builds Σ 1·v over the given variables.
func Sum(vars ...*Variable) *Linear {
	l := NewLinear()
	for _, v := range vars {
		l.Add(1, v)
	}
	return l
}

// SumProxy builds Σ 1·v over every element of a proxy.
func SumProxy(p *VariableProxy) *Linear {
	l := NewLinear()
	for flat := 0; flat < p.Len(); flat++ {
		l.Add(1, p.Element(flat))
	}
	return l
}

// Comparison is a sensed linear body, produced by folding the right-hand
// side into the builder's constant so the relation is always against zero.
type Comparison struct {
	linear *Linear
	sense  ConstraintSense
}

// LessEqual finalizes the form as "l ≤ rhs".
func (l *Linear) LessEqual(rhs float64) *Comparison {
	return l.compare(LessEqual, rhs)
}

// Equal finalizes the form as "l = rhs".
func (l *Linear) Equal(rhs float64) *Comparison {
	return l.compare(Equal, rhs)
}

// GreaterEqual finalizes the form as "l ≥ rhs".
func (l *Linear) GreaterEqual(rhs float64) *Comparison {
	return l.compare(GreaterEqual, rhs)
}

func (l *Linear) compare(sense ConstraintSense, rhs float64) *Comparison {
	folded := &Linear{
		terms:    append([]linearTerm(nil), l.terms...),
		constant: l.constant - rhs,
	}
	return &Comparison{linear: folded, sense: sense}
}
