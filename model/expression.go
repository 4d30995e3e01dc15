package model

import "github.com/katalvlaran/mipmh/multiarray"

// Term is one (variable, coefficient) pair of an expression, kept in a
// deterministic order so floating-point accumulation is reproducible.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// Expression is a sparse linear form Σ aᵢ·xᵢ + c with an incrementally
// maintained cached value. User expressions live in proxies; constraint
// bodies and the objective body are standalone expressions with
// proxyIndex == -1.
type Expression struct {
	proxyIndex int
	flatIndex  int
	name       string

	terms         []Term
	sensitivities map[*Variable]float64
	constant      float64

	// fixedValue is the precomputed contribution Σ aᵢ·xᵢ over fixed
	// variables; freeTerms excludes them. Both are produced by the
	// fixed-sensitivities setup stage so full recomputation skips pinned
	// variables.
	fixedValue float64
	freeTerms  []Term

	// value is the cached evaluation; Model.Update and Model.Apply keep it
	// equal to a fresh recomputation.
	value float64
}

func newStandaloneExpression(name string) *Expression {
	return &Expression{proxyIndex: -1, name: name}
}

// ProxyIndex returns the owning proxy's index, or -1 for constraint/objective
// bodies.
func (e *Expression) ProxyIndex() int { return e.proxyIndex }

// FlatIndex returns the position inside the owning proxy.
func (e *Expression) FlatIndex() int { return e.flatIndex }

// Name returns the unique element name.
func (e *Expression) Name() string { return e.name }

// Value returns the cached value.
func (e *Expression) Value() float64 { return e.value }

// Constant returns the constant term.
func (e *Expression) Constant() float64 { return e.constant }

// Terms returns the deduplicated terms in deterministic order. The slice is
// owned by the expression.
func (e *Expression) Terms() []Term { return e.terms }

// Coefficient returns v's coefficient (0 when absent).
func (e *Expression) Coefficient(v *Variable) float64 {
	return e.sensitivities[v]
}

// SetLinear installs the builder's terms, accumulating duplicates and
// registering the expression with every contained variable.
func (e *Expression) SetLinear(l *Linear) {
	e.sensitivities = make(map[*Variable]float64, len(l.terms))
	e.terms = e.terms[:0]
	e.constant = l.constant

	for _, t := range l.terms {
		if t.coefficient == 0 {
			continue
		}
		if _, ok := e.sensitivities[t.variable]; !ok {
			e.terms = append(e.terms, Term{Variable: t.variable})
		}
		e.sensitivities[t.variable] += t.coefficient
	}

	// Rewrite accumulated coefficients into the ordered term slice and drop
	// terms that cancelled to zero.
	kept := e.terms[:0]
	for _, t := range e.terms {
		c := e.sensitivities[t.Variable]
		if c == 0 {
			delete(e.sensitivities, t.Variable)
			continue
		}
		kept = append(kept, Term{Variable: t.Variable, Coefficient: c})
	}
	e.terms = kept
	e.freeTerms = e.terms
	e.fixedValue = 0

	for _, t := range e.terms {
		t.Variable.registerExpression(e)
	}
}

// Evaluate recomputes the expression under a candidate move without touching
// the cache. With a nil move it scores the current assignment.
func (e *Expression) Evaluate(move *Move) float64 {
	result := e.constant + e.fixedValue
	for _, t := range e.freeTerms {
		result += t.Coefficient * float64(t.Variable.Evaluate(move))
	}
	return result
}

// update refreshes the cached value from the current variable assignment.
func (e *Expression) update() {
	e.value = e.Evaluate(nil)
}

// shiftValue applies an incremental delta to the cached value; Model.Apply
// is the only caller.
func (e *Expression) shiftValue(delta float64) {
	e.value += delta
}

// separateFixedTerms recomputes the constant contribution of fixed variables
// and narrows the free-term slice accordingly (setup stage 11).
func (e *Expression) separateFixedTerms() {
	fixed := 0.0
	free := make([]Term, 0, len(e.terms))
	for _, t := range e.terms {
		if t.Variable.IsFixed() {
			fixed += t.Coefficient * float64(t.Variable.Value())
		} else {
			free = append(free, t)
		}
	}
	e.fixedValue = fixed
	e.freeTerms = free
}

// ExpressionProxy owns a dense N-dimensional array of user expressions.
type ExpressionProxy struct {
	index       int
	name        string
	shape       multiarray.Shape
	expressions []Expression
}

func newExpressionProxy(index int, name string, shape multiarray.Shape) *ExpressionProxy {
	p := &ExpressionProxy{
		index:       index,
		name:        name,
		shape:       shape,
		expressions: make([]Expression, shape.Size()),
	}
	for flat := range p.expressions {
		p.expressions[flat] = Expression{
			proxyIndex: index,
			flatIndex:  flat,
			name:       name + shape.IndexLabel(flat),
		}
	}
	return p
}

// Index returns the proxy's position among expression proxies.
func (p *ExpressionProxy) Index() int { return p.index }

// Name returns the proxy's base name.
func (p *ExpressionProxy) Name() string { return p.name }

// Shape returns the proxy's shape metadata.
func (p *ExpressionProxy) Shape() multiarray.Shape { return p.shape }

// Len returns the number of elements.
func (p *ExpressionProxy) Len() int { return len(p.expressions) }

// Element returns the expression at the flat position.
func (p *ExpressionProxy) Element(flat int) *Expression { return &p.expressions[flat] }

// At returns the expression at a multi-dimensional index.
func (p *ExpressionProxy) At(indices ...int) (*Expression, error) {
	flat, err := p.shape.FlatIndex(indices...)
	if err != nil {
		return nil, err
	}
	return &p.expressions[flat], nil
}
