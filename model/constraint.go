package model

import (
	"math"

	"github.com/katalvlaran/mipmh/multiarray"
)

// Constraint couples an expression (or an opaque callback) with a sense and
// caches its current value and violation magnitude.
type Constraint struct {
	proxyIndex int
	flatIndex  int
	name       string

	expression *Expression
	fn         EvalFunc
	sense      ConstraintSense

	isEnabled bool
	isDefined bool
	shape     ConstraintShape

	// value is the cached expression value; violation is the cached
	// violation magnitude under the sense. Both are maintained by
	// Model.Update / Model.Apply.
	value     float64
	violation float64
}

// ProxyIndex returns the owning proxy's index.
func (g *Constraint) ProxyIndex() int { return g.proxyIndex }

// FlatIndex returns the position inside the owning proxy.
func (g *Constraint) FlatIndex() int { return g.flatIndex }

// Name returns the unique element name.
func (g *Constraint) Name() string { return g.name }

// Sense returns the constraint relation.
func (g *Constraint) Sense() ConstraintSense { return g.sense }

// Shape returns the classification tag assigned by setup.
func (g *Constraint) Shape() ConstraintShape { return g.shape }

// Expression returns the linear body, or nil for callback constraints.
func (g *Constraint) Expression() *Expression { return g.expression }

// IsLinear reports whether the body is a linear expression.
func (g *Constraint) IsLinear() bool { return g.fn == nil }

// IsEnabled reports whether the constraint participates in evaluation.
// Presolve and selection extraction disable implied constraints.
func (g *Constraint) IsEnabled() bool { return g.isEnabled }

// Enable re-activates the constraint.
func (g *Constraint) Enable() { g.isEnabled = true }

// Disable removes the constraint from evaluation.
func (g *Constraint) Disable() { g.isEnabled = false }

// Value returns the cached constraint (expression) value.
func (g *Constraint) Value() float64 { return g.value }

// Violation returns the cached violation magnitude.
func (g *Constraint) Violation() float64 { return g.violation }

// Define installs a sensed linear body.
func (g *Constraint) Define(c *Comparison) {
	g.expression = newStandaloneExpression(g.name)
	g.expression.SetLinear(c.linear)
	g.sense = c.sense
	g.fn = nil
	g.isDefined = true
}

// DefineFunc installs an opaque callback body with the given sense. The
// model becomes nonlinear and every evaluation of this constraint is a full
// callback invocation.
func (g *Constraint) DefineFunc(fn EvalFunc, sense ConstraintSense) {
	g.fn = fn
	g.expression = nil
	g.sense = sense
	g.isDefined = true
}

// Evaluate computes the constraint value under a candidate move without
// touching the caches.
func (g *Constraint) Evaluate(move *Move) float64 {
	if g.fn != nil {
		return g.fn(move)
	}
	return g.expression.Evaluate(move)
}

// ViolationOf returns the violation magnitude of a constraint value under
// the sense: max(0, v) for ≤, |v| for =, max(0, −v) for ≥.
func ViolationOf(sense ConstraintSense, value float64) float64 {
	switch sense {
	case LessEqual:
		return math.Max(0, value)
	case Equal:
		return math.Abs(value)
	default:
		return math.Max(0, -value)
	}
}

// update refreshes the cached value and violation from the current
// assignment.
func (g *Constraint) update() {
	if g.fn != nil {
		g.value = g.fn(nil)
	} else {
		g.expression.update()
		g.value = g.expression.value
	}
	g.violation = ViolationOf(g.sense, g.value)
}

// setValue installs a known-correct value and its violation; the delta path
// of Model.Apply is the only caller.
func (g *Constraint) setValue(value float64) {
	g.value = value
	g.violation = ViolationOf(g.sense, value)
}

// ConstraintProxy owns a dense N-dimensional array of constraints.
type ConstraintProxy struct {
	index       int
	name        string
	shape       multiarray.Shape
	constraints []Constraint
}

func newConstraintProxy(index int, name string, shape multiarray.Shape) *ConstraintProxy {
	p := &ConstraintProxy{
		index:       index,
		name:        name,
		shape:       shape,
		constraints: make([]Constraint, shape.Size()),
	}
	for flat := range p.constraints {
		p.constraints[flat] = Constraint{
			proxyIndex: index,
			flatIndex:  flat,
			name:       name + shape.IndexLabel(flat),
			isEnabled:  true,
		}
	}
	return p
}

// Index returns the proxy's position among constraint proxies.
func (p *ConstraintProxy) Index() int { return p.index }

// Name returns the proxy's base name.
func (p *ConstraintProxy) Name() string { return p.name }

// Shape returns the proxy's shape metadata.
func (p *ConstraintProxy) Shape() multiarray.Shape { return p.shape }

// Len returns the number of elements.
func (p *ConstraintProxy) Len() int { return len(p.constraints) }

// Element returns the constraint at the flat position.
func (p *ConstraintProxy) Element(flat int) *Constraint { return &p.constraints[flat] }

// At returns the constraint at a multi-dimensional index.
func (p *ConstraintProxy) At(indices ...int) (*Constraint, error) {
	flat, err := p.shape.FlatIndex(indices...)
	if err != nil {
		return nil, err
	}
	return &p.constraints[flat], nil
}
