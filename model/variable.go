package model

import (
	"fmt"

	"github.com/katalvlaran/mipmh/multiarray"
)

// Variable is a scalar integer decision variable. Variables live in dense
// proxy-owned storage; the (ProxyIndex, FlatIndex) pair is the stable
// identity used by memory counters, exports and deterministic tie-breaks.
//
// Values are mutated only by Model.Apply and by the setup pipeline.
type Variable struct {
	proxyIndex int
	flatIndex  int
	name       string

	value int64
	lower int64
	upper int64

	isFixed bool
	sense   VariableSense

	// selection is non-nil once the variable is covered by an extracted
	// one-hot group.
	selection *Selection

	// objectiveSensitivity is the raw coefficient of this variable in the
	// user objective (0 when absent).
	objectiveSensitivity float64

	// constraintSensitivities maps each containing constraint to this
	// variable's coefficient there; relatedConstraints keeps the same set
	// in deterministic registration order.
	constraintSensitivities map[*Constraint]float64
	relatedConstraints      []*Constraint

	// relatedExpressions lists every expression (user expressions, constraint
	// bodies, the objective body) carrying a nonzero coefficient of this
	// variable, in registration order. Apply walks it for delta updates.
	relatedExpressions []*Expression
}

// ProxyIndex returns the owning proxy's index.
func (v *Variable) ProxyIndex() int { return v.proxyIndex }

// FlatIndex returns the position inside the owning proxy.
func (v *Variable) FlatIndex() int { return v.flatIndex }

// Name returns the unique element name ("x[03]").
func (v *Variable) Name() string { return v.name }

// Value returns the current value.
func (v *Variable) Value() int64 { return v.value }

// LowerBound returns the lower bound.
func (v *Variable) LowerBound() int64 { return v.lower }

// UpperBound returns the upper bound.
func (v *Variable) UpperBound() int64 { return v.upper }

// Sense returns the category assigned by setup.
func (v *Variable) Sense() VariableSense { return v.sense }

// IsFixed reports whether the variable is pinned to a single value.
func (v *Variable) IsFixed() bool { return v.isFixed }

// Selection returns the one-hot group covering this variable, or nil.
func (v *Variable) Selection() *Selection { return v.selection }

// ObjectiveSensitivity returns the raw objective coefficient.
func (v *Variable) ObjectiveSensitivity() float64 { return v.objectiveSensitivity }

// RelatedConstraints returns the constraints this variable participates in,
// in registration order. The slice is owned by the variable.
func (v *Variable) RelatedConstraints() []*Constraint { return v.relatedConstraints }

// SetBounds tightens or widens the admissible range.
// Returns ErrInvalidOption when lower > upper.
func (v *Variable) SetBounds(lower, upper int64) error {
	if lower > upper {
		return fmt.Errorf("%w: bounds [%d, %d] of %s", ErrInvalidOption, lower, upper, v.name)
	}
	v.lower = lower
	v.upper = upper
	if lower == upper {
		v.isFixed = true
		v.value = lower
		v.sense = VariableFixed
	}
	return nil
}

// SetValue assigns an initial value before the solve. Out-of-range initial
// values are verified (and optionally corrected) during setup.
func (v *Variable) SetValue(value int64) { v.value = value }

// Fix pins the variable to a single value.
func (v *Variable) Fix(value int64) {
	v.value = value
	v.lower = value
	v.upper = value
	v.isFixed = true
	v.sense = VariableFixed
}

// Evaluate returns the value this variable takes under the candidate move:
// the altered value when the move touches it, the current value otherwise.
// Nonlinear callback bodies use this to score hypothetical states.
func (v *Variable) Evaluate(move *Move) int64 {
	if move != nil {
		for i := range move.Alterations {
			if move.Alterations[i].Variable == v {
				return move.Alterations[i].Value
			}
		}
	}
	return v.value
}

// ConstraintSensitivity returns this variable's coefficient in g (0 when
// absent). Valid after setup linked variables to constraints.
func (v *Variable) ConstraintSensitivity(g *Constraint) float64 {
	return v.constraintSensitivities[g]
}

// registerConstraint records membership of g with the given coefficient.
// Idempotent per constraint.
func (v *Variable) registerConstraint(g *Constraint, coefficient float64) {
	if v.constraintSensitivities == nil {
		v.constraintSensitivities = make(map[*Constraint]float64)
	}
	if _, ok := v.constraintSensitivities[g]; !ok {
		v.relatedConstraints = append(v.relatedConstraints, g)
	}
	v.constraintSensitivities[g] = coefficient
}

// registerExpression records that e carries this variable. Idempotent.
func (v *Variable) registerExpression(e *Expression) {
	for _, known := range v.relatedExpressions {
		if known == e {
			return
		}
	}
	v.relatedExpressions = append(v.relatedExpressions, e)
}

// less orders variables by (proxyIndex, flatIndex); the deterministic move
// tie-break and term ordering rest on it.
func (v *Variable) less(o *Variable) bool {
	if v.proxyIndex != o.proxyIndex {
		return v.proxyIndex < o.proxyIndex
	}
	return v.flatIndex < o.flatIndex
}

// VariableProxy owns a dense N-dimensional array of variables and supplies
// their stable ids. Element storage is allocated once; pointers into it stay
// valid for the model's lifetime.
type VariableProxy struct {
	index     int
	name      string
	shape     multiarray.Shape
	variables []Variable
}

func newVariableProxy(index int, name string, shape multiarray.Shape) *VariableProxy {
	p := &VariableProxy{
		index:     index,
		name:      name,
		shape:     shape,
		variables: make([]Variable, shape.Size()),
	}
	for flat := range p.variables {
		p.variables[flat] = Variable{
			proxyIndex: index,
			flatIndex:  flat,
			name:       name + shape.IndexLabel(flat),
			lower:      DefaultLowerBound,
			upper:      DefaultUpperBound,
			sense:      VariableInteger,
		}
	}
	return p
}

// Index returns the proxy's position among variable proxies.
func (p *VariableProxy) Index() int { return p.index }

// Name returns the proxy's base name.
func (p *VariableProxy) Name() string { return p.name }

// Shape returns the proxy's shape metadata.
func (p *VariableProxy) Shape() multiarray.Shape { return p.shape }

// Len returns the number of elements.
func (p *VariableProxy) Len() int { return len(p.variables) }

// Element returns the variable at the flat position.
func (p *VariableProxy) Element(flat int) *Variable { return &p.variables[flat] }

// At returns the variable at a multi-dimensional index.
func (p *VariableProxy) At(indices ...int) (*Variable, error) {
	flat, err := p.shape.FlatIndex(indices...)
	if err != nil {
		return nil, err
	}
	return &p.variables[flat], nil
}

// SetBounds applies the same bounds to every element.
func (p *VariableProxy) SetBounds(lower, upper int64) error {
	for flat := range p.variables {
		if err := p.variables[flat].SetBounds(lower, upper); err != nil {
			return err
		}
	}
	return nil
}
