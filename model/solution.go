package model

import (
	"fmt"

	"github.com/katalvlaran/mipmh/multiarray"
)

// Solution is a by-value snapshot of the model state: variable values,
// expression values, constraint values and violations, plus the aggregate
// scores. Snapshots share no storage with the live model.
//
// Objective is the as-minimization value; multiply by Model.Sign() for the
// user's orientation.
type Solution struct {
	VariableValueProxies   []*multiarray.Proxy[int64]
	ExpressionValueProxies []*multiarray.Proxy[float64]
	ConstraintValueProxies []*multiarray.Proxy[float64]
	ViolationValueProxies  []*multiarray.Proxy[float64]

	Objective      float64
	TotalViolation float64
	IsFeasible     bool
}

// HasSameValues reports whether two snapshots assign identical variable
// values. Restart logic uses it to detect an unchanged starting point.
func (s *Solution) HasSameValues(o *Solution) bool {
	if s == nil || o == nil || len(s.VariableValueProxies) != len(o.VariableValueProxies) {
		return false
	}
	for i, p := range s.VariableValueProxies {
		q := o.VariableValueProxies[i]
		if p.Size() != q.Size() {
			return false
		}
		for flat, v := range p.Values() {
			if q.At(flat) != v {
				return false
			}
		}
	}
	return true
}

// NamedSolution is the user-facing export keyed by proxy names; its
// objective carries the user's sign.
type NamedSolution struct {
	Name           string                              `json:"name"`
	VariableValues map[string]*multiarray.Proxy[int64] `json:"variables"`

	ExpressionValues map[string]*multiarray.Proxy[float64] `json:"expressions"`
	ConstraintValues map[string]*multiarray.Proxy[float64] `json:"constraints"`
	ViolationValues  map[string]*multiarray.Proxy[float64] `json:"violations"`

	Objective      float64 `json:"objective"`
	TotalViolation float64 `json:"total_violation"`
	IsFeasible     bool    `json:"is_feasible"`
}

// ExportSolution snapshots the current model state.
func (m *Model) ExportSolution() *Solution {
	s := &Solution{
		VariableValueProxies:   make([]*multiarray.Proxy[int64], len(m.variableProxies)),
		ExpressionValueProxies: make([]*multiarray.Proxy[float64], len(m.expressionProxies)),
		ConstraintValueProxies: make([]*multiarray.Proxy[float64], len(m.constraintProxies)),
		ViolationValueProxies:  make([]*multiarray.Proxy[float64], len(m.constraintProxies)),
		Objective:              m.InternalObjective(),
		TotalViolation:         m.totalViolation,
		IsFeasible:             m.totalViolation <= Epsilon,
	}

	for i, p := range m.variableProxies {
		out := multiarray.NewProxy[int64](p.index, p.name, p.shape)
		for flat := range p.variables {
			out.Set(flat, p.variables[flat].value)
		}
		s.VariableValueProxies[i] = out
	}
	for i, p := range m.expressionProxies {
		out := multiarray.NewProxy[float64](p.index, p.name, p.shape)
		for flat := range p.expressions {
			out.Set(flat, p.expressions[flat].value)
		}
		s.ExpressionValueProxies[i] = out
	}
	for i, p := range m.constraintProxies {
		values := multiarray.NewProxy[float64](p.index, p.name, p.shape)
		violations := multiarray.NewProxy[float64](p.index, p.name, p.shape)
		for flat := range p.constraints {
			values.Set(flat, p.constraints[flat].value)
			violations.Set(flat, p.constraints[flat].violation)
		}
		s.ConstraintValueProxies[i] = values
		s.ViolationValueProxies[i] = violations
	}
	return s
}

// ImportVariableValues overwrites the current assignment from value proxies
// aligned with the model's variable proxies. Callers refresh caches with
// Update afterwards.
func (m *Model) ImportVariableValues(proxies []*multiarray.Proxy[int64]) error {
	if len(proxies) != len(m.variableProxies) {
		return fmt.Errorf("%w: %d value proxies for %d variable proxies",
			ErrInvalidOption, len(proxies), len(m.variableProxies))
	}
	for i, p := range m.variableProxies {
		if proxies[i].Size() != p.Len() {
			return fmt.Errorf("%w: value proxy %q size %d != %d",
				ErrInvalidOption, p.name, proxies[i].Size(), p.Len())
		}
		for flat := range p.variables {
			p.variables[flat].value = proxies[i].At(flat)
		}
	}
	return nil
}

// ConvertToNamedSolution re-keys a snapshot by proxy names and applies the
// sign convention to the objective.
func (m *Model) ConvertToNamedSolution(s *Solution) *NamedSolution {
	n := &NamedSolution{
		Name:             m.name,
		VariableValues:   make(map[string]*multiarray.Proxy[int64], len(s.VariableValueProxies)),
		ExpressionValues: make(map[string]*multiarray.Proxy[float64], len(s.ExpressionValueProxies)),
		ConstraintValues: make(map[string]*multiarray.Proxy[float64], len(s.ConstraintValueProxies)),
		ViolationValues:  make(map[string]*multiarray.Proxy[float64], len(s.ViolationValueProxies)),
		Objective:        m.Sign() * s.Objective,
		TotalViolation:   s.TotalViolation,
		IsFeasible:       s.IsFeasible,
	}
	for _, p := range s.VariableValueProxies {
		n.VariableValues[p.Name()] = p.Clone()
	}
	for _, p := range s.ExpressionValueProxies {
		n.ExpressionValues[p.Name()] = p.Clone()
	}
	for _, p := range s.ConstraintValueProxies {
		n.ConstraintValues[p.Name()] = p.Clone()
	}
	for _, p := range s.ViolationValueProxies {
		n.ViolationValues[p.Name()] = p.Clone()
	}
	return n
}
