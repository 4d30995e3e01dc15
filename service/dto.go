package service

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/solver"
)

// TermRequest references a variable element with a coefficient.
type TermRequest struct {
	Variable    string  `json:"variable"`
	Index       []int   `json:"index,omitempty"`
	Coefficient float64 `json:"coefficient"`
}

// VariableRequest declares a variable proxy.
type VariableRequest struct {
	Name  string `json:"name"`
	Shape []int  `json:"shape,omitempty"`

	Lower *int64 `json:"lower,omitempty"`
	Upper *int64 `json:"upper,omitempty"`

	// Values seeds initial values in flat row-major order.
	Values []int64 `json:"values,omitempty"`
}

// ConstraintRequest declares one linear constraint.
type ConstraintRequest struct {
	Name     string        `json:"name"`
	Sense    string        `json:"sense"` // "<=", "=", ">="
	RHS      float64       `json:"rhs"`
	Terms    []TermRequest `json:"terms"`
	Constant float64       `json:"constant,omitempty"`
}

// ObjectiveRequest declares the objective.
type ObjectiveRequest struct {
	Sense    string        `json:"sense"` // "minimize" or "maximize"
	Terms    []TermRequest `json:"terms"`
	Constant float64       `json:"constant,omitempty"`
}

// SolveRequest is the POST /api/v1/solve payload. Options is a partial
// override of solver.DefaultOptions().
type SolveRequest struct {
	Name        string              `json:"name"`
	Variables   []VariableRequest   `json:"variables"`
	Constraints []ConstraintRequest `json:"constraints,omitempty"`
	Objective   *ObjectiveRequest   `json:"objective,omitempty"`
	Options     json.RawMessage     `json:"options,omitempty"`
}

// BuildModel converts the request into a model plus resolved options.
func (req *SolveRequest) BuildModel() (*model.Model, solver.Options, error) {
	opt := solver.DefaultOptions()
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opt); err != nil {
			return nil, opt, fmt.Errorf("%w: options: %v", model.ErrInvalidOption, err)
		}
	}

	name := req.Name
	if name == "" {
		name = "request"
	}
	m := model.New(name)

	proxies := make(map[string]*model.VariableProxy, len(req.Variables))
	for _, v := range req.Variables {
		shape := v.Shape
		if len(shape) == 0 {
			shape = []int{1}
		}
		p, err := m.NewVariables(v.Name, shape...)
		if err != nil {
			return nil, opt, err
		}
		lower, upper := int64(0), int64(1)
		if v.Lower != nil {
			lower = *v.Lower
		}
		if v.Upper != nil {
			upper = *v.Upper
		}
		if err := p.SetBounds(lower, upper); err != nil {
			return nil, opt, err
		}
		for flat, value := range v.Values {
			if flat >= p.Len() {
				return nil, opt, fmt.Errorf("%w: %d initial values for %q of size %d",
					model.ErrInvalidOption, len(v.Values), v.Name, p.Len())
			}
			p.Element(flat).SetValue(value)
		}
		proxies[v.Name] = p
	}

	buildLinear := func(terms []TermRequest, constant float64) (*model.Linear, error) {
		l := model.NewLinear().AddConstant(constant)
		for _, term := range terms {
			p, ok := proxies[term.Variable]
			if !ok {
				return nil, fmt.Errorf("%w: unknown variable %q", model.ErrInvalidOption, term.Variable)
			}
			v := p.Element(0)
			if len(term.Index) > 0 {
				var err error
				if v, err = p.At(term.Index...); err != nil {
					return nil, fmt.Errorf("%w: %q%v", model.ErrInvalidOption, term.Variable, term.Index)
				}
			}
			l.Add(term.Coefficient, v)
		}
		return l, nil
	}

	for _, c := range req.Constraints {
		l, err := buildLinear(c.Terms, c.Constant)
		if err != nil {
			return nil, opt, err
		}
		var body *model.Comparison
		switch c.Sense {
		case "<=":
			body = l.LessEqual(c.RHS)
		case "=", "==":
			body = l.Equal(c.RHS)
		case ">=":
			body = l.GreaterEqual(c.RHS)
		default:
			return nil, opt, fmt.Errorf("%w: constraint sense %q", model.ErrInvalidOption, c.Sense)
		}
		if _, err := m.NewConstraint(c.Name, body); err != nil {
			return nil, opt, err
		}
	}

	if req.Objective != nil {
		l, err := buildLinear(req.Objective.Terms, req.Objective.Constant)
		if err != nil {
			return nil, opt, err
		}
		switch req.Objective.Sense {
		case "", "minimize":
			m.Minimize(l)
		case "maximize":
			m.Maximize(l)
		default:
			return nil, opt, fmt.Errorf("%w: objective sense %q", model.ErrInvalidOption, req.Objective.Sense)
		}
	}

	return m, opt, nil
}

// ProgressEvent is one websocket heartbeat emitted after each outer loop.
type ProgressEvent struct {
	RunID          string  `json:"run_id"`
	Model          string  `json:"model"`
	Loop           int     `json:"loop"`
	Objective      float64 `json:"objective"`
	TotalViolation float64 `json:"total_violation"`
}
