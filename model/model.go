package model

import (
	"fmt"
	"regexp"

	"github.com/katalvlaran/mipmh/multiarray"
)

// namePattern is the admissible identifier grammar for user-supplied names.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

// objectiveFunction is the model's target: a standalone linear expression or
// an opaque callback, with a cached raw value.
type objectiveFunction struct {
	expression *Expression
	fn         EvalFunc
	value      float64
}

// Model owns every proxy, the objective, the selections and the
// neighborhood. It is exclusively owned by the top-level solver; variables
// are mutated only by Apply and by the setup pipeline.
type Model struct {
	name string

	variableProxies   []*VariableProxy
	expressionProxies []*ExpressionProxy
	constraintProxies []*ConstraintProxy

	// names guards global uniqueness across variables, expressions and
	// constraints.
	names map[string]struct{}

	objective          objectiveFunction
	isDefinedObjective bool
	isMinimization     bool

	isLinear bool
	isSolved bool

	neighborhood *Neighborhood
	selections   []*Selection

	userCallback func() error

	// totalViolation caches Σ violation over enabled constraints; Update
	// and Apply maintain it.
	totalViolation float64

	variableCategory   variableCategory
	constraintCategory map[ConstraintShape][]*Constraint
}

// variableCategory partitions variables after categorization.
type variableCategory struct {
	fixed     []*Variable
	binary    []*Variable
	integer   []*Variable
	selection []*Variable
}

// ModelSummary is the compact description attached to results.
type ModelSummary struct {
	Name                string `json:"name"`
	NumberOfVariables   int    `json:"number_of_variables"`
	NumberOfConstraints int    `json:"number_of_constraints"`
}

// New creates an empty model. Proxy slices are reserved to the compile-time
// limits so element references stay valid across create calls.
func New(name string) *Model {
	return &Model{
		name:              name,
		variableProxies:   make([]*VariableProxy, 0, MaxVariableProxies),
		expressionProxies: make([]*ExpressionProxy, 0, MaxExpressionProxies),
		constraintProxies: make([]*ConstraintProxy, 0, MaxConstraintProxies),
		names:             make(map[string]struct{}),
		isMinimization:    true,
		isLinear:          true,
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

func (m *Model) registerName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, exists := m.names[name]; exists {
		return fmt.Errorf("%w: %q is already used", ErrInvalidName, name)
	}
	m.names[name] = struct{}{}
	return nil
}

// NewVariable creates a scalar variable.
func (m *Model) NewVariable(name string) (*Variable, error) {
	p, err := m.NewVariables(name, 1)
	if err != nil {
		return nil, err
	}
	return p.Element(0), nil
}

// NewVariables creates an N-dimensional variable proxy.
func (m *Model) NewVariables(name string, dims ...int) (*VariableProxy, error) {
	if err := m.registerName(name); err != nil {
		return nil, err
	}
	if len(m.variableProxies) >= MaxVariableProxies {
		return nil, fmt.Errorf("%w: variable proxies (max %d)", ErrTooManyProxies, MaxVariableProxies)
	}
	shape, err := multiarray.NewShape(dims...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	p := newVariableProxy(len(m.variableProxies), name, shape)
	m.variableProxies = append(m.variableProxies, p)
	return p, nil
}

// NewExpression creates a scalar expression, optionally with a linear body.
func (m *Model) NewExpression(name string, body ...*Linear) (*Expression, error) {
	p, err := m.NewExpressions(name, 1)
	if err != nil {
		return nil, err
	}
	e := p.Element(0)
	if len(body) > 0 {
		e.SetLinear(body[0])
	}
	return e, nil
}

// NewExpressions creates an N-dimensional expression proxy.
func (m *Model) NewExpressions(name string, dims ...int) (*ExpressionProxy, error) {
	if err := m.registerName(name); err != nil {
		return nil, err
	}
	if len(m.expressionProxies) >= MaxExpressionProxies {
		return nil, fmt.Errorf("%w: expression proxies (max %d)", ErrTooManyProxies, MaxExpressionProxies)
	}
	shape, err := multiarray.NewShape(dims...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	p := newExpressionProxy(len(m.expressionProxies), name, shape)
	m.expressionProxies = append(m.expressionProxies, p)
	return p, nil
}

// NewConstraint creates a scalar constraint, optionally with a sensed body.
func (m *Model) NewConstraint(name string, body ...*Comparison) (*Constraint, error) {
	p, err := m.NewConstraints(name, 1)
	if err != nil {
		return nil, err
	}
	g := p.Element(0)
	if len(body) > 0 {
		g.Define(body[0])
	}
	return g, nil
}

// NewConstraints creates an N-dimensional constraint proxy.
func (m *Model) NewConstraints(name string, dims ...int) (*ConstraintProxy, error) {
	if err := m.registerName(name); err != nil {
		return nil, err
	}
	if len(m.constraintProxies) >= MaxConstraintProxies {
		return nil, fmt.Errorf("%w: constraint proxies (max %d)", ErrTooManyProxies, MaxConstraintProxies)
	}
	shape, err := multiarray.NewShape(dims...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	p := newConstraintProxy(len(m.constraintProxies), name, shape)
	m.constraintProxies = append(m.constraintProxies, p)
	return p, nil
}

// Minimize installs a linear objective to minimize.
func (m *Model) Minimize(l *Linear) {
	m.objective = objectiveFunction{expression: newStandaloneExpression("objective")}
	m.objective.expression.SetLinear(l)
	m.isMinimization = true
	m.isDefinedObjective = true
}

// Maximize installs a linear objective to maximize.
func (m *Model) Maximize(l *Linear) {
	m.Minimize(l)
	m.isMinimization = false
}

// MinimizeFunc installs an opaque callback objective to minimize; the model
// becomes nonlinear.
func (m *Model) MinimizeFunc(fn EvalFunc) {
	m.objective = objectiveFunction{fn: fn}
	m.isMinimization = true
	m.isDefinedObjective = true
}

// MaximizeFunc installs an opaque callback objective to maximize.
func (m *Model) MaximizeFunc(fn EvalFunc) {
	m.MinimizeFunc(fn)
	m.isMinimization = false
}

// SetCallback installs the user callback invoked once per outer-loop
// iteration. Returning solver.ErrStopRequested stops the search cleanly;
// any other error unwinds the solve with the best incumbent preserved.
func (m *Model) SetCallback(fn func() error) { m.userCallback = fn }

// Callback invokes the user callback (no-op when absent).
func (m *Model) Callback() error {
	if m.userCallback == nil {
		return nil
	}
	return m.userCallback()
}

// IsMinimization reports the user's objective orientation.
func (m *Model) IsMinimization() bool { return m.isMinimization }

// Sign is +1 for minimization, -1 for maximization. Exported objective
// values are internal (as-minimization) values multiplied by Sign.
func (m *Model) Sign() float64 {
	if m.isMinimization {
		return 1
	}
	return -1
}

// IsLinear reports whether every body is a linear expression (set by Setup).
func (m *Model) IsLinear() bool { return m.isLinear }

// IsDefinedObjective reports whether an objective was installed.
func (m *Model) IsDefinedObjective() bool { return m.isDefinedObjective }

// IsSolved reports whether the solved latch was taken.
func (m *Model) IsSolved() bool { return m.isSolved }

// MarkSolved takes the single-solve latch.
func (m *Model) MarkSolved() error {
	if m.isSolved {
		return ErrAlreadySolved
	}
	m.isSolved = true
	return nil
}

// VariableProxies returns the owned variable proxies in creation order.
func (m *Model) VariableProxies() []*VariableProxy { return m.variableProxies }

// ExpressionProxies returns the owned expression proxies in creation order.
func (m *Model) ExpressionProxies() []*ExpressionProxy { return m.expressionProxies }

// ConstraintProxies returns the owned constraint proxies in creation order.
func (m *Model) ConstraintProxies() []*ConstraintProxy { return m.constraintProxies }

// Neighborhood returns the move generator (non-nil after Setup).
func (m *Model) Neighborhood() *Neighborhood { return m.neighborhood }

// Selections returns the extracted one-hot groups.
func (m *Model) Selections() []*Selection { return m.selections }

// eachVariable visits every variable in deterministic (proxy, flat) order.
func (m *Model) eachVariable(fn func(*Variable)) {
	for _, p := range m.variableProxies {
		for flat := range p.variables {
			fn(&p.variables[flat])
		}
	}
}

// eachConstraint visits every constraint in deterministic (proxy, flat)
// order, including disabled ones.
func (m *Model) eachConstraint(fn func(*Constraint)) {
	for _, p := range m.constraintProxies {
		for flat := range p.constraints {
			fn(&p.constraints[flat])
		}
	}
}

// eachExpression visits every registered user expression.
func (m *Model) eachExpression(fn func(*Expression)) {
	for _, p := range m.expressionProxies {
		for flat := range p.expressions {
			fn(&p.expressions[flat])
		}
	}
}

// NumberOfVariables counts all variables.
func (m *Model) NumberOfVariables() int {
	n := 0
	for _, p := range m.variableProxies {
		n += p.Len()
	}
	return n
}

// NumberOfConstraints counts all constraints, including disabled ones.
func (m *Model) NumberOfConstraints() int {
	n := 0
	for _, p := range m.constraintProxies {
		n += p.Len()
	}
	return n
}

// NumberOfFixedVariables counts the Fixed category (valid after Setup).
func (m *Model) NumberOfFixedVariables() int { return len(m.variableCategory.fixed) }

// NumberOfBinaryVariables counts the Binary category (valid after Setup).
func (m *Model) NumberOfBinaryVariables() int { return len(m.variableCategory.binary) }

// NumberOfIntegerVariables counts the Integer category (valid after Setup).
func (m *Model) NumberOfIntegerVariables() int { return len(m.variableCategory.integer) }

// NumberOfSelectionVariables counts variables covered by extracted groups
// (valid after Setup).
func (m *Model) NumberOfSelectionVariables() int { return len(m.variableCategory.selection) }

// NumberOfNotFixedVariables counts movable variables (valid after Setup).
func (m *Model) NumberOfNotFixedVariables() int {
	return m.NumberOfVariables() - len(m.variableCategory.fixed)
}

// ConstraintsByShape returns the constraints classified into the shape
// bucket (valid after Setup).
func (m *Model) ConstraintsByShape(shape ConstraintShape) []*Constraint {
	return m.constraintCategory[shape]
}

// TotalViolation returns the cached Σ violation over enabled constraints.
func (m *Model) TotalViolation() float64 { return m.totalViolation }

// ObjectiveValue returns the cached raw objective value (user orientation).
func (m *Model) ObjectiveValue() float64 { return m.objective.value }

// InternalObjective returns the cached objective as a minimization value.
func (m *Model) InternalObjective() float64 { return m.Sign() * m.objective.value }

// Update recomputes every cached expression, constraint, violation and
// objective value from the current variable assignment.
func (m *Model) Update() {
	m.eachExpression(func(e *Expression) { e.update() })

	total := 0.0
	m.eachConstraint(func(g *Constraint) {
		if !g.isDefined {
			return
		}
		g.update()
		if g.isEnabled {
			total += g.violation
		}
	})
	m.totalViolation = total

	if m.isDefinedObjective {
		if m.objective.fn != nil {
			m.objective.value = m.objective.fn(nil)
		} else {
			m.objective.expression.update()
			m.objective.value = m.objective.expression.value
		}
	}
}

// ExportSummary returns the compact model description.
func (m *Model) ExportSummary() ModelSummary {
	return ModelSummary{
		Name:                m.name,
		NumberOfVariables:   m.NumberOfVariables(),
		NumberOfConstraints: m.NumberOfConstraints(),
	}
}
