package model

import "fmt"

// SetupOptions selects the optional stages and move families of the setup
// pipeline. The solver derives it from its own option surface.
type SetupOptions struct {
	IsEnabledPresolve               bool
	IsEnabledInitialValueCorrection bool

	IsEnabledAggregationMove   bool
	IsEnabledPrecedenceMove    bool
	IsEnabledVariableBoundMove bool
	IsEnabledExclusiveMove     bool
	IsEnabledUserDefinedMove   bool
	IsEnabledChainMove         bool

	SelectionMode SelectionMode
}

// DefaultSetupOptions enables presolve, initial-value correction and the
// independent selection mode.
func DefaultSetupOptions() SetupOptions {
	return SetupOptions{
		IsEnabledPresolve:               true,
		IsEnabledInitialValueCorrection: true,
		SelectionMode:                   SelectionModeIndependent,
	}
}

// Setup runs the pipeline in order:
//
//  1. link variables → constraints
//  2. verify unique names
//  3. linearity flag
//  4. variable sensitivity tables
//  5. presolve (linear models only, when enabled)
//  6. categorize variables
//  7. categorize constraints
//  8. extract selections
//  9. neighborhood setup
//  10. initial-value verification / correction
//  11. fixed-sensitivity separation
//
// Each stage is individually addressable for tests. Any irreparable
// inconsistency fails the whole solve.
func (m *Model) Setup(opt SetupOptions) error {
	if m.NumberOfVariables() == 0 {
		return fmt.Errorf("%w: no decision variables", ErrInvalidModel)
	}
	if !m.isDefinedObjective && m.NumberOfConstraints() == 0 {
		return fmt.Errorf("%w: neither objective nor constraint is defined", ErrInvalidModel)
	}

	m.SetupVariableRelatedConstraints()
	if err := m.SetupUniqueNames(); err != nil {
		return err
	}
	m.SetupIsLinear()
	m.SetupVariableSensitivities()

	if m.isLinear && opt.IsEnabledPresolve {
		m.Presolve()
	}

	m.CategorizeVariables()
	m.CategorizeConstraints()

	if err := m.ExtractSelections(opt.SelectionMode); err != nil {
		return err
	}

	m.SetupNeighborhood(opt)

	if err := m.VerifyAndCorrectInitialValues(opt.IsEnabledInitialValueCorrection); err != nil {
		return err
	}

	m.SetupFixedSensitivities()
	m.Update()
	return nil
}

// SetupVariableRelatedConstraints registers every defined constraint with
// each variable carrying a nonzero sensitivity in its body.
func (m *Model) SetupVariableRelatedConstraints() {
	m.eachConstraint(func(g *Constraint) {
		if !g.isDefined || g.fn != nil {
			return
		}
		for _, t := range g.expression.terms {
			t.Variable.registerConstraint(g, t.Coefficient)
		}
	})
}

// SetupUniqueNames verifies global element-name uniqueness. Base names are
// unique by construction; this guards the generated element labels.
func (m *Model) SetupUniqueNames() error {
	seen := make(map[string]struct{}, m.NumberOfVariables())
	check := func(name string) error {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: element name %q collides", ErrInvalidName, name)
		}
		seen[name] = struct{}{}
		return nil
	}

	var err error
	m.eachVariable(func(v *Variable) {
		if err == nil {
			err = check(v.name)
		}
	})
	m.eachExpression(func(e *Expression) {
		if err == nil {
			err = check(e.name)
		}
	})
	m.eachConstraint(func(g *Constraint) {
		if err == nil {
			err = check(g.name)
		}
	})
	return err
}

// SetupIsLinear flags the model linear iff every constraint and the
// objective carry no opaque callback.
func (m *Model) SetupIsLinear() {
	m.isLinear = m.objective.fn == nil
	m.eachConstraint(func(g *Constraint) {
		if g.isDefined && g.fn != nil {
			m.isLinear = false
		}
	})
}

// SetupVariableSensitivities tabulates, per variable, the objective
// coefficient and the per-constraint coefficients (the latter were
// registered while linking).
func (m *Model) SetupVariableSensitivities() {
	m.eachVariable(func(v *Variable) { v.objectiveSensitivity = 0 })
	if m.objective.expression == nil {
		return
	}
	for _, t := range m.objective.expression.terms {
		t.Variable.objectiveSensitivity = t.Coefficient
	}
}

// VerifyAndCorrectInitialValues validates initial values per category. With
// correction enabled, out-of-domain values are snapped into range and each
// selection group is made exactly one-hot; otherwise a violation fails with
// ErrInvalidInitialValue. More than one fixed "on" member in a selection
// group is irreparable either way.
func (m *Model) VerifyAndCorrectInitialValues(correction bool) error {
	// Selection groups first: one-hot repair may flip member values.
	for _, sel := range m.selections {
		fixedOn := 0
		on := make([]*Variable, 0, 2)
		for _, v := range sel.variables {
			if v.value != 0 && v.value != 1 {
				if !correction {
					return fmt.Errorf("%w: selection variable %s = %d", ErrInvalidInitialValue, v.name, v.value)
				}
				v.value = 0
			}
			if v.value == 1 {
				on = append(on, v)
				if v.isFixed {
					fixedOn++
				}
			}
		}
		if fixedOn > 1 {
			return fmt.Errorf("%w: selection group of %s has %d fixed members set to 1",
				ErrInvalidModel, sel.constraint.name, fixedOn)
		}
		switch {
		case len(on) == 1:
			// Already one-hot.
		case len(on) == 0:
			if !correction {
				return fmt.Errorf("%w: selection group of %s has no selected member",
					ErrInvalidInitialValue, sel.constraint.name)
			}
			for _, v := range sel.variables {
				if !v.isFixed {
					v.value = 1
					break
				}
			}
		default:
			if !correction {
				return fmt.Errorf("%w: selection group of %s has %d selected members",
					ErrInvalidInitialValue, sel.constraint.name, len(on))
			}
			keep := on[0]
			for _, v := range on {
				if v.isFixed {
					keep = v
					break
				}
			}
			for _, v := range on {
				if v != keep {
					v.value = 0
				}
			}
		}
	}

	for _, v := range m.variableCategory.binary {
		if v.value != 0 && v.value != 1 {
			if !correction {
				return fmt.Errorf("%w: binary variable %s = %d", ErrInvalidInitialValue, v.name, v.value)
			}
			if v.value < 0 {
				v.value = 0
			} else {
				v.value = 1
			}
		}
	}

	for _, v := range m.variableCategory.integer {
		if v.value < v.lower || v.value > v.upper {
			if !correction {
				return fmt.Errorf("%w: integer variable %s = %d outside [%d, %d]",
					ErrInvalidInitialValue, v.name, v.value, v.lower, v.upper)
			}
			if v.value < v.lower {
				v.value = v.lower
			} else {
				v.value = v.upper
			}
		}
	}
	return nil
}

// SetupFixedSensitivities precomputes, per expression, the constant
// contribution of fixed variables so evaluation skips them.
func (m *Model) SetupFixedSensitivities() {
	m.eachExpression(func(e *Expression) { e.separateFixedTerms() })
	m.eachConstraint(func(g *Constraint) {
		if g.isDefined && g.fn == nil {
			g.expression.separateFixedTerms()
		}
	})
	if m.objective.expression != nil {
		m.objective.expression.separateFixedTerms()
	}
}
