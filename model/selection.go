package model

import (
	"fmt"
	"sort"
)

// Selection is a one-hot group: binary variables constrained to sum to 1 by
// a partitioning constraint that setup disabled. The neighborhood enforces
// the one-hot property directly with swap moves.
type Selection struct {
	variables  []*Variable
	constraint *Constraint
}

// Variables returns the group members in constraint term order.
func (s *Selection) Variables() []*Variable { return s.variables }

// Constraint returns the disabled partitioning constraint the group was
// extracted from.
func (s *Selection) Constraint() *Constraint { return s.constraint }

// SelectedVariable returns the member currently set to 1, or nil when the
// group is not yet one-hot (before initial-value correction).
func (s *Selection) SelectedVariable() *Variable {
	for _, v := range s.variables {
		if v.value == 1 {
			return v
		}
	}
	return nil
}

// ExtractSelections reclassifies the variables of "Σ x = 1" partitioning
// constraints as Selection groups according to the mode, disabling the
// covered constraints. Runs after constraint categorization.
//
// Overlapping candidates are never split across groups: a candidate whose
// variables are partially covered stays a penalty-enforced constraint, so
// the one-hot invariant of every extracted group remains sound. In Defined
// mode an overlap is an error: the user asserted disjoint partitionings.
func (m *Model) ExtractSelections(mode SelectionMode) error {
	if mode == SelectionModeNone {
		return nil
	}

	candidates := append([]*Constraint(nil), m.constraintCategory[ShapeSetPartitioning]...)
	if mode == SelectionModeLarger {
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(candidates[i].expression.terms) > len(candidates[j].expression.terms)
		})
	}

	for _, g := range candidates {
		if !g.isEnabled {
			continue
		}

		covered := 0
		for _, t := range g.expression.terms {
			if t.Variable.selection != nil {
				covered++
			}
		}

		switch mode {
		case SelectionModeDefined:
			if covered > 0 {
				return fmt.Errorf("%w: selection constraint %s overlaps another selection group",
					ErrInvalidModel, g.name)
			}
		default:
			// Independent and Larger extract greedily over disjoint groups.
			if covered > 0 {
				continue
			}
		}

		sel := &Selection{constraint: g}
		for _, t := range g.expression.terms {
			sel.variables = append(sel.variables, t.Variable)
		}
		for _, v := range sel.variables {
			v.selection = sel
			v.sense = VariableSelection
		}
		g.Disable()
		m.selections = append(m.selections, sel)
	}

	// Re-partition the binary/selection categories after reclassification.
	m.CategorizeVariables()
	return nil
}
