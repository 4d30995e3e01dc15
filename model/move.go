package model

// Alteration is one (variable, new-value) assignment of a move.
type Alteration struct {
	Variable *Variable
	Value    int64
}

// Move is an atomic candidate transition: an ordered list of alterations
// plus the set of constraints any altered variable participates in. Moves
// reference model-owned state and never outlive the model that produced
// them.
type Move struct {
	Sense       MoveSense
	Alterations []Alteration

	// RelatedConstraints is the deduplicated union of each altered
	// variable's related constraints, in registration order.
	RelatedConstraints []*Constraint

	// IsUnivariate marks single-alteration moves; the chain synthesizer and
	// screening use it.
	IsUnivariate bool
}

// NewMove assembles a move from alterations and computes the related
// constraint set. User-defined move updaters build moves through it.
func NewMove(sense MoveSense, alterations ...Alteration) Move {
	m := Move{
		Sense:        sense,
		Alterations:  alterations,
		IsUnivariate: len(alterations) == 1,
	}
	m.collectRelatedConstraints()
	return m
}

// collectRelatedConstraints rebuilds the related set from the alterations.
// Deduplication is linear in the union size; move arity is small.
func (m *Move) collectRelatedConstraints() {
	m.RelatedConstraints = m.RelatedConstraints[:0]
	for _, alt := range m.Alterations {
		for _, g := range alt.Variable.RelatedConstraints() {
			if !m.touches(g) {
				m.RelatedConstraints = append(m.RelatedConstraints, g)
			}
		}
	}
}

func (m *Move) touches(g *Constraint) bool {
	for _, known := range m.RelatedConstraints {
		if known == g {
			return true
		}
	}
	return false
}

// hasFixedVariable reports whether any alteration targets a fixed variable;
// such moves are never emitted.
func (m *Move) hasFixedVariable() bool {
	for _, alt := range m.Alterations {
		if alt.Variable.IsFixed() {
			return true
		}
	}
	return false
}

// isWithinBounds reports whether every altered value respects its
// variable's bounds.
func (m *Move) isWithinBounds() bool {
	for _, alt := range m.Alterations {
		if alt.Value < alt.Variable.LowerBound() || alt.Value > alt.Variable.UpperBound() {
			return false
		}
	}
	return true
}

// changesValue reports whether at least one alteration differs from the
// current assignment. No-op moves waste evaluations and are dropped.
func (m *Move) changesValue() bool {
	for _, alt := range m.Alterations {
		if alt.Value != alt.Variable.Value() {
			return true
		}
	}
	return false
}

// alters reports whether the move alters v.
func (m *Move) alters(v *Variable) bool {
	for i := range m.Alterations {
		if m.Alterations[i].Variable == v {
			return true
		}
	}
	return false
}

// FirstAlteredKey returns the (proxyIndex, flatIndex) pair of the first
// alteration; the deterministic move-chooser tie-break is keyed by it.
func (m *Move) FirstAlteredKey() (int, int) {
	if len(m.Alterations) == 0 {
		return int(^uint(0) >> 1), int(^uint(0) >> 1)
	}
	v := m.Alterations[0].Variable
	return v.ProxyIndex(), v.FlatIndex()
}
