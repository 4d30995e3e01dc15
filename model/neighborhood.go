package model

// MoveUpdater is the user hook appending custom moves to the neighborhood.
// Returned moves should be assembled with NewMove so the related-constraint
// set is populated.
type MoveUpdater func() []Move

// maxChainMoves bounds the synthesized chain-move pool.
const maxChainMoves = 512

// Neighborhood generates the per-iteration candidate move set from the
// classified model structure. Long-lived template references (the
// structural constraint lists) stay valid for the whole solve; the move
// slices themselves are pooled and rebuilt in place every Update.
type Neighborhood struct {
	model *Model

	isEnabledBinary        bool
	isEnabledInteger       bool
	isEnabledIntegerBound  bool
	isEnabledSelection     bool
	isEnabledAggregation   bool
	isEnabledPrecedence    bool
	isEnabledVariableBound bool
	isEnabledExclusive     bool
	isEnabledUserDefined   bool
	isEnabledChain         bool

	// Structural templates captured at setup from the shape buckets.
	aggregationConstraints   []*Constraint
	precedenceConstraints    []*Constraint
	variableBoundConstraints []*Constraint
	exclusiveConstraints     []*Constraint

	userDefinedUpdater MoveUpdater

	chainMoves []Move

	// moves is the pooled scratch the families write into; candidates are
	// pointers into it, collected once assembly is complete.
	moves      []Move
	candidates []*Move
}

// SetupNeighborhood seeds the move generator from the classified structure
// (stage 9 of the pipeline). Families disabled in the options contribute no
// templates at all; enabled families still start inactive until the solver
// switches them on.
func (m *Model) SetupNeighborhood(opt SetupOptions) {
	n := &Neighborhood{model: m}

	if opt.IsEnabledAggregationMove {
		n.aggregationConstraints = m.enabledOf(ShapeAggregation)
	}
	if opt.IsEnabledPrecedenceMove {
		n.precedenceConstraints = m.enabledOf(ShapePrecedence)
	}
	if opt.IsEnabledVariableBoundMove {
		n.variableBoundConstraints = m.enabledOf(ShapeVariableBound)
	}
	if opt.IsEnabledExclusiveMove {
		n.exclusiveConstraints = append(
			m.enabledOf(ShapeSetPartitioning), m.enabledOf(ShapeSetPacking)...)
	}

	m.neighborhood = n
}

func (m *Model) enabledOf(shape ConstraintShape) []*Constraint {
	out := make([]*Constraint, 0, len(m.constraintCategory[shape]))
	for _, g := range m.constraintCategory[shape] {
		if g.isEnabled {
			out = append(out, g)
		}
	}
	return out
}

// EnableBinaryMove activates the binary flip family.
func (n *Neighborhood) EnableBinaryMove() { n.isEnabledBinary = true }

// DisableBinaryMove deactivates the binary flip family.
func (n *Neighborhood) DisableBinaryMove() { n.isEnabledBinary = false }

// EnableIntegerMove activates the integer ±1 shift family.
func (n *Neighborhood) EnableIntegerMove() { n.isEnabledInteger = true }

// DisableIntegerMove deactivates the integer shift family.
func (n *Neighborhood) DisableIntegerMove() { n.isEnabledInteger = false }

// EnableIntegerBoundMove activates the stagnation-triggered bound snaps.
func (n *Neighborhood) EnableIntegerBoundMove() { n.isEnabledIntegerBound = true }

// DisableIntegerBoundMove deactivates the bound snaps.
func (n *Neighborhood) DisableIntegerBoundMove() { n.isEnabledIntegerBound = false }

// EnableSelectionMove activates one-hot swap moves.
func (n *Neighborhood) EnableSelectionMove() { n.isEnabledSelection = true }

// DisableSelectionMove deactivates one-hot swap moves.
func (n *Neighborhood) DisableSelectionMove() { n.isEnabledSelection = false }

// EnableAggregationMove activates the aggregation family.
func (n *Neighborhood) EnableAggregationMove() { n.isEnabledAggregation = true }

// DisableAggregationMove deactivates the aggregation family.
func (n *Neighborhood) DisableAggregationMove() { n.isEnabledAggregation = false }

// IsEnabledAggregationMove reports the aggregation family state.
func (n *Neighborhood) IsEnabledAggregationMove() bool { return n.isEnabledAggregation }

// EnablePrecedenceMove activates the precedence family.
func (n *Neighborhood) EnablePrecedenceMove() { n.isEnabledPrecedence = true }

// DisablePrecedenceMove deactivates the precedence family.
func (n *Neighborhood) DisablePrecedenceMove() { n.isEnabledPrecedence = false }

// IsEnabledPrecedenceMove reports the precedence family state.
func (n *Neighborhood) IsEnabledPrecedenceMove() bool { return n.isEnabledPrecedence }

// EnableVariableBoundMove activates the variable-bound family.
func (n *Neighborhood) EnableVariableBoundMove() { n.isEnabledVariableBound = true }

// DisableVariableBoundMove deactivates the variable-bound family.
func (n *Neighborhood) DisableVariableBoundMove() { n.isEnabledVariableBound = false }

// IsEnabledVariableBoundMove reports the variable-bound family state.
func (n *Neighborhood) IsEnabledVariableBoundMove() bool { return n.isEnabledVariableBound }

// EnableExclusiveMove activates the exclusive family.
func (n *Neighborhood) EnableExclusiveMove() { n.isEnabledExclusive = true }

// DisableExclusiveMove deactivates the exclusive family.
func (n *Neighborhood) DisableExclusiveMove() { n.isEnabledExclusive = false }

// IsEnabledExclusiveMove reports the exclusive family state.
func (n *Neighborhood) IsEnabledExclusiveMove() bool { return n.isEnabledExclusive }

// EnableUserDefinedMove activates the user-defined family.
func (n *Neighborhood) EnableUserDefinedMove() { n.isEnabledUserDefined = true }

// DisableUserDefinedMove deactivates the user-defined family.
func (n *Neighborhood) DisableUserDefinedMove() { n.isEnabledUserDefined = false }

// EnableChainMove activates the chain family.
func (n *Neighborhood) EnableChainMove() { n.isEnabledChain = true }

// DisableChainMove deactivates the chain family and drops the pool.
func (n *Neighborhood) DisableChainMove() {
	n.isEnabledChain = false
	n.chainMoves = n.chainMoves[:0]
}

// IsEnabledChainMove reports the chain family state.
func (n *Neighborhood) IsEnabledChainMove() bool { return n.isEnabledChain }

// SetUserDefinedMoveUpdater installs the user move hook.
func (n *Neighborhood) SetUserDefinedMoveUpdater(updater MoveUpdater) {
	n.userDefinedUpdater = updater
}

// HasSpecialMoveFamilies reports whether any stagnation-triggered family
// (aggregation, precedence, variable bound, exclusive, chain) can ever
// contribute moves.
func (n *Neighborhood) HasSpecialMoveFamilies(chainConfigured bool) bool {
	return len(n.aggregationConstraints)+len(n.precedenceConstraints)+
		len(n.variableBoundConstraints)+len(n.exclusiveConstraints) > 0 ||
		chainConfigured
}

// push validates a move against fixed variables, bounds and no-op status,
// then appends it to the pool.
func (n *Neighborhood) push(mv Move) {
	if mv.hasFixedVariable() || !mv.isWithinBounds() || !mv.changesValue() {
		return
	}
	mv.IsUnivariate = len(mv.Alterations) == 1
	n.moves = append(n.moves, mv)
}

// Update rebuilds the candidate move list for the current assignment. The
// emission order of families (and of moves within a family) is fixed, so a
// given state always yields the same candidate sequence.
func (n *Neighborhood) Update() []*Move {
	n.moves = n.moves[:0]

	if n.isEnabledBinary {
		n.updateBinaryMoves()
	}
	if n.isEnabledInteger {
		n.updateIntegerMoves()
	}
	if n.isEnabledSelection {
		n.updateSelectionMoves()
	}
	if n.isEnabledAggregation {
		n.updateAggregationMoves()
	}
	if n.isEnabledPrecedence {
		n.updatePrecedenceMoves()
	}
	if n.isEnabledVariableBound {
		n.updateVariableBoundMoves()
	}
	if n.isEnabledExclusive {
		n.updateExclusiveMoves()
	}
	if n.isEnabledChain {
		for _, mv := range n.chainMoves {
			n.push(mv)
		}
	}
	if n.isEnabledUserDefined && n.userDefinedUpdater != nil {
		for _, mv := range n.userDefinedUpdater() {
			mv.collectRelatedConstraints()
			n.push(mv)
		}
	}

	// Pointers are collected only after the pool stopped growing.
	n.candidates = n.candidates[:0]
	for i := range n.moves {
		n.candidates = append(n.candidates, &n.moves[i])
	}
	return n.candidates
}

// SynthesizeChainMoves extends the pool from a just-applied flip or swap:
// for every set-partitioning/packing constraint the move left violated, the
// applied alterations plus the one flip that repairs the constraint form a
// new template. Call after Model.Apply.
func (n *Neighborhood) SynthesizeChainMoves(applied *Move) {
	if !n.isEnabledChain || applied == nil {
		return
	}
	if applied.Sense != MoveSenseBinary && applied.Sense != MoveSenseSelection {
		return
	}

	for _, g := range applied.RelatedConstraints {
		if !g.isEnabled || g.violation <= Epsilon {
			continue
		}
		if g.shape != ShapeSetPartitioning && g.shape != ShapeSetPacking {
			continue
		}
		for _, t := range g.expression.terms {
			v := t.Variable
			if v.isFixed || v.value != 1 || applied.alters(v) {
				continue
			}
			if len(n.chainMoves) >= maxChainMoves {
				return
			}
			alterations := append(append([]Alteration(nil), applied.Alterations...),
				Alteration{Variable: v, Value: 0})
			n.chainMoves = append(n.chainMoves, NewMove(MoveSenseChain, alterations...))
		}
	}
}

// ClearChainMoves drops the synthesized pool (on incumbent improvement).
func (n *Neighborhood) ClearChainMoves() { n.chainMoves = n.chainMoves[:0] }
