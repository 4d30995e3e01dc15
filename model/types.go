package model

import "errors"

// Sentinel errors of the modeling layer. Wrapped details are attached with
// fmt.Errorf("…: %w", Err…); callers test with errors.Is.
var (
	// ErrInvalidName rejects names with whitespace or other characters
	// outside [A-Za-z_][A-Za-z_0-9]*, and duplicate names.
	ErrInvalidName = errors.New("model: invalid or duplicate name")

	// ErrTooManyProxies is returned when a create call would exceed the
	// compile-time proxy limits.
	ErrTooManyProxies = errors.New("model: too many proxies")

	// ErrAlreadySolved rejects a second solve on the same model.
	ErrAlreadySolved = errors.New("model: model has already been solved")

	// ErrInvalidModel marks an irreparable inconsistency: no variables, no
	// objective and no constraint, or a corrupt setup state.
	ErrInvalidModel = errors.New("model: invalid model")

	// ErrInvalidInitialValue is returned when an initial value lies outside
	// its admissible domain and initial-value correction is disabled.
	ErrInvalidInitialValue = errors.New("model: invalid initial value")

	// ErrInvalidOption marks an unknown mode or an inconsistent option pair.
	ErrInvalidOption = errors.New("model: invalid option")
)

// Compile-time proxy limits. Proxy slices are reserved up front so element
// references stay valid across further create calls.
const (
	MaxVariableProxies   = 100
	MaxExpressionProxies = 100
	MaxConstraintProxies = 100
)

// Default variable bounds applied when the user sets none. Half of the int32
// range keeps ±1 shifts and bound products far from int64 overflow.
const (
	DefaultLowerBound int64 = -(1 << 30)
	DefaultUpperBound int64 = 1 << 30
)

// Epsilon is the tolerance under which floating-point violation and gap
// values are treated as zero.
const Epsilon = 1e-10

// ConstraintSense is the relation a constraint's expression must satisfy
// against zero.
type ConstraintSense int

const (
	// LessEqual requires expression ≤ 0.
	LessEqual ConstraintSense = iota

	// Equal requires expression = 0.
	Equal

	// GreaterEqual requires expression ≥ 0.
	GreaterEqual
)

// String returns the relation symbol.
func (s ConstraintSense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// VariableSense classifies a variable after setup.
type VariableSense int

const (
	// VariableInteger is a bounded integer variable.
	VariableInteger VariableSense = iota

	// VariableBinary has bounds exactly [0, 1].
	VariableBinary

	// VariableSelection is a binary variable covered by a one-hot selection
	// group; its constraint is enforced by the neighborhood, not by penalty.
	VariableSelection

	// VariableFixed has lower == upper and never moves.
	VariableFixed
)

// String names the category the way counts are reported.
func (s VariableSense) String() string {
	switch s {
	case VariableInteger:
		return "Integer"
	case VariableBinary:
		return "Binary"
	case VariableSelection:
		return "Selection"
	case VariableFixed:
		return "Fixed"
	default:
		return "?"
	}
}

// ConstraintShape tags the recognized structure of a linear constraint over
// binary variables (and the integer/general fallbacks). The classifier
// assigns the first matching shape in priority order.
type ConstraintShape int

const (
	ShapeGeneralLinear ConstraintShape = iota
	ShapeSingleton
	ShapeAggregation
	ShapePrecedence
	ShapeVariableBound
	ShapeSetPartitioning
	ShapeSetPacking
	ShapeSetCovering
	ShapeCardinality
	ShapeInvariantKnapsack
	ShapeEquationKnapsack
	ShapeBinPacking
	ShapeKnapsack
	ShapeIntegerKnapsack
	ShapeNonlinear
)

// String returns the bucket name used in summaries.
func (s ConstraintShape) String() string {
	switch s {
	case ShapeSingleton:
		return "Singleton"
	case ShapeAggregation:
		return "Aggregation"
	case ShapePrecedence:
		return "Precedence"
	case ShapeVariableBound:
		return "VariableBound"
	case ShapeSetPartitioning:
		return "SetPartitioning"
	case ShapeSetPacking:
		return "SetPacking"
	case ShapeSetCovering:
		return "SetCovering"
	case ShapeCardinality:
		return "Cardinality"
	case ShapeInvariantKnapsack:
		return "InvariantKnapsack"
	case ShapeEquationKnapsack:
		return "EquationKnapsack"
	case ShapeBinPacking:
		return "BinPacking"
	case ShapeKnapsack:
		return "Knapsack"
	case ShapeIntegerKnapsack:
		return "IntegerKnapsack"
	case ShapeNonlinear:
		return "Nonlinear"
	case ShapeGeneralLinear:
		return "GeneralLinear"
	default:
		return "?"
	}
}

// SelectionMode controls how one-hot selection groups are extracted from
// "Σ x = 1" constraints during setup.
type SelectionMode int

const (
	// SelectionModeNone extracts nothing.
	SelectionModeNone SelectionMode = iota

	// SelectionModeDefined extracts a group from every partitioning
	// constraint; setup fails with ErrInvalidModel when two groups overlap.
	SelectionModeDefined

	// SelectionModeIndependent extracts only groups disjoint from every
	// previously extracted group.
	SelectionModeIndependent

	// SelectionModeLarger extracts greedily by group size descending,
	// keeping a group only when none of its variables is covered yet; a
	// partially covered group is not extracted and stays a constraint.
	SelectionModeLarger
)

// MoveSense tags the neighborhood family a move was generated by.
type MoveSense int

const (
	MoveSenseBinary MoveSense = iota
	MoveSenseInteger
	MoveSenseSelection
	MoveSenseAggregation
	MoveSensePrecedence
	MoveSenseVariableBound
	MoveSenseExclusive
	MoveSenseChain
	MoveSenseUserDefined
)

// String names the family the way neighborhood counts are reported.
func (s MoveSense) String() string {
	switch s {
	case MoveSenseBinary:
		return "Binary"
	case MoveSenseInteger:
		return "Integer"
	case MoveSenseSelection:
		return "Selection"
	case MoveSenseAggregation:
		return "Aggregation"
	case MoveSensePrecedence:
		return "Precedence"
	case MoveSenseVariableBound:
		return "VariableBound"
	case MoveSenseExclusive:
		return "Exclusive"
	case MoveSenseChain:
		return "Chain"
	case MoveSenseUserDefined:
		return "UserDefined"
	default:
		return "?"
	}
}
