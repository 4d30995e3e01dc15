package solver

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/mipmh/model"
)

// Sentinel errors of the solving layer.
var (
	// ErrStopRequested is returned by a user callback to stop the search
	// cleanly; the best incumbent found so far becomes the result.
	ErrStopRequested = errors.New("solver: stop requested by user callback")

	// ErrUserCallback wraps any other error escaping a user callback. The
	// solver unwinds, preserves the best incumbent and surfaces the error
	// on the Result.
	ErrUserCallback = errors.New("solver: user callback failed")
)

// Verbose selects the logging level of the solve.
type Verbose int

const (
	// VerboseNone prints nothing.
	VerboseNone Verbose = iota

	// VerboseWarning prints warnings only.
	VerboseWarning

	// VerboseOuter prints outer-loop summaries.
	VerboseOuter

	// VerboseFull additionally prints the per-iteration tabu-search table.
	VerboseFull
)

// RestartMode selects which incumbent seeds the next tabu-search loop.
type RestartMode int

const (
	// RestartModeGlobal restarts from the global augmented incumbent.
	RestartModeGlobal RestartMode = iota

	// RestartModeLocal restarts from the local augmented incumbent.
	RestartModeLocal
)

// DefaultTargetObjective is the sentinel meaning "no target": the outer
// loop never terminates on the objective value alone.
const DefaultTargetObjective = -1e100

// TabuSearchOptions tunes the inner loop.
type TabuSearchOptions struct {
	// IterationMax caps one tabu-search loop.
	IterationMax int `json:"iteration_max" yaml:"iteration_max"`

	// InitialTabuTenure is the starting tenure; the outer loop adapts it
	// between loops when automatic adjustment is enabled.
	InitialTabuTenure int `json:"initial_tabu_tenure" yaml:"initial_tabu_tenure"`

	IsEnabledAutomaticTabuTenureAdjustment bool `json:"is_enabled_automatic_tabu_tenure_adjustment" yaml:"is_enabled_automatic_tabu_tenure_adjustment"`
	IsEnabledAutomaticIterationAdjustment  bool `json:"is_enabled_automatic_iteration_adjustment" yaml:"is_enabled_automatic_iteration_adjustment"`

	// IterationIncreaseRate grows the next loop's iteration cap under
	// automatic iteration adjustment.
	IterationIncreaseRate float64 `json:"iteration_increase_rate" yaml:"iteration_increase_rate"`

	// Initial modification: the random kick applied at the start of a loop
	// restarting from an unchanged solution.
	IsEnabledInitialModification     bool    `json:"is_enabled_initial_modification" yaml:"is_enabled_initial_modification"`
	InitialModificationFixedRate     float64 `json:"initial_modification_fixed_rate" yaml:"initial_modification_fixed_rate"`
	InitialModificationRandomizeRate float64 `json:"initial_modification_randomize_rate" yaml:"initial_modification_randomize_rate"`

	RestartMode RestartMode `json:"restart_mode" yaml:"restart_mode"`

	// StagnationBreakWindow stops a loop early once a feasible incumbent
	// exists and the global augmented incumbent has not improved for this
	// many iterations.
	StagnationBreakWindow int `json:"stagnation_break_window" yaml:"stagnation_break_window"`

	// TimeCheckInterval is the iteration period of the wall-clock poll.
	TimeCheckInterval int `json:"time_check_interval" yaml:"time_check_interval"`
}

// LocalSearchOptions tunes the best-improvement descent.
type LocalSearchOptions struct {
	IterationMax int `json:"iteration_max" yaml:"iteration_max"`
}

// LagrangeDualOptions tunes the subgradient warm start.
type LagrangeDualOptions struct {
	IterationMax int `json:"iteration_max" yaml:"iteration_max"`

	// StepSizeExtendRate / StepSizeReduceRate rescale the subgradient step
	// after improving / non-improving dual iterations.
	StepSizeExtendRate float64 `json:"step_size_extend_rate" yaml:"step_size_extend_rate"`
	StepSizeReduceRate float64 `json:"step_size_reduce_rate" yaml:"step_size_reduce_rate"`

	// Tolerance terminates the ascent once the step size shrinks below it.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// Options is the full option surface of Solve.
type Options struct {
	IterationMax         int     `json:"iteration_max" yaml:"iteration_max"`
	TimeMax              float64 `json:"time_max" yaml:"time_max"`
	TargetObjectiveValue float64 `json:"target_objective_value" yaml:"target_objective_value"`
	Seed                 int64   `json:"seed" yaml:"seed"`

	InitialPenaltyCoefficient             float64 `json:"initial_penalty_coefficient" yaml:"initial_penalty_coefficient"`
	PenaltyCoefficientTighteningRate      float64 `json:"penalty_coefficient_tightening_rate" yaml:"penalty_coefficient_tightening_rate"`
	PenaltyCoefficientRelaxingRate        float64 `json:"penalty_coefficient_relaxing_rate" yaml:"penalty_coefficient_relaxing_rate"`
	PenaltyCoefficientUpdatingBalance     float64 `json:"penalty_coefficient_updating_balance" yaml:"penalty_coefficient_updating_balance"`
	PenaltyCoefficientResetCountThreshold int     `json:"penalty_coefficient_reset_count_threshold" yaml:"penalty_coefficient_reset_count_threshold"`
	IsEnabledGroupingPenaltyCoefficient   bool    `json:"is_enabled_grouping_penalty_coefficient" yaml:"is_enabled_grouping_penalty_coefficient"`

	SelectionMode                   model.SelectionMode `json:"selection_mode" yaml:"selection_mode"`
	IsEnabledPresolve               bool                `json:"is_enabled_presolve" yaml:"is_enabled_presolve"`
	IsEnabledInitialValueCorrection bool                `json:"is_enabled_initial_value_correction" yaml:"is_enabled_initial_value_correction"`
	IsEnabledImprovabilityScreening bool                `json:"is_enabled_improvability_screening" yaml:"is_enabled_improvability_screening"`

	IsEnabledLagrangeDual    bool `json:"is_enabled_lagrange_dual" yaml:"is_enabled_lagrange_dual"`
	IsEnabledLocalSearch     bool `json:"is_enabled_local_search" yaml:"is_enabled_local_search"`
	IsEnabledBinaryMove      bool `json:"is_enabled_binary_move" yaml:"is_enabled_binary_move"`
	IsEnabledIntegerMove     bool `json:"is_enabled_integer_move" yaml:"is_enabled_integer_move"`
	IsEnabledUserDefinedMove bool `json:"is_enabled_user_defined_move" yaml:"is_enabled_user_defined_move"`
	IsEnabledAggregationMove bool `json:"is_enabled_aggregation_move" yaml:"is_enabled_aggregation_move"`
	IsEnabledPrecedenceMove  bool `json:"is_enabled_precedence_move" yaml:"is_enabled_precedence_move"`

	IsEnabledVariableBoundMove bool `json:"is_enabled_variable_bound_move" yaml:"is_enabled_variable_bound_move"`
	IsEnabledExclusiveMove     bool `json:"is_enabled_exclusive_move" yaml:"is_enabled_exclusive_move"`
	IsEnabledChainMove         bool `json:"is_enabled_chain_move" yaml:"is_enabled_chain_move"`

	TabuSearch   TabuSearchOptions   `json:"tabu_search" yaml:"tabu_search"`
	LocalSearch  LocalSearchOptions  `json:"local_search" yaml:"local_search"`
	LagrangeDual LagrangeDualOptions `json:"lagrange_dual" yaml:"lagrange_dual"`

	HistoricalDataCapacity         int  `json:"historical_data_capacity" yaml:"historical_data_capacity"`
	IsEnabledCollectHistoricalData bool `json:"is_enabled_collect_historical_data" yaml:"is_enabled_collect_historical_data"`

	Verbose Verbose `json:"verbose" yaml:"verbose"`

	// Output receives verbose progress; defaults to os.Stdout when nil.
	Output io.Writer `json:"-" yaml:"-"`
}

// DefaultOptions returns the default option set.
func DefaultOptions() Options {
	return Options{
		IterationMax:         100,
		TimeMax:              120.0,
		TargetObjectiveValue: DefaultTargetObjective,
		Seed:                 1,

		InitialPenaltyCoefficient:             1e7,
		PenaltyCoefficientTighteningRate:      1.0,
		PenaltyCoefficientRelaxingRate:        0.9,
		PenaltyCoefficientUpdatingBalance:     0.5,
		PenaltyCoefficientResetCountThreshold: 50,

		SelectionMode:                   model.SelectionModeIndependent,
		IsEnabledPresolve:               true,
		IsEnabledInitialValueCorrection: true,

		IsEnabledLocalSearch:       true,
		IsEnabledBinaryMove:        true,
		IsEnabledIntegerMove:       true,
		IsEnabledUserDefinedMove:   true,
		IsEnabledAggregationMove:   true,
		IsEnabledPrecedenceMove:    true,
		IsEnabledVariableBoundMove: true,
		IsEnabledExclusiveMove:     true,

		TabuSearch: TabuSearchOptions{
			IterationMax:                           200,
			InitialTabuTenure:                      10,
			IsEnabledAutomaticTabuTenureAdjustment: true,
			IsEnabledAutomaticIterationAdjustment:  true,
			IterationIncreaseRate:                  1.5,
			IsEnabledInitialModification:           true,
			InitialModificationFixedRate:           1.0,
			InitialModificationRandomizeRate:       0.5,
			RestartMode:                            RestartModeGlobal,
			StagnationBreakWindow:                  200,
			TimeCheckInterval:                      100,
		},
		LocalSearch: LocalSearchOptions{
			IterationMax: 10000,
		},
		LagrangeDual: LagrangeDualOptions{
			IterationMax:       1000,
			StepSizeExtendRate: 1.05,
			StepSizeReduceRate: 0.5,
			Tolerance:          1e-6,
		},

		HistoricalDataCapacity: 1000,
	}
}

// Validate rejects inconsistent option values with model.ErrInvalidOption.
func (o *Options) Validate() error {
	switch {
	case o.IterationMax < 0:
		return fmt.Errorf("%w: iteration_max %d", model.ErrInvalidOption, o.IterationMax)
	case o.TimeMax <= 0:
		return fmt.Errorf("%w: time_max %v", model.ErrInvalidOption, o.TimeMax)
	case o.InitialPenaltyCoefficient <= 0:
		return fmt.Errorf("%w: initial_penalty_coefficient %v", model.ErrInvalidOption, o.InitialPenaltyCoefficient)
	case o.PenaltyCoefficientRelaxingRate <= 0 || o.PenaltyCoefficientRelaxingRate >= 1:
		return fmt.Errorf("%w: penalty_coefficient_relaxing_rate %v must be in (0, 1)",
			model.ErrInvalidOption, o.PenaltyCoefficientRelaxingRate)
	case o.PenaltyCoefficientTighteningRate < 0:
		return fmt.Errorf("%w: penalty_coefficient_tightening_rate %v", model.ErrInvalidOption, o.PenaltyCoefficientTighteningRate)
	case o.PenaltyCoefficientUpdatingBalance < 0 || o.PenaltyCoefficientUpdatingBalance > 1:
		return fmt.Errorf("%w: penalty_coefficient_updating_balance %v must be in [0, 1]",
			model.ErrInvalidOption, o.PenaltyCoefficientUpdatingBalance)
	case o.PenaltyCoefficientResetCountThreshold <= 0:
		return fmt.Errorf("%w: penalty_coefficient_reset_count_threshold %d", model.ErrInvalidOption, o.PenaltyCoefficientResetCountThreshold)
	case o.SelectionMode < model.SelectionModeNone || o.SelectionMode > model.SelectionModeLarger:
		return fmt.Errorf("%w: selection_mode %d", model.ErrInvalidOption, o.SelectionMode)
	case o.TabuSearch.IterationMax <= 0:
		return fmt.Errorf("%w: tabu_search.iteration_max %d", model.ErrInvalidOption, o.TabuSearch.IterationMax)
	case o.TabuSearch.InitialTabuTenure <= 0:
		return fmt.Errorf("%w: tabu_search.initial_tabu_tenure %d", model.ErrInvalidOption, o.TabuSearch.InitialTabuTenure)
	case o.TabuSearch.IterationIncreaseRate <= 0:
		return fmt.Errorf("%w: tabu_search.iteration_increase_rate %v", model.ErrInvalidOption, o.TabuSearch.IterationIncreaseRate)
	case o.TabuSearch.RestartMode != RestartModeGlobal && o.TabuSearch.RestartMode != RestartModeLocal:
		return fmt.Errorf("%w: tabu_search.restart_mode %d", model.ErrInvalidOption, o.TabuSearch.RestartMode)
	case o.TabuSearch.TimeCheckInterval <= 0:
		return fmt.Errorf("%w: tabu_search.time_check_interval %d", model.ErrInvalidOption, o.TabuSearch.TimeCheckInterval)
	case o.HistoricalDataCapacity < 0:
		return fmt.Errorf("%w: historical_data_capacity %d", model.ErrInvalidOption, o.HistoricalDataCapacity)
	case o.LagrangeDual.StepSizeExtendRate <= 1 && o.IsEnabledLagrangeDual:
		return fmt.Errorf("%w: lagrange_dual.step_size_extend_rate %v must exceed 1",
			model.ErrInvalidOption, o.LagrangeDual.StepSizeExtendRate)
	case (o.LagrangeDual.StepSizeReduceRate <= 0 || o.LagrangeDual.StepSizeReduceRate >= 1) && o.IsEnabledLagrangeDual:
		return fmt.Errorf("%w: lagrange_dual.step_size_reduce_rate %v must be in (0, 1)",
			model.ErrInvalidOption, o.LagrangeDual.StepSizeReduceRate)
	}
	return nil
}
