package solver

import (
	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/multiarray"
)

// Status aggregates the run statistics of a solve.
type Status struct {
	ModelSummary model.ModelSummary `json:"model_summary"`

	// PenaltyCoefficients are the final local weights keyed by constraint
	// proxy name; UpdateCounts are the per-variable long-term counters keyed
	// by variable proxy name.
	PenaltyCoefficients map[string]*multiarray.Proxy[float64] `json:"penalty_coefficients"`
	UpdateCounts        map[string]*multiarray.Proxy[int]     `json:"update_counts"`

	IsFoundFeasibleSolution bool    `json:"is_found_feasible_solution"`
	ElapsedTime             float64 `json:"elapsed_time"`

	NumberOfLagrangeDualIterations int `json:"number_of_lagrange_dual_iterations"`
	NumberOfLocalSearchIterations  int `json:"number_of_local_search_iterations"`
	NumberOfTabuSearchIterations   int `json:"number_of_tabu_search_iterations"`
	NumberOfTabuSearchLoops        int `json:"number_of_tabu_search_loops"`
}

// History carries the bounded archive of feasible solutions (best first),
// populated when historical-data collection is enabled.
type History struct {
	FeasibleSolutions []*model.Solution `json:"feasible_solutions"`
}

// Result is the outcome of a solve: the exported incumbent (feasible if one
// was found, otherwise the global augmented incumbent), the run statistics
// and the solution archive.
type Result struct {
	RunID    string               `json:"run_id"`
	Solution *model.NamedSolution `json:"solution"`
	Status   Status               `json:"status"`
	History  History              `json:"history"`

	// Err carries a user-callback failure; the incumbents found before the
	// failure are preserved above.
	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}
