package model

// SolutionScore is the transient value object produced by the evaluation
// kernel. Objectives are as-minimization; multiply by Model.Sign() for the
// user's orientation.
type SolutionScore struct {
	Objective      float64
	TotalViolation float64

	LocalPenalty  float64
	GlobalPenalty float64

	LocalAugmentedObjective  float64
	GlobalAugmentedObjective float64

	IsFeasible bool

	// IsObjectiveImprovable / IsConstraintImprovable compare the scored
	// state against the model's current assignment.
	IsObjectiveImprovable  bool
	IsConstraintImprovable bool
}
