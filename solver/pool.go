package solver

import "github.com/katalvlaran/mipmh/model"

// solutionPool is the bounded archive of feasible solutions collected across
// the drivers, kept sorted by objective (as minimization) ascending.
type solutionPool struct {
	capacity  int
	solutions []*model.Solution
}

func newSolutionPool(capacity int) *solutionPool {
	return &solutionPool{capacity: capacity}
}

// push inserts feasible snapshots, skipping duplicates of an already
// archived assignment, and truncates to capacity.
func (p *solutionPool) push(solutions ...*model.Solution) {
	if p.capacity == 0 {
		return
	}
	for _, s := range solutions {
		if s == nil || !s.IsFeasible {
			continue
		}
		duplicate := false
		for _, known := range p.solutions {
			if known.HasSameValues(s) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		// Insertion sort keeps the archive small and ordered.
		at := len(p.solutions)
		for i, known := range p.solutions {
			if s.Objective < known.Objective {
				at = i
				break
			}
		}
		p.solutions = append(p.solutions, nil)
		copy(p.solutions[at+1:], p.solutions[at:])
		p.solutions[at] = s

		if len(p.solutions) > p.capacity {
			p.solutions = p.solutions[:p.capacity]
		}
	}
}

// all returns the archived solutions, best first.
func (p *solutionPool) all() []*model.Solution { return p.solutions }
