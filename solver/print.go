package solver

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/mipmh/model"
)

// printer writes the user-facing progress output gated by the verbose
// level. The core never logs; everything here is opt-in console output.
type printer struct {
	w       io.Writer
	verbose Verbose
}

func newPrinter(opt *Options) *printer {
	w := opt.Output
	if w == nil {
		w = os.Stdout
	}
	return &printer{w: w, verbose: opt.Verbose}
}

func (p *printer) message(level Verbose, format string, args ...any) {
	if p.verbose >= level {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}

func (p *printer) warning(format string, args ...any) {
	p.message(VerboseWarning, "Warning: "+format, args...)
}

func (p *printer) outer(format string, args ...any) {
	p.message(VerboseOuter, format, args...)
}

// tableHeader prints the per-iteration tabu-search table header.
func (p *printer) tableHeader() {
	if p.verbose < VerboseFull {
		return
	}
	fmt.Fprintln(p.w, "---------+------------------------+----------------------+----------------------")
	fmt.Fprintln(p.w, "Iteration| Number of Neighborhoods|   Current Solution   |  Incumbent Solution ")
	fmt.Fprintln(p.w, "         |  All Feas. Perm. Impr. |   Aug.Obj.(Penalty)  |   Aug.Obj.  Feas.Obj ")
	fmt.Fprintln(p.w, "---------+------------------------+----------------------+----------------------")
}

// tableInitial prints the starting row of a tabu-search loop.
func (p *printer) tableInitial(sign float64, score model.SolutionScore, holder *IncumbentHolder) {
	if p.verbose < VerboseFull {
		return
	}
	fmt.Fprintf(p.w, " INITIAL |    -     -     -     - | %9.2e(%9.2e) | %9.2e  %9.2e\n",
		score.LocalAugmentedObjective*sign,
		score.LocalPenalty,
		holder.GlobalAugmentedIncumbentObjective()*sign,
		holder.FeasibleIncumbentObjective()*sign)
}

// tableBody prints one iteration row: neighborhood counts, the accepted
// move's augmented objective, and the incumbents. The current and global
// columns carry a marker when this iteration updated them.
func (p *printer) tableBody(
	sign float64,
	iteration, all, feasible, permissible, improvable int,
	score model.SolutionScore,
	status int,
	holder *IncumbentHolder,
) {
	if p.verbose < VerboseFull {
		return
	}

	markCurrent := ' '
	markGlobal := ' '
	if status&StatusLocalAugmentedIncumbentUpdate != 0 {
		markCurrent = '!'
	}
	if status&StatusGlobalAugmentedIncumbentUpdate != 0 {
		markCurrent = '#'
		markGlobal = '#'
	}
	if status&StatusFeasibleIncumbentUpdate != 0 {
		markCurrent = '*'
		markGlobal = '*'
	}

	fmt.Fprintf(p.w, "%8d | %5d %5d %5d %5d |%c%9.2e(%9.2e) |%c%9.2e  %9.2e\n",
		iteration, all, feasible, permissible, improvable,
		markCurrent, score.LocalAugmentedObjective*sign, score.LocalPenalty,
		markGlobal, holder.GlobalAugmentedIncumbentObjective()*sign,
		holder.FeasibleIncumbentObjective()*sign)
}

func (p *printer) tableFooter() {
	if p.verbose < VerboseFull {
		return
	}
	fmt.Fprintln(p.w, "---------+------------------------+----------------------+----------------------")
}
