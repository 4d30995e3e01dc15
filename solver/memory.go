package solver

import (
	"math/rand"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/multiarray"
)

// initialLastUpdateIteration is the short-term memory sentinel. It must be a
// sufficiently large finite negative value so that "iteration − last update"
// stays a finite int while every variable starts far outside any tenure.
const initialLastUpdateIteration = -1000

// Memory is the search memory over variables.
//
// Short-term: the iteration at which each variable was last updated; the
// tabu classification reads it. Long-term: how many times each variable has
// been updated; the bias concentration measure reads it.
type Memory struct {
	lastUpdateIterations []*multiarray.Proxy[int]
	updateCounts         []*multiarray.Proxy[int]
	totalUpdateCount     int64
}

// NewMemory allocates memory aligned with the model's variable proxies.
func NewMemory(m *model.Model) *Memory {
	return &Memory{
		lastUpdateIterations: m.NewVariableIntProxies(initialLastUpdateIteration),
		updateCounts:         m.NewVariableIntProxies(0),
	}
}

// LastUpdateIteration returns the short-term entry of v.
func (mem *Memory) LastUpdateIteration(v *model.Variable) int {
	return mem.lastUpdateIterations[v.ProxyIndex()].At(v.FlatIndex())
}

// UpdateCount returns the long-term entry of v.
func (mem *Memory) UpdateCount(v *model.Variable) int {
	return mem.updateCounts[v.ProxyIndex()].At(v.FlatIndex())
}

// UpdateCounts exposes the long-term counters for result export.
func (mem *Memory) UpdateCounts() []*multiarray.Proxy[int] { return mem.updateCounts }

// TotalUpdateCount returns the number of recorded alterations.
func (mem *Memory) TotalUpdateCount() int64 { return mem.totalUpdateCount }

// Update records the applied move at the given iteration.
func (mem *Memory) Update(mv *model.Move, iteration int) {
	for i := range mv.Alterations {
		v := mv.Alterations[i].Variable
		mem.lastUpdateIterations[v.ProxyIndex()].Set(v.FlatIndex(), iteration)
		counts := mem.updateCounts[v.ProxyIndex()]
		counts.Set(v.FlatIndex(), counts.At(v.FlatIndex())+1)
		mem.totalUpdateCount++
	}
}

// UpdateWithWidth records the move with a randomized last-update iteration
// in [iteration−width, iteration+width); the initial-modification kick uses
// it to desynchronize tenure expiry.
func (mem *Memory) UpdateWithWidth(mv *model.Move, iteration, width int, rng *rand.Rand) {
	if width == 0 {
		mem.Update(mv, iteration)
		return
	}
	for i := range mv.Alterations {
		v := mv.Alterations[i].Variable
		randomness := rng.Intn(2*width) - width
		mem.lastUpdateIterations[v.ProxyIndex()].Set(v.FlatIndex(), iteration+randomness)
		counts := mem.updateCounts[v.ProxyIndex()]
		counts.Set(v.FlatIndex(), counts.At(v.FlatIndex())+1)
		mem.totalUpdateCount++
	}
}

// ResetLastUpdateIterations clears the short-term memory back to the
// sentinel; each tabu-search loop starts from a clean tenure state.
func (mem *Memory) ResetLastUpdateIterations() {
	for _, p := range mem.lastUpdateIterations {
		p.Fill(initialLastUpdateIteration)
	}
}

// Bias is the concentration of search effort, Σ (updateCount/total)² over
// variables — in [1/n, 1] once any update is recorded, 0 before. A rising bias across loops means the search is
// revisiting the same variables; the outer loop raises the tenure then.
func (mem *Memory) Bias() float64 {
	if mem.totalUpdateCount == 0 {
		return 0
	}
	total := float64(mem.totalUpdateCount)
	result := 0.0
	for _, p := range mem.updateCounts {
		for _, c := range p.Values() {
			frequency := float64(c) / total
			result += frequency * frequency
		}
	}
	return result
}
