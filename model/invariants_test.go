package model_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInvariants_RandomModels generates small random linear models and
// random move sequences, checking after every application:
//
//  1. value parity:     E.value == Σ coef·value + constant
//  2. violation parity: g.violation == viol(sense, g.value)
//  3. bound respect:    lower ≤ value ≤ upper
//  4. delta-evaluation agreement with the full form
func TestInvariants_RandomModels(t *testing.T) {
	rng := rand.New(rand.NewSource(20260805))

	for trial := 0; trial < 20; trial++ {
		m := model.New(fmt.Sprintf("random_%02d", trial))

		x, err := m.NewVariables("x", 6)
		require.NoError(t, err)
		require.NoError(t, x.SetBounds(-5, 5))

		objective := model.NewLinear()
		for i := 0; i < x.Len(); i++ {
			objective.Add(float64(rng.Intn(11)-5), x.Element(i))
		}
		m.Minimize(objective)

		senses := []func(*model.Linear, float64) *model.Comparison{
			(*model.Linear).LessEqual,
			(*model.Linear).Equal,
			(*model.Linear).GreaterEqual,
		}
		for c := 0; c < 4; c++ {
			l := model.NewLinear()
			for i := 0; i < x.Len(); i++ {
				if rng.Intn(2) == 1 {
					l.Add(float64(rng.Intn(7)-3), x.Element(i))
				}
			}
			_, err := m.NewConstraint(fmt.Sprintf("g_%d", c),
				senses[rng.Intn(3)](l, float64(rng.Intn(21)-10)))
			require.NoError(t, err)
		}

		opt := model.DefaultSetupOptions()
		opt.IsEnabledPresolve = false
		require.NoError(t, m.Setup(opt))

		local := uniformWeights(m, 1+rng.Float64()*10)
		global := uniformWeights(m, 1+rng.Float64()*10)

		for step := 0; step < 40; step++ {
			// Random move of 1–3 in-bounds alterations on free variables.
			arity := 1 + rng.Intn(3)
			alterations := make([]model.Alteration, 0, arity)
			for a := 0; a < arity; a++ {
				v := x.Element(rng.Intn(x.Len()))
				if v.IsFixed() {
					continue
				}
				span := v.UpperBound() - v.LowerBound()
				alterations = append(alterations, model.Alteration{
					Variable: v,
					Value:    v.LowerBound() + int64(rng.Intn(int(span)+1)),
				})
			}
			if len(alterations) == 0 {
				continue
			}
			mv := model.NewMove(model.MoveSenseUserDefined, alterations...)

			before := m.Evaluate(nil, local, global)
			fresh := m.Evaluate(&mv, local, global)
			delta := m.EvaluateWithScore(&mv, before, local, global)
			assert.InDelta(t, fresh.LocalAugmentedObjective, delta.LocalAugmentedObjective, 1e-6,
				"trial %d step %d: delta agreement", trial, step)
			assert.InDelta(t, fresh.TotalViolation, delta.TotalViolation, 1e-6)

			m.Apply(&mv)
			checkParity(t, m, x, trial, step)
		}
	}
}

// checkParity recomputes every cached quantity from scratch and compares.
func checkParity(t *testing.T, m *model.Model, x *model.VariableProxy, trial, step int) {
	t.Helper()

	for i := 0; i < x.Len(); i++ {
		v := x.Element(i)
		assert.GreaterOrEqual(t, v.Value(), v.LowerBound(), "trial %d step %d", trial, step)
		assert.LessOrEqual(t, v.Value(), v.UpperBound())
	}

	total := 0.0
	for _, p := range m.ConstraintProxies() {
		for flat := 0; flat < p.Len(); flat++ {
			g := p.Element(flat)

			recomputed := g.Expression().Constant()
			for _, term := range g.Expression().Terms() {
				recomputed += term.Coefficient * float64(term.Variable.Value())
			}
			assert.InDelta(t, recomputed, g.Value(), 1e-6,
				"trial %d step %d: value parity of %s", trial, step, g.Name())
			assert.InDelta(t, model.ViolationOf(g.Sense(), g.Value()), g.Violation(), 1e-6,
				"violation parity of %s", g.Name())
			if g.IsEnabled() {
				total += g.Violation()
			}
		}
	}
	assert.InDelta(t, total, m.TotalViolation(), 1e-6, "violation total parity")
}
