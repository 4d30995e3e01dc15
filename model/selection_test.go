package model_test

import (
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPartitioned creates binaries b[0..n-1] plus partitioning constraints
// over index ranges, with a trivial objective.
func buildPartitioned(t *testing.T, n int, groups ...[]int) (*model.Model, *model.VariableProxy, []*model.Constraint) {
	t.Helper()
	m := model.New("partitioned")
	b, err := m.NewVariables("b", n)
	require.NoError(t, err)
	require.NoError(t, b.SetBounds(0, 1))

	objective := model.NewLinear()
	for i := 0; i < n; i++ {
		objective.Add(float64(i+1), b.Element(i))
	}
	m.Minimize(objective)

	constraints := make([]*model.Constraint, 0, len(groups))
	for gi, group := range groups {
		l := model.NewLinear()
		for _, i := range group {
			l.Add(1, b.Element(i))
		}
		g, err := m.NewConstraint(groupName(gi), l.Equal(1))
		require.NoError(t, err)
		constraints = append(constraints, g)
	}
	return m, b, constraints
}

func groupName(i int) string {
	return "grp_" + string(rune('a'+i))
}

func setupWithMode(t *testing.T, m *model.Model, mode model.SelectionMode) {
	t.Helper()
	opt := model.DefaultSetupOptions()
	opt.SelectionMode = mode
	require.NoError(t, m.Setup(opt))
}

// TestExtractSelections_Defined extracts every partitioning constraint,
// disables it, reclassifies variables and enforces one-hot start values.
func TestExtractSelections_Defined(t *testing.T) {
	m, _, constraints := buildPartitioned(t, 6, []int{0, 1, 2}, []int{3, 4, 5})
	setupWithMode(t, m, model.SelectionModeDefined)

	require.Len(t, m.Selections(), 2)
	assert.False(t, constraints[0].IsEnabled())
	assert.False(t, constraints[1].IsEnabled())
	assert.Equal(t, 6, m.NumberOfSelectionVariables())
	assert.Equal(t, 0, m.NumberOfBinaryVariables())

	for _, sel := range m.Selections() {
		selected := sel.SelectedVariable()
		require.NotNil(t, selected, "initial-value correction must pick one member")
		sum := int64(0)
		for _, v := range sel.Variables() {
			sum += v.Value()
		}
		assert.Equal(t, int64(1), sum, "one-hot after setup")
	}
}

// TestExtractSelections_DefinedOverlapFails rejects overlapping groups in
// Defined mode: the user asserted disjoint partitionings.
func TestExtractSelections_DefinedOverlapFails(t *testing.T) {
	m, _, _ := buildPartitioned(t, 5, []int{0, 1, 2}, []int{2, 3, 4})
	opt := model.DefaultSetupOptions()
	opt.SelectionMode = model.SelectionModeDefined
	assert.ErrorIs(t, m.Setup(opt), model.ErrInvalidModel)
}

// TestExtractSelections_Independent keeps only disjoint groups; the
// overlapping one stays a penalty-enforced constraint.
func TestExtractSelections_Independent(t *testing.T) {
	m, _, constraints := buildPartitioned(t, 5, []int{0, 1, 2}, []int{2, 3, 4})
	setupWithMode(t, m, model.SelectionModeIndependent)

	require.Len(t, m.Selections(), 1)
	assert.False(t, constraints[0].IsEnabled())
	assert.True(t, constraints[1].IsEnabled(), "overlapping group stays a constraint")
	assert.Equal(t, 3, m.NumberOfSelectionVariables())
}

// TestExtractSelections_Larger prefers the bigger group under overlap.
func TestExtractSelections_Larger(t *testing.T) {
	m, _, constraints := buildPartitioned(t, 6, []int{0, 1}, []int{1, 2, 3, 4, 5})
	setupWithMode(t, m, model.SelectionModeLarger)

	require.Len(t, m.Selections(), 1)
	assert.Equal(t, 5, len(m.Selections()[0].Variables()))
	assert.True(t, constraints[0].IsEnabled())
	assert.False(t, constraints[1].IsEnabled())
}

// TestExtractSelections_None leaves everything to the penalty machinery.
func TestExtractSelections_None(t *testing.T) {
	m, _, constraints := buildPartitioned(t, 3, []int{0, 1, 2})
	setupWithMode(t, m, model.SelectionModeNone)

	assert.Empty(t, m.Selections())
	assert.True(t, constraints[0].IsEnabled())
	assert.Equal(t, 3, m.NumberOfBinaryVariables())
}

// TestSelection_MultipleOnCorrection verifies the one-hot repair when
// several members start at 1.
func TestSelection_MultipleOnCorrection(t *testing.T) {
	m, b, _ := buildPartitioned(t, 3, []int{0, 1, 2})
	b.Element(0).SetValue(1)
	b.Element(2).SetValue(1)
	setupWithMode(t, m, model.SelectionModeDefined)

	sum := int64(0)
	for i := 0; i < 3; i++ {
		sum += b.Element(i).Value()
	}
	assert.Equal(t, int64(1), sum)
}

// TestSelection_MultipleOnWithoutCorrectionFails verifies the strict path.
func TestSelection_MultipleOnWithoutCorrectionFails(t *testing.T) {
	m, b, _ := buildPartitioned(t, 3, []int{0, 1, 2})
	b.Element(0).SetValue(1)
	b.Element(2).SetValue(1)

	opt := model.DefaultSetupOptions()
	opt.SelectionMode = model.SelectionModeDefined
	opt.IsEnabledInitialValueCorrection = false
	assert.ErrorIs(t, m.Setup(opt), model.ErrInvalidInitialValue)
}
