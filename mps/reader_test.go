package mps_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/mps"
	"github.com/katalvlaran/mipmh/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knapsackMPS = `* 10-item knapsack, maximize by negated costs
NAME          KNAP10
ROWS
 N  COST
 L  CAP
COLUMNS
    MARKER                 'MARKER'                 'INTORG'
    X0        COST            -1.0   CAP             1.0
    X1        COST            -2.0   CAP             1.0
    X2        COST            -3.0   CAP             1.0
    X3        COST            -4.0   CAP             1.0
    X4        COST            -5.0   CAP             1.0
    X5        COST            -6.0   CAP             1.0
    X6        COST            -7.0   CAP             1.0
    X7        COST            -8.0   CAP             1.0
    X8        COST            -9.0   CAP             1.0
    X9        COST           -10.0   CAP             1.0
    MARKER                 'MARKER'                 'INTEND'
RHS
    RHS       CAP             5.0
BOUNDS
ENDATA
`

// TestRead_Knapsack parses a small knapsack file and solves it: MPS
// minimizes, so the negated profits make the optimum −40 (items 6..10).
func TestRead_Knapsack(t *testing.T) {
	m, summary, err := mps.Read(strings.NewReader(knapsackMPS))
	require.NoError(t, err)

	assert.Equal(t, "KNAP10", summary.Name)
	assert.Equal(t, 10, summary.NumberOfColumns)
	assert.Equal(t, 1, summary.NumberOfRows)
	assert.Empty(t, summary.ContinuousColumns, "all columns are integer-marked")
	assert.Equal(t, 9, summary.ColumnIndex["X9"])
	assert.Equal(t, 0, summary.RowIndex["CAP"])

	opt := solver.DefaultOptions()
	opt.IterationMax = 5
	opt.TabuSearch.IterationMax = 60

	result, err := solver.Solve(m, opt)
	require.NoError(t, err)
	assert.True(t, result.Solution.IsFeasible)
	assert.InDelta(t, -40.0, result.Solution.Objective, 1e-9)
}

const boundsMPS = `NAME BOUNDED
ROWS
 N  OBJ
 G  FLOOR
COLUMNS
    Y         OBJ             1.0   FLOOR           1.0
    Z         OBJ             1.0
RHS
    RHS       FLOOR           2.0
BOUNDS
 LO BND       Y               1.0
 UP BND       Y               9.0
 FX BND       Z               4.0
ENDATA
`

// TestRead_BoundsAndContinuous verifies BOUNDS handling and the
// continuous-column report.
func TestRead_BoundsAndContinuous(t *testing.T) {
	m, summary, err := mps.Read(strings.NewReader(boundsMPS))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Y", "Z"}, summary.ContinuousColumns)

	x := m.VariableProxies()[0]
	y := x.Element(summary.ColumnIndex["Y"])
	z := x.Element(summary.ColumnIndex["Z"])

	assert.Equal(t, int64(1), y.LowerBound())
	assert.Equal(t, int64(9), y.UpperBound())
	assert.True(t, z.IsFixed())
	assert.Equal(t, int64(4), z.Value())
}

// TestRead_Errors verifies the parse sentinels.
func TestRead_Errors(t *testing.T) {
	cases := map[string]string{
		"missing endata": "NAME X\nROWS\n N  OBJ\n",
		"unknown row":    "NAME X\nROWS\n N  OBJ\nCOLUMNS\n    C1        NOPE            1.0\nENDATA\n",
		"bad sense":      "NAME X\nROWS\n Q  OBJ\nENDATA\n",
		"no columns":     "NAME X\nROWS\n N  OBJ\nENDATA\n",
		"bad value":      "NAME X\nROWS\n N  OBJ\nCOLUMNS\n    C1        OBJ             abc\nENDATA\n",
	}
	for label, input := range cases {
		_, _, err := mps.Read(strings.NewReader(input))
		assert.ErrorIs(t, err, mps.ErrParse, label)
	}
}

// TestRead_RangesCreatesSecondSide verifies that a RANGES entry adds the
// interval's other side as a separate constraint.
func TestRead_RangesCreatesSecondSide(t *testing.T) {
	const input = `NAME RANGED
ROWS
 N  OBJ
 L  WINDOW
COLUMNS
    A         OBJ             1.0   WINDOW          1.0
    B         OBJ             1.0   WINDOW          1.0
RHS
    RHS       WINDOW          6.0
RANGES
    RNG       WINDOW          4.0
ENDATA
`
	m, _, err := mps.Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, m.ConstraintProxies(), 2, "base rows plus range rows")
	base := m.ConstraintProxies()[0].Element(0)
	second := m.ConstraintProxies()[1].Element(0)
	assert.Equal(t, model.LessEqual, base.Sense())
	assert.Equal(t, model.GreaterEqual, second.Sense(), "window lower side 6−4 = 2")
}
