package mps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/mipmh/model"
)

// ErrParse is the sentinel for malformed MPS input; wrapped errors carry the
// offending line.
var ErrParse = errors.New("mps: parse error")

// Summary describes what was read and how MPS names map into the model.
type Summary struct {
	Name string `json:"name"`

	NumberOfRows    int `json:"number_of_rows"`
	NumberOfColumns int `json:"number_of_columns"`

	// ColumnIndex / RowIndex map MPS names to flat indices of the "x"
	// variable proxy and "g" constraint proxy.
	ColumnIndex map[string]int `json:"column_index"`
	RowIndex    map[string]int `json:"row_index"`

	// ContinuousColumns lists columns declared outside INTORG/INTEND; the
	// solver treats them as integers.
	ContinuousColumns []string `json:"continuous_columns,omitempty"`
}

type rowKind byte

type mpsRow struct {
	name string
	kind rowKind // 'N', 'L', 'G', 'E'
}

type mpsEntry struct {
	row         string
	coefficient float64
}

type mpsColumn struct {
	name      string
	isInteger bool
	entries   []mpsEntry
}

type mpsBound struct {
	kind  string
	value float64
	has   bool
}

// parseState is the intermediate form; the model is built only once the
// whole file is read and the proxy sizes are known.
type parseState struct {
	name    string
	rows    []mpsRow
	columns []mpsColumn

	columnAt map[string]int
	rowKinds map[string]rowKind

	rhs    map[string]float64
	ranges map[string]float64
	bounds map[string][]mpsBound
}

// ReadFile reads an MPS file from disk.
func ReadFile(path string) (*model.Model, *Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses MPS input and builds the corresponding model.
func Read(r io.Reader) (*model.Model, *Summary, error) {
	st := &parseState{
		columnAt: make(map[string]int),
		rowKinds: make(map[string]rowKind),
		rhs:      make(map[string]float64),
		ranges:   make(map[string]float64),
		bounds:   make(map[string][]mpsBound),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	section := ""
	integerMode := false
	lineNumber := 0
	sawEndata := false

	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}

		// Section headers start in column one.
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			fields := strings.Fields(trimmed)
			section = strings.ToUpper(fields[0])
			switch section {
			case "NAME":
				if len(fields) > 1 {
					st.name = fields[1]
				}
			case "ENDATA":
				sawEndata = true
			case "ROWS", "COLUMNS", "RHS", "RANGES", "BOUNDS", "OBJSENSE":
				// Body lines follow.
			default:
				return nil, nil, fmt.Errorf("%w: unknown section %q at line %d", ErrParse, section, lineNumber)
			}
			if sawEndata {
				break
			}
			continue
		}

		fields := strings.Fields(trimmed)
		var err error
		switch section {
		case "ROWS":
			err = st.parseRow(fields, lineNumber)
		case "COLUMNS":
			integerMode, err = st.parseColumn(fields, integerMode, lineNumber)
		case "RHS":
			err = st.parseValuePairs(fields, st.rhs, lineNumber)
		case "RANGES":
			err = st.parseValuePairs(fields, st.ranges, lineNumber)
		case "BOUNDS":
			err = st.parseBound(fields, lineNumber)
		case "":
			err = fmt.Errorf("%w: data before any section at line %d", ErrParse, lineNumber)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if !sawEndata {
		return nil, nil, fmt.Errorf("%w: missing ENDATA", ErrParse)
	}

	return st.build()
}

func (st *parseState) parseRow(fields []string, line int) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: ROWS line %d needs <sense> <name>", ErrParse, line)
	}
	kind := rowKind(strings.ToUpper(fields[0])[0])
	switch kind {
	case 'N', 'L', 'G', 'E':
	default:
		return fmt.Errorf("%w: unknown row sense %q at line %d", ErrParse, fields[0], line)
	}
	name := fields[1]
	if _, dup := st.rowKinds[name]; dup {
		return fmt.Errorf("%w: duplicate row %q at line %d", ErrParse, name, line)
	}
	st.rowKinds[name] = kind
	st.rows = append(st.rows, mpsRow{name: name, kind: kind})
	return nil
}

func (st *parseState) parseColumn(fields []string, integerMode bool, line int) (bool, error) {
	// Integer markers: <label> 'MARKER' 'INTORG'|'INTEND'.
	if len(fields) >= 3 && strings.Contains(fields[1], "MARKER") {
		switch {
		case strings.Contains(fields[2], "INTORG"):
			return true, nil
		case strings.Contains(fields[2], "INTEND"):
			return false, nil
		}
		return integerMode, fmt.Errorf("%w: bad marker at line %d", ErrParse, line)
	}

	if len(fields) < 3 || len(fields)%2 == 0 {
		return integerMode, fmt.Errorf("%w: COLUMNS line %d needs <col> (<row> <value>)+", ErrParse, line)
	}

	name := fields[0]
	at, known := st.columnAt[name]
	if !known {
		at = len(st.columns)
		st.columnAt[name] = at
		st.columns = append(st.columns, mpsColumn{name: name, isInteger: integerMode})
	}

	for i := 1; i < len(fields); i += 2 {
		row := fields[i]
		if _, ok := st.rowKinds[row]; !ok {
			return integerMode, fmt.Errorf("%w: unknown row %q at line %d", ErrParse, row, line)
		}
		value, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return integerMode, fmt.Errorf("%w: bad value %q at line %d", ErrParse, fields[i+1], line)
		}
		st.columns[at].entries = append(st.columns[at].entries, mpsEntry{row: row, coefficient: value})
	}
	return integerMode, nil
}

func (st *parseState) parseValuePairs(fields []string, into map[string]float64, line int) error {
	// <set name> (<row> <value>)+ — the set name is conventional filler.
	if len(fields) < 3 || len(fields)%2 == 0 {
		return fmt.Errorf("%w: line %d needs <set> (<row> <value>)+", ErrParse, line)
	}
	for i := 1; i < len(fields); i += 2 {
		row := fields[i]
		if _, ok := st.rowKinds[row]; !ok {
			return fmt.Errorf("%w: unknown row %q at line %d", ErrParse, row, line)
		}
		value, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return fmt.Errorf("%w: bad value %q at line %d", ErrParse, fields[i+1], line)
		}
		into[row] = value
	}
	return nil
}

func (st *parseState) parseBound(fields []string, line int) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: BOUNDS line %d needs <kind> <set> <col> [<value>]", ErrParse, line)
	}
	kind := strings.ToUpper(fields[0])
	column := fields[2]
	if _, ok := st.columnAt[column]; !ok {
		return fmt.Errorf("%w: unknown column %q at line %d", ErrParse, column, line)
	}

	b := mpsBound{kind: kind}
	switch kind {
	case "LO", "UP", "FX", "LI", "UI":
		if len(fields) < 4 {
			return fmt.Errorf("%w: bound %s needs a value at line %d", ErrParse, kind, line)
		}
		value, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return fmt.Errorf("%w: bad bound %q at line %d", ErrParse, fields[3], line)
		}
		b.value = value
		b.has = true
	case "BV", "MI", "PL", "FR":
	default:
		return fmt.Errorf("%w: unknown bound kind %q at line %d", ErrParse, kind, line)
	}
	st.bounds[column] = append(st.bounds[column], b)
	return nil
}

// build assembles the model from the parsed sections.
func (st *parseState) build() (*model.Model, *Summary, error) {
	if len(st.columns) == 0 {
		return nil, nil, fmt.Errorf("%w: no columns", ErrParse)
	}

	var objectiveRow string
	constraintRows := make([]mpsRow, 0, len(st.rows))
	for _, row := range st.rows {
		if row.kind == 'N' {
			if objectiveRow == "" {
				objectiveRow = row.name
			}
			continue
		}
		constraintRows = append(constraintRows, row)
	}

	name := st.name
	if name == "" {
		name = "mps"
	}
	m := model.New(name)

	x, err := m.NewVariables("x", len(st.columns))
	if err != nil {
		return nil, nil, err
	}

	summary := &Summary{
		Name:            name,
		NumberOfRows:    len(constraintRows),
		NumberOfColumns: len(st.columns),
		ColumnIndex:     make(map[string]int, len(st.columns)),
		RowIndex:        make(map[string]int, len(constraintRows)),
	}

	for at, column := range st.columns {
		summary.ColumnIndex[column.name] = at
		if !column.isInteger {
			summary.ContinuousColumns = append(summary.ContinuousColumns, column.name)
		}
		if err := applyBounds(x.Element(at), column, st.bounds[column.name]); err != nil {
			return nil, nil, err
		}
	}

	// Per-row linear builders, filled column by column.
	builders := make(map[string]*model.Linear, len(constraintRows)+1)
	builders[objectiveRow] = model.NewLinear()
	for _, row := range constraintRows {
		builders[row.name] = model.NewLinear()
	}
	for at, column := range st.columns {
		for _, entry := range column.entries {
			if b, ok := builders[entry.row]; ok {
				b.Add(entry.coefficient, x.Element(at))
			}
		}
	}

	if objectiveRow != "" {
		objective := builders[objectiveRow]
		// The objective RHS is a negated constant by MPS convention.
		if c, ok := st.rhs[objectiveRow]; ok {
			objective.AddConstant(-c)
		}
		m.Minimize(objective)
	}

	if len(constraintRows) > 0 {
		g, err := m.NewConstraints("g", len(constraintRows))
		if err != nil {
			return nil, nil, err
		}
		var ranged []mpsRow
		for flat, row := range constraintRows {
			summary.RowIndex[row.name] = flat
			rhs := st.rhs[row.name]
			switch row.kind {
			case 'L':
				g.Element(flat).Define(builders[row.name].LessEqual(rhs))
			case 'G':
				g.Element(flat).Define(builders[row.name].GreaterEqual(rhs))
			case 'E':
				g.Element(flat).Define(builders[row.name].Equal(rhs))
			}
			if _, ok := st.ranges[row.name]; ok {
				ranged = append(ranged, row)
			}
		}

		// RANGES: each ranged row gains the second side of its interval.
		if len(ranged) > 0 {
			rp, err := m.NewConstraints("r", len(ranged))
			if err != nil {
				return nil, nil, err
			}
			// Comparison construction copies the builder's terms and folds
			// the right-hand side into the copy, so the base row and its
			// range row can share one builder.
			for flat, row := range ranged {
				r := st.ranges[row.name]
				rhs := st.rhs[row.name]
				body := builders[row.name]
				switch row.kind {
				case 'L':
					rp.Element(flat).Define(body.GreaterEqual(rhs - math.Abs(r)))
				case 'G':
					rp.Element(flat).Define(body.LessEqual(rhs + math.Abs(r)))
				case 'E':
					if r >= 0 {
						rp.Element(flat).Define(body.LessEqual(rhs + r))
					} else {
						rp.Element(flat).Define(body.GreaterEqual(rhs + r))
					}
				}
			}
		}
	}

	return m, summary, nil
}

// applyBounds resolves a column's BOUNDS entries onto the variable.
// Defaults: [0, 1] for integer-marked columns with no bounds, [0, upper
// default] otherwise.
func applyBounds(v *model.Variable, column mpsColumn, bounds []mpsBound) error {
	lower := int64(0)
	upper := model.DefaultUpperBound
	if column.isInteger && len(bounds) == 0 {
		upper = 1
	}

	for _, b := range bounds {
		switch b.kind {
		case "LO", "LI":
			lower = int64(math.Ceil(b.value - model.Epsilon))
		case "UP", "UI":
			upper = int64(math.Floor(b.value + model.Epsilon))
			if upper < 0 && lower == 0 {
				// Negative upper bound with default lower frees the lower
				// side by MPS convention.
				lower = model.DefaultLowerBound
			}
		case "FX":
			lower = int64(math.Round(b.value))
			upper = lower
		case "BV":
			lower, upper = 0, 1
		case "MI":
			lower = model.DefaultLowerBound
		case "PL", "FR":
			upper = model.DefaultUpperBound
			if b.kind == "FR" {
				lower = model.DefaultLowerBound
			}
		}
	}
	return v.SetBounds(lower, upper)
}
