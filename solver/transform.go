package solver

import (
	"errors"
	"math"

	"github.com/optigo-xyz/go-optigo/model"
)

// The simplex capability wants standard form: minimize c·x' subject to
// A·x' = b, x' ≥ 0. This file rewrites a canonical model into that shape:
// bounded variables are shifted onto the nonnegative axis, free variables
// are split, inequalities get slack variables. Constant objective offsets
// are never tracked because the objective is always re-evaluated on the
// recovered original-space point.

const coefEps = 1e-9

// bounds is an effective [lo, hi] interval for one variable.
type bounds struct {
	lo, hi float64
}

var (
	errBoundsInfeasible = errors.New("variable bounds are contradictory")
	errRowInfeasible    = errors.New("constant constraint row is violated")
	errCostUnbounded    = errors.New("unconstrained column with improving cost")
)

type colKind int

const (
	colShifted  colKind = iota // x = shift + x'[pos]
	colMirrored                // x = shift - x'[pos]
	colSplit                   // x = x'[pos] - x'[neg]
	colFixed                   // x = shift
)

type colMap struct {
	kind  colKind
	pos   int // -1 when the column was eliminated by presolve
	neg   int
	shift float64
}

// standardForm is the solver-ready rewrite of one canonical model,
// possibly tightened with branch-and-bound bound overrides.
type standardForm struct {
	c        []float64
	eqRows   [][]float64
	eqRHS    []float64
	ineqRows [][]float64
	ineqRHS  []float64
	cols     []colMap
	ncols    int
}

// effectiveBounds intersects declared bounds with branch overrides.
func effectiveBounds(m *model.Model, overrides map[int]bounds) ([]bounds, error) {
	eff := make([]bounds, m.NumVars())
	for i, v := range m.Variables {
		b := bounds{lo: v.Lower, hi: v.Upper}
		if ov, found := overrides[i]; found {
			b.lo = math.Max(b.lo, ov.lo)
			b.hi = math.Min(b.hi, ov.hi)
		}
		if b.lo > b.hi {
			return nil, errBoundsInfeasible
		}
		eff[i] = b
	}
	return eff, nil
}

// toStandardForm builds the standard-form program. It returns
// errRowInfeasible when a constraint reduces to a violated constant,
// errCostUnbounded when presolve proves the objective unbounded, and
// errBoundsInfeasible for contradictory bounds.
func toStandardForm(m *model.Model, overrides map[int]bounds) (*standardForm, error) {
	eff, err := effectiveBounds(m, overrides)
	if err != nil {
		return nil, err
	}

	n := m.NumVars()

	// Minimize-sense objective coefficients per original variable.
	obj := make([]float64, n)
	for _, t := range m.Objective.Terms {
		obj[t.Var] += t.Coeff
	}
	if m.Objective.Maximize {
		for i := range obj {
			obj[i] = -obj[i]
		}
	}

	sf := &standardForm{cols: make([]colMap, n)}
	for i := range sf.cols {
		b := eff[i]
		switch {
		case b.lo == b.hi:
			sf.cols[i] = colMap{kind: colFixed, pos: -1, neg: -1, shift: b.lo}
		case !math.IsInf(b.lo, -1):
			sf.cols[i] = colMap{kind: colShifted, pos: sf.ncols, neg: -1, shift: b.lo}
			sf.c = append(sf.c, obj[i])
			sf.ncols++
			if !math.IsInf(b.hi, 1) {
				// x' ≤ hi - lo keeps the declared upper bound.
				sf.addUpperRow(sf.cols[i].pos, b.hi-b.lo)
			}
		case !math.IsInf(b.hi, 1):
			sf.cols[i] = colMap{kind: colMirrored, pos: sf.ncols, neg: -1, shift: b.hi}
			sf.c = append(sf.c, -obj[i])
			sf.ncols++
		default:
			sf.cols[i] = colMap{kind: colSplit, pos: sf.ncols, neg: sf.ncols + 1}
			sf.c = append(sf.c, obj[i], -obj[i])
			sf.ncols += 2
		}
	}

	// Upper-bound rows were added before later columns existed; pad them.
	for r := range sf.ineqRows {
		for len(sf.ineqRows[r]) < sf.ncols {
			sf.ineqRows[r] = append(sf.ineqRows[r], 0)
		}
	}

	// Constraint rows, substituted into standard-form columns.
	for _, con := range m.Constraints {
		dense := make([]float64, n)
		for _, t := range con.Terms {
			dense[t.Var] += t.Coeff
		}

		row := make([]float64, sf.ncols)
		rhs := con.RHS
		for i, a := range dense {
			if a == 0 {
				continue
			}
			cm := sf.cols[i]
			switch cm.kind {
			case colFixed:
				rhs -= a * cm.shift
			case colShifted:
				row[cm.pos] += a
				rhs -= a * cm.shift
			case colMirrored:
				row[cm.pos] -= a
				rhs -= a * cm.shift
			case colSplit:
				row[cm.pos] += a
				row[cm.neg] -= a
			}
		}

		if isZeroRow(row) {
			// The row reduced to a constant; check it and drop it.
			if !constRowHolds(con.Op, rhs) {
				return nil, errRowInfeasible
			}
			continue
		}

		switch con.Op {
		case model.LE:
			sf.ineqRows = append(sf.ineqRows, row)
			sf.ineqRHS = append(sf.ineqRHS, rhs)
		case model.GE:
			neg := make([]float64, len(row))
			for j, a := range row {
				neg[j] = -a
			}
			sf.ineqRows = append(sf.ineqRows, neg)
			sf.ineqRHS = append(sf.ineqRHS, -rhs)
		case model.EQ:
			sf.eqRows = append(sf.eqRows, row)
			sf.eqRHS = append(sf.eqRHS, rhs)
		}
	}

	if err := sf.eliminateUnusedColumns(); err != nil {
		return nil, err
	}
	return sf, nil
}

// addUpperRow appends the single-entry row x'[col] ≤ rhs.
func (sf *standardForm) addUpperRow(col int, rhs float64) {
	row := make([]float64, col+1)
	row[col] = 1
	sf.ineqRows = append(sf.ineqRows, row)
	sf.ineqRHS = append(sf.ineqRHS, rhs)
}

// eliminateUnusedColumns removes columns that appear in no row. The
// simplex capability rejects all-zero columns, and an unconstrained
// column with improving cost proves the program unbounded outright.
func (sf *standardForm) eliminateUnusedColumns() error {
	used := make([]bool, sf.ncols)
	for _, row := range sf.eqRows {
		markUsed(used, row)
	}
	for _, row := range sf.ineqRows {
		markUsed(used, row)
	}

	remap := make([]int, sf.ncols)
	kept := 0
	for j := 0; j < sf.ncols; j++ {
		if used[j] {
			remap[j] = kept
			kept++
			continue
		}
		if sf.c[j] < -coefEps {
			return errCostUnbounded
		}
		remap[j] = -1 // fixed at zero
	}
	if kept == sf.ncols {
		return nil
	}

	newC := make([]float64, 0, kept)
	for j, cost := range sf.c {
		if remap[j] >= 0 {
			newC = append(newC, cost)
		}
	}
	sf.c = newC
	compactRows(sf.eqRows, remap, kept)
	compactRows(sf.ineqRows, remap, kept)
	for i := range sf.cols {
		cm := &sf.cols[i]
		if cm.pos >= 0 {
			cm.pos = remap[cm.pos]
		}
		if cm.neg >= 0 {
			cm.neg = remap[cm.neg]
		}
	}
	sf.ncols = kept
	return nil
}

func compactRows(rows [][]float64, remap []int, kept int) {
	for r, row := range rows {
		out := make([]float64, kept)
		for j, a := range row {
			if remap[j] >= 0 {
				out[remap[j]] = a
			}
		}
		rows[r] = out
	}
}

func markUsed(used []bool, row []float64) {
	for j, a := range row {
		if math.Abs(a) > coefEps {
			used[j] = true
		}
	}
}

func isZeroRow(row []float64) bool {
	for _, a := range row {
		if math.Abs(a) > coefEps {
			return false
		}
	}
	return true
}

func constRowHolds(op model.Op, rhs float64) bool {
	switch op {
	case model.LE:
		return rhs >= -coefEps
	case model.GE:
		return rhs <= coefEps
	case model.EQ:
		return math.Abs(rhs) <= coefEps
	}
	return false
}

// recover maps a standard-form point (columns followed by slacks, which
// are ignored) back to the original variable space.
func (sf *standardForm) recover(x []float64) []float64 {
	out := make([]float64, len(sf.cols))
	for i, cm := range sf.cols {
		switch cm.kind {
		case colFixed:
			out[i] = cm.shift
		case colShifted:
			out[i] = cm.shift + colValue(x, cm.pos)
		case colMirrored:
			out[i] = cm.shift - colValue(x, cm.pos)
		case colSplit:
			out[i] = colValue(x, cm.pos) - colValue(x, cm.neg)
		}
	}
	return out
}

func colValue(x []float64, col int) float64 {
	if col < 0 || col >= len(x) {
		return 0
	}
	return x[col]
}
