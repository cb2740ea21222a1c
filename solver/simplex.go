package solver

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/optigo-xyz/go-optigo/model"
)

type relaxStatus int

const (
	relaxOptimal relaxStatus = iota
	relaxInfeasible
	relaxUnbounded
	relaxError
)

// relaxation is the result of solving one LP, either the full continuous
// model or a branch-and-bound node relaxation.
type relaxation struct {
	status    relaxStatus
	x         []float64 // point in original variable space
	objective float64   // original-sense objective value at x
	reason    string
}

// solveRelaxation rewrites the model (with optional branch bound
// overrides) to standard form and runs the simplex capability on it.
func solveRelaxation(m *model.Model, overrides map[int]bounds) relaxation {
	sf, err := toStandardForm(m, overrides)
	switch {
	case errors.Is(err, errBoundsInfeasible), errors.Is(err, errRowInfeasible):
		return relaxation{status: relaxInfeasible}
	case errors.Is(err, errCostUnbounded):
		return relaxation{status: relaxUnbounded}
	case err != nil:
		return relaxation{status: relaxError, reason: err.Error()}
	}

	nRows := len(sf.eqRows) + len(sf.ineqRows)
	if nRows == 0 {
		// Presolve removed every row, and with it every column: no
		// improving direction exists, so the origin is optimal.
		x := sf.recover(make([]float64, sf.ncols))
		return relaxation{status: relaxOptimal, x: x, objective: m.Objective.Eval(x)}
	}

	// Assemble equalities first, then inequalities with one slack each.
	nSlack := len(sf.ineqRows)
	nTot := sf.ncols + nSlack
	c := make([]float64, nTot)
	copy(c, sf.c)

	a := mat.NewDense(nRows, nTot, nil)
	b := make([]float64, nRows)
	r := 0
	for i, row := range sf.eqRows {
		for j, v := range row {
			a.Set(r, j, v)
		}
		b[r] = sf.eqRHS[i]
		r++
	}
	for i, row := range sf.ineqRows {
		for j, v := range row {
			a.Set(r, j, v)
		}
		a.Set(r, sf.ncols+i, 1)
		b[r] = sf.ineqRHS[i]
		r++
	}

	_, xStd, err := lp.Simplex(c, a, b, 0, nil)
	switch {
	case err == nil:
	case errors.Is(err, lp.ErrInfeasible):
		return relaxation{status: relaxInfeasible}
	case errors.Is(err, lp.ErrUnbounded):
		return relaxation{status: relaxUnbounded}
	default:
		// Singular basis, zero rows/columns the presolve missed, linear
		// solve breakdown: all numerical failures, reported as-is.
		return relaxation{status: relaxError, reason: err.Error()}
	}

	x := sf.recover(xStd)
	return relaxation{status: relaxOptimal, x: x, objective: m.Objective.Eval(x)}
}
