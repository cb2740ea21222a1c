package results

import (
	"fmt"
	"math"
	"time"

	"github.com/optigo-xyz/go-optigo/model"
	"github.com/optigo-xyz/go-optigo/solver"
)

// integralityTol is the largest deviation from an integer that is rounded
// away when presenting an integer variable. A larger deviation means the
// solve produced a value the model's domain cannot honor, which escalates
// to a numerical failure instead of being silently accepted.
const integralityTol = 1e-6

// Map converts a solve outcome into the client-facing response. Pure: it
// reads the model and outcome, never mutates them.
func Map(out solver.Outcome, m *model.Model, lim solver.Limits, solverName string, computeSeconds float64) *Response {
	resp := base(m, lim, solverName, computeSeconds)

	switch out.Tag {
	case solver.TagOptimal:
		assignment, err := conform(m, out.Assignment)
		if err != nil {
			resp.Outcome = solver.TagNumericalFailure.String()
			resp.Diagnostic = err.Error()
			return resp
		}
		obj := out.Objective
		resp.Outcome = out.Tag.String()
		resp.ObjectiveValue = &obj
		resp.Assignment = assignment

	case solver.TagTimedOut:
		resp.Outcome = out.Tag.String()
		resp.Diagnostic = "time limit reached before convergence"
		resp.BestBound = out.BestBound
		if out.Assignment != nil {
			assignment, err := conform(m, out.Assignment)
			if err != nil {
				// Drop a non-conforming incumbent rather than present it.
				break
			}
			obj := out.Objective
			resp.ObjectiveValue = &obj
			resp.Assignment = assignment
		}

	case solver.TagInfeasible:
		resp.Outcome = out.Tag.String()
		resp.Diagnostic = "no feasible point satisfies the constraints"

	case solver.TagUnbounded:
		resp.Outcome = out.Tag.String()
		resp.Diagnostic = "objective improves without limit"

	default:
		resp.Outcome = solver.TagNumericalFailure.String()
		resp.Diagnostic = out.Reason
	}

	return resp
}

// Invalid builds the response for a description that failed validation
// before any solver resource was touched.
func Invalid(verr *model.ValidationError, lim solver.Limits) *Response {
	resp := base(nil, lim, "", 0)
	resp.Outcome = OutcomeValidationError
	resp.Error = verr
	resp.Diagnostic = verr.Error()
	return resp
}

func base(m *model.Model, lim solver.Limits, solverName string, computeSeconds float64) *Response {
	resp := &Response{
		Version: SchemaVersion,
		Limits: Limits{
			TimeLimitSeconds:     lim.TimeLimit.Seconds(),
			RelativeGapTolerance: lim.RelativeGap,
		},
		Metadata: Metadata{
			Timestamp:      time.Now().UTC(),
			Solver:         solverName,
			ComputeSeconds: computeSeconds,
		},
	}
	if m != nil {
		resp.Model = Summary{
			Variables:   m.NumVars(),
			Constraints: len(m.Constraints),
			Integral:    m.HasIntegral(),
		}
	}
	return resp
}

// conform rounds and clamps a dense solution vector so every value
// respects its variable's declared domain, then keys it by identifier.
func conform(m *model.Model, x []float64) (map[string]float64, error) {
	if len(x) != m.NumVars() {
		return nil, fmt.Errorf("assignment has %d values for %d variables", len(x), m.NumVars())
	}
	out := make([]float64, len(x))
	for i, v := range m.Variables {
		val := x[i]
		if v.IsIntegral() {
			r := math.Round(val)
			if math.Abs(val-r) > integralityTol {
				return nil, fmt.Errorf("variable %s: value %v deviates from integrality beyond tolerance", v.ID, val)
			}
			val = r
		}
		// Clamp tolerance-level bound overshoot from the numerics.
		if val < v.Lower && v.Lower-val <= integralityTol {
			val = v.Lower
		}
		if val > v.Upper && val-v.Upper <= integralityTol {
			val = v.Upper
		}
		out[i] = val
	}
	return m.Assignment(out), nil
}
