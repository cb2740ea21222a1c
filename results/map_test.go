package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optigo-xyz/go-optigo/model"
	"github.com/optigo-xyz/go-optigo/solver"
)

func f(v float64) *float64 { return &v }

func mipModel(t *testing.T) *model.Model {
	t.Helper()
	m, verr := model.Build(&model.Description{
		Variables: []model.VariableDesc{
			{ID: "x", Domain: "integer", Lower: f(0), Upper: f(10)},
			{ID: "y", Lower: f(0), Upper: f(10)},
		},
		Constraints: []model.ConstraintDesc{
			{Terms: []model.TermDesc{{ID: "x", Coeff: 1}, {ID: "y", Coeff: 1}}, Op: "<=", RHS: 10},
		},
		Objective: &model.ObjectiveDesc{
			Direction: "maximize",
			Terms:     []model.TermDesc{{ID: "x", Coeff: 1}, {ID: "y", Coeff: 1}},
		},
	})
	require.Nil(t, verr)
	return m
}

func TestMapOptimal(t *testing.T) {
	m := mipModel(t)
	out := solver.Outcome{
		Tag:        solver.TagOptimal,
		Objective:  10,
		Assignment: []float64{3.0000000004, 7},
	}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 0.25)

	assert.Equal(t, SchemaVersion, resp.Version)
	assert.Equal(t, "optimal", resp.Outcome)
	require.NotNil(t, resp.ObjectiveValue)
	assert.Equal(t, 10.0, *resp.ObjectiveValue)
	// Integer variables are rounded when the drift is within tolerance.
	assert.Equal(t, 3.0, resp.Assignment["x"])
	assert.Equal(t, 7.0, resp.Assignment["y"])
	assert.Equal(t, "simplex+bnb", resp.Metadata.Solver)
	assert.Equal(t, 0.25, resp.Metadata.ComputeSeconds)
	assert.Equal(t, 2, resp.Model.Variables)
	assert.Equal(t, 1, resp.Model.Constraints)
	assert.True(t, resp.Model.Integral)
}

func TestMapEscalatesIntegralityViolation(t *testing.T) {
	m := mipModel(t)
	out := solver.Outcome{
		Tag:        solver.TagOptimal,
		Objective:  10,
		Assignment: []float64{3.4, 6.6},
	}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 0)

	assert.Equal(t, "numerical_failure", resp.Outcome)
	assert.Nil(t, resp.ObjectiveValue)
	assert.Nil(t, resp.Assignment)
	assert.Contains(t, resp.Diagnostic, "x")
}

func TestMapClampsBoundOvershoot(t *testing.T) {
	m := mipModel(t)
	out := solver.Outcome{
		Tag:        solver.TagOptimal,
		Objective:  10,
		Assignment: []float64{10, -1e-9},
	}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 0)

	assert.Equal(t, "optimal", resp.Outcome)
	assert.Equal(t, 0.0, resp.Assignment["y"])
}

func TestMapTimedOutWithIncumbent(t *testing.T) {
	m := mipModel(t)
	bound := 10.5
	out := solver.Outcome{
		Tag:        solver.TagTimedOut,
		Objective:  9,
		Assignment: []float64{3, 6},
		BestBound:  &bound,
	}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 30)

	assert.Equal(t, "timed_out", resp.Outcome)
	require.NotNil(t, resp.ObjectiveValue)
	assert.Equal(t, 9.0, *resp.ObjectiveValue)
	require.NotNil(t, resp.BestBound)
	assert.Equal(t, 10.5, *resp.BestBound)
	assert.NotEmpty(t, resp.Diagnostic)
}

func TestMapTimedOutWithoutIncumbent(t *testing.T) {
	m := mipModel(t)
	out := solver.Outcome{Tag: solver.TagTimedOut}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 30)

	assert.Equal(t, "timed_out", resp.Outcome)
	assert.Nil(t, resp.ObjectiveValue)
	assert.Nil(t, resp.Assignment)
}

func TestMapTimedOutDropsBadIncumbent(t *testing.T) {
	m := mipModel(t)
	out := solver.Outcome{
		Tag:        solver.TagTimedOut,
		Objective:  9,
		Assignment: []float64{3.5, 5.5},
	}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 30)

	assert.Equal(t, "timed_out", resp.Outcome)
	assert.Nil(t, resp.ObjectiveValue)
	assert.Nil(t, resp.Assignment)
}

func TestMapInfeasibleAndUnbounded(t *testing.T) {
	m := mipModel(t)

	resp := Map(solver.Outcome{Tag: solver.TagInfeasible}, m, solver.DefaultLimits(), "simplex+bnb", 0)
	assert.Equal(t, "infeasible", resp.Outcome)
	assert.Nil(t, resp.ObjectiveValue)
	assert.NotEmpty(t, resp.Diagnostic)

	resp = Map(solver.Outcome{Tag: solver.TagUnbounded}, m, solver.DefaultLimits(), "simplex+bnb", 0)
	assert.Equal(t, "unbounded", resp.Outcome)
	assert.Nil(t, resp.ObjectiveValue)
	assert.NotEmpty(t, resp.Diagnostic)
}

func TestMapNumericalFailureReason(t *testing.T) {
	m := mipModel(t)
	out := solver.Outcome{Tag: solver.TagNumericalFailure, Reason: "unrecognized solver status: status(99)"}

	resp := Map(out, m, solver.DefaultLimits(), "simplex+bnb", 0)

	assert.Equal(t, "numerical_failure", resp.Outcome)
	assert.Equal(t, "unrecognized solver status: status(99)", resp.Diagnostic)
}

func TestInvalid(t *testing.T) {
	verr := &model.ValidationError{Field: "constraint.z", Reason: "references undeclared variable"}

	resp := Invalid(verr, solver.DefaultLimits())

	assert.Equal(t, OutcomeValidationError, resp.Outcome)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "constraint.z", resp.Error.Field)
	assert.Equal(t, 0, resp.Model.Variables)
	assert.Equal(t, 30.0, resp.Limits.TimeLimitSeconds)
	assert.NotEmpty(t, resp.Diagnostic)
}
