// Package model defines the canonical optimization model and builds it
// from untrusted problem descriptions.
package model

import (
	"fmt"
	"math"
)

// Domain is the value domain of a decision variable.
type Domain int

const (
	// Continuous variables take any real value within their bounds.
	Continuous Domain = iota
	// Integer variables take integral values within their bounds.
	Integer
	// Binary variables take the values 0 or 1.
	Binary
)

// String returns the wire name of the domain.
func (d Domain) String() string {
	switch d {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("domain(%d)", int(d))
}

// Op is the relational operator of a constraint.
type Op int

const (
	// LE is the ≤ relation.
	LE Op = iota
	// EQ is the = relation.
	EQ
	// GE is the ≥ relation.
	GE
)

// String returns the wire name of the operator.
func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Variable is a decision variable of the canonical model.
// Bounds may be ±Inf to mark an unbounded direction.
// Variables are created during Build and immutable thereafter.
type Variable struct {
	ID     string  `json:"id"`
	Domain Domain  `json:"-"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// IsIntegral reports whether the variable carries an integrality requirement.
func (v Variable) IsIntegral() bool {
	return v.Domain == Integer || v.Domain == Binary
}

// Term is one (variable, coefficient) entry of a linear expression.
// Var is the column index of the variable in the model's declaration order.
type Term struct {
	Var   int
	Coeff float64
}

// Constraint is one linear constraint of the canonical model.
type Constraint struct {
	Terms []Term
	Op    Op
	RHS   float64
}

// Eval computes the left-hand-side value of the constraint for a dense
// solution vector indexed like Model.Variables.
func (c Constraint) Eval(x []float64) float64 {
	lhs := 0.0
	for _, t := range c.Terms {
		lhs += t.Coeff * x[t.Var]
	}
	return lhs
}

// Satisfied reports whether the constraint holds for x within tol.
func (c Constraint) Satisfied(x []float64, tol float64) bool {
	lhs := c.Eval(x)
	switch c.Op {
	case LE:
		return lhs <= c.RHS+tol
	case EQ:
		return math.Abs(lhs-c.RHS) <= tol
	case GE:
		return lhs >= c.RHS-tol
	}
	return false
}

// Objective is the single objective of the canonical model.
type Objective struct {
	Terms    []Term
	Maximize bool
}

// Eval computes the objective value for a dense solution vector.
func (o Objective) Eval(x []float64) float64 {
	v := 0.0
	for _, t := range o.Terms {
		v += t.Coeff * x[t.Var]
	}
	return v
}

// Model is the validated canonical optimization problem. Variables are
// indexed 0..n-1 in first-declaration order; that order is the contract
// for solver columns and for presenting the assignment back to callers.
// A Model is owned by a single request and never mutated after Build.
type Model struct {
	Variables   []Variable
	Constraints []Constraint
	Objective   Objective

	index map[string]int
}

// NumVars returns the number of decision variables.
func (m *Model) NumVars() int { return len(m.Variables) }

// Index returns the column index of a variable identifier.
func (m *Model) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// HasIntegral reports whether any variable carries an integrality requirement.
func (m *Model) HasIntegral() bool {
	for _, v := range m.Variables {
		if v.IsIntegral() {
			return true
		}
	}
	return false
}

// Assignment converts a dense solution vector into an identifier-keyed map.
func (m *Model) Assignment(x []float64) map[string]float64 {
	out := make(map[string]float64, len(m.Variables))
	for i, v := range m.Variables {
		out[v.ID] = x[i]
	}
	return out
}
