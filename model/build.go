package model

import (
	"fmt"
	"math"
)

// ValidationError describes the first rule violation found in a problem
// description. Field names the offending element, Reason says what is
// wrong with it. It is the only failure Build ever reports.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Build validates a Description and constructs the canonical Model.
// Rules are applied in a fixed order and the first violation wins, so
// running Build twice on the same description yields the same Model or
// the same ValidationError. Build is pure: no solver resource is touched.
func Build(desc *Description) (*Model, *ValidationError) {
	if desc == nil || len(desc.Variables) == 0 {
		return nil, invalid("variables", "model declares no variables")
	}

	// Rule 2: unique, non-empty identifiers with a recognized domain.
	index := make(map[string]int, len(desc.Variables))
	vars := make([]Variable, 0, len(desc.Variables))
	for i, vd := range desc.Variables {
		if vd.ID == "" {
			return nil, invalid(fmt.Sprintf("variable[%d].id", i), "empty identifier")
		}
		if _, dup := index[vd.ID]; dup {
			return nil, invalid("variable."+vd.ID, "duplicate identifier")
		}
		dom, ok := parseDomain(vd.Domain)
		if !ok {
			return nil, invalid("variable."+vd.ID+".domain",
				fmt.Sprintf("unrecognized domain %q", vd.Domain))
		}
		index[vd.ID] = len(vars)
		vars = append(vars, Variable{ID: vd.ID, Domain: dom})
	}

	// Rule 3: every bound, coefficient and right-hand side is finite.
	for i := range desc.Variables {
		vd := desc.Variables[i]
		if vd.Lower != nil && !isFinite(*vd.Lower) {
			return nil, invalid("variable."+vd.ID+".lower", "bound is not a finite number")
		}
		if vd.Upper != nil && !isFinite(*vd.Upper) {
			return nil, invalid("variable."+vd.ID+".upper", "bound is not a finite number")
		}
	}
	for i, cd := range desc.Constraints {
		for _, td := range cd.Terms {
			if !isFinite(td.Coeff) {
				return nil, invalid("constraint."+td.ID, "coefficient is not a finite number")
			}
		}
		if !isFinite(cd.RHS) {
			return nil, invalid(fmt.Sprintf("constraint[%d].rhs", i), "right-hand side is not a finite number")
		}
	}
	if desc.Objective != nil {
		for _, td := range desc.Objective.Terms {
			if !isFinite(td.Coeff) {
				return nil, invalid("objective."+td.ID, "coefficient is not a finite number")
			}
		}
	}

	// Rule 4: lower ≤ upper when both are finite. Binary variables get
	// their declared bounds intersected with [0, 1] first.
	for i := range vars {
		vd := desc.Variables[i]
		lo, hi := math.Inf(-1), math.Inf(1)
		if vd.Lower != nil {
			lo = *vd.Lower
		}
		if vd.Upper != nil {
			hi = *vd.Upper
		}
		if vars[i].Domain == Binary {
			lo = math.Max(lo, 0)
			hi = math.Min(hi, 1)
		}
		if lo > hi {
			return nil, invalid("variable."+vars[i].ID, "lower bound exceeds upper bound")
		}
		vars[i].Lower = lo
		vars[i].Upper = hi
	}

	// Rule 5: constraints and objective reference only declared variables.
	cons := make([]Constraint, 0, len(desc.Constraints))
	for i, cd := range desc.Constraints {
		op, ok := parseOp(cd.Op)
		if !ok {
			return nil, invalid(fmt.Sprintf("constraint[%d].op", i),
				fmt.Sprintf("unrecognized operator %q", cd.Op))
		}
		terms := make([]Term, 0, len(cd.Terms))
		for _, td := range cd.Terms {
			col, declared := index[td.ID]
			if !declared {
				return nil, invalid("constraint."+td.ID, "reference to undeclared variable")
			}
			terms = append(terms, Term{Var: col, Coeff: td.Coeff})
		}
		cons = append(cons, Constraint{Terms: terms, Op: op, RHS: cd.RHS})
	}

	// Rule 6: exactly one objective with a recognized direction.
	if desc.Objective == nil {
		return nil, invalid("objective", "model declares no objective")
	}
	maximize, ok := parseDirection(desc.Objective.Direction)
	if !ok {
		return nil, invalid("objective.direction",
			fmt.Sprintf("unrecognized direction %q", desc.Objective.Direction))
	}
	objTerms := make([]Term, 0, len(desc.Objective.Terms))
	for _, td := range desc.Objective.Terms {
		col, declared := index[td.ID]
		if !declared {
			return nil, invalid("objective."+td.ID, "reference to undeclared variable")
		}
		objTerms = append(objTerms, Term{Var: col, Coeff: td.Coeff})
	}

	return &Model{
		Variables:   vars,
		Constraints: cons,
		Objective:   Objective{Terms: objTerms, Maximize: maximize},
		index:       index,
	}, nil
}

func parseDomain(s string) (Domain, bool) {
	switch s {
	case "", "continuous":
		return Continuous, true
	case "integer":
		return Integer, true
	case "binary":
		return Binary, true
	}
	return Continuous, false
}

func parseOp(s string) (Op, bool) {
	switch s {
	case "<=", "le":
		return LE, true
	case "=", "==", "eq":
		return EQ, true
	case ">=", "ge":
		return GE, true
	}
	return LE, false
}

func parseDirection(s string) (maximize, ok bool) {
	switch s {
	case "minimize", "min":
		return false, true
	case "maximize", "max":
		return true, true
	}
	return false, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
