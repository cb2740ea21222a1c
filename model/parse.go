package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Description is the untrusted problem description as it arrives from the
// wire. Values are carried through as found; semantic checks happen in Build.
// Numeric fields that could not be read as numbers are recorded as NaN so
// that Build rejects them with the offending field name.
type Description struct {
	Variables   []VariableDesc
	Constraints []ConstraintDesc
	Objective   *ObjectiveDesc
	Limits      *LimitsDesc
}

// VariableDesc is one variable declaration of a Description.
// A nil bound means unbounded in that direction.
type VariableDesc struct {
	ID     string
	Domain string
	Lower  *float64
	Upper  *float64
}

// TermDesc is one (identifier, coefficient) pair of a Description.
type TermDesc struct {
	ID    string
	Coeff float64
}

// ConstraintDesc is one constraint of a Description.
type ConstraintDesc struct {
	Terms []TermDesc
	Op    string
	RHS   float64
}

// ObjectiveDesc is the objective of a Description.
type ObjectiveDesc struct {
	Terms     []TermDesc
	Direction string
}

// LimitsDesc carries per-request solve limits when the caller supplies them.
type LimitsDesc struct {
	TimeLimitSeconds     *float64
	RelativeGapTolerance *float64
}

// FromJSON parses a problem description from JSON bytes. The format:
//
//	{
//	  "variables": [
//	    {"id": "x", "domain": "continuous", "lower": 0, "upper": 10}
//	  ],
//	  "constraints": [
//	    {"terms": [{"id": "x", "coeff": 1}], "op": "<=", "rhs": 10}
//	  ],
//	  "objective": {"direction": "maximize", "terms": [{"id": "x", "coeff": 1}]},
//	  "limits": {"timeLimitSeconds": 5, "relativeGapTolerance": 1e-4}
//	}
//
// Only structural JSON errors are reported here; everything else is
// deferred to Build so the caller gets a ValidationError naming the field.
func FromJSON(data []byte) (*Description, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("JSON root must be an object")
	}

	desc := &Description{}

	if varsRaw, found := m["variables"]; found {
		if varsSlice, ok := varsRaw.([]interface{}); ok {
			for _, vi := range varsSlice {
				vd := VariableDesc{}
				if vmap, ok := vi.(map[string]interface{}); ok {
					if s, ok := vmap["id"].(string); ok {
						vd.ID = s
					}
					if s, ok := vmap["domain"].(string); ok {
						vd.Domain = s
					}
					if v, found := vmap["lower"]; found {
						f := asFloatOrNaN(v)
						vd.Lower = &f
					}
					if v, found := vmap["upper"]; found {
						f := asFloatOrNaN(v)
						vd.Upper = &f
					}
				}
				desc.Variables = append(desc.Variables, vd)
			}
		}
	}

	if consRaw, found := m["constraints"]; found {
		if consSlice, ok := consRaw.([]interface{}); ok {
			for _, ci := range consSlice {
				cd := ConstraintDesc{RHS: math.NaN()}
				if cmap, ok := ci.(map[string]interface{}); ok {
					if s, ok := cmap["op"].(string); ok {
						cd.Op = s
					}
					if v, found := cmap["rhs"]; found {
						cd.RHS = asFloatOrNaN(v)
					}
					cd.Terms = parseTerms(cmap["terms"])
				}
				desc.Constraints = append(desc.Constraints, cd)
			}
		}
	}

	if objRaw, found := m["objective"]; found {
		if omap, ok := objRaw.(map[string]interface{}); ok {
			od := &ObjectiveDesc{}
			if s, ok := omap["direction"].(string); ok {
				od.Direction = s
			}
			od.Terms = parseTerms(omap["terms"])
			desc.Objective = od
		}
	}

	if limRaw, found := m["limits"]; found {
		if lmap, ok := limRaw.(map[string]interface{}); ok {
			ld := &LimitsDesc{}
			if v, found := lmap["timeLimitSeconds"]; found {
				f := asFloatOrNaN(v)
				ld.TimeLimitSeconds = &f
			}
			if v, found := lmap["relativeGapTolerance"]; found {
				f := asFloatOrNaN(v)
				ld.RelativeGapTolerance = &f
			}
			desc.Limits = ld
		}
	}

	return desc, nil
}

func parseTerms(raw interface{}) []TermDesc {
	slice, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	terms := make([]TermDesc, 0, len(slice))
	for _, ti := range slice {
		td := TermDesc{Coeff: math.NaN()}
		if tmap, ok := ti.(map[string]interface{}); ok {
			if s, ok := tmap["id"].(string); ok {
				td.ID = s
			}
			if v, found := tmap["coeff"]; found {
				td.Coeff = asFloatOrNaN(v)
			}
		}
		terms = append(terms, td)
	}
	return terms
}

// asFloatOrNaN reads a JSON value as a float64, returning NaN for anything
// that is not a number. NaN then fails the finiteness validation rule with
// the proper field attribution.
func asFloatOrNaN(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}
