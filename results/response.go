// Package results defines the structured client-facing response and maps
// solve outcomes into it.
package results

import (
	"time"

	"github.com/optigo-xyz/go-optigo/model"
)

const SchemaVersion = "1.0.0"

// OutcomeValidationError is the outcome value of responses rejected
// before any solver invocation. The five solve tags use their wire names
// from the solver package.
const OutcomeValidationError = "validation_error"

// Response is the complete reply for one solve request.
type Response struct {
	Version string `json:"version"`

	// Outcome is the result kind: optimal, infeasible, unbounded,
	// timed_out, numerical_failure or validation_error.
	Outcome string `json:"outcome"`

	// ObjectiveValue is set when an assignment is present.
	ObjectiveValue *float64 `json:"objectiveValue,omitempty"`

	// Assignment maps each variable identifier to its solved value.
	// Present for optimal outcomes and for timed-out outcomes that found
	// a feasible incumbent.
	Assignment map[string]float64 `json:"assignment,omitempty"`

	// BestBound is the best proven bound on the objective, when known.
	BestBound *float64 `json:"bestBound,omitempty"`

	// Diagnostic explains non-optimal outcomes in one line.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Error carries the validation failure for validation_error outcomes.
	Error *model.ValidationError `json:"error,omitempty"`

	Model    Summary  `json:"model"`
	Limits   Limits   `json:"limits"`
	Metadata Metadata `json:"metadata"`
}

// Summary describes the size and shape of the solved model.
type Summary struct {
	Variables   int  `json:"variables"`
	Constraints int  `json:"constraints"`
	Integral    bool `json:"integral"`
}

// Limits echoes the solve limits that were applied.
type Limits struct {
	TimeLimitSeconds     float64 `json:"timeLimitSeconds"`
	RelativeGapTolerance float64 `json:"relativeGapTolerance"`
}

// Metadata records execution information for the solve.
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	Solver         string    `json:"solver,omitempty"`
	ComputeSeconds float64   `json:"computeSeconds"`
}
