// Package solver adapts canonical optimization models to an LP/MIP
// solving capability. Continuous models go straight to the simplex;
// models with integer or binary variables get branch and bound over
// simplex relaxations. Every solve is bounded by its limits, cancellable,
// and reports exactly one outcome tag.
package solver

import (
	"context"
	"time"

	"github.com/optigo-xyz/go-optigo/model"
)

// Name identifies the solving capability in response metadata.
const Name = "simplex+bnb"

// Interface is the narrow surface the orchestrator depends on, so the
// underlying capability can be swapped or mocked.
type Interface interface {
	// Solve computes an outcome for the model within the given limits.
	// The model is borrowed read-only for the duration of the call.
	Solve(ctx context.Context, m *model.Model, lim Limits) Outcome

	// Name identifies the capability.
	Name() string
}

// Solver is the production implementation of Interface. It owns a pool
// of solver handles; each solve call holds exactly one handle from
// acquisition to return, including error and cancellation paths.
type Solver struct {
	pool *pool
}

// New creates a Solver with a handle pool of the given size. A size of
// zero or less uses one handle per CPU.
func New(poolSize int) *Solver {
	return &Solver{pool: newPool(poolSize)}
}

// Name implements Interface.
func (s *Solver) Name() string { return Name }

// Solve implements Interface. Failure never escapes as an unstructured
// error: timeouts, infeasibility, unboundedness and numerical breakdown
// all come back as outcome tags.
func (s *Solver) Solve(ctx context.Context, m *model.Model, lim Limits) Outcome {
	lim = lim.withDefaults()

	h, err := s.pool.acquire(ctx)
	if err != nil {
		// Cancelled while waiting for a handle; nothing was acquired.
		return mapOutcome(rawResult{status: ModelStatusCancelled})
	}
	defer s.pool.release(h)

	return mapOutcome(s.solveRaw(ctx, m, lim))
}

func (s *Solver) solveRaw(ctx context.Context, m *model.Model, lim Limits) rawResult {
	if ctx.Err() != nil {
		return rawResult{status: ModelStatusCancelled}
	}

	if m.HasIntegral() {
		return solveMIP(ctx, m, lim)
	}
	return solveLP(ctx, m, lim)
}

// solveLP handles purely continuous models with a single relaxation.
func solveLP(ctx context.Context, m *model.Model, lim Limits) rawResult {
	deadline := time.Now().Add(lim.TimeLimit)

	rel := solveRelaxation(m, nil)
	switch rel.status {
	case relaxInfeasible:
		return rawResult{status: ModelStatusInfeasible}
	case relaxUnbounded:
		return rawResult{status: ModelStatusUnbounded}
	case relaxError:
		return rawResult{status: ModelStatusNumericalError, reason: rel.reason}
	}

	if ctx.Err() != nil {
		// The caller went away while the simplex ran; the result is
		// complete but nobody asked for it anymore.
		return rawResult{status: ModelStatusCancelled, objective: rel.objective, x: rel.x}
	}
	if time.Now().After(deadline) {
		// The simplex overran the budget. The point it found is still a
		// feasible incumbent, so report it with the timed-out status.
		bound := rel.objective
		return rawResult{status: ModelStatusTimeLimit, objective: rel.objective, x: rel.x, bound: &bound}
	}

	return rawResult{status: ModelStatusOptimal, objective: rel.objective, x: rel.x}
}
