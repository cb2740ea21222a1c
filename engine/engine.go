// Package engine orchestrates one solve request end to end: parse and
// validate the description, run the solver within its limits, and map
// the outcome into a response. The engine holds no cross-request state;
// every request is independent.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optigo-xyz/go-optigo/history"
	"github.com/optigo-xyz/go-optigo/model"
	"github.com/optigo-xyz/go-optigo/results"
	"github.com/optigo-xyz/go-optigo/solver"
)

// DefaultMaxDescriptionBytes caps the size of an incoming description.
const DefaultMaxDescriptionBytes = 1 << 20

// budgetMargin is the extra wall time granted on top of the solve time
// limit to cover build and map overhead. The whole request is cut off at
// limit + margin.
const budgetMargin = 2 * time.Second

// Engine sequences builder → solver → mapper for each request.
type Engine struct {
	solver   solver.Interface
	defaults solver.Limits
	store    history.Store
	log      zerolog.Logger
	maxBytes int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaults sets the process-wide default solve limits.
func WithDefaults(lim solver.Limits) Option {
	return func(e *Engine) { e.defaults = lim }
}

// WithHistory records every handled request in the given store.
func WithHistory(store history.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithLogger sets the structured logger. The default discards logs.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMaxDescriptionBytes overrides the description size cap.
func WithMaxDescriptionBytes(n int) Option {
	return func(e *Engine) { e.maxBytes = n }
}

// New creates an Engine on top of a solving capability.
func New(s solver.Interface, opts ...Option) *Engine {
	e := &Engine{
		solver:   s,
		defaults: solver.DefaultLimits(),
		log:      zerolog.Nop(),
		maxBytes: DefaultMaxDescriptionBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Defaults returns the process-wide default solve limits.
func (e *Engine) Defaults() solver.Limits { return e.defaults }

// Handle processes one raw problem description and returns exactly one
// response. An optional limits override takes precedence over limits in
// the description body; both fall back to the process defaults. A
// validation failure short-circuits before any solver handle is acquired.
func (e *Engine) Handle(ctx context.Context, raw []byte, override *solver.Limits) *results.Response {
	start := time.Now()
	reqID := uuid.New().String()

	if len(raw) > e.maxBytes {
		verr := &model.ValidationError{
			Field:  "body",
			Reason: fmt.Sprintf("description exceeds %d bytes", e.maxBytes),
		}
		return e.finish(ctx, reqID, nil, results.Invalid(verr, e.defaults), start)
	}

	desc, err := model.FromJSON(raw)
	if err != nil {
		verr := &model.ValidationError{Field: "body", Reason: err.Error()}
		return e.finish(ctx, reqID, raw, results.Invalid(verr, e.defaults), start)
	}

	lim, verr := e.mergeLimits(desc.Limits, override)
	if verr != nil {
		return e.finish(ctx, reqID, raw, results.Invalid(verr, lim), start)
	}

	m, verr := model.Build(desc)
	if verr != nil {
		return e.finish(ctx, reqID, raw, results.Invalid(verr, lim), start)
	}

	// Request-level budget: the solver's own time limit plus a fixed
	// margin for build and map overhead.
	solveCtx, cancel := context.WithTimeout(ctx, lim.TimeLimit+budgetMargin)
	defer cancel()

	out := e.solver.Solve(solveCtx, m, lim)
	resp := results.Map(out, m, lim, e.solver.Name(), time.Since(start).Seconds())
	return e.finish(ctx, reqID, raw, resp, start)
}

// mergeLimits resolves per-request limits against the process defaults.
func (e *Engine) mergeLimits(desc *model.LimitsDesc, override *solver.Limits) (solver.Limits, *model.ValidationError) {
	lim := e.defaults
	if desc != nil {
		if desc.TimeLimitSeconds != nil {
			sec := *desc.TimeLimitSeconds
			if sec != sec || sec <= 0 { // NaN or non-positive
				return lim, &model.ValidationError{
					Field:  "limits.timeLimitSeconds",
					Reason: "must be a positive number of seconds",
				}
			}
			lim.TimeLimit = time.Duration(sec * float64(time.Second))
		}
		if desc.RelativeGapTolerance != nil {
			gap := *desc.RelativeGapTolerance
			if gap != gap || gap < 0 {
				return lim, &model.ValidationError{
					Field:  "limits.relativeGapTolerance",
					Reason: "must be a non-negative number",
				}
			}
			lim.RelativeGap = gap
		}
	}
	if override != nil {
		if override.TimeLimit > 0 {
			lim.TimeLimit = override.TimeLimit
		}
		if override.RelativeGap > 0 {
			lim.RelativeGap = override.RelativeGap
		}
	}
	return lim, nil
}

// finish logs the request and records it in the history store, if any.
func (e *Engine) finish(ctx context.Context, reqID string, raw []byte, resp *results.Response, start time.Time) *results.Response {
	elapsed := time.Since(start)
	e.log.Info().
		Str("request", reqID).
		Str("outcome", resp.Outcome).
		Dur("elapsed", elapsed).
		Msg("solve handled")

	if e.store != nil {
		rec := history.Record{
			ID:             reqID,
			Timestamp:      start.UTC(),
			Outcome:        resp.Outcome,
			ObjectiveValue: resp.ObjectiveValue,
			ComputeSeconds: elapsed.Seconds(),
			Description:    raw,
		}
		if err := e.store.Append(context.WithoutCancel(ctx), rec); err != nil {
			e.log.Warn().Str("request", reqID).Err(err).Msg("history append failed")
		}
	}
	return resp
}
