package solver

import "time"

// Limits bounds the resources of a single solve call.
type Limits struct {
	// TimeLimit caps wall-clock solving time. The solve returns a
	// timed-out outcome once it is exceeded.
	TimeLimit time.Duration

	// RelativeGap is the acceptable relative optimality gap for integer
	// models. Branch and bound stops as soon as the incumbent is proven
	// within this fraction of the best open bound.
	RelativeGap float64
}

// DefaultLimits returns the limits applied when a request supplies none.
func DefaultLimits() Limits {
	return Limits{
		TimeLimit:   30 * time.Second,
		RelativeGap: 1e-6,
	}
}

// withDefaults fills zero fields from the defaults.
func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.TimeLimit <= 0 {
		l.TimeLimit = def.TimeLimit
	}
	if l.RelativeGap <= 0 {
		l.RelativeGap = def.RelativeGap
	}
	return l
}
