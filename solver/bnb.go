package solver

import (
	"container/heap"
	"context"
	"math"
	"time"

	"github.com/optigo-xyz/go-optigo/model"
)

// intTol is how close a relaxation value must be to an integer for the
// integrality requirement to count as satisfied.
const intTol = 1e-6

// bnbNode is one open subproblem of the branch-and-bound tree.
type bnbNode struct {
	overrides map[int]bounds
	bound     float64 // minimize-sense relaxation objective
	x         []float64
}

// nodeQueue is a best-first priority queue over open subproblems: the
// node with the lowest bound is explored next, so the heap top is always
// the best proven bound on the remaining search.
type nodeQueue []*bnbNode

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].bound < q[j].bound }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(*bnbNode)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}

// minSense folds an original-sense objective value into minimize sense so
// bounds compare uniformly regardless of the model's direction.
func minSense(m *model.Model, v float64) float64 {
	if m.Objective.Maximize {
		return -v
	}
	return v
}

// solveMIP runs branch and bound over simplex relaxations. Deadlines and
// cancellation are checked at node boundaries; a hit reports the best
// incumbent and bound found so far.
func solveMIP(ctx context.Context, m *model.Model, lim Limits) rawResult {
	deadline := time.Now().Add(lim.TimeLimit)

	root := solveRelaxation(m, nil)
	switch root.status {
	case relaxInfeasible:
		return rawResult{status: ModelStatusInfeasible}
	case relaxUnbounded:
		return rawResult{status: ModelStatusUnbounded}
	case relaxError:
		return rawResult{status: ModelStatusNumericalError, reason: root.reason}
	}
	if integral(m, root.x) {
		return rawResult{status: ModelStatusOptimal, objective: root.objective, x: root.x}
	}

	queue := &nodeQueue{}
	heap.Push(queue, &bnbNode{bound: minSense(m, root.objective), x: root.x})

	var incumbent *relaxation
	for queue.Len() > 0 {
		if interrupted, status := checkInterrupt(ctx, deadline); interrupted {
			return timedOutResult(m, status, incumbent, queue)
		}

		node := heap.Pop(queue).(*bnbNode)
		if incumbent != nil {
			inc := minSense(m, incumbent.objective)
			if node.bound >= inc-intTol {
				break // every open node is at least as bad as the incumbent
			}
			if relativeGap(inc, node.bound) <= lim.RelativeGap {
				break
			}
		}

		branchVar, ok := mostFractional(m, node.x)
		if !ok {
			// A node with an integral relaxation would have become the
			// incumbent when it was created; reaching it here means its
			// bound improved on the incumbent, so adopt it.
			better := relaxation{status: relaxOptimal, x: node.x, objective: unMinSense(m, node.bound)}
			incumbent = &better
			continue
		}

		v := node.x[branchVar]
		down := withOverride(node.overrides, branchVar, bounds{lo: math.Inf(-1), hi: math.Floor(v)})
		up := withOverride(node.overrides, branchVar, bounds{lo: math.Ceil(v), hi: math.Inf(1)})
		for _, child := range []map[int]bounds{down, up} {
			rel := solveRelaxation(m, child)
			switch rel.status {
			case relaxInfeasible:
				continue
			case relaxUnbounded:
				// Children are tighter than the bounded root; an
				// unbounded one signals numerical breakdown.
				return rawResult{status: ModelStatusNumericalError,
					reason: "relaxation unbounded below a bounded parent"}
			case relaxError:
				return rawResult{status: ModelStatusNumericalError, reason: rel.reason}
			}

			cb := minSense(m, rel.objective)
			if incumbent != nil && cb >= minSense(m, incumbent.objective)-intTol {
				continue
			}
			if integral(m, rel.x) {
				r := rel
				incumbent = &r
				continue
			}
			heap.Push(queue, &bnbNode{overrides: child, bound: cb, x: rel.x})
		}
	}

	if incumbent == nil {
		return rawResult{status: ModelStatusInfeasible}
	}
	return rawResult{status: ModelStatusOptimal, objective: incumbent.objective, x: incumbent.x}
}

func unMinSense(m *model.Model, v float64) float64 {
	if m.Objective.Maximize {
		return -v
	}
	return v
}

func checkInterrupt(ctx context.Context, deadline time.Time) (bool, ModelStatus) {
	if ctx.Err() != nil {
		return true, ModelStatusCancelled
	}
	if time.Now().After(deadline) {
		return true, ModelStatusTimeLimit
	}
	return false, ModelStatusNotSet
}

// timedOutResult packages whatever the interrupted search had: the
// incumbent if one exists, and the best proven bound from the frontier.
func timedOutResult(m *model.Model, status ModelStatus, incumbent *relaxation, queue *nodeQueue) rawResult {
	raw := rawResult{status: status}
	if incumbent != nil {
		raw.objective = incumbent.objective
		raw.x = incumbent.x
	}
	if queue.Len() > 0 {
		bound := unMinSense(m, (*queue)[0].bound)
		raw.bound = &bound
	} else if incumbent != nil {
		bound := incumbent.objective
		raw.bound = &bound
	}
	return raw
}

func relativeGap(incumbent, bound float64) float64 {
	return math.Abs(incumbent-bound) / math.Max(1, math.Abs(incumbent))
}

// integral reports whether x satisfies every integrality requirement.
func integral(m *model.Model, x []float64) bool {
	for i, v := range m.Variables {
		if v.IsIntegral() && math.Abs(x[i]-math.Round(x[i])) > intTol {
			return false
		}
	}
	return true
}

// mostFractional picks the integral variable whose relaxation value is
// farthest from an integer.
func mostFractional(m *model.Model, x []float64) (int, bool) {
	best, bestFrac := -1, intTol
	for i, v := range m.Variables {
		if !v.IsIntegral() {
			continue
		}
		frac := math.Abs(x[i] - math.Round(x[i]))
		if frac > bestFrac {
			best, bestFrac = i, frac
		}
	}
	return best, best >= 0
}

func withOverride(base map[int]bounds, v int, b bounds) map[int]bounds {
	child := make(map[int]bounds, len(base)+1)
	for k, bv := range base {
		child[k] = bv
	}
	if prev, found := child[v]; found {
		b.lo = math.Max(b.lo, prev.lo)
		b.hi = math.Min(b.hi, prev.hi)
	}
	child[v] = b
	return child
}
