package ai

import (
	"container/heap"
	"math"
)

// maxExpansions bounds the search; domains are a handful of predicates so
// real plans are found long before this.
const maxExpansions = 4096

// Plan returns the cheapest sequence of actions leading from start to a
// state that satisfies goal, and its total weight. weight is consulted once
// per action per call; a nil weight uses each action's Cost. Actions whose
// weight is negative, NaN or infinite are skipped.
//
// Postcondition: ok is false when no plan exists; an already satisfied goal
// yields an empty, non-nil plan.
func Plan(start, goal WorldState, actions []*Action, weight func(*Action) float64) (plan []*Action, total float64, ok bool) {
	weights := make(map[*Action]float64, len(actions))
	for _, a := range actions {
		w := a.Cost
		if weight != nil {
			w = weight(a)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		weights[a] = w
	}

	open := &frontier{{state: start, path: []*Action{}}}
	best := map[string]float64{start.Key(): 0}
	pushed := 0
	for expanded := 0; open.Len() > 0 && expanded < maxExpansions; expanded++ {
		n := heap.Pop(open).(*node)
		if n.state.Satisfies(goal) {
			return n.path, n.cost, true
		}
		if c, seen := best[n.state.Key()]; seen && c < n.cost {
			continue
		}
		for _, a := range actions {
			w, usable := weights[a]
			if !usable || !n.state.Satisfies(a.Pre) {
				continue
			}
			next := n.state.Apply(a.Effects)
			cost := n.cost + w
			key := next.Key()
			if c, seen := best[key]; seen && c <= cost {
				continue
			}
			best[key] = cost
			path := make([]*Action, len(n.path), len(n.path)+1)
			copy(path, n.path)
			pushed++
			heap.Push(open, &node{state: next, cost: cost, path: append(path, a), seq: pushed})
		}
	}
	return nil, 0, false
}

type node struct {
	state WorldState
	cost  float64
	path  []*Action
	seq   int
}

// frontier is a min-heap of nodes by cost; equal costs prefer shorter paths,
// then earlier insertion.
type frontier []*node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	if len(f[i].path) != len(f[j].path) {
		return len(f[i].path) < len(f[j].path)
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*node)) }

func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return n
}
