package solver

// Bounds brackets the best rate reachable from a search state.
// UB is the LP relaxation, LB the rate of a feasible integer completion.
type Bounds struct {
	UB float64
	LB int
}

// Bound runs the greedy relaxation restricted to channels start..N-1 with
// the given budget. Points of earlier channels are skipped during the scan.
// ok is false when the first hull points of the remaining channels do not
// fit, in which case the sub-problem has no feasible completion.
func (r Ranking) Bound(start, budget int) (b Bounds, ok bool) {
	n := r.N()
	if start >= n {
		return Bounds{}, budget >= 0
	}
	if start < 0 {
		start = 0
	}
	if r.baseSuffix[start] > budget {
		return Bounds{}, false
	}
	rate := 0
	i := 0
	for ; i < len(r.Terms); i++ {
		t := r.Terms[i]
		if t.Channel < start {
			continue
		}
		if t.IncPower > budget {
			break
		}
		budget -= t.IncPower
		rate += t.IncRate
	}
	b = Bounds{UB: float64(rate), LB: rate}
	if budget > 0 && i < len(r.Terms) {
		t := r.Terms[i]
		b.UB += float64(budget) / float64(t.IncPower) * float64(t.IncRate)
	}
	return b, true
}
