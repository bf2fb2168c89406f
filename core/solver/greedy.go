package solver

import (
	"fmt"

	"github.com/kilianp07/mckp/core/model"
)

// SolveGreedy solves the LP relaxation by walking the efficiency ranking.
// Each accepted point replaces the previous choice of its channel. The first
// point that does not fit is taken fractionally with the remaining budget,
// so at most one channel is split between two adjacent hull points.
// The returned rate is an upper bound of the integer optimum.
func SolveGreedy(inst *model.Instance) (model.Solution, error) {
	r, err := Rank(inst)
	if err != nil {
		return model.Solution{}, err
	}
	return greedy(r, inst.Budget)
}

func greedy(r Ranking, budget int) (model.Solution, error) {
	n := r.N()
	chosen := make([]*RankedTerm, n)
	var rate float64
	i := 0
	for ; i < len(r.Terms) && r.Terms[i].IncPower <= budget; i++ {
		t := &r.Terms[i]
		budget -= t.IncPower
		rate += float64(t.IncRate)
		chosen[t.Channel] = t
	}
	for c, t := range chosen {
		if t == nil {
			return model.Solution{}, fmt.Errorf("%w: channel %d has no affordable term", model.ErrInfeasible, c)
		}
	}

	choices := make([][]model.Selection, n)
	for c, t := range chosen {
		choices[c] = []model.Selection{{Term: t.Term, Fraction: 1}}
	}
	if budget > 0 && i < len(r.Terms) {
		next := r.Terms[i]
		x := float64(budget) / float64(next.IncPower)
		rate += x * float64(next.IncRate)
		prev := chosen[next.Channel]
		choices[next.Channel] = []model.Selection{
			{Term: prev.Term, Fraction: 1 - x},
			{Term: next.Term, Fraction: x},
		}
	}
	return model.Solution{Rate: rate, Choices: choices}, nil
}
