package solver

import (
	"math"
	"sort"

	"github.com/kilianp07/mckp/core/model"
)

// RankedTerm is a hull point together with the marginal power, rate and
// efficiency of moving to it from the previous hull point of its channel.
type RankedTerm struct {
	model.Term
	IncPower int
	IncRate  int
	IncEff   float64
}

// Ranking is the global sequence of hull points sorted by decreasing
// incremental efficiency. It is computed once and shared by the greedy
// solver and the bounding oracle.
type Ranking struct {
	Terms []RankedTerm
	// baseSuffix[n] is the power of the first hull point of channels n..N-1.
	baseSuffix []int
}

// N returns the number of channels covered by the ranking.
func (r Ranking) N() int { return len(r.baseSuffix) - 1 }

// Rank derives incremental efficiencies from inst.Hull. The first point of
// every channel gets +Inf so that it is always taken before any upgrade.
// Ties are broken by channel then power, both ascending.
func Rank(inst *model.Instance) (Ranking, error) {
	if !inst.Preprocessed() {
		return Ranking{}, ErrNotPreprocessed
	}
	n := len(inst.Hull)
	r := Ranking{baseSuffix: make([]int, n+1)}
	for c := n - 1; c >= 0; c-- {
		r.baseSuffix[c] = r.baseSuffix[c+1] + inst.Hull[c][0].Power
	}
	for _, ch := range inst.Hull {
		for i, t := range ch {
			rt := RankedTerm{Term: t, IncPower: t.Power, IncRate: t.Rate, IncEff: math.Inf(1)}
			if i > 0 {
				prev := ch[i-1]
				rt.IncPower = t.Power - prev.Power
				rt.IncRate = t.Rate - prev.Rate
				rt.IncEff = float64(rt.IncRate) / float64(rt.IncPower)
			}
			r.Terms = append(r.Terms, rt)
		}
	}
	sort.SliceStable(r.Terms, func(i, j int) bool {
		a, b := r.Terms[i], r.Terms[j]
		if a.IncEff != b.IncEff {
			return a.IncEff > b.IncEff
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Power < b.Power
	})
	return r, nil
}
