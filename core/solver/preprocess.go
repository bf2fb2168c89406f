package solver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/mckp/core/model"
)

// ErrNotPreprocessed is returned by steps that need the LP-filtered hull.
var ErrNotPreprocessed = errors.New("instance not preprocessed")

// Preprocess removes impossible terms, then IP-dominated terms, then builds
// the LP-dominance hull. The instance is modified in place.
func Preprocess(inst *model.Instance) error {
	if err := RemoveImpossibleTerms(inst); err != nil {
		return err
	}
	if err := RemoveIPDominated(inst); err != nil {
		return err
	}
	return RemoveLPDominated(inst)
}

// TotalTerms counts the terms of every channel, either in the working set or
// in the LP-filtered hull.
func TotalTerms(inst *model.Instance, afterLPFilter bool) int {
	data := inst.Channels
	if afterLPFilter {
		data = inst.Hull
	}
	c := 0
	for _, ch := range data {
		c += len(ch)
	}
	return c
}

// UpperBoundRate sums the best rate of each channel. It is a loose bound
// used to size rate-indexed tables.
func UpperBoundRate(inst *model.Instance) int {
	res := 0
	for _, ch := range inst.Channels {
		res += ch.MaxRate()
	}
	return res
}

// RemoveImpossibleTerms drops every term that cannot be afforded even when
// all other channels take their cheapest option.
func RemoveImpossibleTerms(inst *model.Instance) error {
	mins := make([]int, inst.N())
	sum := 0
	for n, ch := range inst.Channels {
		if len(ch) == 0 {
			return fmt.Errorf("%w: channel %d is empty", model.ErrInfeasible, n)
		}
		mins[n] = ch.MinPower()
		sum += mins[n]
	}
	if sum > inst.Budget {
		return fmt.Errorf("%w: minimum power %d exceeds budget %d", model.ErrInfeasible, sum, inst.Budget)
	}
	for n, ch := range inst.Channels {
		slack := inst.Budget - sum + mins[n]
		kept := ch[:0:0]
		for _, t := range ch {
			if t.Power <= slack {
				kept = append(kept, t)
			}
		}
		inst.Channels[n] = kept
	}
	return nil
}

// RemoveIPDominated replaces every channel by its strictly increasing
// power/rate staircase.
func RemoveIPDominated(inst *model.Instance) error {
	for n, ch := range inst.Channels {
		f := FilterIPDominated(ch)
		if len(f) == 0 {
			return fmt.Errorf("%w: channel %d is empty", model.ErrInfeasible, n)
		}
		inst.Channels[n] = f
	}
	return nil
}

// RemoveLPDominated computes the upper convex hull of every channel and
// stores it in inst.Hull. inst.Channels is left untouched.
func RemoveLPDominated(inst *model.Instance) error {
	hull := make([]model.Channel, inst.N())
	for n, ch := range inst.Channels {
		h := UpperHull(ch)
		if len(h) == 0 {
			return fmt.Errorf("%w: channel %d is empty", model.ErrInfeasible, n)
		}
		hull[n] = h
	}
	inst.Hull = hull
	return nil
}

// sortByPower orders terms by ascending power, higher rate first on ties.
// The sort is stable so equal terms keep their input order.
func sortByPower(c model.Channel) model.Channel {
	s := c.Clone()
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Power != s[j].Power {
			return s[i].Power < s[j].Power
		}
		return s[i].Rate > s[j].Rate
	})
	return s
}

// FilterIPDominated returns the terms of c, sorted by power, whose rate
// strictly exceeds the rate of every cheaper term. c is not modified.
func FilterIPDominated(c model.Channel) model.Channel {
	if len(c) == 0 {
		return nil
	}
	s := sortByPower(c)
	out := model.Channel{s[0]}
	maxRate := s[0].Rate
	for _, t := range s[1:] {
		if t.Rate > maxRate {
			out = append(out, t)
			maxRate = t.Rate
		}
	}
	return out
}

// turnsRight reports whether p1 lies strictly to the right of the line from
// p3 through p2, i.e. p2 stays on the upper hull. Collinear middle points are
// dropped so hull slopes are strictly decreasing.
func turnsRight(p1, p2, p3 model.Term) bool {
	lhs := int64(p2.Rate-p3.Rate) * int64(p1.Power-p2.Power)
	rhs := int64(p1.Rate-p2.Rate) * int64(p2.Power-p3.Power)
	return lhs > rhs
}

// UpperHull returns the upper convex hull of c in (power, rate) space in
// ascending power order. Points below the hull are LP-dominated by a convex
// combination of their neighbours. Points lying on a hull edge between two
// vertices are dropped as well: the turn test is strict, so a kept point
// always has a strictly smaller incremental efficiency than its predecessor.
// Dropping them never changes the relaxed or integer optimum, because each
// is a convex combination of the two vertices around it.
func UpperHull(c model.Channel) model.Channel {
	pts := FilterIPDominated(c)
	hull := make(model.Channel, 0, len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && !turnsRight(p, hull[len(hull)-1], hull[len(hull)-2]) {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}
