// Package lpcheck solves the continuous relaxation of an instance with a
// general-purpose simplex solver. It is only used to cross-check the greedy
// relaxation: on the preprocessed channels both optima must be equal, and on
// the unfiltered input the simplex optimum bounds greedy from above. The
// unfiltered relaxation may be larger because a fraction of a term that is
// impossible on its own can still fit the budget.
package lpcheck

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/mckp/core/model"
)

// ErrMismatch is returned by Check when the two optima disagree.
var ErrMismatch = errors.New("lp relaxation mismatch")

// Tolerance is the absolute difference accepted between two relaxed optima.
const Tolerance = 1e-6

// problem is the general-form LP: minimise cᵀx s.t. Gx <= h, Ax = b.
type problem struct {
	c []float64
	g *mat.Dense
	h []float64
	a *mat.Dense
	b []float64
}

// build lays out one variable per term of chans, channel after channel. Row 0 of G is the power budget, the following rows enforce x >= 0.
// A holds one "exactly one unit" row per channel.
func build(budget int, chans []model.Channel) problem {
	var rates, powers []float64
	offsets := make([]int, len(chans)+1)
	for n, ch := range chans {
		for _, t := range ch {
			rates = append(rates, float64(t.Rate))
			powers = append(powers, float64(t.Power))
		}
		offsets[n+1] = offsets[n] + len(ch)
	}
	nv := len(rates)

	c := make([]float64, nv)
	for i, r := range rates {
		c[i] = -r
	}

	g := mat.NewDense(nv+1, nv, nil)
	h := make([]float64, nv+1)
	for i, p := range powers {
		g.Set(0, i, p)
		g.Set(i+1, i, -1)
	}
	h[0] = float64(budget)

	a := mat.NewDense(len(chans), nv, nil)
	b := make([]float64, len(chans))
	for n := range chans {
		for i := offsets[n]; i < offsets[n+1]; i++ {
			a.Set(n, i, 1)
		}
		b[n] = 1
	}
	return problem{c: c, g: g, h: h, a: a, b: b}
}

func simplex(p problem) (float64, error) {
	cStd, aStd, bStd := lp.Convert(p.c, p.g, p.h, p.a, p.b)
	opt, _, err := lp.Simplex(cStd, aStd, bStd, 1e-10, nil)
	if err != nil {
		return 0, err
	}
	return -opt, nil
}

// solveLP points to the function used to solve the LP. It can be overridden
// in tests to simulate solver failures.
var solveLP = simplex

func solve(budget int, chans []model.Channel) (float64, error) {
	if len(chans) == 0 {
		return 0, fmt.Errorf("%w: no channels", model.ErrInfeasible)
	}
	v, err := solveLP(build(budget, chans))
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, fmt.Errorf("%w: %v", model.ErrInfeasible, err)
		}
		return 0, fmt.Errorf("simplex: %w", err)
	}
	return v, nil
}

// Solve returns the optimal rate of the continuous relaxation of the
// unfiltered input.
func Solve(inst *model.Instance) (float64, error) {
	return solve(inst.Budget, inst.Original)
}

// SolveFiltered returns the optimal rate of the continuous relaxation of the
// channels left by preprocessing.
func SolveFiltered(inst *model.Instance) (float64, error) {
	return solve(inst.Budget, inst.Channels)
}

func within(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance*math.Max(1, math.Abs(b))
}

// Check cross-checks a greedy relaxed rate. The rate must equal the simplex
// optimum over the preprocessed channels and must not exceed the simplex
// optimum over the unfiltered input. It returns the filtered optimum.
func Check(inst *model.Instance, rate float64) (float64, error) {
	filtered, err := SolveFiltered(inst)
	if err != nil {
		return 0, err
	}
	if !within(rate, filtered) {
		return filtered, fmt.Errorf("%w: simplex=%.6f greedy=%.6f", ErrMismatch, filtered, rate)
	}
	full, err := Solve(inst)
	if err != nil {
		return filtered, err
	}
	if rate > full && !within(rate, full) {
		return filtered, fmt.Errorf("%w: greedy=%.6f above unfiltered simplex=%.6f", ErrMismatch, rate, full)
	}
	return filtered, nil
}
