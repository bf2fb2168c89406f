package solver

import (
	"fmt"
	"math"

	"github.com/kilianp07/mckp/core/model"
)

type dpConfig struct {
	zeroUnreachable bool
}

// DPOption customises the dynamic-programming solvers.
type DPOption func(*dpConfig)

// WithZeroAsUnreachable reproduces the historical tables where a cell value
// of zero means "unreachable". States whose best prior value is exactly zero
// are then lost, so instances with zero-power or zero-rate terms may be
// undercounted. The default tracks reachability explicitly.
func WithZeroAsUnreachable() DPOption {
	return func(c *dpConfig) { c.zeroUnreachable = true }
}

func dpOptions(opts []DPOption) dpConfig {
	var c dpConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// DPByPower computes, channel by channel, the best rate achievable for every
// power level up to the budget and returns the value at the budget.
func DPByPower(inst *model.Instance, opts ...DPOption) (int, error) {
	if inst.N() == 0 {
		return 0, fmt.Errorf("%w: no channels", model.ErrInfeasible)
	}
	if dpOptions(opts).zeroUnreachable {
		return dpByPowerLegacy(inst), nil
	}
	const unreachable = -1
	b := inst.Budget
	l := make([]int, b+1)
	for w := range l {
		l[w] = unreachable
		for _, t := range inst.Channels[0] {
			if t.Power <= w && t.Rate > l[w] {
				l[w] = t.Rate
			}
		}
	}
	next := make([]int, b+1)
	for _, ch := range inst.Channels[1:] {
		for w := range next {
			best := unreachable
			for _, t := range ch {
				if t.Power > w || l[w-t.Power] == unreachable {
					continue
				}
				if v := l[w-t.Power] + t.Rate; v > best {
					best = v
				}
			}
			next[w] = best
		}
		l, next = next, l
	}
	if l[b] == unreachable {
		return 0, fmt.Errorf("%w: no selection fits budget %d", model.ErrInfeasible, b)
	}
	return l[b], nil
}

// dpByPowerLegacy indexes power levels 1..budget and treats a zero cell as
// unreachable.
func dpByPowerLegacy(inst *model.Instance) int {
	b := inst.Budget
	l := make([]int, b)
	for w := 1; w <= b; w++ {
		for _, t := range inst.Channels[0] {
			if t.Power <= w && t.Rate > l[w-1] {
				l[w-1] = t.Rate
			}
		}
	}
	for _, ch := range inst.Channels[1:] {
		next := make([]int, b)
		for w := 1; w <= b; w++ {
			best := 0
			for _, t := range ch {
				if t.Power < w && l[w-t.Power-1] > 0 {
					best = max(best, l[w-t.Power-1]+t.Rate)
				}
			}
			next[w-1] = best
		}
		l = next
	}
	return l[b-1]
}

// DPByRate computes the minimum power needed to reach each rate up to upper
// and returns the largest rate whose power fits the budget, or -1 if none
// does. upper is usually UpperBoundRate(inst).
func DPByRate(inst *model.Instance, upper int, opts ...DPOption) (int, error) {
	if inst.N() == 0 {
		return 0, fmt.Errorf("%w: no channels", model.ErrInfeasible)
	}
	if upper < 0 {
		return 0, fmt.Errorf("rate upper bound must be non-negative, got %d", upper)
	}
	if dpOptions(opts).zeroUnreachable {
		return dpByRateLegacy(inst, upper), nil
	}
	const unreachable = math.MaxInt
	l := make([]int, upper+1)
	for r := range l {
		l[r] = unreachable
	}
	for _, t := range inst.Channels[0] {
		if t.Rate <= upper && t.Power < l[t.Rate] {
			l[t.Rate] = t.Power
		}
	}
	next := make([]int, upper+1)
	for _, ch := range inst.Channels[1:] {
		for r := range next {
			best := unreachable
			for _, t := range ch {
				if t.Rate > r || l[r-t.Rate] == unreachable {
					continue
				}
				if v := l[r-t.Rate] + t.Power; v < best {
					best = v
				}
			}
			next[r] = best
		}
		l, next = next, l
	}
	for r := upper; r >= 0; r-- {
		if l[r] <= inst.Budget {
			return r, nil
		}
	}
	return -1, nil
}

// dpByRateLegacy indexes rates 1..upper and treats a zero cell as
// unreachable.
func dpByRateLegacy(inst *model.Instance, upper int) int {
	l := make([]int, upper)
	for r := 1; r <= upper; r++ {
		for _, t := range inst.Channels[0] {
			if t.Rate == r && (l[r-1] == 0 || t.Power < l[r-1]) {
				l[r-1] = t.Power
			}
		}
	}
	for _, ch := range inst.Channels[1:] {
		next := make([]int, upper)
		for r := 1; r <= upper; r++ {
			best := 0
			for _, t := range ch {
				if t.Rate < r && l[r-t.Rate-1] > 0 {
					v := l[r-t.Rate-1] + t.Power
					if best == 0 || v < best {
						best = v
					}
				}
			}
			next[r-1] = best
		}
		l = next
	}
	for r := upper; r >= 1; r-- {
		if l[r-1] > 0 && l[r-1] <= inst.Budget {
			return r
		}
	}
	return -1
}
