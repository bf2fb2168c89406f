package model

import "fmt"

// Instance is a power budget plus the channels to pick from.
//
// Original keeps the validated input untouched. Channels starts as a copy of
// Original and is narrowed in place by preprocessing; Hull is populated by
// LP-dominance filtering and stays nil until then.
type Instance struct {
	Budget   int
	Original []Channel
	Channels []Channel
	Hull     []Channel
}

// New validates the input and builds an Instance. Each term is stamped with
// the index of the channel it belongs to. The input slices are copied.
func New(budget int, channels []Channel) (*Instance, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInfeasible)
	}
	orig := make([]Channel, len(channels))
	minSum := 0
	for n, ch := range channels {
		if len(ch) == 0 {
			return nil, fmt.Errorf("%w: channel %d has no terms", ErrInfeasible, n)
		}
		cp := make(Channel, len(ch))
		for i, t := range ch {
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("channel %d term %d: %w", n, i, err)
			}
			t.Channel = n
			cp[i] = t
		}
		orig[n] = cp
		minSum += cp.MinPower()
	}
	if minSum > budget {
		return nil, fmt.Errorf("%w: minimum power %d exceeds budget %d", ErrInfeasible, minSum, budget)
	}
	inst := &Instance{Budget: budget, Original: orig, Channels: make([]Channel, len(orig))}
	for n, ch := range orig {
		inst.Channels[n] = ch.Clone()
	}
	return inst, nil
}

// N returns the number of channels.
func (in *Instance) N() int { return len(in.Channels) }

// Preprocessed reports whether LP-dominance filtering has run.
func (in *Instance) Preprocessed() bool {
	return len(in.Hull) == len(in.Channels) && len(in.Hull) > 0
}
