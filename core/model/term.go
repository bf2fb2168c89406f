package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInfeasible indicates that no selection of one term per channel fits the budget.
	ErrInfeasible = errors.New("infeasible instance")
	// ErrInvalidTerm is returned for terms with a negative power or rate.
	ErrInvalidTerm = errors.New("invalid term")
	// ErrInvalidBudget is returned when the power budget is not positive.
	ErrInvalidBudget = errors.New("invalid power budget")
)

// Term is one selectable option of a channel.
type Term struct {
	Power   int `json:"power"`
	Rate    int `json:"rate"`
	Channel int `json:"channel"`
}

// Validate checks that power and rate are non-negative.
func (t Term) Validate() error {
	if t.Power < 0 || t.Rate < 0 {
		return fmt.Errorf("%w: power=%d rate=%d", ErrInvalidTerm, t.Power, t.Rate)
	}
	return nil
}

func (t Term) String() string {
	return fmt.Sprintf("ch%d(p=%d,r=%d)", t.Channel, t.Power, t.Rate)
}

// Channel is the ordered set of mutually exclusive terms of one group.
type Channel []Term

// MinPower returns the smallest power of the channel, or math.MaxInt when empty.
func (c Channel) MinPower() int {
	m := math.MaxInt
	for _, t := range c {
		if t.Power < m {
			m = t.Power
		}
	}
	return m
}

// MaxRate returns the largest rate of the channel (0 when empty).
func (c Channel) MaxRate() int {
	m := 0
	for _, t := range c {
		if t.Rate > m {
			m = t.Rate
		}
	}
	return m
}

// Clone returns a copy that does not share storage with c.
func (c Channel) Clone() Channel {
	if c == nil {
		return nil
	}
	cp := make(Channel, len(c))
	copy(cp, c)
	return cp
}
