package model

// Selection is a term taken with the given fraction in [0,1].
type Selection struct {
	Term     Term    `json:"term"`
	Fraction float64 `json:"fraction"`
}

// Solution is the total rate and the selections made in every channel.
// Integer solutions hold exactly one selection per channel with fraction 1.
// The greedy relaxation may split its breakpoint channel between two terms.
type Solution struct {
	Rate    float64       `json:"rate"`
	Choices [][]Selection `json:"choices"`
}

// Power returns the power consumed by the selections.
func (s Solution) Power() float64 {
	var p float64
	for _, ch := range s.Choices {
		for _, sel := range ch {
			p += sel.Fraction * float64(sel.Term.Power)
		}
	}
	return p
}

// Fractional reports whether any channel is split between two terms.
func (s Solution) Fractional() bool {
	for _, ch := range s.Choices {
		if len(ch) > 1 {
			return true
		}
	}
	return false
}
