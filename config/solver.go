package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Algorithm names accepted in SolverConfig.Strategies.
const (
	AlgoGreedy       = "greedy"
	AlgoDepthFirst   = "dfs"
	AlgoBreadthFirst = "bfs"
	AlgoDPByPower    = "dp_power"
	AlgoDPByRate     = "dp_rate"
)

// Algorithms lists every algorithm in the order a comparison runs them.
var Algorithms = []string{AlgoGreedy, AlgoDepthFirst, AlgoBreadthFirst, AlgoDPByPower, AlgoDPByRate}

// SolverConfig selects the algorithms a comparison runs and their limits.
type SolverConfig struct {
	// Strategies to run. Empty means all of Algorithms.
	Strategies []string `json:"strategies"`
	// MaxNodes caps branch-and-bound expansions. Zero means unlimited.
	MaxNodes int `json:"max_nodes"`
	// TimeoutMS bounds each branch-and-bound search. Zero means no timeout.
	TimeoutMS int `json:"timeout_ms"`
	// DPZeroUnreachable treats zero table entries as unreachable states.
	DPZeroUnreachable bool `json:"dp_zero_unreachable"`
	// LPCheck cross-checks the greedy optimum with a simplex solver.
	LPCheck bool `json:"lp_check"`
}

// SetDefaults applies sane defaults. Strategies given as a single comma
// separated string (environment overrides) are split.
func (c *SolverConfig) SetDefaults() {
	if len(c.Strategies) == 1 && strings.Contains(c.Strategies[0], ",") {
		c.Strategies = strings.Split(c.Strategies[0], ",")
	}
	for i, s := range c.Strategies {
		c.Strategies[i] = strings.ToLower(strings.TrimSpace(s))
	}
	if len(c.Strategies) == 0 {
		c.Strategies = slices.Clone(Algorithms)
	}
}

// Validate checks algorithm names and limits.
func (c SolverConfig) Validate() error {
	for _, s := range c.Strategies {
		if !slices.Contains(Algorithms, s) {
			return fmt.Errorf("unknown strategy %q (known: %v)", s, Algorithms)
		}
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must be >= 0")
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must be >= 0")
	}
	return nil
}

// Timeout returns the search timeout, zero when unset.
func (c SolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
