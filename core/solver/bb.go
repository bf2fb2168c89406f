package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/mckp/core/logger"
	"github.com/kilianp07/mckp/core/model"
)

// Strategy selects the order in which branch-and-bound visits nodes.
type Strategy int

const (
	// DepthFirst explores recursively, siblings in ascending power.
	DepthFirst Strategy = iota
	// BreadthFirst explores level by level using a FIFO queue.
	BreadthFirst
)

func (s Strategy) String() string {
	switch s {
	case DepthFirst:
		return "depth_first"
	case BreadthFirst:
		return "breadth_first"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps the textual name of a strategy back to its value.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "depth_first", "dfs":
		return DepthFirst, nil
	case "breadth_first", "bfs":
		return BreadthFirst, nil
	}
	return 0, fmt.Errorf("unknown search strategy %q", s)
}

// ErrSearchBudget is returned when the node budget is exhausted before the
// search completes. The accompanying Result holds the best rate found.
var ErrSearchBudget = errors.New("search node budget exhausted")

// checkEvery is the number of expanded nodes between context checks. The
// first expansion is always checked.
const checkEvery = 1024

// SearchNode is a partial assignment: channels before Channel are fixed,
// using Power and yielding Rate.
type SearchNode struct {
	Channel int
	Power   int
	Rate    int
}

// Stats counts search work.
type Stats struct {
	Expanded int
	Admitted int
	Pruned   int
	Leaves   int
}

// Result is the outcome of a branch-and-bound run.
type Result struct {
	Rate     int
	Strategy Strategy
	Stats    Stats
}

type bbConfig struct {
	maxNodes int
	log      logger.Logger
}

// BBOption customises a branch-and-bound run.
type BBOption func(*bbConfig)

// WithMaxNodes stops the search after n expanded nodes. Zero means no limit.
func WithMaxNodes(n int) BBOption {
	return func(c *bbConfig) { c.maxNodes = n }
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l logger.Logger) BBOption {
	return func(c *bbConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// incumbent is the best feasible rate known so far. It is owned by a single
// search and handed down by pointer.
type incumbent struct {
	rate int
}

func (b *incumbent) offer(rate int) {
	if rate > b.rate {
		b.rate = rate
	}
}

// successor is an admitted child of a search node.
type successor struct {
	node   SearchNode
	bounds Bounds
	leaf   bool
}

type search struct {
	ctx   context.Context
	inst  *model.Instance
	rank  Ranking
	cfg   bbConfig
	best  *incumbent
	stats Stats
}

// admit decides whether taking t from node n can still beat best. Leaves are
// complete assignments and are always admitted when they fit.
func (s *search) admit(n SearchNode, t model.Term, best int) (successor, bool) {
	power := n.Power + t.Power
	if power > s.inst.Budget {
		return successor{}, false
	}
	child := SearchNode{Channel: n.Channel + 1, Power: power, Rate: n.Rate + t.Rate}
	if child.Channel == s.inst.N() {
		return successor{node: child, leaf: true}, true
	}
	b, ok := s.rank.Bound(child.Channel, s.inst.Budget-power)
	if !ok || b.UB+float64(child.Rate) <= float64(best) {
		return successor{}, false
	}
	return successor{node: child, bounds: b}, true
}

// visit counts an expansion and enforces the node budget and cancellation.
func (s *search) visit() error {
	s.stats.Expanded++
	if s.cfg.maxNodes > 0 && s.stats.Expanded > s.cfg.maxNodes {
		return ErrSearchBudget
	}
	if s.stats.Expanded%checkEvery == 1 {
		return s.ctx.Err()
	}
	return nil
}

// record updates the incumbent with the rate guaranteed by an admitted
// successor and reports whether it still needs expanding.
func (s *search) record(c successor) bool {
	s.stats.Admitted++
	if c.leaf {
		s.stats.Leaves++
		s.best.offer(c.node.Rate)
		return false
	}
	s.best.offer(c.node.Rate + c.bounds.LB)
	return true
}

func (s *search) depthFirst(n SearchNode) error {
	if err := s.visit(); err != nil {
		return err
	}
	for _, t := range s.inst.Channels[n.Channel] {
		c, ok := s.admit(n, t, s.best.rate)
		if !ok {
			s.stats.Pruned++
			continue
		}
		if s.record(c) {
			if err := s.depthFirst(c.node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *search) breadthFirst(root SearchNode) error {
	queue := []SearchNode{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if err := s.visit(); err != nil {
			return err
		}
		for _, t := range s.inst.Channels[n.Channel] {
			c, ok := s.admit(n, t, s.best.rate)
			if !ok {
				s.stats.Pruned++
				continue
			}
			if s.record(c) {
				queue = append(queue, c.node)
			}
		}
	}
	return nil
}

// BranchAndBound returns the exact integer optimum of a preprocessed
// instance. Both strategies share the same admission test and return the
// same rate; they only differ in visiting order. A nil ctx is treated as
// context.Background().
func BranchAndBound(ctx context.Context, inst *model.Instance, strategy Strategy, opts ...BBOption) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := bbConfig{log: logger.Nop{}}
	for _, o := range opts {
		o(&cfg)
	}
	rank, err := Rank(inst)
	if err != nil {
		return Result{}, err
	}
	root, ok := rank.Bound(0, inst.Budget)
	if !ok {
		return Result{}, fmt.Errorf("%w: cheapest terms exceed budget", model.ErrInfeasible)
	}
	s := &search{ctx: ctx, inst: inst, rank: rank, cfg: cfg, best: &incumbent{rate: root.LB}}

	switch strategy {
	case DepthFirst:
		err = s.depthFirst(SearchNode{})
	case BreadthFirst:
		err = s.breadthFirst(SearchNode{})
	default:
		return Result{}, fmt.Errorf("unknown search strategy %d", int(strategy))
	}
	res := Result{Rate: s.best.rate, Strategy: strategy, Stats: s.stats}
	cfg.log.Debugw("branch and bound finished", map[string]any{
		"strategy": strategy.String(),
		"rate":     res.Rate,
		"root_ub":  root.UB,
		"expanded": s.stats.Expanded,
		"pruned":   s.stats.Pruned,
		"leaves":   s.stats.Leaves,
	})
	return res, err
}
