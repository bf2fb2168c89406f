package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/mckp/config"
	"github.com/kilianp07/mckp/core/lpcheck"
	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/core/model"
	"github.com/kilianp07/mckp/core/solver"
	"github.com/kilianp07/mckp/infra/logger"
)

// reportNames maps configured algorithm names to report names.
var reportNames = map[string]string{
	config.AlgoGreedy:       coremetrics.AlgoGreedy,
	config.AlgoDepthFirst:   coremetrics.AlgoDepthFirst,
	config.AlgoBreadthFirst: coremetrics.AlgoBreadthFirst,
	config.AlgoDPByPower:    coremetrics.AlgoDPByPower,
	config.AlgoDPByRate:     coremetrics.AlgoDPByRate,
}

// Runner preprocesses an instance, runs the configured algorithms on it and
// reports every run to a sink.
type Runner struct {
	cfg   config.SolverConfig
	sink  coremetrics.ReportSink
	log   logger.Logger
	newID func() string
	now   func() time.Time
}

// NewRunner creates a Runner. A nil sink discards reports and a nil logger
// discards logs.
func NewRunner(cfg config.SolverConfig, sink coremetrics.ReportSink, log logger.Logger) *Runner {
	cfg.SetDefaults()
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{cfg: cfg, sink: sink, log: log, newID: uuid.NewString, now: time.Now}
}

// Compare runs every configured algorithm on inst, which is preprocessed in
// place. Algorithm failures are recorded in their run report; only
// preprocessing errors, such as an infeasible instance, are returned.
func (r *Runner) Compare(ctx context.Context, name string, inst *model.Instance) (coremetrics.Comparison, error) {
	cmp := coremetrics.Comparison{RunID: r.newID(), Instance: name, Time: r.now()}

	pre, err := r.preprocess(cmp.RunID, name, inst)
	if err != nil {
		return cmp, err
	}
	cmp.Preprocess = pre

	greedyRate := -1.0
	for _, algo := range r.cfg.Strategies {
		run := r.run(ctx, algo, inst)
		run.RunID, run.Instance, run.Time = cmp.RunID, name, r.now()
		if algo == config.AlgoGreedy && run.Error == "" {
			greedyRate = run.Rate
		}
		r.record(run)
		cmp.Runs = append(cmp.Runs, run)
	}
	if r.cfg.LPCheck {
		run := r.lpCheck(inst, greedyRate)
		run.RunID, run.Instance, run.Time = cmp.RunID, name, r.now()
		r.record(run)
		cmp.Runs = append(cmp.Runs, run)
	}
	cmp.Agreed = agreed(cmp.Runs)

	if rec, ok := r.sink.(coremetrics.ComparisonRecorder); ok {
		if err := rec.RecordComparison(cmp); err != nil {
			r.log.Errorf("record comparison: %v", err)
		}
	}
	r.log.Infow("comparison done", map[string]any{
		"run_id":   cmp.RunID,
		"instance": name,
		"runs":     len(cmp.Runs),
		"agreed":   cmp.Agreed,
	})
	return cmp, nil
}

func (r *Runner) preprocess(runID, name string, inst *model.Instance) (coremetrics.PreprocessReport, error) {
	rep := coremetrics.PreprocessReport{
		RunID:      runID,
		Instance:   name,
		Channels:   inst.N(),
		Budget:     inst.Budget,
		TermsInput: solver.TotalTerms(inst, false),
	}
	start := time.Now()
	if err := solver.Preprocess(inst); err != nil {
		return rep, fmt.Errorf("preprocess %s: %w", name, err)
	}
	rep.Duration = time.Since(start)
	rep.TermsFiltered = solver.TotalTerms(inst, false)
	rep.TermsHull = solver.TotalTerms(inst, true)
	rep.Time = r.now()

	if rec, ok := r.sink.(coremetrics.PreprocessRecorder); ok {
		if err := rec.RecordPreprocess(rep); err != nil {
			r.log.Errorf("record preprocess: %v", err)
		}
	}
	r.log.Debugw("preprocessed", map[string]any{
		"instance":       name,
		"terms_input":    rep.TermsInput,
		"terms_filtered": rep.TermsFiltered,
		"terms_hull":     rep.TermsHull,
	})
	return rep, nil
}

func (r *Runner) run(ctx context.Context, algo string, inst *model.Instance) coremetrics.RunReport {
	rep := coremetrics.RunReport{Algorithm: reportNames[algo], Exact: algo != config.AlgoGreedy}
	start := time.Now()
	var (
		rate int
		err  error
	)
	switch algo {
	case config.AlgoGreedy:
		var sol model.Solution
		sol, err = solver.SolveGreedy(inst)
		rep.Rate = sol.Rate
	case config.AlgoDepthFirst, config.AlgoBreadthFirst:
		var res solver.Result
		res, err = r.branchAndBound(ctx, algo, inst)
		rate = res.Rate
		rep.Expanded, rep.Pruned = res.Stats.Expanded, res.Stats.Pruned
	case config.AlgoDPByPower:
		rate, err = solver.DPByPower(inst, r.dpOptions()...)
	case config.AlgoDPByRate:
		rate, err = solver.DPByRate(inst, solver.UpperBoundRate(inst), r.dpOptions()...)
		if err == nil && rate < 0 {
			err = fmt.Errorf("no achievable rate")
		}
	default:
		err = fmt.Errorf("unknown algorithm %q", algo)
	}
	rep.Duration = time.Since(start)
	if rep.Exact {
		rep.Rate = float64(rate)
	}
	if err != nil {
		rep.Error = err.Error()
		r.log.Warnf("%s failed: %v", algo, err)
	}
	return rep
}

func (r *Runner) branchAndBound(ctx context.Context, algo string, inst *model.Instance) (solver.Result, error) {
	strategy, err := solver.ParseStrategy(algo)
	if err != nil {
		return solver.Result{}, err
	}
	if t := r.cfg.Timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	opts := []solver.BBOption{solver.WithLogger(r.log)}
	if r.cfg.MaxNodes > 0 {
		opts = append(opts, solver.WithMaxNodes(r.cfg.MaxNodes))
	}
	res, err := solver.BranchAndBound(ctx, inst, strategy, opts...)
	if errors.Is(err, solver.ErrSearchBudget) || errors.Is(err, context.DeadlineExceeded) {
		r.log.Warnf("%s stopped early with best rate %d", strategy, res.Rate)
	}
	return res, err
}

func (r *Runner) dpOptions() []solver.DPOption {
	if r.cfg.DPZeroUnreachable {
		return []solver.DPOption{solver.WithZeroAsUnreachable()}
	}
	return nil
}

// lpCheck solves the relaxation of the preprocessed channels with the simplex
// solver and, when a greedy rate is known, cross-checks it.
func (r *Runner) lpCheck(inst *model.Instance, greedyRate float64) coremetrics.RunReport {
	rep := coremetrics.RunReport{Algorithm: coremetrics.AlgoLPSimplex}
	start := time.Now()
	var err error
	if greedyRate >= 0 {
		rep.Rate, err = lpcheck.Check(inst, greedyRate)
	} else {
		rep.Rate, err = lpcheck.SolveFiltered(inst)
	}
	rep.Duration = time.Since(start)
	if err != nil {
		rep.Error = err.Error()
		r.log.Warnf("lp check: %v", err)
	}
	return rep
}

func (r *Runner) record(run coremetrics.RunReport) {
	if err := r.sink.RecordRun(run); err != nil {
		r.log.Errorf("record %s: %v", run.Algorithm, err)
	}
}

// agreed reports whether every successful exact run found the same rate and
// the LP cross-check, if any, succeeded.
func agreed(runs []coremetrics.RunReport) bool {
	var (
		rate float64
		seen bool
	)
	for _, run := range runs {
		if run.Algorithm == coremetrics.AlgoLPSimplex {
			if run.Error != "" {
				return false
			}
			continue
		}
		if !run.Exact || run.Error != "" {
			continue
		}
		if seen && run.Rate != rate {
			return false
		}
		rate, seen = run.Rate, true
	}
	return true
}
