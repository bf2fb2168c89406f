package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mckp/config"
	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/core/model"
)

type recordingSink struct {
	runs        []coremetrics.RunReport
	preprocess  []coremetrics.PreprocessReport
	comparisons []coremetrics.Comparison
	err         error
}

func (s *recordingSink) RecordRun(r coremetrics.RunReport) error {
	s.runs = append(s.runs, r)
	return s.err
}

func (s *recordingSink) RecordPreprocess(r coremetrics.PreprocessReport) error {
	s.preprocess = append(s.preprocess, r)
	return s.err
}

func (s *recordingSink) RecordComparison(c coremetrics.Comparison) error {
	s.comparisons = append(s.comparisons, c)
	return s.err
}

func example(t *testing.T) *model.Instance {
	t.Helper()
	inst, err := model.New(10, []model.Channel{
		{{Power: 2, Rate: 3}, {Power: 5, Rate: 8}, {Power: 9, Rate: 2}},
		{{Power: 3, Rate: 4}, {Power: 6, Rate: 9}},
	})
	require.NoError(t, err)
	return inst
}

func newTestRunner(cfg config.SolverConfig, sink coremetrics.ReportSink) *Runner {
	r := NewRunner(cfg, sink, nil)
	r.newID = func() string { return "run-1" }
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	return r
}

func TestCompare_AllAlgorithms(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRunner(config.SolverConfig{LPCheck: true}, sink)

	cmp, err := r.Compare(context.Background(), "example", example(t))
	require.NoError(t, err)

	assert.Equal(t, "run-1", cmp.RunID)
	assert.True(t, cmp.Agreed)
	require.Len(t, cmp.Runs, len(config.Algorithms)+1)

	rates := map[string]float64{}
	for _, run := range cmp.Runs {
		assert.Empty(t, run.Error, run.Algorithm)
		assert.Equal(t, "run-1", run.RunID)
		assert.Equal(t, "example", run.Instance)
		rates[run.Algorithm] = run.Rate
	}
	for _, algo := range []string{coremetrics.AlgoDepthFirst, coremetrics.AlgoBreadthFirst, coremetrics.AlgoDPByPower, coremetrics.AlgoDPByRate} {
		assert.Equal(t, 12.0, rates[algo], algo)
	}
	assert.InDelta(t, 46.0/3, rates[coremetrics.AlgoGreedy], 1e-9)
	assert.InDelta(t, 46.0/3, rates[coremetrics.AlgoLPSimplex], 1e-6)

	assert.Equal(t, coremetrics.PreprocessReport{
		RunID:         "run-1",
		Instance:      "example",
		Channels:      2,
		Budget:        10,
		TermsInput:    5,
		TermsFiltered: 4,
		TermsHull:     4,
		Duration:      cmp.Preprocess.Duration,
		Time:          time.Unix(1700000000, 0),
	}, cmp.Preprocess)

	assert.Len(t, sink.runs, len(cmp.Runs))
	assert.Len(t, sink.preprocess, 1)
	require.Len(t, sink.comparisons, 1)
	assert.Equal(t, cmp.RunID, sink.comparisons[0].RunID)
}

func TestCompare_NodeBudgetRecorded(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRunner(config.SolverConfig{Strategies: []string{"bfs", "dp_power"}, MaxNodes: 1}, sink)

	cmp, err := r.Compare(context.Background(), "example", example(t))
	require.NoError(t, err)
	require.Len(t, cmp.Runs, 2)
	assert.Contains(t, cmp.Runs[0].Error, "budget")
	assert.Equal(t, 2, cmp.Runs[0].Expanded)
	assert.Empty(t, cmp.Runs[1].Error)
	assert.True(t, cmp.Agreed, "runs with errors do not take part in the agreement")
}

func TestCompare_SinkErrorsAreLogged(t *testing.T) {
	sink := &recordingSink{err: errors.New("down")}
	r := newTestRunner(config.SolverConfig{Strategies: []string{"greedy"}}, sink)

	cmp, err := r.Compare(context.Background(), "example", example(t))
	require.NoError(t, err)
	assert.Len(t, cmp.Runs, 1)
	assert.False(t, cmp.Runs[0].Exact)
	assert.Len(t, sink.runs, 1)
}

func TestCompare_ZeroUnreachableDP(t *testing.T) {
	inst, err := model.New(2, []model.Channel{
		{{Power: 0, Rate: 0}, {Power: 1, Rate: 5}},
		{{Power: 2, Rate: 3}},
	})
	require.NoError(t, err)
	r := newTestRunner(config.SolverConfig{Strategies: []string{"dfs", "dp_power"}, DPZeroUnreachable: true}, nil)

	cmp, err := r.Compare(context.Background(), "zero", inst)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cmp.Runs[0].Rate)
	assert.Equal(t, 0.0, cmp.Runs[1].Rate)
	assert.False(t, cmp.Agreed)
}

func TestCompare_LPCheckWithoutGreedy(t *testing.T) {
	r := newTestRunner(config.SolverConfig{Strategies: []string{"dfs"}, LPCheck: true}, nil)
	cmp, err := r.Compare(context.Background(), "example", example(t))
	require.NoError(t, err)
	require.Len(t, cmp.Runs, 2)
	assert.Equal(t, coremetrics.AlgoLPSimplex, cmp.Runs[1].Algorithm)
	assert.InDelta(t, 46.0/3, cmp.Runs[1].Rate, 1e-6)
}

func TestCompare_LPCheckWithImpossibleTerm(t *testing.T) {
	inst, err := model.New(6, []model.Channel{{{Power: 1, Rate: 1}, {Power: 10, Rate: 20}}})
	require.NoError(t, err)
	r := newTestRunner(config.SolverConfig{Strategies: []string{"greedy", "dfs"}, LPCheck: true}, nil)

	cmp, err := r.Compare(context.Background(), "impossible", inst)
	require.NoError(t, err)
	require.Len(t, cmp.Runs, 3)
	assert.Empty(t, cmp.Runs[2].Error)
	assert.InDelta(t, 1.0, cmp.Runs[2].Rate, 1e-6)
	assert.True(t, cmp.Agreed)
}

func TestCompare_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestRunner(config.SolverConfig{Strategies: []string{"dfs"}}, nil)
	cmp, err := r.Compare(ctx, "example", example(t))
	require.NoError(t, err)
	require.Len(t, cmp.Runs, 1)
	assert.Contains(t, cmp.Runs[0].Error, context.Canceled.Error())
	assert.Equal(t, 12.0, cmp.Runs[0].Rate, "root lower bound is already optimal")
}

func TestAgreed(t *testing.T) {
	assert.True(t, agreed(nil))
	assert.True(t, agreed([]coremetrics.RunReport{
		{Algorithm: coremetrics.AlgoGreedy, Rate: 15.5},
		{Algorithm: coremetrics.AlgoDepthFirst, Exact: true, Rate: 12},
		{Algorithm: coremetrics.AlgoDPByRate, Exact: true, Rate: 12},
	}))
	assert.False(t, agreed([]coremetrics.RunReport{
		{Algorithm: coremetrics.AlgoDepthFirst, Exact: true, Rate: 12},
		{Algorithm: coremetrics.AlgoDPByRate, Exact: true, Rate: 11},
	}))
	assert.False(t, agreed([]coremetrics.RunReport{
		{Algorithm: coremetrics.AlgoLPSimplex, Error: "mismatch"},
	}))
}
