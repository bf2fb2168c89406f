package solver

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mckp/core/model"
)

func TestBranchAndBound_Example(t *testing.T) {
	for _, s := range []Strategy{DepthFirst, BreadthFirst} {
		t.Run(s.String(), func(t *testing.T) {
			inst := preprocessed(t, 10, exampleChannels())
			res, err := BranchAndBound(context.Background(), inst, s)
			require.NoError(t, err)
			assert.Equal(t, 12, res.Rate)
			assert.Equal(t, s, res.Strategy)
			assert.Positive(t, res.Stats.Expanded)
		})
	}
}

func TestBranchAndBound_LPDominatedTermIsOptimal(t *testing.T) {
	// (2,3) lies under the chord (1,1)-(3,6) of channel 0 yet the optimum
	// pairs it with (2,5).
	chans := []model.Channel{
		{{Power: 1, Rate: 1}, {Power: 2, Rate: 3}, {Power: 3, Rate: 6}},
		{{Power: 1, Rate: 1}, {Power: 2, Rate: 5}},
	}
	inst := preprocessed(t, 4, chans)
	assert.Len(t, inst.Hull[0], 2)
	assert.Len(t, inst.Channels[0], 3)
	for _, s := range []Strategy{DepthFirst, BreadthFirst} {
		res, err := BranchAndBound(context.Background(), inst, s)
		require.NoError(t, err)
		assert.Equal(t, 8, res.Rate, s.String())
	}
}

func TestBranchAndBound_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		budget, chans := randomChannels(rng, 0)
		want := bruteForce(budget, chans)
		inst := preprocessed(t, budget, chans)

		dfs, err := BranchAndBound(context.Background(), inst, DepthFirst)
		require.NoError(t, err)
		bfs, err := BranchAndBound(context.Background(), inst, BreadthFirst)
		require.NoError(t, err)
		require.Equal(t, want, dfs.Rate, "case %d: budget=%d chans=%v", i, budget, chans)
		require.Equal(t, dfs.Rate, bfs.Rate, "case %d", i)

		sol, err := SolveGreedy(inst)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sol.Rate+1e-9, float64(dfs.Rate))
		assert.LessOrEqual(t, sol.Power(), float64(budget)+1e-9)
	}
}

func TestBranchAndBound_NodeBudget(t *testing.T) {
	inst := preprocessed(t, 10, exampleChannels())
	res, err := BranchAndBound(context.Background(), inst, BreadthFirst, WithMaxNodes(1))
	assert.ErrorIs(t, err, ErrSearchBudget)
	assert.Equal(t, 12, res.Rate, "incumbent from the root bound is kept")
	assert.Equal(t, 1, res.Stats.Pruned)
}

func TestBranchAndBound_Canceled(t *testing.T) {
	chans := make([]model.Channel, 10)
	for c := range chans {
		for i := 1; i <= 8; i++ {
			chans[c] = append(chans[c], model.Term{Power: i * 3, Rate: i*3 + c%2})
		}
	}
	inst := preprocessed(t, 120, chans)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := BranchAndBound(ctx, inst, DepthFirst)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Stats.Expanded)
	assert.Positive(t, res.Rate, "root lower bound is kept")
}

func TestBranchAndBound_NilContext(t *testing.T) {
	inst := preprocessed(t, 10, exampleChannels())
	var ctx context.Context
	for _, strategy := range []Strategy{DepthFirst, BreadthFirst} {
		res, err := BranchAndBound(ctx, inst, strategy)
		require.NoError(t, err, strategy.String())
		assert.Equal(t, 12, res.Rate)
	}
}

func TestBranchAndBound_Errors(t *testing.T) {
	inst := newInstance(t, 10, exampleChannels())
	_, err := BranchAndBound(context.Background(), inst, DepthFirst)
	assert.ErrorIs(t, err, ErrNotPreprocessed)

	inst = preprocessed(t, 10, exampleChannels())
	_, err = BranchAndBound(context.Background(), inst, Strategy(9))
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("bfs")
	require.NoError(t, err)
	assert.Equal(t, BreadthFirst, s)
	s, err = ParseStrategy("depth_first")
	require.NoError(t, err)
	assert.Equal(t, DepthFirst, s)
	_, err = ParseStrategy("best_first")
	assert.Error(t, err)
	assert.Equal(t, "strategy(7)", Strategy(7).String())
}
