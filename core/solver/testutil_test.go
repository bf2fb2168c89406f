package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mckp/core/model"
)

// exampleChannels is the two-channel instance with two optimal selections.
func exampleChannels() []model.Channel {
	return []model.Channel{
		{{Power: 2, Rate: 3}, {Power: 5, Rate: 8}},
		{{Power: 3, Rate: 4}, {Power: 6, Rate: 9}},
	}
}

func newInstance(t *testing.T, budget int, chans []model.Channel) *model.Instance {
	t.Helper()
	inst, err := model.New(budget, chans)
	require.NoError(t, err)
	return inst
}

func preprocessed(t *testing.T, budget int, chans []model.Channel) *model.Instance {
	t.Helper()
	inst := newInstance(t, budget, chans)
	require.NoError(t, Preprocess(inst))
	return inst
}

// bruteForce enumerates every selection of one term per channel.
func bruteForce(budget int, chans []model.Channel) int {
	best := -1
	var walk func(n, power, rate int)
	walk = func(n, power, rate int) {
		if power > budget {
			return
		}
		if n == len(chans) {
			if rate > best {
				best = rate
			}
			return
		}
		for _, t := range chans[n] {
			walk(n+1, power+t.Power, rate+t.Rate)
		}
	}
	walk(0, 0, 0)
	return best
}

// randomChannels draws a small feasible instance. With minValue 0 zero-power
// and zero-rate terms may appear.
func randomChannels(rng *rand.Rand, minValue int) (int, []model.Channel) {
	n := 1 + rng.Intn(4)
	chans := make([]model.Channel, n)
	minSum := 0
	for c := range chans {
		m := 1 + rng.Intn(5)
		low := 1 << 30
		for i := 0; i < m; i++ {
			t := model.Term{Power: minValue + rng.Intn(11-minValue), Rate: minValue + rng.Intn(21-minValue)}
			chans[c] = append(chans[c], t)
			low = min(low, t.Power)
		}
		minSum += low
	}
	return max(1, minSum+rng.Intn(15)), chans
}
