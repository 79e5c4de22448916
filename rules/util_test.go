package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedRand replays values in order, wrapping around.
type fixedRand struct {
	values []int
	i      int
}

func (r *fixedRand) Intn(n int) int {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

func newTestPit(t *testing.T, rows, cols int, rng Rand) *Pit {
	p, err := NewPit(rows, cols, rng)
	require.NoError(t, err)
	return p
}

func requirePlayerAt(t *testing.T, p *Player, row, col int) {
	require.Equal(t, row, p.Row(), "wrong row")
	require.Equal(t, col, p.Col(), "wrong col")
}
