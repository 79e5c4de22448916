package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnakeMove(t *testing.T) {
	moves := []struct {
		dir      Direction
		row, col int
	}{
		{Up, 1, 2},
		{Down, 3, 2},
		{Left, 2, 1},
		{Right, 2, 3},
	}
	for _, m := range moves {
		s := &Snake{Row: 2, Col: 2}
		s.Move(3, 3, &fixedRand{values: []int{int(m.dir)}})
		require.Equal(t, m.row, s.Row, "moving %s", m.dir)
		require.Equal(t, m.col, s.Col, "moving %s", m.dir)
	}
}

func TestSnakeMoveBlockedByWall(t *testing.T) {
	s := &Snake{Row: 1, Col: 1}
	rng := &fixedRand{values: []int{int(Up), int(Left)}}
	s.Move(1, 1, rng)
	s.Move(1, 1, rng)
	require.Equal(t, 1, s.Row)
	require.Equal(t, 1, s.Col)

	s = &Snake{Row: 3, Col: 4}
	rng = &fixedRand{values: []int{int(Down), int(Right)}}
	s.Move(3, 4, rng)
	s.Move(3, 4, rng)
	require.Equal(t, 3, s.Row)
	require.Equal(t, 4, s.Col)
	require.Equal(t, 2, rng.i, "each blocked step still draws once")
}
