package rules

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFrameRestore(t *testing.T) {
	p := newTestPit(t, 4, 6, nil)
	require.True(t, p.AddPlayer(2, 5))
	require.NoError(t, p.AddSnake(1, 1))
	require.NoError(t, p.AddSnake(4, 6))
	p.Player().Stand()

	f := p.Frame(3, GameStatusRunning)
	require.Equal(t, int64(3), f.Turn)
	require.Equal(t, GameStatusRunning, f.Status)
	require.Equal(t, &PlayerState{Row: 2, Col: 5, Age: 1}, f.Player)
	require.Len(t, f.Snakes, 2)

	restored, err := Restore(4, 6, f)
	require.NoError(t, err)
	require.Equal(t, p.Snakes(), restored.Snakes())
	requirePlayerAt(t, restored.Player(), 2, 5)
	require.Equal(t, 1, restored.Player().Age())
	require.False(t, restored.Player().IsDead())
}

func TestFrameRestoreDeadPlayer(t *testing.T) {
	f := &Frame{
		Turn:   9,
		Player: &PlayerState{Row: 1, Col: 1, Age: 9, Dead: true, Cause: DeathCauseLandedOnSnake},
		Snakes: []Point{{Row: 1, Col: 1}},
	}
	p, err := Restore(3, 3, f)
	require.NoError(t, err)
	require.True(t, p.Player().IsDead())
	require.Equal(t, DeathCauseLandedOnSnake, p.Player().DeathCause())
	require.Equal(t, byte(GlyphDeadPlayer), p.Glyph(1, 1))
}

func TestFrameRestoreOutOfBounds(t *testing.T) {
	_, err := Restore(3, 3, &Frame{Snakes: []Point{{Row: 4, Col: 1}}})
	require.Equal(t, ErrOutOfBounds, errors.Cause(err))

	_, err = Restore(3, 3, &Frame{Player: &PlayerState{Row: 0, Col: 1}})
	require.Equal(t, ErrOutOfBounds, errors.Cause(err))
}

func TestGameInfoClone(t *testing.T) {
	g := &GameInfo{ID: "abc", Rows: 9, Cols: 10, Status: GameStatusRunning}
	c := g.Clone()
	c.Status = GameStatusQuit
	require.Equal(t, GameStatusRunning, g.Status)
	require.Nil(t, (*GameInfo)(nil).Clone())
}
