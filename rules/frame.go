package rules

import (
	"time"

	"github.com/pkg/errors"
)

// Point is a 1-based (row, col) position in a pit.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Equal checks if 2 points are the same row,col coordinate
func (p Point) Equal(other Point) bool {
	return p.Row == other.Row && p.Col == other.Col
}

// PlayerState is the player as recorded in a frame.
type PlayerState struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Age   int    `json:"age"`
	Dead  bool   `json:"dead"`
	Cause string `json:"cause,omitempty"`
}

// Frame is the state of a pit after a turn. Turn 0 is the seeded pit.
type Frame struct {
	Turn   int64        `json:"turn"`
	Status GameStatus   `json:"status"`
	Player *PlayerState `json:"player,omitempty"`
	Snakes []Point      `json:"snakes"`
}

// GameInfo describes a game independently of its frames.
type GameInfo struct {
	ID      string     `json:"id"`
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Snakes  int        `json:"snakes"`
	Seed    int64      `json:"seed"`
	Status  GameStatus `json:"status"`
	Created time.Time  `json:"created"`
}

// Clone returns a copy that can be modified independently.
func (g *GameInfo) Clone() *GameInfo {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

// Frame captures the pit as a frame for the given turn.
func (p *Pit) Frame(turn int64, status GameStatus) *Frame {
	f := &Frame{
		Turn:   turn,
		Status: status,
		Snakes: p.Snakes(),
	}
	if pl := p.player; pl != nil {
		f.Player = &PlayerState{
			Row:   pl.row,
			Col:   pl.col,
			Age:   pl.age,
			Dead:  pl.dead,
			Cause: pl.cause,
		}
	}
	return f
}

// Restore rebuilds a pit from a recorded frame, for rendering archived games.
func Restore(rows, cols int, f *Frame) (*Pit, error) {
	p, err := NewPit(rows, cols, nil)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return p, nil
	}
	for _, s := range f.Snakes {
		if err := p.AddSnake(s.Row, s.Col); err != nil {
			return nil, errors.Wrapf(err, "turn %d", f.Turn)
		}
	}
	if ps := f.Player; ps != nil {
		if !p.AddPlayer(ps.Row, ps.Col) {
			return nil, errors.Wrapf(ErrOutOfBounds, "turn %d player at (%d,%d)", f.Turn, ps.Row, ps.Col)
		}
		p.player.age = ps.Age
		p.player.dead = ps.Dead
		p.player.cause = ps.Cause
	}
	return p, nil
}
