package rules

import (
	"github.com/pkg/errors"
)

// Limits of a pit. MaxSnakes matches the capacity of the classic game.
const (
	MaxRows   = 20
	MaxCols   = 40
	MaxSnakes = 180
)

var (
	// ErrInvalidDimensions is returned when a pit is created with a size out of range.
	ErrInvalidDimensions = errors.New("rules: invalid pit dimensions")
	// ErrOverflow is returned when a pit already holds MaxSnakes snakes.
	ErrOverflow = errors.New("rules: pit is full of snakes")
	// ErrOutOfBounds is returned when an entity is placed outside the pit.
	ErrOutOfBounds = errors.New("rules: position outside the pit")
)

// Pit is the playing field. It owns the snakes and the player.
type Pit struct {
	rows   int
	cols   int
	player *Player
	snakes []*Snake
	rng    Rand
}

// NewPit creates an empty rows x cols pit. The random source drives snake
// movement; a nil source is replaced by a clock seeded one.
func NewPit(rows, cols int, rng Rand) (*Pit, error) {
	if rows <= 0 || cols <= 0 || rows > MaxRows || cols > MaxCols {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%d by %d", rows, cols)
	}
	if rng == nil {
		rng, _ = NewRand(0)
	}
	return &Pit{
		rows: rows,
		cols: cols,
		rng:  rng,
	}, nil
}

// Rows returns the pit height.
func (p *Pit) Rows() int { return p.rows }

// Cols returns the pit width.
func (p *Pit) Cols() int { return p.cols }

// Player returns the player, or nil if none was added.
func (p *Pit) Player() *Player { return p.player }

// SnakeCount returns the number of snakes left.
func (p *Pit) SnakeCount() int { return len(p.snakes) }

// Contains reports whether (row, col) lies inside the pit.
func (p *Pit) Contains(row, col int) bool {
	return row >= 1 && row <= p.rows && col >= 1 && col <= p.cols
}

// AddSnake puts a snake at (row, col). Snakes may share a cell, and may be
// placed on the player.
func (p *Pit) AddSnake(row, col int) error {
	if len(p.snakes) >= MaxSnakes {
		return errors.Wrapf(ErrOverflow, "snake at (%d,%d)", row, col)
	}
	if !p.Contains(row, col) {
		return errors.Wrapf(ErrOutOfBounds, "snake at (%d,%d)", row, col)
	}
	p.snakes = append(p.snakes, &Snake{Row: row, Col: col})
	return nil
}

// AddPlayer puts the player at (row, col). It returns false if the pit
// already has a player or the position is outside the pit.
func (p *Pit) AddPlayer(row, col int) bool {
	if p.player != nil || !p.Contains(row, col) {
		return false
	}
	p.player = &Player{row: row, col: col}
	return true
}

// SnakesAt counts the snakes on (row, col).
func (p *Pit) SnakesAt(row, col int) int {
	count := 0
	for _, s := range p.snakes {
		if s.At(row, col) {
			count++
		}
	}
	return count
}

// DestroyOneSnake removes a single snake from (row, col), if there is one.
func (p *Pit) DestroyOneSnake(row, col int) bool {
	for i, s := range p.snakes {
		if !s.At(row, col) {
			continue
		}
		last := len(p.snakes) - 1
		p.snakes[i] = p.snakes[last]
		p.snakes[last] = nil
		p.snakes = p.snakes[:last]
		return true
	}
	return false
}

// MoveSnakes moves every snake one random step. A snake ending its step on
// the player kills it. It returns whether the player is still alive.
func (p *Pit) MoveSnakes() bool {
	for _, s := range p.snakes {
		s.Move(p.rows, p.cols, p.rng)
		if p.player != nil && s.At(p.player.row, p.player.col) {
			p.player.die(DeathCauseSnakeCollision)
		}
	}
	return p.player != nil && !p.player.dead
}

// Snakes returns the snake positions.
func (p *Pit) Snakes() []Point {
	points := make([]Point, 0, len(p.snakes))
	for _, s := range p.snakes {
		points = append(points, Point{Row: s.Row, Col: s.Col})
	}
	return points
}
