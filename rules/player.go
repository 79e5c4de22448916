package rules

// Board is the part of the pit the player needs while moving.
type Board interface {
	Rows() int
	Cols() int
	SnakesAt(row, col int) int
	DestroyOneSnake(row, col int) bool
}

// Player is the single user controlled entity in a pit.
type Player struct {
	row   int
	col   int
	age   int
	dead  bool
	cause string
}

// Row returns the player's row.
func (p *Player) Row() int { return p.row }

// Col returns the player's column.
func (p *Player) Col() int { return p.col }

// Age is the number of turns the player has taken.
func (p *Player) Age() int { return p.age }

// IsDead reports whether the player has died.
func (p *Player) IsDead() bool { return p.dead }

// DeathCause is empty while the player is alive.
func (p *Player) DeathCause() string { return p.cause }

// Stand spends a turn without moving.
func (p *Player) Stand() {
	p.age++
}

// SetDead kills the player. Calling it on a dead player changes nothing.
func (p *Player) SetDead() {
	p.die(DeathCauseUnknown)
}

func (p *Player) die(cause string) {
	if p.dead {
		return
	}
	p.dead = true
	p.cause = cause
}

// Move spends a turn moving one cell in dir. If a snake is in the way the
// player jumps it, destroying one snake on that cell and landing two cells
// away, unless the wall is directly behind the snake. Landing on another
// snake kills the player; the jumped snake is destroyed regardless.
func (p *Player) Move(b Board, dir Direction) {
	p.age++

	maxCanMove := 0
	switch dir {
	case Up:
		maxCanMove = p.row - 1
	case Down:
		maxCanMove = b.Rows() - p.row
	case Left:
		maxCanMove = p.col - 1
	case Right:
		maxCanMove = b.Cols() - p.col
	}
	if maxCanMove <= 0 {
		return
	}

	dr, dc := dir.Deltas()
	if b.SnakesAt(p.row+dr, p.col+dc) == 0 {
		p.row += dr
		p.col += dc
		return
	}

	if maxCanMove < 2 {
		return
	}
	b.DestroyOneSnake(p.row+dr, p.col+dc)
	p.row += 2 * dr
	p.col += 2 * dc
	if b.SnakesAt(p.row, p.col) > 0 {
		p.die(DeathCauseLandedOnSnake)
	}
}
