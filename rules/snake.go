package rules

// Snake is a hazard in the pit. It has no memory beyond its position.
type Snake struct {
	Row int
	Col int
}

// Move takes a single random step. A step that would leave a rows x cols
// pit is dropped, the turn is still spent.
func (s *Snake) Move(rows, cols int, rng Rand) {
	switch Direction(rng.Intn(4)) {
	case Up:
		if s.Row > 1 {
			s.Row--
		}
	case Down:
		if s.Row < rows {
			s.Row++
		}
	case Left:
		if s.Col > 1 {
			s.Col--
		}
	case Right:
		if s.Col < cols {
			s.Col++
		}
	}
}

// At reports whether the snake occupies (row, col).
func (s *Snake) At(row, col int) bool {
	return s.Row == row && s.Col == col
}
