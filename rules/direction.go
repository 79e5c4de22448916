package rules

// Direction is one of the four moves a player or snake can make.
type Direction int

// Directions, in the order snakes draw them from the random source.
const (
	Up Direction = iota
	Down
	Left
	Right
)

var (
	rowDelta = []int{-1, 1, 0, 0}
	colDelta = []int{0, 0, -1, 1}
	dirNames = []string{"up", "down", "left", "right"}
)

// ParseDirection decodes the single letter commands u, d, l and r.
func ParseDirection(c byte) (Direction, bool) {
	switch c {
	case 'u':
		return Up, true
	case 'd':
		return Down, true
	case 'l':
		return Left, true
	case 'r':
		return Right, true
	}
	return -1, false
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Deltas returns the row and column change of a single step in d.
func (d Direction) Deltas() (int, int) {
	if !d.Valid() {
		return 0, 0
	}
	return rowDelta[d], colDelta[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return dirNames[d]
}
