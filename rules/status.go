package rules

// GameStatus is the state of the game loop.
type GameStatus string

const (
	// GameStatusRunning represents a game that is still taking turns
	GameStatusRunning GameStatus = "running"
	// GameStatusPlayerDead represents a game that ended with the player dead
	GameStatusPlayerDead GameStatus = "player-dead"
	// GameStatusCleared represents a game where every snake was destroyed
	GameStatusCleared GameStatus = "cleared"
	// GameStatusQuit represents a game the player walked away from
	GameStatusQuit GameStatus = "quit"
)

// Done reports whether the status is terminal.
func (s GameStatus) Done() bool {
	return s != GameStatusRunning && s != ""
}
