package rules

const (
	// DeathCauseSnakeCollision is the death reason when a snake moves onto the player
	DeathCauseSnakeCollision = "snake-collision"
	// DeathCauseLandedOnSnake is the death reason when a jump lands on another snake
	DeathCauseLandedOnSnake = "landed-on-snake"
	// DeathCauseUnknown is used when the player was killed from outside the rules
	DeathCauseUnknown = "unknown"
)
