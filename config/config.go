package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning the
// details of pit storage and replay.
var (
	DefaultRows   = getEnvInt("PIT_ROWS", 9)
	DefaultCols   = getEnvInt("PIT_COLS", 10)
	DefaultSnakes = getEnvInt("PIT_SNAKES", 40)

	MaxOpenConns = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns = getEnvInt("MAX_IDLE_CONNS", 20)

	ReplayRate  = rate.Limit(getEnvInt("PIT_REPLAY_FPS", 5))
	ReplayBurst = getEnvInt("PIT_REPLAY_BURST", 1)

	SocketPollInterval = time.Duration(getEnvInt("PIT_SOCKET_POLL_MS", 200)) * time.Millisecond
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}
