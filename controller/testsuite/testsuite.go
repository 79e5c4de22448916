package testsuite

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/rules"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
)

func newGame(key string) *rules.GameInfo {
	return &rules.GameInfo{
		ID:      key,
		Rows:    9,
		Cols:    10,
		Snakes:  2,
		Seed:    42,
		Status:  rules.GameStatusRunning,
		Created: time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newFrame(turn int64) *rules.Frame {
	return &rules.Frame{
		Turn:   turn,
		Status: rules.GameStatusRunning,
		Player: &rules.PlayerState{Row: 5, Col: 5, Age: int(turn)},
		Snakes: []rules.Point{{Row: 1, Col: 1}, {Row: 9, Col: int(turn%10) + 1}},
	}
}

func testStoreGames(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, newGame(key), nil)
	require.Nil(t, err)
	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, key, g.ID)
	require.Equal(t, 9, g.Rows)
	require.Equal(t, 10, g.Cols)
	require.Equal(t, int64(42), g.Seed)
	require.Equal(t, rules.GameStatusRunning, g.Status)

	// Modifying the returned game does not touch the store.
	g.Status = rules.GameStatusQuit
	g, err = s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, rules.GameStatusRunning, g.Status)

	// NotFound error thrown.
	_, err = s.GetGame(ctx, key+"-missing")
	require.Equal(t, controller.ErrNotFound, errors.Cause(err))
}

func testStoreGameStatus(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	err := s.CreateGame(ctx, newGame(key), []*rules.Frame{newFrame(0)})
	require.Nil(t, err)

	err = s.SetGameStatus(ctx, key, rules.GameStatusPlayerDead)
	require.Nil(t, err)

	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, rules.GameStatusPlayerDead, g.Status)

	err = s.SetGameStatus(ctx, key+"-missing", rules.GameStatusQuit)
	require.Equal(t, controller.ErrNotFound, errors.Cause(err))
}

func testStoreGameFrames(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, newGame(key), nil)
	require.Nil(t, err)

	// Read game frames, too high offset.
	frames, err := s.ListGameFrames(ctx, key, 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Read game frames, 0 offset.
	frames, err = s.ListGameFrames(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Push game frames.
	for turn := int64(0); turn < 3; turn++ {
		err = s.PushGameFrame(ctx, key, newFrame(turn))
		require.Nil(t, err)
	}

	// Read the game frames.
	frames, err = s.ListGameFrames(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 3, len(frames))
	require.Equal(t, newFrame(2), frames[2])

	// Limit and offset.
	frames, err = s.ListGameFrames(ctx, key, 1, 1)
	require.Nil(t, err)
	require.Equal(t, 1, len(frames))
	require.Equal(t, int64(1), frames[0].Turn)

	// Negative offset reads the last frame.
	frames, err = s.ListGameFrames(ctx, key, 1, -1)
	require.Nil(t, err)
	require.Equal(t, 1, len(frames))
	require.Equal(t, int64(2), frames[0].Turn)

	// Read game frames that don't exist.
	frames, err = s.ListGameFrames(ctx, key+"-missing", 1, 0)
	require.Equal(t, controller.ErrNotFound, errors.Cause(err))
	require.Equal(t, 0, len(frames))

	// Read the game frames, too high offset.
	frames, err = s.ListGameFrames(ctx, key, 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))
}

func testStoreFrameSequence(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	err := s.CreateGame(ctx, newGame(key), []*rules.Frame{newFrame(0), newFrame(1)})
	require.Nil(t, err)

	// Skipping a turn is rejected.
	err = s.PushGameFrame(ctx, key, newFrame(3))
	require.Equal(t, controller.ErrInvalidSequence, errors.Cause(err))

	// Replaying a turn is rejected.
	err = s.PushGameFrame(ctx, key, newFrame(1))
	require.Equal(t, controller.ErrInvalidSequence, errors.Cause(err))

	err = s.PushGameFrame(ctx, key, newFrame(2))
	require.Nil(t, err)

	// Pushing to a missing game.
	err = s.PushGameFrame(ctx, key+"-missing", newFrame(0))
	require.Equal(t, controller.ErrNotFound, errors.Cause(err))

	// Creating with frames out of order.
	err = s.CreateGame(ctx, newGame(uuid.NewV4().String()), []*rules.Frame{newFrame(1)})
	require.Equal(t, controller.ErrInvalidSequence, errors.Cause(err))
}

func testStoreConcurrentWriters(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	err := s.CreateGame(ctx, newGame(key), nil)
	require.Nil(t, err)

	var ok uint32 // How many wrote turn 0.
	var wg sync.WaitGroup
	wg.Add(20)

	for i := 0; i < 20; i++ {
		go func() {
			if errp := s.PushGameFrame(ctx, key, newFrame(0)); errp == nil {
				atomic.AddUint32(&ok, 1)
			}
			wg.Done()
		}()
	}

	wg.Wait()

	require.Equal(t, uint32(1), ok)
	frames, err := s.ListGameFrames(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Len(t, frames, 1)
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s controller.Store, pretest func()) {
	s = controller.InstrumentStore(s)
	t.Run("Games", func(t *testing.T) { pretest(); testStoreGames(t, s) })
	t.Run("GameStatus", func(t *testing.T) { pretest(); testStoreGameStatus(t, s) })
	t.Run("GameFrames", func(t *testing.T) { pretest(); testStoreGameFrames(t, s) })
	t.Run("FrameSequence", func(t *testing.T) { pretest(); testStoreFrameSequence(t, s) })
	t.Run("ConcurrentWriters", func(t *testing.T) { pretest(); testStoreConcurrentWriters(t, s) })
}
