package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/controller/testsuite"
	"github.com/battlesnakeio/pit/rules"
	"github.com/dlsteuer/miniredis"
	"github.com/go-redis/redis"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var store *RedisStore
var server *miniredis.Miniredis

func TestMain(m *testing.M) {
	redisURL := os.Getenv("REDIS_URL")
	if len(redisURL) == 0 {
		// Setup server
		server = miniredis.NewMiniRedis()
		err := server.Start()
		if err != nil {
			fmt.Println("unable to start local redis instance")
			os.Exit(1)
		}
		redisURL = fmt.Sprintf("redis://%s", server.Addr())
	}

	// Setup store
	s, err := NewRedisStore(redisURL)
	if err != nil {
		fmt.Println("unable to connect redis store")
		os.Exit(1)
	}
	store = s
	retCode := m.Run()

	store.Close()
	if server != nil {
		server.Close()
	}
	os.Exit(retCode)
}

func resetRedisServer(t *testing.T) {
	if server == nil {
		// this means we're running against an actual redis instance, so instead flush all keys
		o, err := redis.ParseURL(os.Getenv("REDIS_URL"))
		require.NoError(t, err)
		client := redis.NewClient(o)
		defer client.Close()
		err = client.FlushAll().Err()
		require.NoError(t, err)
		return
	}
	server.FlushAll()
}

func TestRedisStore(t *testing.T) {
	testsuite.Suite(t, store, func() { resetRedisServer(t) })
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	assert.Error(t, err)
}

func TestCreateGameStoresFrames(t *testing.T) {
	resetRedisServer(t)
	ctx := context.Background()
	game := &rules.GameInfo{ID: uuid.NewV4().String(), Rows: 3, Cols: 3, Status: rules.GameStatusRunning}
	frames := []*rules.Frame{
		{Turn: 0, Status: rules.GameStatusRunning, Snakes: []rules.Point{{Row: 1, Col: 1}}},
		{Turn: 1, Status: rules.GameStatusCleared, Snakes: []rules.Point{}},
	}

	err := store.CreateGame(ctx, game, frames)
	require.NoError(t, err)

	got, err := store.ListGameFrames(ctx, game.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, frames, got)

	// bigger limit
	got, err = store.ListGameFrames(ctx, game.ID, 1000000000, 1)
	require.NoError(t, err)
	assert.Equal(t, frames[1:], got)

	// No such game
	got, err = store.ListGameFrames(ctx, uuid.NewV4().String(), 10, 0)
	assert.Equal(t, controller.ErrNotFound, err)
	assert.Zero(t, got)
}

func TestGetGameCorrupt(t *testing.T) {
	resetRedisServer(t)
	id := uuid.NewV4().String()
	require.NoError(t, store.client.Set(gameKey(id), "{", 0).Err())

	_, err := store.GetGame(context.Background(), id)
	assert.Error(t, err)
	assert.NotEqual(t, controller.ErrNotFound, err)
}
