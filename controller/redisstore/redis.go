package redisstore

import (
	"context"
	"encoding/json"

	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/rules"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// RedisStore keeps each game as a JSON value and its frames as a list.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewRedisStore(connectURL string) (*RedisStore, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &RedisStore{client: client}, nil
}

func gameKey(id string) string   { return "pit:game:" + id }
func framesKey(id string) string { return "pit:game:" + id + ":frames" }

func encodeFrames(frames []*rules.Frame) ([]interface{}, error) {
	values := make([]interface{}, 0, len(frames))
	for _, f := range frames {
		data, err := json.Marshal(f)
		if err != nil {
			return nil, errors.Wrap(err, "unable to marshal frame")
		}
		values = append(values, data)
	}
	return values, nil
}

// CreateGame will insert a game with the default game frames.
func (rs *RedisStore) CreateGame(c context.Context, g *rules.GameInfo, frames []*rules.Frame) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to marshal game")
	}
	values, err := encodeFrames(frames)
	if err != nil {
		return err
	}

	fkey := framesKey(g.ID)
	return rs.client.Watch(func(tx *redis.Tx) error {
		count, err := tx.LLen(fkey).Result()
		if err != nil {
			return errors.Wrap(err, "unable to count frames")
		}
		if err := controller.CheckSequence(int(count), frames...); err != nil {
			return err
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(gameKey(g.ID), data, 0)
			if len(values) > 0 {
				pipe.RPush(fkey, values...)
			}
			return nil
		})
		return err
	}, gameKey(g.ID), fkey)
}

// PushGameFrame will push a game frame onto the list of frames.
func (rs *RedisStore) PushGameFrame(c context.Context, id string, f *rules.Frame) error {
	values, err := encodeFrames([]*rules.Frame{f})
	if err != nil {
		return err
	}

	fkey := framesKey(id)
	return rs.client.Watch(func(tx *redis.Tx) error {
		exists, err := tx.Exists(gameKey(id)).Result()
		if err != nil {
			return errors.Wrap(err, "unable to check game")
		}
		if exists == 0 {
			return controller.ErrNotFound
		}
		count, err := tx.LLen(fkey).Result()
		if err != nil {
			return errors.Wrap(err, "unable to count frames")
		}
		if err := controller.CheckSequence(int(count), f); err != nil {
			return err
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.RPush(fkey, values...)
			return nil
		})
		return err
	}, gameKey(id), fkey)
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (rs *RedisStore) ListGameFrames(c context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	if _, err := rs.GetGame(c, id); err != nil {
		return nil, err
	}

	n, err := rs.client.LLen(framesKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to count frames")
	}
	start := int64(offset)
	if start < 0 {
		start = n + start
		if start < 0 {
			start = 0
		}
	}
	if n == 0 || start >= n || limit <= 0 {
		return nil, nil
	}
	stop := start + int64(limit) - 1
	if stop >= n {
		stop = n - 1
	}

	raw, err := rs.client.LRange(framesKey(id), start, stop).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read frames")
	}
	frames := make([]*rules.Frame, 0, len(raw))
	for _, r := range raw {
		f := &rules.Frame{}
		if err := json.Unmarshal([]byte(r), f); err != nil {
			return nil, errors.Wrap(err, "unable to unmarshal frame")
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// GetGame will fetch the game.
func (rs *RedisStore) GetGame(c context.Context, id string) (*rules.GameInfo, error) {
	return getGame(rs.client, id)
}

type getter interface {
	Get(key string) *redis.StringCmd
}

func getGame(client getter, id string) (*rules.GameInfo, error) {
	data, err := client.Get(gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, controller.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to get game")
	}
	g := &rules.GameInfo{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal game")
	}
	return g, nil
}

// SetGameStatus is used to set a specific game status. This operation
// should be atomic.
func (rs *RedisStore) SetGameStatus(c context.Context, id string, status rules.GameStatus) error {
	key := gameKey(id)
	return rs.client.Watch(func(tx *redis.Tx) error {
		g, err := getGame(tx, id)
		if err != nil {
			return err
		}
		g.Status = status
		data, err := json.Marshal(g)
		if err != nil {
			return errors.Wrap(err, "unable to marshal game")
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(key, data, 0)
			return nil
		})
		return err
	}, key)
}

// Close closes the underlying redis client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
