// Package controller archives played games and their frames. Games are
// written by the game loop and read back by the replay tooling and the api.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/battlesnakeio/pit/rules"
)

var (
	// ErrNotFound is thrown when a game is not found.
	ErrNotFound = errors.New("controller: game not found")
	// ErrInvalidSequence is returned when a frame is pushed out of turn order.
	ErrInvalidSequence = errors.New("controller: invalid frame sequence")
)

// Store is the interface to the backend store. Frames of a game must be
// pushed in turn order starting from turn 0.
type Store interface {
	CreateGame(context.Context, *rules.GameInfo, []*rules.Frame) error
	PushGameFrame(context.Context, string, *rules.Frame) error
	ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error)
	GetGame(context.Context, string) (*rules.GameInfo, error)
	SetGameStatus(context.Context, string, rules.GameStatus) error
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games:  map[string]*rules.GameInfo{},
		frames: map[string][]*rules.Frame{},
	}
}

type inmem struct {
	games  map[string]*rules.GameInfo
	frames map[string][]*rules.Frame
	lock   sync.Mutex
}

func (in *inmem) CreateGame(ctx context.Context, g *rules.GameInfo, frames []*rules.Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if err := CheckSequence(len(in.frames[g.ID]), frames...); err != nil {
		return err
	}
	in.games[g.ID] = g.Clone()
	in.frames[g.ID] = append(in.frames[g.ID], frames...)
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	if err := CheckSequence(len(in.frames[id]), f); err != nil {
		return err
	}
	in.frames[id] = append(in.frames[id], f)
	return nil
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return nil, ErrNotFound
	}
	return Page(in.frames[id], limit, offset), nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*rules.GameInfo, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if g, ok := in.games[id]; ok {
		return g.Clone(), nil
	}
	return nil, ErrNotFound
}

func (in *inmem) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	return nil
}

// CheckSequence verifies that frames continue a game that already holds
// count frames.
func CheckSequence(count int, frames ...*rules.Frame) error {
	for i, f := range frames {
		if f.Turn != int64(count+i) {
			return ErrInvalidSequence
		}
	}
	return nil
}

// Page applies limit and offset to a list of frames. A negative offset
// counts back from the end, so -1 is the last frame.
func Page(frames []*rules.Frame, limit, offset int) []*rules.Frame {
	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if len(frames) == 0 || offset >= len(frames) || limit <= 0 {
		return nil
	}
	if offset+limit >= len(frames) {
		limit = len(frames) - offset
	}
	return frames[offset : offset+limit]
}
