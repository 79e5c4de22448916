package filestore

import (
	"context"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/rules"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func defaultDir() string {
	return filepath.Join(homeDir(), ".pit", "games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
// An empty directory means ~/.pit/games.
func NewFileStore(directory string) controller.Store {
	if directory == "" {
		directory = defaultDir()
	}

	return &fileStore{
		games:     map[string]*rules.GameInfo{},
		frames:    map[string][]*rules.Frame{},
		writers:   map[string]writer{},
		directory: directory,
	}
}

type fileStore struct {
	games     map[string]*rules.GameInfo
	frames    map[string][]*rules.Frame
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

// closeGame removes the game from in-memory cache and closes the handle to its
// file. Should be called when game is complete.
func (fs *fileStore) closeGame(id string) {
	if w, ok := fs.writers[id]; ok {
		err := w.Close()
		if err != nil {
			log.WithError(err).WithField("GameID", id).Error("Error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

func (fs *fileStore) CreateGame(ctx context.Context, g *rules.GameInfo, frames []*rules.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, ok := fs.games[g.ID]; ok {
		return errors.Errorf("filestore: game %s already exists", g.ID)
	}
	if err := controller.CheckSequence(0, frames...); err != nil {
		return err
	}

	handle, err := fs.requireHandle(g.ID, true)
	if err != nil {
		return err
	}
	if err := writeGameInfo(handle, g); err != nil {
		fs.closeGame(g.ID)
		return err
	}

	fs.games[g.ID] = g.Clone()
	fs.frames[g.ID] = []*rules.Frame{}
	for _, f := range frames {
		if err := fs.appendFrame(g.ID, f); err != nil {
			return err
		}
	}
	return nil
}

func (fs *fileStore) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, err := fs.requireGame(id)
	if err != nil {
		return err
	}
	handle, err := fs.requireHandle(id, false)
	if err != nil {
		return err
	}
	if err := writeStatus(handle, status); err != nil {
		return err
	}

	game.Status = status
	if status.Done() {
		fs.closeGame(id)
	}
	return nil
}

func (fs *fileStore) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	frames, err := fs.requireFrames(id)
	if err != nil {
		return err
	}
	if err := controller.CheckSequence(len(frames), f); err != nil {
		return err
	}
	return fs.appendFrame(id, f)
}

func (fs *fileStore) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return nil, err
	}
	frames, err := fs.requireFrames(id)
	if err != nil {
		return nil, err
	}
	return controller.Page(frames, limit, offset), nil
}

func (fs *fileStore) GetGame(ctx context.Context, id string) (*rules.GameInfo, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	g, err := fs.requireGame(id)
	if err != nil {
		return nil, err
	}

	// Clone the game, since this could be modified after this is returned
	// and upset internal state inside the store.
	return g.Clone(), nil
}

func (fs *fileStore) requireHandle(id string, mustBeNew bool) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}

	handle, err := openFileWriter(fs.directory, id, mustBeNew)
	if err != nil {
		return nil, err
	}

	fs.writers[id] = handle
	return handle, nil
}

// load reads a game archive into the cache.
func (fs *fileStore) load(id string) error {
	g, frames, err := ReadGame(fs.directory, id)
	if err != nil {
		return err
	}
	if frames == nil {
		frames = []*rules.Frame{}
	}
	fs.games[id] = g
	fs.frames[id] = frames
	return nil
}

// current reports whether the cached copy of a game can be served. A game
// this store is not writing may still be written by another process until
// it is done, so it is read from disk again.
func (fs *fileStore) current(id string) bool {
	g, ok := fs.games[id]
	if !ok {
		return false
	}
	if _, writing := fs.writers[id]; writing {
		return true
	}
	return g.Status.Done()
}

func (fs *fileStore) requireGame(id string) (*rules.GameInfo, error) {
	// Do nothing if game already loaded.
	if fs.current(id) {
		return fs.games[id], nil
	}
	if err := fs.load(id); err != nil {
		return nil, err
	}
	return fs.games[id], nil
}

func (fs *fileStore) requireFrames(id string) ([]*rules.Frame, error) {
	// Do nothing if frames already loaded.
	if frames, ok := fs.frames[id]; ok && fs.current(id) {
		return frames, nil
	}
	if err := fs.load(id); err != nil {
		return nil, err
	}
	return fs.frames[id], nil
}

func (fs *fileStore) appendFrame(id string, f *rules.Frame) error {
	handle, err := fs.requireHandle(id, false)
	if err != nil {
		return err
	}

	// Add frame to archive file
	if err := writeFrame(handle, f); err != nil {
		return err
	}

	// Add frame to in-memory cache
	fs.frames[id] = append(fs.frames[id], f)
	return nil
}

// Close flushes and closes every open archive.
func (fs *fileStore) Close() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for id := range fs.writers {
		fs.closeGame(id)
	}
	return nil
}
