package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/battlesnakeio/pit/rules"
	"github.com/pkg/errors"
)

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// line is a single archive record. Exactly one field is set: the game
// header comes first, then frames and status changes in the order they
// happened.
type line struct {
	Game   *rules.GameInfo  `json:"game,omitempty"`
	Frame  *rules.Frame     `json:"frame,omitempty"`
	Status rules.GameStatus `json:"status,omitempty"`
}

func getFilePath(directory, id string) string {
	return filepath.Join(directory, id+".jsonl")
}

func writeLine(w writer, l *line) error {
	j, err := json.Marshal(l)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return err
}

func writeGameInfo(w writer, game *rules.GameInfo) error {
	return writeLine(w, &line{Game: game})
}

func writeFrame(w writer, f *rules.Frame) error {
	return writeLine(w, &line{Frame: f})
}

func writeStatus(w writer, status rules.GameStatus) error {
	return writeLine(w, &line{Status: status})
}

func appendOnlyFileWriter(directory, id string, mustCreate bool) (writer, error) {
	if err := os.MkdirAll(directory, 0775); err != nil {
		return nil, errors.Wrap(err, "unable to create game directory")
	}

	flags := os.O_APPEND | os.O_WRONLY | os.O_CREATE
	if mustCreate {
		flags |= os.O_EXCL
	}
	return os.OpenFile(getFilePath(directory, id), flags, 0644)
}
