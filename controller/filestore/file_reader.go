package filestore

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/rules"
	"github.com/pkg/errors"
)

var openFileReader = readOnlyFileReader

// errPartialLine marks a final line that is not newline terminated and does
// not decode, as left by a writer that is still appending.
var errPartialLine = errors.New("partial archive line")

type reader interface {
	ReadBytes(delim byte) ([]byte, error)
	Close() error
}

type fileReader struct {
	*bufio.Reader
	f *os.File
}

func (r *fileReader) Close() error {
	return r.f.Close()
}

func readOnlyFileReader(directory, id string) (reader, error) {
	f, err := os.OpenFile(getFilePath(directory, id), os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, controller.ErrNotFound
		}
		return nil, err
	}
	return &fileReader{Reader: bufio.NewReader(f), f: f}, nil
}

// readLine decodes the next record. It returns io.EOF once the input is
// exhausted; a final line without a newline is still decoded, or reported
// as errPartialLine if it does not decode.
func readLine(r reader, out *line) error {
	bytes, err := r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if len(bytes) == 0 && err == io.EOF {
		return io.EOF
	}
	if jerr := json.Unmarshal(bytes, out); jerr != nil {
		if err == io.EOF {
			return errPartialLine
		}
		return errors.Wrap(jerr, "corrupt archive line")
	}
	return nil
}

type gameArchive struct {
	info   *rules.GameInfo
	frames []*rules.Frame
}

func readArchive(r reader) (gameArchive, error) {
	archive := gameArchive{}

	header := line{}
	if err := readLine(r, &header); err != nil {
		if err == io.EOF {
			return archive, errors.New("empty archive")
		}
		return archive, err
	}
	if header.Game == nil {
		return archive, errors.New("archive does not start with a game header")
	}
	archive.info = header.Game

	for {
		l := line{}
		err := readLine(r, &l)
		if err == io.EOF || err == errPartialLine {
			break
		}
		if err != nil {
			return archive, err
		}
		switch {
		case l.Frame != nil:
			archive.frames = append(archive.frames, l.Frame)
			if l.Frame.Status != "" {
				archive.info.Status = l.Frame.Status
			}
		case l.Status != "":
			archive.info.Status = l.Status
		}
	}
	return archive, nil
}

// ReadGame loads the game stored in directory with the given id.
func ReadGame(directory, id string) (*rules.GameInfo, []*rules.Frame, error) {
	r, err := openFileReader(directory, id)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	archive, err := readArchive(r)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading game %s", id)
	}
	return archive.info, archive.frames, nil
}
