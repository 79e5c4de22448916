package filestore

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/pit/rules"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	text   string
	err    error
	closed bool
}

func (w *mockWriter) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	w.text += s
	return len(s), nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func basicGame() *rules.GameInfo {
	return &rules.GameInfo{
		ID:      "myid",
		Rows:    9,
		Cols:    10,
		Snakes:  2,
		Seed:    1234,
		Status:  rules.GameStatusRunning,
		Created: time.Date(2018, 6, 8, 0, 0, 0, 0, time.UTC),
	}
}

func basicFrames() []*rules.Frame {
	return []*rules.Frame{
		{
			Turn:   0,
			Status: rules.GameStatusRunning,
			Player: &rules.PlayerState{Row: 4, Col: 4},
			Snakes: []rules.Point{{Row: 1, Col: 1}, {Row: 6, Col: 3}},
		},
		{
			Turn:   1,
			Status: rules.GameStatusRunning,
			Player: &rules.PlayerState{Row: 4, Col: 5, Age: 1},
			Snakes: []rules.Point{{Row: 1, Col: 2}, {Row: 6, Col: 3}},
		},
	}
}

var frameWithDeadPlayer = &rules.Frame{
	Turn:   1,
	Status: rules.GameStatusPlayerDead,
	Player: &rules.PlayerState{Row: 1, Col: 2, Age: 1, Dead: true, Cause: rules.DeathCauseSnakeCollision},
	Snakes: []rules.Point{{Row: 1, Col: 2}},
}

func checkBasicGameJSON(t *testing.T, j string) {
	l := &line{}
	err := json.Unmarshal([]byte(j), l)
	require.NoError(t, err)

	require.NotNil(t, l.Game)
	require.Nil(t, l.Frame)
	require.Equal(t, "myid", l.Game.ID)
	require.Equal(t, 9, l.Game.Rows)
	require.Equal(t, 10, l.Game.Cols)
}

func checkBasicFrameJSON(t *testing.T, j string, turn int64) {
	l := &line{}
	err := json.Unmarshal([]byte(j), l)
	require.NoError(t, err)

	require.Nil(t, l.Game)
	require.NotNil(t, l.Frame)
	require.Equal(t, turn, l.Frame.Turn, "wrong turn")
	require.Len(t, l.Frame.Snakes, 2, "wrong snake count")
	require.False(t, l.Frame.Player.Dead)
}

func TestWriteGameInfo(t *testing.T) {
	w := &mockWriter{}
	err := writeGameInfo(w, basicGame())
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(w.text, "\n"))
	checkBasicGameJSON(t, w.text)
}

func TestWriteGameInfoError(t *testing.T) {
	w := &mockWriter{
		err: errors.New("fail"),
	}
	err := writeGameInfo(w, basicGame())
	require.NotNil(t, err)
}

func TestWriteFrame(t *testing.T) {
	w := &mockWriter{}
	err := writeFrame(w, basicFrames()[1])
	require.NoError(t, err)
	checkBasicFrameJSON(t, w.text, 1)
}

func TestWriteFrameWithDeadPlayer(t *testing.T) {
	w := &mockWriter{}
	err := writeFrame(w, frameWithDeadPlayer)
	require.NoError(t, err)

	l := &line{}
	require.NoError(t, json.Unmarshal([]byte(w.text), l))
	require.True(t, l.Frame.Player.Dead)
	require.Equal(t, rules.DeathCauseSnakeCollision, l.Frame.Player.Cause)
	require.Equal(t, rules.GameStatusPlayerDead, l.Frame.Status)
}

func TestWriteStatus(t *testing.T) {
	w := &mockWriter{}
	err := writeStatus(w, rules.GameStatusQuit)
	require.NoError(t, err)
	require.Equal(t, "{\"status\":\"quit\"}\n", w.text)
}

func TestAppendOnlyFileWriter(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	w, err := appendOnlyFileWriter(dir+"/nested", "abc", true)
	require.NoError(t, err)
	_, err = w.WriteString("hello\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// mustCreate refuses an existing archive.
	_, err = appendOnlyFileWriter(dir+"/nested", "abc", true)
	require.Error(t, err)
	require.True(t, os.IsExist(err))

	w, err = appendOnlyFileWriter(dir+"/nested", "abc", false)
	require.NoError(t, err)
	_, err = w.WriteString("again\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := ioutil.ReadFile(getFilePath(dir+"/nested", "abc"))
	require.NoError(t, err)
	require.Equal(t, "hello\nagain\n", string(data))
}
