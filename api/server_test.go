package api

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/pit/config"
	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/controller/filestore"
	"github.com/battlesnakeio/pit/rules"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func frame(turn int64, status rules.GameStatus) *rules.Frame {
	return &rules.Frame{
		Turn:   turn,
		Status: status,
		Player: &rules.PlayerState{Row: 1, Col: int(turn) + 1, Age: int(turn)},
		Snakes: []rules.Point{{Row: 2, Col: 2}},
	}
}

func createAPIServer(t *testing.T, status rules.GameStatus, turns int) (*Server, controller.Store) {
	store := controller.InMemStore()
	var frames []*rules.Frame
	for i := 0; i < turns; i++ {
		frames = append(frames, frame(int64(i), rules.GameStatusRunning))
	}
	err := store.CreateGame(context.Background(), &rules.GameInfo{
		ID:     "abc_123",
		Rows:   3,
		Cols:   5,
		Snakes: 1,
		Status: status,
	}, frames)
	require.NoError(t, err)
	return New(":1234", store), store
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	s.hs.Handler.ServeHTTP(rr, req)
	return rr
}

func TestGetGame(t *testing.T) {
	s, _ := createAPIServer(t, rules.GameStatusCleared, 3)

	rr := serve(s, "GET", "/games/abc_123")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	resp := &GameResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), resp))
	require.Equal(t, "abc_123", resp.Game.ID)
	require.Equal(t, rules.GameStatusCleared, resp.Game.Status)
	require.Equal(t, int64(2), resp.LastFrame.Turn)
}

func TestGetGameNotFound(t *testing.T) {
	s, _ := createAPIServer(t, rules.GameStatusCleared, 0)

	require.Equal(t, http.StatusNotFound, serve(s, "GET", "/games/missing").Code)
	require.Equal(t, http.StatusNotFound, serve(s, "GET", "/games/missing/frames").Code)
	require.Equal(t, http.StatusNotFound, serve(s, "GET", "/socket/missing").Code)
}

func TestGetFrames(t *testing.T) {
	s, _ := createAPIServer(t, rules.GameStatusCleared, 5)

	rr := serve(s, "GET", "/games/abc_123/frames?offset=1&limit=2")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := &FramesResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, int64(1), resp.Frames[0].Turn)
	require.Equal(t, int64(2), resp.Frames[1].Turn)

	rr = serve(s, "GET", "/games/abc_123/frames?offset=-1")
	require.Equal(t, http.StatusOK, rr.Code)
	resp = &FramesResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, int64(4), resp.Frames[0].Turn)

	rr = serve(s, "GET", "/games/abc_123/frames?offset=100")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"frames":[]`)

	rr = serve(s, "GET", "/games/abc_123/frames?limit=ten")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetrics(t *testing.T) {
	s, _ := createAPIServer(t, rules.GameStatusCleared, 0)
	rr := serve(s, "GET", "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "go_goroutines")
}

func dial(t *testing.T, s *Server) (*websocket.Conn, func()) {
	ts := httptest.NewServer(s.hs.Handler)
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket/abc_123"
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	return c, func() {
		c.Close()
		ts.Close()
	}
}

func readFrames(t *testing.T, c *websocket.Conn) []*rules.Frame {
	var frames []*rules.Frame
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			return frames
		}
		f := &rules.Frame{}
		require.NoError(t, json.Unmarshal(message, f))
		frames = append(frames, f)
	}
}

func TestFramesSocket(t *testing.T) {
	s, _ := createAPIServer(t, rules.GameStatusPlayerDead, 3)
	c, cleanup := dial(t, s)
	defer cleanup()

	frames := readFrames(t, c)
	require.Len(t, frames, 3)
	for i, f := range frames {
		require.Equal(t, int64(i), f.Turn)
	}
}

func TestFramesSocketFollowsRunningGame(t *testing.T) {
	old := config.SocketPollInterval
	config.SocketPollInterval = 10 * time.Millisecond
	defer func() { config.SocketPollInterval = old }()

	s, store := createAPIServer(t, rules.GameStatusRunning, 1)
	c, cleanup := dial(t, s)
	defer cleanup()

	go func() {
		ctx := context.Background()
		time.Sleep(30 * time.Millisecond)
		store.PushGameFrame(ctx, "abc_123", frame(1, rules.GameStatusRunning))
		store.PushGameFrame(ctx, "abc_123", frame(2, rules.GameStatusCleared))
		store.SetGameStatus(ctx, "abc_123", rules.GameStatusCleared)
	}()

	frames := readFrames(t, c)
	require.Len(t, frames, 3)
	require.Equal(t, rules.GameStatusCleared, frames[2].Status)
}

func TestFramesSocketFollowsGameFromAnotherStore(t *testing.T) {
	old := config.SocketPollInterval
	config.SocketPollInterval = 10 * time.Millisecond
	defer func() { config.SocketPollInterval = old }()

	dir, err := ioutil.TempDir("", "pit-api")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	// The game is written through its own store, as pit play --record
	// does, while the server reads the same directory.
	ctx := context.Background()
	writer := filestore.NewFileStore(dir)
	err = writer.CreateGame(ctx, &rules.GameInfo{
		ID:     "abc_123",
		Rows:   3,
		Cols:   5,
		Snakes: 1,
		Status: rules.GameStatusRunning,
	}, []*rules.Frame{frame(0, rules.GameStatusRunning)})
	require.NoError(t, err)

	s := New(":1234", filestore.NewFileStore(dir))
	c, cleanup := dial(t, s)
	defer cleanup()

	go func() {
		time.Sleep(30 * time.Millisecond)
		writer.PushGameFrame(ctx, "abc_123", frame(1, rules.GameStatusRunning))
		writer.PushGameFrame(ctx, "abc_123", frame(2, rules.GameStatusCleared))
		writer.SetGameStatus(ctx, "abc_123", rules.GameStatusCleared)
	}()

	frames := readFrames(t, c)
	require.Len(t, frames, 3)
	for i, f := range frames {
		require.Equal(t, int64(i), f.Turn)
	}
	require.Equal(t, rules.GameStatusCleared, frames[2].Status)
}
