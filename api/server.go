// Package api serves archived games over HTTP and streams their frames over
// a websocket.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/battlesnakeio/pit/config"
	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/rules"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultFrameLimit = 100
	maxFrameLimit     = 1000
)

// Server is the read side of a controller.Store.
type Server struct {
	hs    *http.Server
	store controller.Store
}

// GameResponse is returned by GET /games/:id.
type GameResponse struct {
	Game      *rules.GameInfo `json:"game"`
	LastFrame *rules.Frame    `json:"lastFrame,omitempty"`
}

// FramesResponse is returned by GET /games/:id/frames.
type FramesResponse struct {
	Count  int            `json:"count"`
	Frames []*rules.Frame `json:"frames"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// New creates a server listening on addr once WaitForExit is called.
func New(addr string, store controller.Store) *Server {
	router := httprouter.New()
	s := &Server{
		store: store,
		hs: &http.Server{
			Addr:    addr,
			Handler: cors.Default().Handler(router),
		},
	}

	router.GET("/games/:id", s.getGame)
	router.GET("/games/:id/frames", s.getFrames)
	router.GET("/socket/:id", s.framesSocket)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	return s.hs.Handler
}

// WaitForExit serves until the server fails or is shut down.
func (s *Server) WaitForExit() error {
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	game, err := s.store.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	frames, err := s.store.ListGameFrames(r.Context(), id, 1, -1)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := &GameResponse{Game: game}
	if len(frames) > 0 {
		resp.LastFrame = frames[0]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultFrameLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	if limit > maxFrameLimit {
		limit = maxFrameLimit
	}

	frames, err := s.store.ListGameFrames(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if frames == nil {
		frames = []*rules.Frame{}
	}
	writeJSON(w, http.StatusOK, &FramesResponse{Count: len(frames), Frames: frames})
}

// framesSocket sends every frame of a game as a JSON text message, waiting
// for new frames while the game is running, and closes normally once the
// game is over.
func (s *Server) framesSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	ctx := r.Context()
	if _, err := s.store.GetGame(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("GameID", id).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := s.streamFrames(ctx, conn, id); err != nil {
		log.WithError(err).WithField("GameID", id).Info("frame stream ended")
		return
	}
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		log.WithError(err).WithField("GameID", id).Debug("unable to send close")
	}
}

func (s *Server) streamFrames(ctx context.Context, conn *websocket.Conn, id string) error {
	offset := 0
	for {
		frames, err := s.store.ListGameFrames(ctx, id, defaultFrameLimit, offset)
		if err != nil {
			return err
		}
		for _, f := range frames {
			if err := conn.WriteJSON(f); err != nil {
				return errors.Wrap(err, "unable to write frame")
			}
		}
		offset += len(frames)
		if len(frames) > 0 {
			continue
		}

		game, err := s.store.GetGame(ctx, id)
		if err != nil {
			return err
		}
		if game.Status.Done() {
			// Frames pushed before the final status are already stored.
			frames, err := s.store.ListGameFrames(ctx, id, maxFrameLimit, offset)
			if err != nil {
				return err
			}
			for _, f := range frames {
				if err := conn.WriteJSON(f); err != nil {
					return errors.Wrap(err, "unable to write frame")
				}
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.SocketPollInterval):
		}
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest{errors.Wrapf(err, "invalid %s", name)}
	}
	return i, nil
}

type badRequest struct{ error }

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.Cause(err).(type) {
	case badRequest:
		status = http.StatusBadRequest
	}
	if errors.Cause(err) == controller.ErrNotFound {
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("api request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("unable to write response")
	}
}
