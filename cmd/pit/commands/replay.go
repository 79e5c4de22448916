package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/battlesnakeio/pit/config"
	"github.com/battlesnakeio/pit/controller"
	"github.com/battlesnakeio/pit/rules"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var apiAddr string

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().StringVar(&apiAddr, "api-addr", "", "replay from a pit api server (e.g. http://localhost:3005) instead of the store")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays an archived game",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		var (
			game   *rules.GameInfo
			frames *frameHolder
			err    error
		)
		if apiAddr != "" {
			game, frames, err = loadRemoteGame(apiAddr, gameID)
		} else {
			game, frames, err = loadStoredGame(gameID)
		}
		if err != nil {
			return err
		}
		return replayGame(game, frames)
	},
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *rules.Frame, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		return frameIndex, nil, true
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *rules.Frame) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

func loadStoredGame(id string) (*rules.GameInfo, *frameHolder, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer closeStore(store)
	return readStoredGame(context.Background(), store, id)
}

func readStoredGame(ctx context.Context, store controller.Store, id string) (*rules.GameInfo, *frameHolder, error) {
	game, err := store.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	frames := &frameHolder{}
	for offset := 0; ; {
		page, err := store.ListGameFrames(ctx, id, 100, offset)
		if err != nil {
			return nil, nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, f := range page {
			frames.append(f)
		}
		offset += len(page)
	}
	if frames.count() == 0 {
		return nil, nil, fmt.Errorf("game %s has no frames", id)
	}
	return game, frames, nil
}

func loadRemoteGame(addr, id string) (*rules.GameInfo, *frameHolder, error) {
	gr, err := getStatus(addr, id)
	if err != nil {
		return nil, nil, err
	}

	frames := &frameHolder{}

	u := url.URL{Scheme: "ws", Host: strings.Replace(addr, "http://", "", 1), Path: fmt.Sprintf("/socket/%s", id)}
	log.WithField("url", u.String()).Info("connecting to frame stream")

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, nil, err
	}

	go func() {
		defer func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("failure to close websocket connection")
			}
		}()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Warn("frame stream read failed")
				}
				return
			}

			switch mt {
			case websocket.TextMessage:
				frame := &rules.Frame{}
				err = json.Unmarshal(message, frame)
				if err != nil {
					log.WithError(err).Warn("unable to unmarshal frame")
					return
				}

				frames.append(frame)
			default:
				log.WithField("type", mt).Warn("unhandled message type")
			}
		}
	}()

	return gr.Game, frames, nil
}

func ticker(ctx context.Context, limiter *rate.Limiter) <-chan struct{} {
	ticks := make(chan struct{})
	go func() {
		defer close(ticks)
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case ticks <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ticks
}

func replayGame(game *rules.GameInfo, frames *frameHolder) error {
	currentFrame, err := getInitialFrame(frames)
	if err != nil {
		return err
	}

	if err = termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventQueue := setupEventQueue()
	cycle := ticker(ctx, rate.NewLimiter(config.ReplayRate, config.ReplayBurst))
	frameIndex := 0
	paused := false
	done := false

	for !done {
		select {
		case ev := <-eventQueue:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch ev.Key {
			case termbox.KeyEsc:
				return nil
			case termbox.KeySpace:
				paused = !paused
			case termbox.KeyArrowLeft:
				paused = true
				frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
				if err = render(game, currentFrame); err != nil {
					return err
				}
			case termbox.KeyArrowRight:
				paused = true
				frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
				if !done {
					if err = render(game, currentFrame); err != nil {
						return err
					}
				}
			}
		case <-cycle:
			if paused {
				continue
			}
			if err = render(game, currentFrame); err != nil {
				return err
			}
			frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
		}
	}

	tbprint(0, 0, defaultColor, defaultColor, "Press any key to exit...")
	if err = termbox.Flush(); err != nil {
		return err
	}
	<-eventQueue
	return nil
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}

func getInitialFrame(frames *frameHolder) (*rules.Frame, error) {
	select {
	case f := <-frames.initialFrame():
		return f, nil
	case <-time.After(time.Second):
		return nil, errors.New("unable to find initial frame for game")
	}
}
