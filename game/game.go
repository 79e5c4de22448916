// Package game seeds a pit and runs the interactive turn loop over it.
package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/battlesnakeio/pit/rules"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

// Prompt is written after every render while the game is running.
const Prompt = "Move (u/d/l/r//q): "

var (
	// ErrTooManySnakes is returned when more than rules.MaxSnakes are requested.
	ErrTooManySnakes = errors.New("game: too many snakes")
	// ErrInvalidSnakeCount is returned for a negative snake count.
	ErrInvalidSnakeCount = errors.New("game: invalid snake count")
	// ErrNoRoom is returned when snakes are requested but the only cell
	// belongs to the player.
	ErrNoRoom = errors.New("game: no room for snakes")
)

// Config describes a new game.
type Config struct {
	Rows   int
	Cols   int
	Snakes int
	// Seed for the random source. Zero picks one from the clock.
	Seed int64
	// Rand overrides the seeded source when set.
	Rand rules.Rand
}

// Recorder archives the frames of a game as it is played.
// controller.Store satisfies it.
type Recorder interface {
	CreateGame(context.Context, *rules.GameInfo, []*rules.Frame) error
	PushGameFrame(context.Context, string, *rules.Frame) error
	SetGameStatus(context.Context, string, rules.GameStatus) error
}

// Game owns one pit and plays it to the end.
type Game struct {
	Info *rules.GameInfo

	// Recorder is optional. Recording failures are logged and stop recording
	// but never the game.
	Recorder Recorder
	Log      *log.Entry
	// Clear is called before every render.
	Clear func(io.Writer)

	pit  *rules.Pit
	turn int64
}

// New creates a pit, places the player on a random cell and then the
// snakes on random cells other than the player's.
func New(cfg Config) (*Game, error) {
	if cfg.Snakes > rules.MaxSnakes {
		return nil, errors.Wrapf(ErrTooManySnakes, "%d snakes; only %d are allowed", cfg.Snakes, rules.MaxSnakes)
	}
	if cfg.Snakes < 0 {
		return nil, errors.Wrapf(ErrInvalidSnakeCount, "%d snakes", cfg.Snakes)
	}

	rng := cfg.Rand
	if rng == nil {
		rng, cfg.Seed = rules.NewRand(cfg.Seed)
	}

	p, err := rules.NewPit(cfg.Rows, cfg.Cols, rng)
	if err != nil {
		return nil, err
	}
	if cfg.Snakes > 0 && cfg.Rows*cfg.Cols == 1 {
		return nil, errors.Wrapf(ErrNoRoom, "%d snakes in a 1 by 1 pit", cfg.Snakes)
	}

	rPlayer := 1 + rng.Intn(cfg.Rows)
	cPlayer := 1 + rng.Intn(cfg.Cols)
	p.AddPlayer(rPlayer, cPlayer)

	for n := cfg.Snakes; n > 0; {
		r := 1 + rng.Intn(cfg.Rows)
		c := 1 + rng.Intn(cfg.Cols)
		if r == rPlayer && c == cPlayer {
			continue
		}
		if err := p.AddSnake(r, c); err != nil {
			return nil, err
		}
		n--
	}

	g := FromPit(p)
	g.Info.Snakes = cfg.Snakes
	g.Info.Seed = cfg.Seed
	return g, nil
}

// FromPit wraps an already populated pit in a game.
func FromPit(p *rules.Pit) *Game {
	id := uuid.NewV4().String()
	return &Game{
		Info: &rules.GameInfo{
			ID:      id,
			Rows:    p.Rows(),
			Cols:    p.Cols(),
			Snakes:  p.SnakeCount(),
			Status:  rules.GameStatusRunning,
			Created: time.Now().UTC(),
		},
		Log:   log.WithField("GameID", id),
		Clear: ClearScreen,
		pit:   p,
	}
}

// Pit returns the pit being played.
func (g *Game) Pit() *rules.Pit { return g.pit }

// Turn returns the number of completed turns.
func (g *Game) Turn() int64 { return g.turn }

// ClearScreen clears a terminal with ANSI escapes, or writes a newline
// when the terminal cannot handle them.
func ClearScreen(w io.Writer) {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprint(w, "\x1b[2J\x1b[H")
}

// Play runs the turn loop, reading one command per line from in and
// rendering to out, until the player dies, the pit is cleared, or the
// player quits. End of input and a cancelled context count as quitting.
func (g *Game) Play(ctx context.Context, in io.Reader, out io.Writer) (rules.GameStatus, error) {
	g.startRecording(ctx)

	if g.pit.Player() == nil {
		if err := g.render(out); err != nil {
			return "", err
		}
		return g.finish(ctx, rules.GameStatusQuit), nil
	}

	r := bufio.NewReader(in)
	for {
		if ctx.Err() != nil {
			return g.finish(ctx, rules.GameStatusQuit), nil
		}
		if err := g.render(out); err != nil {
			return "", err
		}
		fmt.Fprint(out, "\n"+Prompt)

		line, err := r.ReadString('\n')
		if err == io.EOF && line == "" {
			return g.finish(ctx, rules.GameStatusQuit), nil
		}
		if err != nil && err != io.EOF {
			return "", errors.Wrap(err, "unable to read command")
		}
		line = strings.TrimRight(line, "\r\n")

		player := g.pit.Player()
		if line == "" {
			player.Stand()
		} else {
			if line[0] == 'q' {
				return g.finish(ctx, rules.GameStatusQuit), nil
			}
			dir, ok := rules.ParseDirection(line[0])
			if !ok {
				fmt.Fprint(out, "\a\n")
				continue
			}
			player.Move(g.pit, dir)
		}
		g.pit.MoveSnakes()
		g.turn++

		status := g.status()
		g.Log.WithFields(log.Fields{
			"Turn":    g.turn,
			"Command": line,
			"Snakes":  g.pit.SnakeCount(),
			"Status":  status,
		}).Debug("turn")
		g.record(ctx, g.pit.Frame(g.turn, status))

		if status.Done() {
			if err := g.render(out); err != nil {
				return "", err
			}
			return g.finish(ctx, status), nil
		}
	}
}

func (g *Game) status() rules.GameStatus {
	switch {
	case g.pit.Player().IsDead():
		return rules.GameStatusPlayerDead
	case g.pit.SnakeCount() == 0:
		return rules.GameStatusCleared
	}
	return rules.GameStatusRunning
}

func (g *Game) render(out io.Writer) error {
	if g.Clear != nil {
		g.Clear(out)
	}
	return errors.Wrap(g.pit.Render(out, ""), "unable to render pit")
}

func (g *Game) startRecording(ctx context.Context) {
	if g.Recorder == nil {
		return
	}
	frames := []*rules.Frame{g.pit.Frame(g.turn, rules.GameStatusRunning)}
	if err := g.Recorder.CreateGame(ctx, g.Info, frames); err != nil {
		g.Log.WithError(err).Error("unable to record game, recording disabled")
		g.Recorder = nil
	}
}

func (g *Game) record(ctx context.Context, f *rules.Frame) {
	if g.Recorder == nil {
		return
	}
	if err := g.Recorder.PushGameFrame(ctx, g.Info.ID, f); err != nil {
		g.Log.WithError(err).WithField("Turn", f.Turn).Error("unable to record frame, recording disabled")
		g.Recorder = nil
	}
}

func (g *Game) finish(ctx context.Context, status rules.GameStatus) rules.GameStatus {
	g.Info.Status = status
	entry := g.Log.WithFields(log.Fields{
		"Turn":   g.turn,
		"Status": status,
		"Snakes": g.pit.SnakeCount(),
	})
	if p := g.pit.Player(); p != nil {
		entry = entry.WithFields(log.Fields{
			"Age":   p.Age(),
			"Cause": p.DeathCause(),
		})
	}
	entry.Info("game over")

	if g.Recorder != nil {
		if ctx.Err() != nil {
			ctx = context.Background()
		}
		if err := g.Recorder.SetGameStatus(ctx, g.Info.ID, status); err != nil {
			g.Log.WithError(err).Error("unable to record game status")
		}
	}
	return status
}
