package commands

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/battlesnakeio/pit/rules"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	playerColor  = termbox.ColorYellow
	deadColor    = termbox.ColorRed
)

// boardLines renders a frame the way the game prints it.
func boardLines(game *rules.GameInfo, frame *rules.Frame) ([]string, error) {
	if frame == nil {
		return nil, errors.New("received nil frame")
	}
	p, err := rules.Restore(game.Rows, game.Cols, frame)
	if err != nil {
		return nil, err
	}

	msg := ""
	if frame.Player != nil && frame.Player.Cause != "" {
		msg = "Cause of death: " + frame.Player.Cause
	}
	buf := &bytes.Buffer{}
	if err := p.Render(buf, msg); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

func glyphColor(ch rune) termbox.Attribute {
	switch {
	case ch == rules.GlyphPlayer:
		return playerColor
	case ch == rules.GlyphDeadPlayer:
		return deadColor
	case ch == rules.GlyphSnake, ch >= '2' && ch <= '9':
		return snakeColor
	}
	return defaultColor
}

func render(game *rules.GameInfo, frame *rules.Frame) error {
	lines, err := boardLines(game, frame)
	if err != nil {
		return err
	}
	err = termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	left, top := 10, 2
	renderTitle(left, top, frame)
	for i, line := range lines {
		if i < game.Rows {
			renderRow(left, top+2+i, line)
			continue
		}
		tbprint(left, top+2+i, defaultColor, defaultColor, line)
	}
	tbprint(left, top+3+len(lines), defaultColor, defaultColor, "space: pause  arrows: step  esc: quit")

	return termbox.Flush()
}

func renderRow(x, y int, line string) {
	for _, c := range line {
		termbox.SetCell(x, y, c, glyphColor(c), bgColor)
		x += runewidth.RuneWidth(c)
	}
}

func renderTitle(left, top int, frame *rules.Frame) {
	tbprint(left, top, defaultColor, defaultColor, fmt.Sprintf("Snake Pit - Turn %d - %s", frame.Turn, frame.Status))
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
