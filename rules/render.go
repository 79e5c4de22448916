package rules

import (
	"fmt"
	"io"
	"strings"
)

// Cell glyphs used by the text renderer.
const (
	GlyphEmpty      = '.'
	GlyphSnake      = 'S'
	GlyphPlayer     = '@'
	GlyphDeadPlayer = '*'
)

// Glyph returns the character shown for (row, col): the player if it is
// there, otherwise the stacked snake count capped at 9.
func (p *Pit) Glyph(row, col int) byte {
	if pl := p.player; pl != nil && pl.row == row && pl.col == col {
		if pl.dead {
			return GlyphDeadPlayer
		}
		return GlyphPlayer
	}
	return snakeGlyph(p.SnakesAt(row, col))
}

func snakeGlyph(n int) byte {
	switch {
	case n <= 0:
		return GlyphEmpty
	case n == 1:
		return GlyphSnake
	case n >= 9:
		return '9'
	}
	return byte('0' + n)
}

// Render writes the grid followed by msg and the status lines.
func (p *Pit) Render(w io.Writer, msg string) error {
	counts := make([][]int, p.rows)
	for r := range counts {
		counts[r] = make([]int, p.cols)
	}
	for _, s := range p.snakes {
		counts[s.Row-1][s.Col-1]++
	}

	var b strings.Builder
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			g := snakeGlyph(counts[r][c])
			if pl := p.player; pl != nil && pl.row == r+1 && pl.col == c+1 {
				g = GlyphPlayer
				if pl.dead {
					g = GlyphDeadPlayer
				}
			}
			b.WriteByte(g)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n\n")

	if msg != "" {
		b.WriteString(msg)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "There are %d snakes remaining.\n", len(p.snakes))
	if p.player == nil {
		b.WriteString("There is no player.\n")
	} else {
		if p.player.age > 0 {
			fmt.Fprintf(&b, "The player has lasted %d steps.\n", p.player.age)
		}
		if p.player.dead {
			b.WriteString("The player is dead.\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
