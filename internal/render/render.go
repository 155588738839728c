// Package render draws boards for the terminal and turns player input into
// board coordinates.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"

	"github.com/wricardo/mcp-training/samegame/game/engine"
)

// ErrBadInput is returned when a typed cell cannot be parsed
var ErrBadInput = errors.New("expected \"row col\"")

// palette maps a tile color to its background. Index 0 is the empty cell.
var palette = [engine.MaxColors + 1]color.Color{
	color.BgDefault,
	color.BgRed,
	color.BgGreen,
	color.BgYellow,
	color.BgBlue,
	color.BgMagenta,
	color.BgCyan,
	color.BgLightRed,
	color.BgLightBlue,
}

// Renderer writes game states to a terminal
type Renderer struct {
	w     io.Writer
	plain bool
}

// NewRenderer creates a renderer. plain disables ANSI colors.
func NewRenderer(w io.Writer, plain bool) *Renderer {
	return &Renderer{w: w, plain: plain}
}

// Render writes the score line, the board and the current message
func (r *Renderer) Render(state *engine.GameState) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Score: %d  Tiles removed: %d  Groups: %d\n",
		state.Score, state.TilesRemoved, state.AvailableGroups)
	r.writeGrid(&b, state.Grid)
	if state.Message != "" {
		b.WriteString(state.Message)
		b.WriteByte('\n')
	}
	if state.GameOver {
		b.WriteString("Game over. Type r to play again or q to quit.\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) writeGrid(b *strings.Builder, grid [][]engine.Tile) {
	width := len(grid)
	label := len(strconv.Itoa(width - 1))

	for row := width - 1; row >= 0; row-- {
		fmt.Fprintf(b, "%*d |", label, row)
		for _, tile := range grid[row] {
			b.WriteString(r.cell(tile, label))
		}
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", label) + " +")
	b.WriteString(strings.Repeat("-", width*(label+1)))
	b.WriteByte('\n')

	b.WriteString(strings.Repeat(" ", label+2))
	for col := 0; col < width; col++ {
		fmt.Fprintf(b, " %*d", label, col)
	}
	b.WriteByte('\n')
}

func (r *Renderer) cell(tile engine.Tile, size int) string {
	text := " " + fmt.Sprintf("%*s", size, tileChar(tile))
	if r.plain || tile <= engine.Empty || int(tile) >= len(palette) {
		return text
	}
	return palette[tile].Sprint(text)
}

// FormatBoard renders grid (rows bottom to top) as plain text, top row
// first, with row labels and a column ruler. Tiles are digits and empty
// cells are '.'.
func FormatBoard(grid [][]engine.Tile) string {
	var b strings.Builder
	NewRenderer(nil, true).writeGrid(&b, grid)
	return b.String()
}

func tileChar(tile engine.Tile) string {
	if tile == engine.Empty {
		return "."
	}
	return strconv.Itoa(int(tile))
}

// ParseCell reads a typed "row col" (or "row,col") pair and checks it
// against the board width.
func ParseCell(line string, width int) (row, col int, err error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, ErrBadInput
	}

	row, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad row %q", ErrBadInput, fields[0])
	}
	col, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad column %q", ErrBadInput, fields[1])
	}

	if row < 0 || row >= width || col < 0 || col >= width {
		return 0, 0, fmt.Errorf("cell (%d,%d) is outside the %dx%d board", row, col, width, width)
	}
	return row, col, nil
}

// CellAt converts a pointer position to a cell. Screen y grows downward
// while board rows grow upward, so the row is flipped.
func CellAt(x, y, cellSize, width int) (row, col int, ok bool) {
	if cellSize <= 0 || x < 0 || y < 0 {
		return 0, 0, false
	}
	col = x / cellSize
	row = width - 1 - y/cellSize
	if col >= width || row < 0 {
		return 0, 0, false
	}
	return row, col, true
}
