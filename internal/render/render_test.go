package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/samegame/game/engine"
)

func TestFormatBoard(t *testing.T) {
	grid := [][]engine.Tile{
		{3, 2, 2},
		{0, 3, 2},
		{0, 0, 3},
	}

	want := "" +
		"2 | . . 3\n" +
		"1 | . 3 2\n" +
		"0 | 3 2 2\n" +
		"  +------\n" +
		"    0 1 2\n"
	assert.Equal(t, want, FormatBoard(grid))
}

func TestFormatBoard_WideLabels(t *testing.T) {
	b, err := engine.NewBoard(12, 3, engine.NewFixedSource(0))
	require.NoError(t, err)

	out := FormatBoard(b.Rows())
	assert.Contains(t, out, "11 |  1  1")
	assert.Contains(t, out, " 0 |  1")
	assert.Contains(t, out, "     0  1  2")
}

func TestRenderer_Render(t *testing.T) {
	state := &engine.GameState{
		Width:           2,
		Grid:            [][]engine.Tile{{1, 2}, {1, 0}},
		Score:           4,
		TilesRemoved:    9,
		AvailableGroups: 1,
		Message:         "Removed 3 tiles",
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(&buf, true).Render(state))
		out := buf.String()
		assert.Contains(t, out, "Score: 4  Tiles removed: 9  Groups: 1")
		assert.Contains(t, out, "1 | 1 .\n0 | 1 2\n")
		assert.Contains(t, out, "Removed 3 tiles")
		assert.NotContains(t, out, "Game over")
	})

	t.Run("colored", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(&buf, false).Render(state))
		assert.Contains(t, color.ClearCode(buf.String()), "0 | 1 2")
	})

	t.Run("game over", func(t *testing.T) {
		over := *state
		over.GameOver = true
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(&buf, true).Render(&over))
		assert.Contains(t, buf.String(), "Game over")
	})
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		row     int
		col     int
		wantErr bool
	}{
		{in: "0 0", row: 0, col: 0},
		{in: "  2   4 ", row: 2, col: 4},
		{in: "3,1", row: 3, col: 1},
		{in: "3, 1", row: 3, col: 1},
		{in: "1", wantErr: true},
		{in: "1 2 3", wantErr: true},
		{in: "a 2", wantErr: true},
		{in: "2 b", wantErr: true},
		{in: "5 0", wantErr: true},
		{in: "0 -1", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			row, col, err := ParseCell(tt.in, 5)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}

	_, _, err := ParseCell("x y", 5)
	assert.True(t, errors.Is(err, ErrBadInput))
}

func TestCellAt(t *testing.T) {
	// 4x4 board drawn with 10px cells, origin at the top-left
	tests := []struct {
		name   string
		x, y   int
		row    int
		col    int
		wantOK bool
	}{
		{name: "top-left", x: 0, y: 0, row: 3, col: 0, wantOK: true},
		{name: "bottom-left", x: 5, y: 39, row: 0, col: 0, wantOK: true},
		{name: "bottom-right", x: 39, y: 39, row: 0, col: 3, wantOK: true},
		{name: "middle", x: 25, y: 15, row: 2, col: 2, wantOK: true},
		{name: "past right edge", x: 40, y: 0},
		{name: "past bottom edge", x: 0, y: 40},
		{name: "negative", x: -1, y: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := CellAt(tt.x, tt.y, 10, 4)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.row, row)
				assert.Equal(t, tt.col, col)
			}
		})
	}

	_, _, ok := CellAt(1, 1, 0, 4)
	assert.False(t, ok)
}
