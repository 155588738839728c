package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWidth  = errors.New("board width must be positive")
	ErrInvalidColors = errors.New("board must have at least one color")
	ErrInvalidLayout = errors.New("invalid board layout")
)

// neighborOffsets lists the four orthogonal directions: up, down, left, right
var neighborOffsets = [4]Position{
	{Row: 1, Col: 0},
	{Row: -1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Board is a width×width grid of tiles plus the score. It is not safe for
// concurrent use; callers that share a Board must serialize access.
type Board struct {
	width  int
	colors int
	cells  []Tile // row-major, index row*width+col, row 0 at the bottom
	score  int
	rng    RandomSource
}

// NewBoard creates a board of the given width filled with random colors in
// [1, colors]. A nil rng falls back to a time-seeded source.
func NewBoard(width, colors int, rng RandomSource) (*Board, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, width)
	}
	if colors < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidColors, colors)
	}
	if rng == nil {
		rng = NewTimeSource()
	}

	b := &Board{
		width:  width,
		colors: colors,
		cells:  make([]Tile, width*width),
		rng:    rng,
	}
	for col := 0; col < width; col++ {
		b.fillColumn(col)
	}
	return b, nil
}

// NewBoardFromRows builds a board from explicit rows ordered bottom to top.
// The rows must form a square grid that already satisfies the board
// invariants; rng is used for later refills.
func NewBoardFromRows(rows [][]Tile, colors int, rng RandomSource) (*Board, error) {
	width := len(rows)
	if width == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInvalidWidth)
	}
	if colors < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidColors, colors)
	}
	if rng == nil {
		rng = NewTimeSource()
	}

	b := &Board{
		width:  width,
		colors: colors,
		cells:  make([]Tile, width*width),
		rng:    rng,
	}
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrInvalidLayout, r, len(row), width)
		}
		copy(b.cells[r*width:(r+1)*width], row)
	}
	if err := CheckInvariants(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return b, nil
}

// Width returns the number of rows and columns
func (b *Board) Width() int {
	return b.width
}

// Colors returns the palette size K
func (b *Board) Colors() int {
	return b.colors
}

// Score returns the number of columns cleared so far
func (b *Board) Score() int {
	return b.score
}

// Color returns the tile at (row, col), or Empty when out of bounds.
func (b *Board) Color(row, col int) Tile {
	if !b.inBounds(row, col) {
		return Empty
	}
	return b.cells[b.index(row, col)]
}

// IsEmpty reports whether (row, col) holds no tile. Out of bounds is empty.
func (b *Board) IsEmpty(row, col int) bool {
	return b.Color(row, col) == Empty
}

// IsValidMove reports whether clicking (row, col) would remove anything: the
// cell must hold a tile that matches at least one orthogonal neighbor.
func (b *Board) IsValidMove(row, col int) bool {
	color := b.Color(row, col)
	if color == Empty {
		return false
	}
	for _, d := range neighborOffsets {
		if b.Color(row+d.Row, col+d.Col) == color {
			return true
		}
	}
	return false
}

// HasValidMoves reports whether any move is left. Every adjacent pair is seen
// from its lower or left member, so checking right and up is enough.
func (b *Board) HasValidMoves() bool {
	for row := 0; row < b.width; row++ {
		for col := 0; col < b.width; col++ {
			color := b.Color(row, col)
			if color == Empty {
				continue
			}
			if b.Color(row, col+1) == color || b.Color(row+1, col) == color {
				return true
			}
		}
	}
	return false
}

// Region returns the positions a click on (row, col) would remove, or nil
// when the click is not a valid move.
func (b *Board) Region(row, col int) []Position {
	if !b.IsValidMove(row, col) {
		return nil
	}
	indices := b.region(row, col)
	positions := make([]Position, len(indices))
	for i, idx := range indices {
		positions[i] = Position{Row: idx / b.width, Col: idx % b.width}
	}
	return positions
}

// PerformMove applies a click at (row, col). Invalid moves are ignored.
func (b *Board) PerformMove(row, col int) {
	b.Apply(row, col)
}

// Apply is PerformMove with a report of what happened. When the move is not
// valid the board is untouched and the outcome has Applied set to false.
func (b *Board) Apply(row, col int) MoveOutcome {
	if !b.IsValidMove(row, col) {
		return MoveOutcome{}
	}

	outcome := MoveOutcome{
		Applied: true,
		Color:   b.Color(row, col),
	}

	region := b.region(row, col)
	outcome.Removed = len(region)
	outcome.Region = make([]Position, len(region))
	for i, idx := range region {
		b.cells[idx] = Empty
		outcome.Region[i] = Position{Row: idx / b.width, Col: idx % b.width}
	}

	b.fallDown()
	b.fallLeft()

	cleared := b.emptyColumns()
	outcome.ClearedColumns = len(cleared)
	outcome.ScoreDelta = len(cleared)
	b.score += len(cleared)

	for _, col := range cleared {
		b.fillColumn(col)
	}

	return outcome
}

// Rows returns a copy of the grid, rows ordered bottom to top
func (b *Board) Rows() [][]Tile {
	rows := make([][]Tile, b.width)
	for r := range rows {
		rows[r] = make([]Tile, b.width)
		copy(rows[r], b.cells[r*b.width:(r+1)*b.width])
	}
	return rows
}

// Clone returns a deep copy of the board that shares the random source.
func (b *Board) Clone() *Board {
	cells := make([]Tile, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		width:  b.width,
		colors: b.colors,
		cells:  cells,
		score:  b.score,
		rng:    b.rng,
	}
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.width && col >= 0 && col < b.width
}

func (b *Board) index(row, col int) int {
	return row*b.width + col
}
