package engine

import (
	"fmt"
	"strings"
)

// CheckInvariants verifies that every tile is in range, no tile floats above
// an empty cell, and empty columns are packed at the right edge.
func CheckInvariants(b *Board) error {
	for row := 0; row < b.width; row++ {
		for col := 0; col < b.width; col++ {
			t := b.cells[b.index(row, col)]
			if t < Empty || int(t) > b.colors {
				return fmt.Errorf("tile %d at (%d,%d) outside [0,%d]", t, row, col, b.colors)
			}
			if t != Empty && row > 0 && b.cells[b.index(row-1, col)] == Empty {
				return fmt.Errorf("floating tile at (%d,%d)", row, col)
			}
		}
	}

	seenEmpty := false
	for col := 0; col < b.width; col++ {
		empty := b.columnEmpty(col)
		if seenEmpty && !empty {
			return fmt.Errorf("column %d holds tiles right of an empty column", col)
		}
		seenEmpty = seenEmpty || empty
	}
	return nil
}

// Groups returns one position per removable group: its lowest, then
// leftmost, cell.
func Groups(b *Board) []Position {
	seen := make([]bool, len(b.cells))
	var groups []Position

	for row := 0; row < b.width; row++ {
		for col := 0; col < b.width; col++ {
			idx := b.index(row, col)
			if seen[idx] || !b.IsValidMove(row, col) {
				continue
			}
			for _, member := range b.region(row, col) {
				seen[member] = true
			}
			groups = append(groups, Position{Row: row, Col: col})
		}
	}
	return groups
}

// CountEmptyColumns counts fully empty columns
func CountEmptyColumns(b *Board) int {
	return len(b.emptyColumns())
}

// ParseLayout converts layout strings (top row first, one digit per tile,
// '.' for empty) into rows ordered bottom to top.
func ParseLayout(layout []string, colors int) ([][]Tile, error) {
	width := len(layout)
	rows := make([][]Tile, width)
	for i, line := range layout {
		if len(line) != width {
			return nil, fmt.Errorf("layout row %d must have %d characters, got %d", i+1, width, len(line))
		}
		row := make([]Tile, width)
		for j, ch := range line {
			switch {
			case ch == '.':
				row[j] = Empty
			case ch >= '1' && ch <= '9' && int(ch-'0') <= colors:
				row[j] = Tile(ch - '0')
			default:
				return nil, fmt.Errorf("invalid character '%c' at row %d, col %d", ch, i+1, j+1)
			}
		}
		rows[width-1-i] = row
	}
	return rows, nil
}

// FormatLayout is the inverse of ParseLayout.
func FormatLayout(rows [][]Tile) []string {
	lines := make([]string, 0, len(rows))
	for r := len(rows) - 1; r >= 0; r-- {
		var sb strings.Builder
		for _, t := range rows[r] {
			if t == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(fmt.Sprintf("%d", t))
		}
		lines = append(lines, sb.String())
	}
	return lines
}
