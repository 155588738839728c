package engine

// region collects the cell indices of the same-color group containing
// (row, col). It uses an explicit stack so large boards cannot overflow the
// call stack. The caller guarantees (row, col) holds a tile.
func (b *Board) region(row, col int) []int {
	color := b.Color(row, col)
	if color == Empty {
		return nil
	}

	visited := make([]bool, len(b.cells))
	start := b.index(row, col)
	visited[start] = true
	stack := []int{start}
	var group []int

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, idx)

		r, c := idx/b.width, idx%b.width
		for _, d := range neighborOffsets {
			nr, nc := r+d.Row, c+d.Col
			if b.Color(nr, nc) != color {
				continue
			}
			next := b.index(nr, nc)
			if visited[next] {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}

	return group
}

// fallDown lets tiles drop into empty cells below them. Each sweep moves a
// tile at most one row, so width sweeps always settle the board.
func (b *Board) fallDown() {
	for sweep := 0; sweep < b.width; sweep++ {
		for row := 1; row < b.width; row++ {
			for col := 0; col < b.width; col++ {
				here, below := b.index(row, col), b.index(row-1, col)
				if b.cells[here] != Empty && b.cells[below] == Empty {
					b.cells[here], b.cells[below] = b.cells[below], b.cells[here]
				}
			}
		}
	}
}

// fallLeft shifts non-empty columns left over empty ones until every empty
// column sits at the right edge.
func (b *Board) fallLeft() {
	for sweep := 0; sweep < b.width; sweep++ {
		for col := 0; col+1 < b.width; col++ {
			if b.columnEmpty(col) && !b.columnEmpty(col+1) {
				b.swapColumns(col, col+1)
			}
		}
	}
}

// emptyColumns returns the indices of fully empty columns
func (b *Board) emptyColumns() []int {
	var cols []int
	for col := 0; col < b.width; col++ {
		if b.columnEmpty(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

func (b *Board) columnEmpty(col int) bool {
	for row := 0; row < b.width; row++ {
		if b.cells[b.index(row, col)] != Empty {
			return false
		}
	}
	return true
}

func (b *Board) swapColumns(a, c int) {
	for row := 0; row < b.width; row++ {
		i, j := b.index(row, a), b.index(row, c)
		b.cells[i], b.cells[j] = b.cells[j], b.cells[i]
	}
}

// fillColumn gives every cell of col a fresh random color in [1, colors]
func (b *Board) fillColumn(col int) {
	for row := 0; row < b.width; row++ {
		b.cells[b.index(row, col)] = Tile(1 + b.rng.IntN(b.colors))
	}
}
