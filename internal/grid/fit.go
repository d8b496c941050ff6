package grid

type histEntry struct {
	start  int
	height int
}

// FitRect returns the largest axis-aligned rectangle of room whose cells are all
// unoccupied. Cells of room that fall outside g count as unoccupied. Among equal areas
// the first rectangle found by a top-to-bottom, left-to-right scan wins. When no free cell
// exists the result is empty and anchored at room.TL.
func FitRect[T any](g *Grid[T], room Rect, occupied func(T) bool) Rect {
	best := EmptyAt(room.TL)
	if room.Empty() {
		return best
	}
	w, h := room.Width(), room.Height()

	// Column-wise histogram: heights[row*w+col] counts free cells ending at that row.
	heights := make([]int, w*h)
	col := 0
	for column := range room.Columns() {
		run := 0
		for row, p := range column {
			if g.bounds.Includes(p) && occupied(g.get(p)) {
				run = 0
			} else {
				run++
			}
			heights[row*w+col] = run
		}
		col++
	}

	bestArea := 0
	stack := make([]histEntry, 0, w)
	closeRun := func(x, y, height int) int {
		start := x
		for len(stack) > 0 && stack[len(stack)-1].height > height {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			width := x - top.start
			if area := top.height * width; area > bestArea {
				bestArea = area
				best = Rect{
					TL: Position{top.start, y - top.height + 1},
					BR: Position{x - 1, y},
				}
			}
			start = top.start
		}
		return start
	}

	for row := 0; row < h; row++ {
		y := room.TL.Y + row
		stack = stack[:0]
		for c := 0; c < w; c++ {
			x := room.TL.X + c
			height := heights[row*w+c]
			start := closeRun(x, y, height)
			if height > 0 && (len(stack) == 0 || stack[len(stack)-1].height < height) {
				stack = append(stack, histEntry{start: start, height: height})
			}
		}
		closeRun(room.BR.X+1, y, 0)
	}
	return best
}
