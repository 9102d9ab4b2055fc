package grid

// Fill closes every gap of g in place.
//
// Each row is filled in two passes. The forward pass scans day 0→last and
// gives every gap the next observed value of the row, so weekend and holiday
// cells take the close of the following trading day. The backward pass scans
// last→0 and gives the trailing gap after the final observed day the previous
// value. Rows that are still empty (no observation in that month) then copy
// the nearest row that had data, ties going to the lower row index.
//
// Fill is idempotent: running it on a filled grid changes nothing.
func Fill(g *Grid) {
	for r := 0; r < g.rows; r++ {
		row := g.row(r)
		forwardFill(row)
		backwardFill(row)
	}
	fillEmptyRows(g)
}

// forwardFill fills each gap with the next observed value of the month, so
// with day 0 = 100 and day 30 = 200 the days 1..30 read 200. Gaps after the
// last observation are left for backwardFill.
func forwardFill(row []Cell) {
	for c := 0; c < len(row); c++ {
		if row[c].Valid {
			continue
		}
		next := c + 1
		for next < len(row) && !row[next].Valid {
			next++
		}
		if next == len(row) {
			// trailing gap, left for the backward pass
			return
		}
		for ; c < next; c++ {
			row[c] = row[next]
		}
	}
}

// backwardFill carries the last observed value into the trailing gap.
func backwardFill(row []Cell) {
	for c := len(row) - 1; c >= 0; c-- {
		if row[c].Valid {
			continue
		}
		prev := c - 1
		for prev >= 0 && !row[prev].Valid {
			prev--
		}
		if prev < 0 {
			return
		}
		for ; c > prev; c-- {
			row[c] = row[prev]
		}
	}
}

// fillEmptyRows copies the nearest populated row into each empty row.
// Sources are taken from the grid state before any copy, so a copied row is
// never used as a source for another.
func fillEmptyRows(g *Grid) {
	sources := make([]int, 0, g.rows)
	for r := 0; r < g.rows; r++ {
		if g.RowHasData(r) {
			sources = append(sources, r)
		}
	}
	if len(sources) == 0 || len(sources) == g.rows {
		return
	}

	for r := 0; r < g.rows; r++ {
		if g.RowHasData(r) {
			continue
		}
		src := NearestRow(sources, r)
		copy(g.row(r), g.row(src))
	}
}

// NearestRow returns the element of sources closest to target.
// sources must be ascending; on a tie the lower index wins because only a
// strictly closer candidate replaces the current best.
func NearestRow(sources []int, target int) int {
	best := -1
	for _, s := range sources {
		if best < 0 || abs(s-target) < abs(best-target) {
			best = s
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
