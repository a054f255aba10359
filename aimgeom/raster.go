package aimgeom

import "math"

// TileRange is the inclusive tile-column range [XMin, XMax] a polygon
// covers in tile row Row. Produced row-major by OutlineToTileRange /
// ClipTileRange (spec.md §4.1).
type TileRange struct {
	Row, XMin, XMax int
}

// snapToGrid rounds v to the nearest integer when it is within the
// rasterizer's epsilon of one, so that floating-point error at an exact
// grid intersection doesn't drop the corner row (spec.md §4.1).
func snapToGrid(v float64) float64 {
	r := math.Round(v)
	if IsClose(v, r, 0) {
		return r
	}
	return v
}

// tileColLow returns the tile column/row index for a range's low (closed)
// endpoint.
func tileColLow(v float64) int {
	return int(math.Floor(snapToGrid(v)))
}

// tileColHighExtent returns the tile column/row index for a range's high
// (open) endpoint, given the range also has a distinct low endpoint lo. A
// value sitting exactly on a grid line is excluded from the tile above/right
// of it (closed-at-low, open-at-high — spec.md §4.1), unless lo == hi, in
// which case the range is a single point and is closed on both ends.
func tileColHighExtent(lo, hi float64) int {
	lo, hi = snapToGrid(lo), snapToGrid(hi)
	if IsClose(lo, hi, 0) {
		return tileColLow(hi)
	}
	f := math.Floor(hi)
	if hi == f {
		return int(f) - 1
	}
	return int(f)
}

// WorldToTile converts a world-plane Coord into fractional tile-space
// coordinates given the tiling's origin (minimum corner) and tile width.
func WorldToTile(c, origin Coord, tileWidth float64) Coord {
	return Coord{X: (c.X - origin.X) / tileWidth, Y: (c.Y - origin.Y) / tileWidth}
}

// LineToTileRanges walks a line segment, given in fractional tile-space, and
// returns the inclusive tile-column range the segment occupies in each
// tile-row it crosses (spec.md §4.1 step 1: `_line_to_tile_ranges`). Handles
// horizontal, vertical, and all four diagonal slope cases uniformly by
// sweeping row-by-row in increasing y.
func LineToTileRanges(start, end Coord) map[int][2]int {
	ranges := map[int][2]int{}

	if IsClose(start.Y, end.Y, 0) {
		// Horizontal: a single row, x spans the full segment.
		row := tileColLow(start.Y)
		xlo, xhi := minmax(start.X, end.X)
		ranges[row] = [2]int{tileColLow(xlo), tileColHighExtent(xlo, xhi)}
		return ranges
	}

	if start.Y > end.Y {
		start, end = end, start
	}

	if IsClose(start.X, end.X, 0) {
		// Vertical: one column, every row from start to end.
		col := tileColLow(start.X)
		rowLow := tileColLow(start.Y)
		rowHigh := tileColHighExtent(start.Y, end.Y)
		for row := rowLow; row <= rowHigh; row++ {
			ranges[row] = [2]int{col, col}
		}
		return ranges
	}

	slope := (end.X - start.X) / (end.Y - start.Y) // dx/dy
	rowLow := tileColLow(start.Y)
	rowHigh := tileColHighExtent(start.Y, end.Y)
	for row := rowLow; row <= rowHigh; row++ {
		yEnter := math.Max(start.Y, float64(row))
		yExit := math.Min(end.Y, float64(row+1))
		xEnter := start.X + slope*(yEnter-start.Y)
		xExit := start.X + slope*(yExit-start.Y)
		xlo, xhi := minmax(xEnter, xExit)
		ranges[row] = [2]int{tileColLow(xlo), tileColHighExtent(xlo, xhi)}
	}
	return ranges
}

// OutlineToTileRange rasterizes a closed polygon (given in fractional
// tile-space, in winding order) by rasterizing each edge and merging
// per-row ranges: for each row, XMin is the smallest start and XMax the
// largest end across every edge touching that row (spec.md §4.1 step 2:
// `_outline_to_tile_range`).
func OutlineToTileRange(corners []Coord) map[int][2]int {
	merged := map[int][2]int{}
	n := len(corners)
	for i := 0; i < n; i++ {
		edge := LineToTileRanges(corners[i], corners[(i+1)%n])
		for row, r := range edge {
			if cur, ok := merged[row]; ok {
				merged[row] = [2]int{min(cur[0], r[0]), max(cur[1], r[1])}
			} else {
				merged[row] = r
			}
		}
	}
	// Edges lying on the polygon's own top/right grid line are open-at-high.
	lo, hi := Coord{X: math.Inf(1), Y: math.Inf(1)}, Coord{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range corners {
		lo.X, lo.Y = math.Min(lo.X, c.X), math.Min(lo.Y, c.Y)
		hi.X, hi.Y = math.Max(hi.X, c.X), math.Max(hi.Y, c.Y)
	}
	rowMax, colMax := tileColHighExtent(lo.Y, hi.Y), tileColHighExtent(lo.X, hi.X)
	for row, r := range merged {
		if row > rowMax {
			delete(merged, row)
		} else if r[1] > colMax {
			merged[row] = [2]int{r[0], colMax}
		}
	}
	return merged
}

// ClipTileRange intersects row ranges with the tiling extent
// [0, xTileCount) x [0, yTileCount), dropping rows that fall fully outside
// or whose clipped range is empty, and returns the result row-major
// (spec.md §4.1 step 3: `_clip_tile_range`).
func ClipTileRange(ranges map[int][2]int, xTileCount, yTileCount int) []TileRange {
	out := make([]TileRange, 0, len(ranges))
	for row, r := range ranges {
		if row < 0 || row >= yTileCount {
			continue
		}
		xMin, xMax := r[0], r[1]
		if xMin < 0 {
			xMin = 0
		}
		if xMax > xTileCount-1 {
			xMax = xTileCount - 1
		}
		if xMin > xMax {
			continue
		}
		out = append(out, TileRange{Row: row, XMin: xMin, XMax: xMax})
	}
	sortRanges(out)
	return out
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}

func sortRanges(r []TileRange) {
	// Small n (tens of rows at most); insertion sort avoids pulling in
	// sort.Slice's reflection overhead for a hot rasterization path.
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && r[j-1].Row > r[j].Row; j-- {
			r[j-1], r[j] = r[j], r[j-1]
		}
	}
}
