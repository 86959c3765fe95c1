// Package geometry implements pitch-coordinate arithmetic: squares, distances,
// adjacency, and the Bresenham line used for pass-interception search.
package geometry

// Width and Height are the fixed pitch dimensions, wide zones included.
const (
	Width  = 28
	Height = 17
)

// Square is an integer coordinate on the pitch.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// New returns the square at (x, y).
func New(x, y int) Square {
	return Square{X: x, Y: y}
}

// Distance is the Chebyshev distance, max(|Δx|, |Δy|).
func (s Square) Distance(other Square) int {
	dx := abs(s.X - other.X)
	dy := abs(s.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// ManhattanDistance is |Δx| + |Δy|.
func (s Square) ManhattanDistance(other Square) int {
	return abs(s.X-other.X) + abs(s.Y-other.Y)
}

// IsAdjacent reports whether other is a king-move away from s.
func (s Square) IsAdjacent(other Square) bool {
	return s != other && s.Distance(other) == 1
}

// OutOfBounds reports whether s lies on or outside the pitch border.
// The playable interior is 1 <= x <= Width-2, 1 <= y <= Height-2; column 0,
// column Width-1, row 0 and row Height-1 are the sidelines / dead zones.
func (s Square) OutOfBounds() bool {
	return s.X < 1 || s.X > Width-2 || s.Y < 1 || s.Y > Height-2
}

// AdjacentSquares yields the up-to-8 neighbours of s. When includeOutOfBounds
// is false, squares outside the pitch border are omitted.
func AdjacentSquares(s Square, includeOutOfBounds bool) []Square {
	neighbours := make([]Square, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Square{X: s.X + dx, Y: s.Y + dy}
			if !includeOutOfBounds && n.OutOfBounds() {
				continue
			}
			neighbours = append(neighbours, n)
		}
	}
	return neighbours
}

// PassLine returns the Bresenham rasterization of the segment from-to,
// endpoints included, ordered from `from` to `to`.
func PassLine(from, to Square) []Square {
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	var line []Square
	x, y := x0, y0
	for {
		line = append(line, Square{X: x, Y: y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return line
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
