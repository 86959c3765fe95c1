package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	a := New(3, 5)
	b := New(5, 8)
	assert.Equal(t, 3, a.Distance(b))
	assert.Equal(t, 5, a.ManhattanDistance(b))
}

func TestIsAdjacent(t *testing.T) {
	a := New(5, 5)
	assert.True(t, a.IsAdjacent(New(6, 6)))
	assert.True(t, a.IsAdjacent(New(5, 6)))
	assert.False(t, a.IsAdjacent(New(7, 5)))
	assert.False(t, a.IsAdjacent(a))
}

func TestOutOfBounds(t *testing.T) {
	assert.True(t, New(0, 5).OutOfBounds())
	assert.True(t, New(Width-1, 5).OutOfBounds())
	assert.True(t, New(5, 0).OutOfBounds())
	assert.True(t, New(5, Height-1).OutOfBounds())
	assert.False(t, New(1, 1).OutOfBounds())
	assert.False(t, New(Width-2, Height-2).OutOfBounds())
}

func TestAdjacentSquaresExcludesOutOfBounds(t *testing.T) {
	corner := New(1, 1)
	neighbours := AdjacentSquares(corner, false)
	for _, n := range neighbours {
		assert.False(t, n.OutOfBounds(), "neighbour %v should be in bounds", n)
	}
	assert.Len(t, neighbours, 3)
}

func TestAdjacentSquaresIncludesOutOfBounds(t *testing.T) {
	corner := New(1, 1)
	neighbours := AdjacentSquares(corner, true)
	assert.Len(t, neighbours, 8)
}

func TestPassLineEndpointsIncluded(t *testing.T) {
	from := New(2, 2)
	to := New(6, 2)
	line := PassLine(from, to)
	require.NotEmpty(t, line)
	assert.Equal(t, from, line[0])
	assert.Equal(t, to, line[len(line)-1])
}

func TestPassLineDiagonal(t *testing.T) {
	line := PassLine(New(2, 2), New(5, 5))
	assert.Equal(t, []Square{{2, 2}, {3, 3}, {4, 4}, {5, 5}}, line)
}
