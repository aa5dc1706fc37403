// Package board implements the occupancy grid and worm movement physics
// that back the server's round tick (spec.md §4.4). It replaces the
// teacher's 3D vector/quaternion machinery (core/math.go), which has no
// use in this 2D, scalar-trigonometry domain (see DESIGN.md).
package board

// Board is a 2D occupancy grid of size Width x Height, zeroed at every
// initiate_game. Cell coordinates are signed ints so off-board checks
// (including negative coordinates produced by worm movement near the
// origin) are ordinary comparisons rather than unsigned wraparound.
type Board struct {
	Width, Height int
	cells         []bool
}

// New allocates a zeroed board.
func New(width, height int) *Board {
	return &Board{Width: width, Height: height, cells: make([]bool, width*height)}
}

// Clear zeroes every cell in place, reusing the backing array.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = false
	}
}

// InBounds reports whether the integer cell (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Occupied reports whether (x, y) is already marked occupied. (x, y) must
// be in bounds.
func (b *Board) Occupied(x, y int) bool {
	return b.cells[b.index(x, y)]
}

// Occupy marks (x, y) as occupied. (x, y) must be in bounds.
func (b *Board) Occupy(x, y int) {
	b.cells[b.index(x, y)] = true
}

func (b *Board) index(x, y int) int {
	return y*b.Width + x
}
