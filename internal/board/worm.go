package board

import "math"

// Worm is one playing slot's physical state during a game.
type Worm struct {
	X, Y      float64 // sub-pixel position
	Direction float64 // degrees, in [0, 360)
}

// Place sets the worm's initial position and direction, as drawn from the
// PRNG at initiate_game: x = (rand mod board_x) + 0.5, y = (rand mod
// board_y) + 0.5, direction = rand mod 360.
func (w *Worm) Place(xCell, yCell int, direction uint32) {
	w.X = float64(xCell) + 0.5
	w.Y = float64(yCell) + 0.5
	w.Direction = float64(direction)
}

// CellX and CellY report the worm's current integer occupancy cell.
func (w *Worm) CellX() int { return int(math.Floor(w.X)) }
func (w *Worm) CellY() int { return int(math.Floor(w.Y)) }

// Turn applies one tick's worth of rotation for turnDirection (0 = straight,
// 1 = right, 2 = left) at the given turningSpeed (degrees/tick), normalising
// into [0, 360).
func (w *Worm) Turn(turnDirection uint8, turningSpeed float64) {
	switch turnDirection {
	case 1:
		w.Direction += turningSpeed
	case 2:
		w.Direction -= turningSpeed
	}
	if w.Direction < 0 {
		w.Direction += 360
	}
	if w.Direction >= 360 {
		w.Direction -= 360
	}
}

// Advance computes the worm's next sub-pixel position along its current
// direction, without committing it. Callers commit via Commit once any
// collision/off-board checks against the new cell have been made, per
// spec.md §4.4 ("commit x_pos, y_pos regardless of whether an event
// fired").
func (w *Worm) Advance() (newX, newY float64) {
	rad := w.Direction * math.Pi / 180
	return w.X + math.Cos(rad), w.Y + math.Sin(rad)
}

// CellOf returns the integer floor cell for a sub-pixel position.
func CellOf(x, y float64) (cellX, cellY int) {
	return int(math.Floor(x)), int(math.Floor(y))
}

// Commit writes a previously-computed Advance() result back into the worm.
func (w *Worm) Commit(x, y float64) {
	w.X, w.Y = x, y
}
