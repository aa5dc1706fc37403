// Package frontend implements the client's textual line protocol to/from
// its local graphical frontend (spec.md §4.6): three output line types
// formatted from decoded events, and four recognized input lines that
// steer turn_direction.
package frontend

import "fmt"

// FormatNewGame renders "NEW_GAME <board_x> <board_y> <name1> ... <nameN>\n".
func FormatNewGame(boardX, boardY uint32, names []string) string {
	out := fmt.Sprintf("NEW_GAME %d %d", boardX, boardY)
	for _, n := range names {
		out += " " + n
	}
	return out + "\n"
}

// FormatPixel renders "PIXEL <x> <y> <player_name>\n".
func FormatPixel(x, y uint32, playerName string) string {
	return fmt.Sprintf("PIXEL %d %d %s\n", x, y, playerName)
}

// FormatPlayerEliminated renders "PLAYER_ELIMINATED <player_name>\n".
func FormatPlayerEliminated(playerName string) string {
	return fmt.Sprintf("PLAYER_ELIMINATED %s\n", playerName)
}

// TurnDirection reports the effect of a recognized input line on
// client_turn_direction. ok is false for any unrecognized line, which
// callers must silently ignore.
func TurnDirection(line string) (direction uint8, ok bool) {
	switch line {
	case "LEFT_KEY_DOWN\n":
		return 2, true
	case "RIGHT_KEY_DOWN\n":
		return 1, true
	case "LEFT_KEY_UP\n", "RIGHT_KEY_UP\n":
		return 0, true
	default:
		return 0, false
	}
}

// ScratchSize is the accumulation buffer size for fragmented frontend
// input lines (spec.md §4.6: "accumulate in a 32-byte scratch until \n").
const ScratchSize = 32

// Accumulator reassembles frontend input bytes, which may arrive
// fragmented, into complete lines.
type Accumulator struct {
	buf       []byte
	resyncing bool
}

// Feed appends newly-read bytes and returns every complete line (including
// its trailing \n) found so far, in order. Lines exceeding ScratchSize are
// dropped (matching the original client's fixed-size scratch buffer: a
// line that never completes within the buffer is never matched against
// the four recognized strings, so it is effectively ignored) and the
// accumulator resyncs on the next \n rather than misreading the remainder
// of an overflowed line as the start of a new one.
func (a *Accumulator) Feed(data []byte) []string {
	var lines []string
	for _, b := range data {
		if a.resyncing {
			if b == '\n' {
				a.resyncing = false
			}
			continue
		}
		a.buf = append(a.buf, b)
		if b == '\n' {
			lines = append(lines, string(a.buf))
			a.buf = a.buf[:0]
		} else if len(a.buf) >= ScratchSize {
			a.buf = a.buf[:0]
			a.resyncing = true
		}
	}
	return lines
}
