package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatNewGame(t *testing.T) {
	require.Equal(t, "NEW_GAME 800 600 Alice Bob\n", FormatNewGame(800, 600, []string{"Alice", "Bob"}))
}

func TestFormatPixel(t *testing.T) {
	require.Equal(t, "PIXEL 10 20 Alice\n", FormatPixel(10, 20, "Alice"))
}

func TestFormatPlayerEliminated(t *testing.T) {
	require.Equal(t, "PLAYER_ELIMINATED Alice\n", FormatPlayerEliminated("Alice"))
}

func TestTurnDirectionRecognizedLines(t *testing.T) {
	cases := []struct {
		line string
		dir  uint8
	}{
		{"LEFT_KEY_DOWN\n", 2},
		{"RIGHT_KEY_DOWN\n", 1},
		{"LEFT_KEY_UP\n", 0},
		{"RIGHT_KEY_UP\n", 0},
	}
	for _, c := range cases {
		d, ok := TurnDirection(c.line)
		require.True(t, ok)
		require.Equal(t, c.dir, d)
	}
}

func TestTurnDirectionIgnoresUnrecognized(t *testing.T) {
	_, ok := TurnDirection("GARBAGE\n")
	require.False(t, ok)
}

func TestAccumulatorReassemblesFragments(t *testing.T) {
	var a Accumulator
	lines := a.Feed([]byte("LEFT_KEY_"))
	require.Empty(t, lines)
	lines = a.Feed([]byte("DOWN\nRIGHT_KEY_UP\n"))
	require.Equal(t, []string{"LEFT_KEY_DOWN\n", "RIGHT_KEY_UP\n"}, lines)
}

func TestAccumulatorDropsOverlongLine(t *testing.T) {
	var a Accumulator
	overlong := make([]byte, ScratchSize+5)
	for i := range overlong {
		overlong[i] = 'x'
	}
	overlong = append(overlong, '\n')
	lines := a.Feed(overlong)
	require.Empty(t, lines)

	// Accumulator should resync cleanly on the next line.
	lines = a.Feed([]byte("LEFT_KEY_UP\n"))
	require.Equal(t, []string{"LEFT_KEY_UP\n"}, lines)
}
