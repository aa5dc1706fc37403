package eventlog

import (
	"testing"

	"github.com/snowq173/SIK-Screen-Worms/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsDenseEventNumbers(t *testing.T) {
	var l Log
	r0 := l.Append(wire.Record{Type: wire.EventNewGame, BoardX: 640, BoardY: 480, PlayerNames: []string{"A", "B"}})
	r1 := l.Append(wire.Record{Type: wire.EventPixel, PlayerNo: 0, X: 1, Y: 1})
	require.Equal(t, uint32(0), r0.EventNo)
	require.Equal(t, uint32(1), r1.EventNo)
	require.Equal(t, 2, l.Len())
}

func TestResetClearsLog(t *testing.T) {
	var l Log
	l.Append(wire.Record{Type: wire.EventGameOver})
	l.Reset()
	require.Equal(t, 0, l.Len())
	require.Nil(t, l.PackFrom(1, 0))
}

func TestPackFromRespectsOffset(t *testing.T) {
	var l Log
	for i := 0; i < 5; i++ {
		l.Append(wire.Record{Type: wire.EventPixel, PlayerNo: 0, X: 1, Y: 1})
	}
	all := l.PackFrom(9, 0)
	require.NotEmpty(t, all)
	fromTwo := l.PackFrom(9, 2)
	require.NotEmpty(t, fromTwo)
	require.Less(t, len(fromTwo[0]), len(all[0]))
}
