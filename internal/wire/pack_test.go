package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackDatagramsFitsSingleDatagram(t *testing.T) {
	var encoded [][]byte
	for i := 0; i < 3; i++ {
		encoded = append(encoded, EncodeRecord(Record{Type: EventPixel, EventNo: uint32(i), PlayerNo: 0, X: 1, Y: 1}))
	}
	out := PackDatagrams(42, encoded, 0)
	require.Len(t, out, 1)
	require.Equal(t, uint32(42), DecodeServerDatagramHeader(out[0]))
	require.LessOrEqual(t, len(out[0]), ServerDatagramMaxSize)
}

func TestPackDatagramsSplitsAcrossBudget(t *testing.T) {
	var encoded [][]byte
	// 30 PIXEL records of 22 bytes = 660 bytes, must split given the
	// 550-byte-including-game_id budget.
	for i := 0; i < 30; i++ {
		encoded = append(encoded, EncodeRecord(Record{Type: EventPixel, EventNo: uint32(i), PlayerNo: 0, X: 1, Y: 1}))
	}
	out := PackDatagrams(1, encoded, 0)
	require.Greater(t, len(out), 1)
	total := 0
	for _, dg := range out {
		require.LessOrEqual(t, len(dg), ServerDatagramMaxSize)
		total += len(dg) - gameIDSize
	}
	require.Equal(t, 30*PixelRecordSize, total)
}

func TestPackDatagramsCatchUpFromOffset(t *testing.T) {
	var encoded [][]byte
	for i := 0; i < 1200; i++ {
		encoded = append(encoded, EncodeRecord(Record{Type: EventPixel, EventNo: uint32(i), PlayerNo: 0, X: 1, Y: 1}))
	}
	full := PackDatagrams(7, encoded, 0)
	require.Greater(t, len(full), 1)

	// Simulate: client lost the second datagram, so it resends from the
	// exact first-unseen index computed from how many records the first
	// datagram carried.
	firstDatagramRecords := (len(full[0]) - gameIDSize) / PixelRecordSize
	resend := PackDatagrams(7, encoded, firstDatagramRecords)
	require.Equal(t, full[1:], resend)
}
