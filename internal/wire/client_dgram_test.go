package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientDatagramRoundTrip(t *testing.T) {
	d := ClientDatagram{SessionID: 123456789, TurnDirection: 2, NextExpectedEvent: 77, PlayerName: "Alice"}
	buf := EncodeClientDatagram(d)
	require.Len(t, buf, 13+5)
	decoded, err := DecodeClientDatagram(buf)
	require.NoError(t, err)
	require.Equal(t, d, decoded)
}

func TestClientDatagramEmptyNameIsSpectator(t *testing.T) {
	d := ClientDatagram{SessionID: 1, TurnDirection: 0, NextExpectedEvent: 0}
	buf := EncodeClientDatagram(d)
	require.Len(t, buf, MinClientDatagramSize)
	decoded, err := DecodeClientDatagram(buf)
	require.NoError(t, err)
	require.Equal(t, "", decoded.PlayerName)
}

func TestClientDatagramRejectsBadLength(t *testing.T) {
	_, err := DecodeClientDatagram(make([]byte, MinClientDatagramSize-1))
	require.Error(t, err)
	_, err = DecodeClientDatagram(make([]byte, MaxClientDatagramSize+1))
	require.Error(t, err)
}

func TestClientDatagramRejectsBadTurnDirection(t *testing.T) {
	buf := EncodeClientDatagram(ClientDatagram{TurnDirection: 0})
	buf[8] = 3
	_, err := DecodeClientDatagram(buf)
	require.Error(t, err)
}

func TestClientDatagramRejectsNameOutOfRange(t *testing.T) {
	buf := EncodeClientDatagram(ClientDatagram{PlayerName: "Alice"})
	buf[13] = ' ' // ASCII 32, below the 33..126 minimum
	_, err := DecodeClientDatagram(buf)
	require.Error(t, err)
}
