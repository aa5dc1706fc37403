package wire

import (
	"encoding/binary"
	"fmt"
)

// ClientDatagram is the client→server keepalive/input datagram.
type ClientDatagram struct {
	SessionID          uint64
	TurnDirection      uint8 // 0, 1 (right), or 2 (left)
	NextExpectedEvent  uint32
	PlayerName         string
}

const (
	MinClientDatagramSize = 13
	MaxClientDatagramSize = 33
	MaxPlayerNameLength   = 20
)

// EncodeClientDatagram serialises d.
func EncodeClientDatagram(d ClientDatagram) []byte {
	name := []byte(d.PlayerName)
	buf := make([]byte, 13+len(name))
	binary.BigEndian.PutUint64(buf[0:8], d.SessionID)
	buf[8] = d.TurnDirection
	binary.BigEndian.PutUint32(buf[9:13], d.NextExpectedEvent)
	copy(buf[13:], name)
	return buf
}

// DecodeClientDatagram validates and parses a raw client datagram per
// spec.md §4.3. Any violation returns an error; callers must discard the
// datagram silently on error (do not disconnect the sender).
func DecodeClientDatagram(buf []byte) (ClientDatagram, error) {
	if len(buf) < MinClientDatagramSize || len(buf) > MaxClientDatagramSize {
		return ClientDatagram{}, fmt.Errorf("wire: client datagram length %d out of [%d,%d]", len(buf), MinClientDatagramSize, MaxClientDatagramSize)
	}
	turn := buf[8]
	if turn > 2 {
		return ClientDatagram{}, fmt.Errorf("wire: invalid turn_direction %d", turn)
	}
	nameBytes := buf[13:]
	for _, b := range nameBytes {
		if b < 33 || b > 126 {
			return ClientDatagram{}, fmt.Errorf("wire: player name byte %d out of range", b)
		}
	}
	return ClientDatagram{
		SessionID:         binary.BigEndian.Uint64(buf[0:8]),
		TurnDirection:     turn,
		NextExpectedEvent: binary.BigEndian.Uint32(buf[9:13]),
		PlayerName:        string(nameBytes),
	}, nil
}
