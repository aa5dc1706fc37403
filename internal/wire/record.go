package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EventType identifies one of the four event record variants.
type EventType uint8

const (
	EventNewGame         EventType = 0
	EventPixel           EventType = 1
	EventPlayerEliminated EventType = 2
	EventGameOver        EventType = 3
)

func (t EventType) String() string {
	switch t {
	case EventNewGame:
		return "NEW_GAME"
	case EventPixel:
		return "PIXEL"
	case EventPlayerEliminated:
		return "PLAYER_ELIMINATED"
	case EventGameOver:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Fixed record sizes, per spec.
const (
	PixelRecordSize            = 22
	PlayerEliminatedRecordSize = 14
	GameOverRecordSize         = 13
	MinimalRecordSize          = 13
	headerSize                 = 4 + 4 + 1 // len + event_no + type
	crcSize                    = 4
)

// Record is one event-log entry. Only the fields relevant to Type are
// meaningful; the rest are zero.
type Record struct {
	Type    EventType
	EventNo uint32

	// NEW_GAME
	BoardX, BoardY uint32
	PlayerNames    []string

	// PIXEL / PLAYER_ELIMINATED
	PlayerNo uint8
	X, Y     uint32
}

var (
	// ErrIncomplete means the buffer does not yet contain enough bytes to
	// even read the len field; the caller should wait for more data.
	ErrIncomplete = errors.New("wire: incomplete record header")
	// ErrMalformedFraming means the declared record length does not fit in
	// the remaining buffer; this is a fatal framing error.
	ErrMalformedFraming = errors.New("wire: record length exceeds buffer")
	// ErrCRCMismatch means the record's trailing CRC does not match its
	// contents; this is non-fatal — stop parsing the datagram.
	ErrCRCMismatch = errors.New("wire: crc mismatch")
)

// EncodeRecord serialises rec, computing len and the trailing CRC.
func EncodeRecord(rec Record) []byte {
	fields := encodeFields(rec)
	length := uint32(4 + 1 + len(fields)) // event_no + type + fields
	body := make([]byte, 4, headerSize+len(fields)+crcSize)
	binary.BigEndian.PutUint32(body[0:4], length)
	body = append(body, 0, 0, 0, 0) // placeholder for event_no
	binary.BigEndian.PutUint32(body[4:8], rec.EventNo)
	body = append(body, byte(rec.Type))
	body = append(body, fields...)
	crc := CRC32(body)
	crcBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBytes, crc)
	return append(body, crcBytes...)
}

func encodeFields(rec Record) []byte {
	switch rec.Type {
	case EventNewGame:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint32(buf[0:4], rec.BoardX)
		binary.BigEndian.PutUint32(buf[4:8], rec.BoardY)
		for _, name := range rec.PlayerNames {
			buf = append(buf, []byte(name)...)
			buf = append(buf, 0)
		}
		return buf
	case EventPixel:
		buf := make([]byte, 9)
		buf[0] = rec.PlayerNo
		binary.BigEndian.PutUint32(buf[1:5], rec.X)
		binary.BigEndian.PutUint32(buf[5:9], rec.Y)
		return buf
	case EventPlayerEliminated:
		return []byte{rec.PlayerNo}
	case EventGameOver:
		return nil
	default:
		return nil
	}
}

// RecordLen reads the record's declared len field (the first 4 bytes of
// buf). buf must contain at least 4 bytes.
func RecordLen(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf[0:4])
}

// DecodeRecordHeader reports the total on-wire size of the record starting
// at buf (its len field + 8) without validating CRC or fields. Returns
// ErrIncomplete if buf is shorter than 4 bytes.
func DecodeRecordHeader(buf []byte) (totalSize int, err error) {
	if len(buf) < 4 {
		return 0, ErrIncomplete
	}
	length := RecordLen(buf)
	return int(length) + 8, nil
}

// VerifyCRC checks the trailing 4-byte CRC of a record whose total on-wire
// size is totalSize, given buf contains at least totalSize bytes at its
// start. The CRC covers buf[0 : totalSize-4].
func VerifyCRC(buf []byte, totalSize int) bool {
	payload := buf[:totalSize-crcSize]
	want := binary.BigEndian.Uint32(buf[totalSize-crcSize : totalSize])
	return CRC32(payload) == want
}

// DecodeRecordFields parses the type-specific fields of a record whose
// total on-wire size is totalSize, given buf contains at least totalSize
// bytes at its start and the CRC has already been verified. It does not
// perform semantic ("nonsense") validation — that is the reassembler's job.
func DecodeRecordFields(buf []byte, totalSize int) (Record, error) {
	if totalSize < MinimalRecordSize {
		return Record{}, fmt.Errorf("wire: record size %d below minimum", totalSize)
	}
	rec := Record{
		EventNo: binary.BigEndian.Uint32(buf[4:8]),
		Type:    EventType(buf[8]),
	}
	fields := buf[9 : totalSize-crcSize]
	switch rec.Type {
	case EventNewGame:
		if len(fields) < 8 {
			return Record{}, fmt.Errorf("wire: NEW_GAME record too short for board dims")
		}
		rec.BoardX = binary.BigEndian.Uint32(fields[0:4])
		rec.BoardY = binary.BigEndian.Uint32(fields[4:8])
		names, err := parsePlayerNames(fields[8:])
		if err != nil {
			return Record{}, err
		}
		rec.PlayerNames = names
	case EventPixel:
		if len(fields) != 9 {
			return Record{}, fmt.Errorf("wire: PIXEL record has %d field bytes, want 9", len(fields))
		}
		rec.PlayerNo = fields[0]
		rec.X = binary.BigEndian.Uint32(fields[1:5])
		rec.Y = binary.BigEndian.Uint32(fields[5:9])
	case EventPlayerEliminated:
		if len(fields) != 1 {
			return Record{}, fmt.Errorf("wire: PLAYER_ELIMINATED record has %d field bytes, want 1", len(fields))
		}
		rec.PlayerNo = fields[0]
	case EventGameOver:
		if len(fields) != 0 {
			return Record{}, fmt.Errorf("wire: GAME_OVER record has %d field bytes, want 0", len(fields))
		}
	default:
		return Record{}, fmt.Errorf("wire: unknown event type %d", buf[8])
	}
	return rec, nil
}

// parsePlayerNames parses the NEW_GAME name list for DecodeRecordFields; it
// returns the raw parse (NUL-terminated ASCII[33,126] names) without
// enforcing the "at least two, strictly ascending" rule, which is a
// semantic concern layered on top by the client package.
func parsePlayerNames(buf []byte) ([]string, error) {
	var names []string
	var cur []byte
	for _, b := range buf {
		if b == 0 {
			if len(cur) == 0 {
				return nil, fmt.Errorf("wire: empty player name in NEW_GAME record")
			}
			names = append(names, string(cur))
			cur = nil
			continue
		}
		if b < 33 || b > 126 {
			return nil, fmt.Errorf("wire: player name byte %d out of range", b)
		}
		cur = append(cur, b)
		if len(cur) > 20 {
			return nil, fmt.Errorf("wire: player name exceeds 20 bytes")
		}
	}
	if len(cur) != 0 {
		return nil, fmt.Errorf("wire: player name list not NUL-terminated")
	}
	return names, nil
}
