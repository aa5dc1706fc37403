package wire

import "encoding/binary"

const (
	// ServerDatagramMaxSize is the hard cap on a server→client datagram,
	// game_id included.
	ServerDatagramMaxSize = 550
	// ServerDatagramMinSize is the smallest plausible server→client
	// datagram: game_id (4) plus one GAME_OVER record (13).
	ServerDatagramMinSize = 17
	gameIDSize            = 4
)

// PackDatagrams packs already-encoded event records (encoded[from:]) into as
// few 550-byte datagrams as possible, each prefixed with gameID, stopping a
// datagram as soon as the next record would overflow the budget. This
// implements both the server's round/initiate-game broadcast and its
// per-slot send-history path (spec.md §4.4): callers choose `from` as 0 for
// a full resend or as a requested next_expected_event_no.
func PackDatagrams(gameID uint32, encoded [][]byte, from int) [][]byte {
	var out [][]byte
	i := from
	for i < len(encoded) {
		buf := make([]byte, gameIDSize, ServerDatagramMaxSize)
		binary.BigEndian.PutUint32(buf, gameID)
		packedAny := false
		for i < len(encoded) {
			rec := encoded[i]
			if len(buf)+len(rec) > ServerDatagramMaxSize {
				break
			}
			buf = append(buf, rec...)
			i++
			packedAny = true
		}
		if !packedAny {
			// A single record exceeds the budget; this should not happen
			// for any well-formed record produced by EncodeRecord, but
			// avoid looping forever if it somehow does.
			break
		}
		out = append(out, buf)
	}
	return out
}

// DecodeServerDatagramHeader reads the leading game_id from a server→client
// datagram. buf must be at least 4 bytes; callers are expected to have
// already rejected datagrams outside [ServerDatagramMinSize,
// ServerDatagramMaxSize].
func DecodeServerDatagramHeader(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf[0:4])
}
