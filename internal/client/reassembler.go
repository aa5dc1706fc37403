// Package client implements the client-side event reassembler, frontend
// translation, and keepalive/session bookkeeping (spec.md §4.5).
package client

import (
	"github.com/snowq173/SIK-Screen-Worms/internal/frontend"
	"github.com/snowq173/SIK-Screen-Worms/internal/wire"
)

// Reassembler ingests server→client datagrams, validates and applies
// their event records in order, and produces frontend lines to emit.
// Grounded on client_protocol.c's deserialize_event_record and
// screen-worms-client.c's handle_server_message.
type Reassembler struct {
	state State
}

// NewReassembler returns a reassembler in the client's initial state.
func NewReassembler() *Reassembler {
	return &Reassembler{state: newInitialState()}
}

// State returns the current game-state mirror (read-only use by callers).
func (r *Reassembler) State() State { return r.state }

// ProcessDatagram validates and applies one server→client datagram.
// It returns the frontend lines to emit, in order. A non-nil *FatalError
// means the client must terminate; a bad length or stale game_id is a
// silent discard returning (nil, nil), and a bad CRC silently stops parsing,
// returning the lines from the records before it with a nil error.
func (r *Reassembler) ProcessDatagram(buf []byte) ([]string, error) {
	if len(buf) < wire.ServerDatagramMinSize || len(buf) > wire.ServerDatagramMaxSize {
		return nil, nil
	}

	gameID := wire.DecodeServerDatagramHeader(buf)
	if gameID != r.state.GameID || !r.state.PlayedAny {
		if !(r.state.GameOver || !r.state.PlayedAny) {
			return nil, nil
		}
		r.state = State{GameID: gameID, PlayedAny: true, GameOver: false}
	}

	var lines []string
	remaining := buf[4:]
	for len(remaining) >= wire.MinimalRecordSize {
		totalSize, err := wire.DecodeRecordHeader(remaining)
		if err != nil {
			break // incomplete header; wait for more data on the wire
		}
		if totalSize > len(remaining) {
			return lines, fatalf("record declares size %d exceeding remaining %d bytes", totalSize, len(remaining))
		}
		if !wire.VerifyCRC(remaining, totalSize) {
			break // non-fatal: stop parsing this datagram, wait for the next
		}

		rec, err := wire.DecodeRecordFields(remaining, totalSize)
		if err != nil {
			return lines, fatalf("malformed event record: %v", err)
		}

		line, fatalErr := r.applyRecord(rec)
		if fatalErr != nil {
			return lines, fatalErr
		}
		if line != "" {
			lines = append(lines, line)
		}

		remaining = remaining[totalSize:]
	}
	return lines, nil
}

// applyRecord performs the semantic ("nonsense") validation and state
// mutation for one already CRC-verified record, per spec.md §4.5.
func (r *Reassembler) applyRecord(rec wire.Record) (line string, fatalErr *FatalError) {
	switch rec.Type {
	case wire.EventNewGame:
		if rec.EventNo != 0 {
			return "", fatalf("NEW_GAME with event_no %d, want 0", rec.EventNo)
		}
		if len(rec.PlayerNames) < 2 {
			return "", fatalf("NEW_GAME names list has %d entries, want >= 2", len(rec.PlayerNames))
		}
		if !strictlyAscending(rec.PlayerNames) {
			return "", fatalf("NEW_GAME names not strictly ascending: %v", rec.PlayerNames)
		}
		if rec.EventNo == r.state.NextExpected {
			r.state.BoardX = rec.BoardX
			r.state.BoardY = rec.BoardY
			r.state.Names = rec.PlayerNames
			r.state.PlayersCount = len(rec.PlayerNames)
			r.state.Alive = make([]bool, r.state.PlayersCount)
			for i := range r.state.Alive {
				r.state.Alive[i] = true
			}
			r.state.NextExpected++
			return frontend.FormatNewGame(rec.BoardX, rec.BoardY, rec.PlayerNames), nil
		}
		return "", nil

	case wire.EventPixel:
		if rec.X >= r.state.BoardX || rec.Y >= r.state.BoardY {
			return "", fatalf("PIXEL coordinates (%d,%d) outside board (%d,%d)", rec.X, rec.Y, r.state.BoardX, r.state.BoardY)
		}
		if int(rec.PlayerNo) >= r.state.PlayersCount {
			return "", fatalf("PIXEL player_no %d >= players_count %d", rec.PlayerNo, r.state.PlayersCount)
		}
		if rec.EventNo == r.state.NextExpected {
			r.state.NextExpected++
			return frontend.FormatPixel(rec.X, rec.Y, r.state.Names[rec.PlayerNo]), nil
		}
		return "", nil

	case wire.EventPlayerEliminated:
		if int(rec.PlayerNo) >= r.state.PlayersCount {
			return "", fatalf("PLAYER_ELIMINATED player_no %d >= players_count %d", rec.PlayerNo, r.state.PlayersCount)
		}
		if rec.EventNo == r.state.NextExpected {
			if !r.state.Alive[rec.PlayerNo] {
				return "", fatalf("PLAYER_ELIMINATED for already-dead player_no %d", rec.PlayerNo)
			}
			r.state.Alive[rec.PlayerNo] = false
			r.state.NextExpected++
			return frontend.FormatPlayerEliminated(r.state.Names[rec.PlayerNo]), nil
		}
		return "", nil

	case wire.EventGameOver:
		if rec.EventNo == r.state.NextExpected {
			r.state.GameOver = true
			r.state.NextExpected++
		}
		return "", nil

	default:
		return "", fatalf("unknown event type %d", rec.Type)
	}
}

func strictlyAscending(names []string) bool {
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			return false
		}
	}
	return true
}
