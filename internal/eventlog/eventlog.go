// Package eventlog implements the server's append-only, per-game event
// log (spec.md §3, §4.4): a dense, monotone sequence of event records that
// is the canonical history of the current game, supporting enumeration
// from an arbitrary offset and packing into size-budgeted datagrams.
package eventlog

import "github.com/snowq173/SIK-Screen-Worms/internal/wire"

// Log is the current game's event history. The zero value is usable after
// a call to Reset (or simply as a fresh, empty log).
type Log struct {
	records []wire.Record
	encoded [][]byte
}

// Reset clears the log for a new game (spec.md: "the event log is cleared
// at each initiate_game").
func (l *Log) Reset() {
	l.records = l.records[:0]
	l.encoded = l.encoded[:0]
}

// Len reports the number of records appended so far (== next event_no).
func (l *Log) Len() int {
	return len(l.records)
}

// Append assigns the next dense event_no to rec and appends it, returning
// the stamped record.
func (l *Log) Append(rec wire.Record) wire.Record {
	rec.EventNo = uint32(len(l.records))
	l.records = append(l.records, rec)
	l.encoded = append(l.encoded, wire.EncodeRecord(rec))
	return rec
}

// Records returns the records from index from (inclusive) to the end.
func (l *Log) Records(from int) []wire.Record {
	if from >= len(l.records) {
		return nil
	}
	return l.records[from:]
}

// PackFrom packs the log's encoded records starting at event number from
// into size-budgeted datagrams prefixed with gameID, per spec.md §4.4's
// broadcast and send-history packing rule.
func (l *Log) PackFrom(gameID uint32, from int) [][]byte {
	if from < 0 {
		from = 0
	}
	if from >= len(l.encoded) {
		return nil
	}
	return wire.PackDatagrams(gameID, l.encoded, from)
}
