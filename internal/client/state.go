package client

import "fmt"

// State is the client's mirror of the current game (spec.md §3 "Client
// game state").
type State struct {
	GameID       uint32
	NextExpected uint32
	BoardX       uint32
	BoardY       uint32
	PlayersCount int
	Names        []string
	Alive        []bool
	GameOver     bool
	PlayedAny    bool
}

// newInitialState matches the original client's startup state: game_over
// starts true and played_any starts false so that the very first server
// datagram's game_id "mismatch" is tolerated rather than discarded.
func newInitialState() State {
	return State{GameOver: true, PlayedAny: false}
}

// FatalError is a distinct error type for client-terminating "nonsense"
// violations (spec.md §9's exception-for-control-flow design note): the
// ingestor returns it, and only main() translates it to a process exit.
type FatalError struct {
	msg string
}

func (e *FatalError) Error() string { return e.msg }

func fatalf(format string, args ...interface{}) *FatalError {
	return &FatalError{msg: fmt.Sprintf(format, args...)}
}
