package module

import "github.com/msyu/cambia-arena/internal/models"

// OperationKind distinguishes the two game-agnostic operations a client can
// issue against a live match, spec.md §3.
type OperationKind int

const (
	OpMakeMove OperationKind = iota
	OpGetState
)

// GameOperation is the game-agnostic request the HTTP adapter builds and
// hands to the Supervisor's RunGameOperation command. Payload is only set
// for OpMakeMove and holds whatever the module's move decoder produced.
type GameOperation struct {
	Kind     OperationKind
	PlayerId models.PlayerId
	Payload  any
}

// Reply is what a MatchWorker sends back for any command: either a state
// view on success or an error. Exactly one of View/Err is meaningful.
type Reply struct {
	View any
	Err  error
}

// Command is the opaque, game-agnostic language a MatchWorker's mailbox
// accepts. The Supervisor never inspects a Command's contents; only the
// worker that owns the match and the GameModule that built the command
// understand it.
type Command interface {
	isCommand()
}

// MakeMoveCommand asks the worker to validate and apply one move.
type MakeMoveCommand struct {
	PlayerId models.PlayerId
	Move     any
	ReplyTo  chan<- Reply
}

func (MakeMoveCommand) isCommand() {}

// GetStateCommand asks the worker for its current state view. Always
// succeeds (spec.md §4.4): Reply.Err is always nil.
type GetStateCommand struct {
	ReplyTo chan<- Reply
}

func (GetStateCommand) isCommand() {}
