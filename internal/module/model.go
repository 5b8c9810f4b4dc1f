// Package module defines the pluggable GameModule contract (spec.md §4.6):
// the bundle of {move decoder, operation translator, worker factory, state
// view} that lets a new game be added without touching the Supervisor or
// the HTTP adapter. It also carries the game-agnostic worker command
// language (spec.md §4.4) so neither the Supervisor nor a GameModel package
// needs to depend on the match worker's internals.
package module

import "github.com/msyu/cambia-arena/internal/models"

// Phase is the game-agnostic match status, spec.md §3.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseWon
	PhaseDraw
)

// Status is the {status, winner} pair every GameModel must expose.
type Status struct {
	Phase  Phase
	Winner models.PlayerId // valid only when Phase == PhaseWon
}

// GameModel is the pure-rules contract every concrete game state must
// satisfy: immutable state plus apply(player, move) -> state' | error.
// Implementations live under internal/games/<name> and never import the
// orchestration packages (match, supervisor, persistence).
type GameModel interface {
	// Players returns the ordered participant list fixed at creation.
	Players() []models.PlayerId
	// CurrentPlayer is meaningless once Status().Phase != PhaseInProgress.
	CurrentPlayer() models.PlayerId
	Status() Status
	// Apply validates and executes one move by the named role, returning a
	// new state on success. It never mutates the receiver.
	Apply(player models.PlayerId, move any) (GameModel, error)
}
