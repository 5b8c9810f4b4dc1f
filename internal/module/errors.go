package module

import (
	"fmt"

	"github.com/msyu/cambia-arena/internal/models"
)

// GameError is the taxonomy of game-model errors, spec.md §7. Every member
// exposes a human-readable Message and is safe to report to the caller
// verbatim; none of them ever crash a MatchWorker.
type GameError struct {
	kind    string
	message string
}

func (e *GameError) Error() string   { return e.message }
func (e *GameError) Message() string { return e.message }
func (e *GameError) Kind() string    { return e.kind }

func ErrInvalidPlayer(id models.PlayerId) error {
	return &GameError{kind: "InvalidPlayer", message: fmt.Sprintf("player %s is not part of this match", id)}
}

var (
	ErrInvalidTurn   = &GameError{kind: "InvalidTurn", message: "it is not your turn"}
	ErrCellOccupied  = &GameError{kind: "CellOccupied", message: "that cell is already occupied"}
	ErrOutOfBounds   = &GameError{kind: "OutOfBounds", message: "move is out of bounds"}
	ErrGameOver      = &GameError{kind: "GameOver", message: "The game is already over."}
	ErrColumnFull    = &GameError{kind: "OutOfBounds", message: "that column is full"}
)

func ErrUnknown(msg string) error {
	return &GameError{kind: "Unknown", message: msg}
}
