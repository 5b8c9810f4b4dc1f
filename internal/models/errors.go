package models

import "errors"

// Orchestration error taxonomy, spec.md §7. These are returned by the
// Supervisor and translated to ErrorResponse/HTTP status by the adapter.
var (
	ErrLobbyNotFound       = errors.New("No such lobby")
	ErrLobbyFull           = errors.New("lobby is full")
	ErrAlreadyJoined       = errors.New("already in game")
	ErrNotJoinable         = errors.New("game already started or ended")
	ErrNotHost             = errors.New("Only host can start, and game must be ready to start")
	ErrNotReady            = errors.New("Only host can start, and game must be ready to start")
	ErrMatchNotFound       = errors.New("No game found with gameId")
	ErrUnsupportedGameType = errors.New("unsupported game type")
	ErrGameNotFound        = errors.New("No such game")
)

// Infrastructure error taxonomy, spec.md §7.
type InfraKind string

const (
	InfraDecode  InfraKind = "decode"
	InfraStorage InfraKind = "storage"
	InfraAuth    InfraKind = "auth"
	InfraTimeout InfraKind = "timeout"
)

// InfraError wraps an underlying cause with an infrastructure taxonomy tag
// so callers can branch on Kind without string matching on Error().
type InfraError struct {
	Kind InfraKind
	Err  error
}

func (e *InfraError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *InfraError) Unwrap() error { return e.Err }

// NewInfraError constructs a tagged infrastructure error.
func NewInfraError(kind InfraKind, err error) *InfraError {
	return &InfraError{Kind: kind, Err: err}
}
