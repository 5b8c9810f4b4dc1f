package httpapi

import (
	"errors"
	"net/http"

	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// statusFor maps an orchestration or game-model error to its HTTP status,
// per spec.md §6's per-endpoint failure column.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrLobbyNotFound),
		errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnsupportedGameType),
		errors.Is(err, models.ErrLobbyFull),
		errors.Is(err, models.ErrAlreadyJoined),
		errors.Is(err, models.ErrNotJoinable),
		errors.Is(err, models.ErrNotHost),
		errors.Is(err, models.ErrNotReady):
		return http.StatusBadRequest
	}
	// GameError only reaches here from the move/status ask path. The match
	// exists but the operation no longer applies to it, so it's a 404, not
	// a 400; malformed move JSON is rejected earlier in makeMove and never
	// reaches statusFor.
	var gameErr *module.GameError
	if errors.As(err, &gameErr) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
