package httpapi

import (
	"context"

	"github.com/msyu/cambia-arena/internal/auth"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// supervisorAPI is the slice of *supervisor.Supervisor the adapter needs.
// Declared here (rather than importing the concrete type) so handler
// tests can substitute a fake without spinning up a real actor.
type supervisorAPI interface {
	CreateLobby(gameType models.GameType, host models.Player) (models.LobbyMetadata, error)
	JoinLobby(gameId models.GameId, player models.Player) (models.LobbyMetadata, error)
	LeaveLobby(gameId models.GameId, playerId models.PlayerId) (string, error)
	StartGame(gameId models.GameId, callerId models.PlayerId) error
	ListLobbies() []models.LobbyMetadata
	GetLobbyInfo(gameId models.GameId) (models.LobbyMetadata, error)
	RunGameOperation(ctx context.Context, gameId models.GameId, op module.GameOperation) (any, error)
}

// tokenIssuer is the slice of *auth.Issuer the adapter needs.
type tokenIssuer interface {
	Issue(id models.PlayerId, name string) (string, error)
	Verify(tokenString string) (auth.Claims, error)
}

// registryAPI is the slice of *module.Registry the adapter needs to
// validate game types and decode/translate client requests.
type registryAPI interface {
	Lookup(gameType models.GameType) (module.Bundle, bool)
	ParseRegistered(shortName string) (models.GameType, error)
}
