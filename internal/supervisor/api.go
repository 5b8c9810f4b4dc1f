package supervisor

import (
	"context"
	"fmt"

	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// ErrTimeout is returned by RunGameOperation when the ask exceeds its
// bounded timeout; the worker still processes the command, its reply is
// simply discarded on arrival (spec.md §5).
var ErrTimeout = fmt.Errorf("timed out waiting for a response")

// CreateLobby generates a fresh lobby for gameType hosted by host.
func (s *Supervisor) CreateLobby(gameType models.GameType, host models.Player) (models.LobbyMetadata, error) {
	reply := make(chan lobbyReply, 1)
	s.cmdCh <- createLobbyMsg{gameType: gameType, host: host, reply: reply}
	r := <-reply
	return r.metadata, r.err
}

// JoinLobby adds player to gameId's lobby, per spec.md §4.5.
func (s *Supervisor) JoinLobby(gameId models.GameId, player models.Player) (models.LobbyMetadata, error) {
	reply := make(chan lobbyReply, 1)
	s.cmdCh <- joinLobbyMsg{gameId: gameId, player: player, reply: reply}
	r := <-reply
	return r.metadata, r.err
}

// LeaveLobby removes playerId from gameId's lobby. Returns a
// human-readable reason ("host left" / "left lobby"). Idempotent for an
// already-absent player.
func (s *Supervisor) LeaveLobby(gameId models.GameId, playerId models.PlayerId) (string, error) {
	reply := make(chan leaveReply, 1)
	s.cmdCh <- leaveLobbyMsg{gameId: gameId, playerId: playerId, reply: reply}
	r := <-reply
	return r.reason, r.err
}

// StartGame transitions gameId's lobby to InProgress and spawns its
// MatchWorker, if callerId is the host and the lobby is ReadyToStart.
func (s *Supervisor) StartGame(gameId models.GameId, callerId models.PlayerId) error {
	reply := make(chan error, 1)
	s.cmdCh <- startGameMsg{gameId: gameId, callerId: callerId, reply: reply}
	return <-reply
}

// ListLobbies returns every lobby whose status is currently joinable.
func (s *Supervisor) ListLobbies() []models.LobbyMetadata {
	reply := make(chan []models.LobbyMetadata, 1)
	s.cmdCh <- listLobbiesMsg{reply: reply}
	return <-reply
}

// GetLobbyInfo returns gameId's lobby metadata.
func (s *Supervisor) GetLobbyInfo(gameId models.GameId) (models.LobbyMetadata, error) {
	reply := make(chan lobbyReply, 1)
	s.cmdCh <- getLobbyInfoMsg{gameId: gameId, reply: reply}
	r := <-reply
	return r.metadata, r.err
}

// RunGameOperation forwards op to gameId's live match and waits for its
// translated reply, bounded by ctx (the HTTP adapter supplies a
// per-request ask timeout, spec.md §5). On timeout, the worker still
// processes the command; this call simply stops waiting.
func (s *Supervisor) RunGameOperation(ctx context.Context, gameId models.GameId, op module.GameOperation) (any, error) {
	reply := make(chan opReply, 1)
	s.cmdCh <- runGameOperationMsg{gameId: gameId, op: op, reply: reply}
	select {
	case r := <-reply:
		return r.view, r.err
	case <-ctx.Done():
		return nil, ErrTimeout
	}
}
