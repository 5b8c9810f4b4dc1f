package supervisor

import (
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/storage"
)

type restoreCompleteMsg struct {
	snapshots map[models.GameId]storage.Snapshot
}

type createLobbyMsg struct {
	gameType models.GameType
	host     models.Player
	reply    chan<- lobbyReply
}

type joinLobbyMsg struct {
	gameId models.GameId
	player models.Player
	reply  chan<- lobbyReply
}

type leaveLobbyMsg struct {
	gameId   models.GameId
	playerId models.PlayerId
	reply    chan<- leaveReply
}

type startGameMsg struct {
	gameId   models.GameId
	callerId models.PlayerId
	reply    chan<- error
}

type listLobbiesMsg struct {
	reply chan<- []models.LobbyMetadata
}

type getLobbyInfoMsg struct {
	gameId models.GameId
	reply  chan<- lobbyReply
}

type gameCompletedMsg struct {
	gameId models.GameId
	status module.Status
}

type runGameOperationMsg struct {
	gameId models.GameId
	op     module.GameOperation
	reply  chan<- opReply
}

// lobbyReply carries a LobbyMetadata result or an orchestration error.
type lobbyReply struct {
	metadata models.LobbyMetadata
	err      error
}

// leaveReply carries LeaveLobby's human-readable reason ("host left" /
// "left lobby") or an orchestration error.
type leaveReply struct {
	reason string
	err    error
}

// opReply carries a MatchWorker's translated reply: a state view on
// success, or an error (orchestration or game-model).
type opReply struct {
	view any
	err  error
}
