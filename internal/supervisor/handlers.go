package supervisor

import (
	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/match"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/persistence"
)

func (s *Supervisor) handleCreateLobby(m createLobbyMsg, lobbies map[models.GameId]models.LobbyMetadata) {
	if _, ok := s.registry.Lookup(m.gameType); !ok {
		m.reply <- lobbyReply{err: models.ErrUnsupportedGameType}
		return
	}
	gameId := models.NewGameId()
	meta := models.LobbyMetadata{
		GameId:   gameId,
		GameType: m.gameType,
		Players:  map[models.PlayerId]models.Player{m.host.ID: m.host},
		HostId:   m.host.ID,
		Status:   models.LobbyWaitingForPlayers,
	}
	lobbies[gameId] = meta
	m.reply <- lobbyReply{metadata: meta.Clone()}
}

func (s *Supervisor) handleJoinLobby(m joinLobbyMsg, lobbies map[models.GameId]models.LobbyMetadata) {
	lobby, ok := lobbies[m.gameId]
	if !ok {
		m.reply <- lobbyReply{err: models.ErrLobbyNotFound}
		return
	}
	if !lobby.Status.Joinable() {
		m.reply <- lobbyReply{err: models.ErrNotJoinable}
		return
	}
	if _, already := lobby.Players[m.player.ID]; already {
		m.reply <- lobbyReply{err: models.ErrAlreadyJoined}
		return
	}
	bundle, _ := s.registry.Lookup(lobby.GameType)
	if len(lobby.Players) >= bundle.Bounds.Max {
		m.reply <- lobbyReply{err: models.ErrLobbyFull}
		return
	}

	lobby.Players[m.player.ID] = m.player
	if len(lobby.Players) >= bundle.Bounds.Min {
		lobby.Status = models.LobbyReadyToStart
	} else {
		lobby.Status = models.LobbyWaitingForPlayers
	}
	lobbies[m.gameId] = lobby
	m.reply <- lobbyReply{metadata: lobby.Clone()}
}

func (s *Supervisor) handleLeaveLobby(m leaveLobbyMsg, lobbies map[models.GameId]models.LobbyMetadata) {
	lobby, ok := lobbies[m.gameId]
	if !ok {
		m.reply <- leaveReply{err: models.ErrLobbyNotFound}
		return
	}

	wasHost := m.playerId == lobby.HostId
	delete(lobby.Players, m.playerId)

	bundle, _ := s.registry.Lookup(lobby.GameType)
	stillPending := !lobby.Status.Terminal() && lobby.Status != models.LobbyInProgress
	if wasHost && stillPending {
		lobby.Status = models.LobbyCancelled
	} else if !wasHost && stillPending {
		if len(lobby.Players) >= bundle.Bounds.Min {
			lobby.Status = models.LobbyReadyToStart
		} else {
			lobby.Status = models.LobbyWaitingForPlayers
		}
	}
	lobbies[m.gameId] = lobby

	if wasHost {
		m.reply <- leaveReply{reason: "host left"}
	} else {
		m.reply <- leaveReply{reason: "left lobby"}
	}
}

func (s *Supervisor) handleStartGame(m startGameMsg, lobbies map[models.GameId]models.LobbyMetadata, matches map[models.GameId]matchEntry) {
	lobby, ok := lobbies[m.gameId]
	if !ok {
		m.reply <- models.ErrGameNotFound
		return
	}
	if m.callerId != lobby.HostId {
		m.reply <- models.ErrNotHost
		return
	}
	if lobby.Status != models.LobbyReadyToStart {
		m.reply <- models.ErrNotReady
		return
	}

	bundle, ok := s.registry.Lookup(lobby.GameType)
	if !ok {
		m.reply <- models.ErrUnsupportedGameType
		return
	}
	// The host goes first so it takes the first role (X in tic-tac-toe).
	players := make([]models.Player, 0, len(lobby.Players))
	if host, ok := lobby.Players[lobby.HostId]; ok {
		players = append(players, host)
	}
	for id, p := range lobby.Players {
		if id != lobby.HostId {
			players = append(players, p)
		}
	}

	worker, initial, err := match.Create(m.gameId, players, bundle, s.persistence, s, s.log)
	if err != nil {
		m.reply <- err
		return
	}
	if s.metrics != nil {
		worker.SetMetrics(s.metrics)
	}

	// Fire-and-forget initial snapshot; a failure here does not prevent
	// the match from starting (spec.md §5). The client can replay via
	// GetState.
	discard := make(chan persistence.SaveResult, 1)
	s.persistence.SaveSnapshot(m.gameId, lobby.GameType, initial, discard)
	go logDiscardedSave(s.log, m.gameId, discard)

	matches[m.gameId] = matchEntry{gameType: lobby.GameType, worker: worker}
	lobby.Status = models.LobbyInProgress
	lobbies[m.gameId] = lobby
	m.reply <- nil
}

func (s *Supervisor) handleListLobbies(m listLobbiesMsg, lobbies map[models.GameId]models.LobbyMetadata) {
	out := make([]models.LobbyMetadata, 0, len(lobbies))
	for _, lobby := range lobbies {
		if lobby.Status.Joinable() {
			out = append(out, lobby.Clone())
		}
	}
	m.reply <- out
}

func (s *Supervisor) handleGetLobbyInfo(m getLobbyInfoMsg, lobbies map[models.GameId]models.LobbyMetadata) {
	lobby, ok := lobbies[m.gameId]
	if !ok {
		m.reply <- lobbyReply{err: models.ErrGameNotFound}
		return
	}
	m.reply <- lobbyReply{metadata: lobby.Clone()}
}

func (s *Supervisor) handleGameCompleted(m gameCompletedMsg, lobbies map[models.GameId]models.LobbyMetadata) {
	lobby, ok := lobbies[m.gameId]
	if !ok {
		return
	}
	switch m.status.Phase {
	case module.PhaseWon, module.PhaseDraw:
		lobby.Status = models.LobbyCompleted
		lobbies[m.gameId] = lobby
	}
}

func (s *Supervisor) handleRunGameOperation(m runGameOperationMsg, matches map[models.GameId]matchEntry) {
	entry, ok := matches[m.gameId]
	if !ok {
		m.reply <- opReply{err: models.ErrMatchNotFound}
		return
	}
	bundle, ok := s.registry.Lookup(entry.gameType)
	if !ok {
		m.reply <- opReply{err: models.ErrUnsupportedGameType}
		return
	}

	workerReply := make(chan module.Reply, 1)
	cmd, err := bundle.ToCommand(m.op, workerReply)
	if err != nil {
		m.reply <- opReply{err: err}
		return
	}
	entry.worker.Send(cmd)

	// Forward the worker's reply without blocking the actor loop: the
	// worker processes its own mailbox independently.
	go func() {
		r := <-workerReply
		m.reply <- opReply{view: r.View, err: r.Err}
	}()
}

func logDiscardedSave(log *logrus.Logger, gameId models.GameId, reply <-chan persistence.SaveResult) {
	res := <-reply
	if res.Err != nil {
		log.WithFields(logrus.Fields{"gameId": gameId, "error": res.Err}).
			Warn("supervisor: initial snapshot save failed")
	}
}
