// Package supervisor implements the orchestration kernel of spec.md §4.5:
// the single point of ordering for lobby and match-index mutations. It
// owns the lobby map and the match index, both mutated only while
// processing its own mailbox — never touched from any other goroutine.
package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/match"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/persistence"
)

// DefaultStashLimit is the recommended bound on commands queued while the
// supervisor is still restoring (spec.md §5). Overflow is a fatal
// configuration error: the operator sized the deployment wrong.
const DefaultStashLimit = 128

// DefaultAskTimeout bounds how long RunGameOperation waits on a worker's
// reply before giving up, per spec.md §5's 3-second default.
const DefaultAskTimeout = 3 * time.Second

type matchEntry struct {
	gameType models.GameType
	worker   *match.Worker
}

// Supervisor is the actor described in spec.md §4.5. It starts in
// Initializing and transitions to Running exactly once, when its
// asynchronous loadAll() replies.
type Supervisor struct {
	registry    *module.Registry
	persistence *persistence.Worker
	log         *logrus.Logger
	askTimeout  time.Duration
	stashLimit  int
	metrics     gaugeObserver

	cmdCh chan any
}

// gaugeObserver is the slice of *metrics.Collector the supervisor needs
// directly, plus the move-outcome counters it hands down to every match
// worker it creates or restores. Declared locally so metrics stay optional.
type gaugeObserver interface {
	SetLiveMatches(n int)
	SetStashDepth(n int)
	RecordMoveAccepted()
	RecordMoveRejected()
}

// SetMetrics attaches gauge and move-outcome observers. Optional; nil is a
// safe no-op.
func (s *Supervisor) SetMetrics(m gaugeObserver) {
	s.metrics = m
}

// New constructs a Supervisor and immediately issues loadAll()
// asynchronously, per spec.md §4.5's "on construction" restore trigger.
func New(registry *module.Registry, persist *persistence.Worker, log *logrus.Logger) *Supervisor {
	s := &Supervisor{
		registry:    registry,
		persistence: persist,
		log:         log,
		askTimeout:  DefaultAskTimeout,
		stashLimit:  DefaultStashLimit,
		cmdCh:       make(chan any, 256),
	}
	go s.run()
	go s.restore()
	return s
}

func (s *Supervisor) restore() {
	snapshots, err := s.persistence.LoadAll(context.Background())
	if err != nil {
		s.log.WithError(err).Warn("supervisor: loadAll failed, restoring nothing")
		snapshots = nil
	}
	s.cmdCh <- restoreCompleteMsg{snapshots: snapshots}
}

// run is the single goroutine that owns lobbies and matches. Every
// mutation of either map happens here and only here.
func (s *Supervisor) run() {
	state := stateInitializing
	var stash []any
	lobbies := make(map[models.GameId]models.LobbyMetadata)
	matches := make(map[models.GameId]matchEntry)

	for msg := range s.cmdCh {
		if restore, ok := msg.(restoreCompleteMsg); ok {
			s.applyRestore(restore, matches)
			state = stateRunning
			for _, stashed := range stash {
				s.handleRunning(stashed, lobbies, matches)
			}
			stash = nil
			s.reportGauges(0, matches)
			continue
		}

		if state == stateInitializing {
			if len(stash) >= s.stashLimit {
				s.log.Fatal("supervisor: command stash overflowed during restore; increase the stash limit or reduce startup load")
			}
			stash = append(stash, msg)
			s.reportGauges(len(stash), matches)
			continue
		}

		s.handleRunning(msg, lobbies, matches)
		s.reportGauges(0, matches)
	}
}

func (s *Supervisor) reportGauges(stashDepth int, matches map[models.GameId]matchEntry) {
	if s.metrics == nil {
		return
	}
	s.metrics.SetStashDepth(stashDepth)
	s.metrics.SetLiveMatches(len(matches))
}

func (s *Supervisor) applyRestore(restore restoreCompleteMsg, matches map[models.GameId]matchEntry) {
	for gameId, snap := range restore.snapshots {
		bundle, ok := s.registry.Lookup(snap.GameType)
		if !ok {
			s.log.WithFields(logrus.Fields{"gameId": gameId, "gameType": snap.GameType}).
				Warn("supervisor: restoring row with unregistered game type, skipping")
			continue
		}
		worker := match.FromSnapshot(gameId, snap.State, bundle, s.persistence, s, s.log)
		if s.metrics != nil {
			worker.SetMetrics(s.metrics)
		}
		matches[gameId] = matchEntry{gameType: snap.GameType, worker: worker}
	}
	s.log.WithField("count", len(matches)).Info("supervisor: restored in-progress matches")
}

func (s *Supervisor) handleRunning(msg any, lobbies map[models.GameId]models.LobbyMetadata, matches map[models.GameId]matchEntry) {
	switch m := msg.(type) {
	case createLobbyMsg:
		s.handleCreateLobby(m, lobbies)
	case joinLobbyMsg:
		s.handleJoinLobby(m, lobbies)
	case leaveLobbyMsg:
		s.handleLeaveLobby(m, lobbies)
	case startGameMsg:
		s.handleStartGame(m, lobbies, matches)
	case listLobbiesMsg:
		s.handleListLobbies(m, lobbies)
	case getLobbyInfoMsg:
		s.handleGetLobbyInfo(m, lobbies)
	case gameCompletedMsg:
		s.handleGameCompleted(m, lobbies)
	case runGameOperationMsg:
		s.handleRunGameOperation(m, matches)
	default:
		s.log.WithField("type", fmt.Sprintf("%T", msg)).Warn("supervisor: unexpected message type, ignoring")
	}
}

type stateTag int

const (
	stateInitializing stateTag = iota
	stateRunning
)
