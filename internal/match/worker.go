// Package match implements the MatchWorker of spec.md §4.4: one goroutine
// per live match, owning a single GameModel and processing its mailbox
// strictly sequentially. Game-model errors never crash the worker; they
// are reported to the caller verbatim.
package match

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/persistence"
)

// Completed is sent to the supervisor's mailbox when a match reaches a
// terminal status, per spec.md §4.4 step 4c.
type Completed struct {
	GameId models.GameId
	Status module.Status
}

// Supervisor is the narrow slice of the supervisor a worker needs: just
// enough to report completion, never the lobby/match maps themselves.
type Supervisor interface {
	NotifyCompleted(Completed)
}

// moveObserver is the slice of *metrics.Collector a worker needs. Declared
// locally so metrics stay optional.
type moveObserver interface {
	RecordMoveAccepted()
	RecordMoveRejected()
}

// Worker owns one match's GameModel and processes commands one at a time
// from its mailbox. Zero cross-match coordination; the only things it
// shares are the read-only module Bundle and its own persistence/
// supervisor handles.
type Worker struct {
	gameId      models.GameId
	gameType    models.GameType
	bundle      module.Bundle
	persistence *persistence.Worker
	supervisor  Supervisor
	log         *logrus.Logger
	metrics     moveObserver

	cmdCh chan module.Command
	done  chan struct{}
}

// SetMetrics attaches move-outcome counters. Optional; nil is a safe no-op.
func (w *Worker) SetMetrics(m moveObserver) {
	w.metrics = m
}

// Create pre-validates the player count against bundle.Bounds and spawns a
// fresh match worker, per spec.md §4.4's create(...) factory. It returns
// the freshly created state alongside the worker so the caller can issue
// the initial SaveSnapshot spec.md §4.5's StartGame requires.
func Create(gameId models.GameId, players []models.Player, bundle module.Bundle, persist *persistence.Worker, sup Supervisor, log *logrus.Logger) (*Worker, module.GameModel, error) {
	if !bundle.Bounds.Contains(len(players)) {
		return nil, nil, fmt.Errorf("player count %d outside [%d,%d] for %s", len(players), bundle.Bounds.Min, bundle.Bounds.Max, bundle.Type)
	}
	state, err := bundle.Create(gameId, players)
	if err != nil {
		return nil, nil, err
	}
	w := newWorker(gameId, bundle, persist, sup, log)
	go w.run(state)
	return w, state, nil
}

// FromSnapshot resumes a match from a restored GameModel, per spec.md
// §4.4's fromSnapshot(...) factory. It always starts a worker and never
// returns nil; it does not check that state is the bundle's concrete
// GameModel type.
func FromSnapshot(gameId models.GameId, state module.GameModel, bundle module.Bundle, persist *persistence.Worker, sup Supervisor, log *logrus.Logger) *Worker {
	w := newWorker(gameId, bundle, persist, sup, log)
	go w.run(state)
	return w
}

func newWorker(gameId models.GameId, bundle module.Bundle, persist *persistence.Worker, sup Supervisor, log *logrus.Logger) *Worker {
	return &Worker{
		gameId:      gameId,
		gameType:    bundle.Type,
		bundle:      bundle,
		persistence: persist,
		supervisor:  sup,
		log:         log,
		cmdCh:       make(chan module.Command, 32),
		done:        make(chan struct{}),
	}
}

// Send delivers a command to the worker's mailbox. Commands are built by
// the module's ToCommand and are opaque to everyone but the worker and
// the bundle that produced them.
func (w *Worker) Send(cmd module.Command) {
	w.cmdCh <- cmd
}

func (w *Worker) run(state module.GameModel) {
	defer close(w.done)
	for cmd := range w.cmdCh {
		state = w.handle(state, cmd)
	}
}

func (w *Worker) handle(state module.GameModel, cmd module.Command) module.GameModel {
	switch c := cmd.(type) {
	case module.MakeMoveCommand:
		return w.handleMakeMove(state, c)
	case module.GetStateCommand:
		c.ReplyTo <- module.Reply{View: w.bundle.StateView(state)}
		return state
	default:
		w.log.WithField("gameId", w.gameId).Warn("match: unexpected command type, ignoring")
		return state
	}
}

func (w *Worker) handleMakeMove(state module.GameModel, c module.MakeMoveCommand) module.GameModel {
	if state.Status().Phase != module.PhaseInProgress {
		w.recordRejected()
		c.ReplyTo <- module.Reply{Err: module.ErrGameOver}
		return state
	}

	next, err := state.Apply(c.PlayerId, c.Move)
	if err != nil {
		w.recordRejected()
		c.ReplyTo <- module.Reply{Err: err}
		return state
	}
	w.recordAccepted()

	// Fire-and-forget: persistence is not on the reply path. The reply
	// channel is discardable; SnapshotSaved arriving back is log-only.
	saveReply := make(chan persistence.SaveResult, 1)
	w.persistence.SaveSnapshot(w.gameId, w.gameType, next, saveReply)
	go w.observeSave(saveReply)

	c.ReplyTo <- module.Reply{View: w.bundle.StateView(next)}

	if status := next.Status(); status.Phase == module.PhaseWon || status.Phase == module.PhaseDraw {
		w.supervisor.NotifyCompleted(Completed{GameId: w.gameId, Status: status})
	}

	return next
}

func (w *Worker) recordAccepted() {
	if w.metrics != nil {
		w.metrics.RecordMoveAccepted()
	}
}

func (w *Worker) recordRejected() {
	if w.metrics != nil {
		w.metrics.RecordMoveRejected()
	}
}

func (w *Worker) observeSave(reply <-chan persistence.SaveResult) {
	res := <-reply
	if res.Err != nil {
		w.log.WithFields(logrus.Fields{"gameId": w.gameId, "error": res.Err}).Warn("match: snapshot save failed")
	}
}

// Stop closes the mailbox once all in-flight sends have drained. Not part
// of the spec's contract; used during graceful shutdown.
func (w *Worker) Stop() {
	close(w.cmdCh)
	<-w.done
}
