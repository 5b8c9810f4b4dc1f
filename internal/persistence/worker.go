// Package persistence puts Repository load/save I/O behind a mailbox, per
// spec.md §4.3. Callers of LoadSnapshot/SaveSnapshot never block on I/O
// themselves: both success and failure arrive as replies on the channel
// they supply. LoadAll and Init call the repository directly.
package persistence

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/storage"
)

// latencyObserver is the slice of *metrics.Collector the worker needs.
// Declared locally so metrics stay optional.
type latencyObserver interface {
	ObservePersistence(d time.Duration)
}

// LoadResult is the outcome of a LoadSnapshot request.
type LoadResult struct {
	State module.GameModel
	Found bool
	Err   error
}

// SaveResult is the outcome of a SaveSnapshot request.
type SaveResult struct {
	Err error
}

type loadMsg struct {
	gameId   models.GameId
	gameType models.GameType
	replyTo  chan<- LoadResult
}

type saveMsg struct {
	gameId   models.GameId
	gameType models.GameType
	state    module.GameModel
	replyTo  chan<- SaveResult
}

// Worker wraps a storage.Repository with a mailbox. The
// PersistenceWorker has no cross-game ordering requirement (spec.md §5),
// so its mailbox is serviced by a small fixed pool rather than a single
// goroutine, without changing the external request/reply contract.
type Worker struct {
	repo    storage.Repository
	log     *logrus.Logger
	loadCh  chan loadMsg
	saveCh  chan saveMsg
	done    chan struct{}
	workers int
	metrics latencyObserver
}

// SetMetrics attaches a latency observer. Optional; nil is a safe no-op.
func (w *Worker) SetMetrics(m latencyObserver) {
	w.metrics = m
}

// NewWorker starts a PersistenceWorker backed by repo. workers controls
// the size of the internal pool (use 1 for a strictly single-threaded
// worker, matching the "single goroutine + channel" realization in
// spec.md §5).
func NewWorker(repo storage.Repository, log *logrus.Logger, workers int) *Worker {
	if workers < 1 {
		workers = 1
	}
	w := &Worker{
		repo:    repo,
		log:     log,
		loadCh:  make(chan loadMsg, 64),
		saveCh:  make(chan saveMsg, 64),
		done:    make(chan struct{}),
		workers: workers,
	}
	for i := 0; i < workers; i++ {
		go w.run()
	}
	return w
}

func (w *Worker) run() {
	for {
		select {
		case <-w.done:
			return
		case m := <-w.loadCh:
			w.handleLoad(m)
		case m := <-w.saveCh:
			w.handleSave(m)
		}
	}
}

func (w *Worker) handleLoad(m loadMsg) {
	ctx := context.Background()
	start := time.Now()
	state, found, err := func() (state module.GameModel, found bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = models.NewInfraError(models.InfraStorage, errFromRecover(r))
			}
		}()
		return w.repo.Load(ctx, m.gameId, m.gameType)
	}()
	if w.metrics != nil {
		w.metrics.ObservePersistence(time.Since(start))
	}
	if err != nil {
		w.log.WithFields(logrus.Fields{"gameId": m.gameId, "error": err}).Warn("persistence: load failed")
	}
	m.replyTo <- LoadResult{State: state, Found: found, Err: err}
}

func (w *Worker) handleSave(m saveMsg) {
	ctx := context.Background()
	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = models.NewInfraError(models.InfraStorage, errFromRecover(r))
			}
		}()
		return w.repo.Save(ctx, m.gameId, m.gameType, m.state)
	}()
	if w.metrics != nil {
		w.metrics.ObservePersistence(time.Since(start))
	}
	if err != nil {
		w.log.WithFields(logrus.Fields{"gameId": m.gameId, "error": err}).Warn("persistence: save failed")
	}
	m.replyTo <- SaveResult{Err: err}
}

// LoadSnapshot asks the worker to load id's snapshot, replying on replyTo.
func (w *Worker) LoadSnapshot(gameId models.GameId, gameType models.GameType, replyTo chan<- LoadResult) {
	w.loadCh <- loadMsg{gameId: gameId, gameType: gameType, replyTo: replyTo}
}

// SaveSnapshot asks the worker to persist state, replying on replyTo.
// Callers on the MakeMove path pass a buffered, discardable replyTo
// since persistence is fire-and-forget relative to the caller's ack.
func (w *Worker) SaveSnapshot(gameId models.GameId, gameType models.GameType, state module.GameModel, replyTo chan<- SaveResult) {
	w.saveCh <- saveMsg{gameId: gameId, gameType: gameType, state: state, replyTo: replyTo}
}

// LoadAll delegates straight to the repository; it is only ever called
// once, synchronously, by the supervisor during Initializing.
func (w *Worker) LoadAll(ctx context.Context) (map[models.GameId]storage.Snapshot, error) {
	return w.repo.LoadAll(ctx)
}

// Init delegates straight to the repository's schema setup.
func (w *Worker) Init(ctx context.Context) error {
	return w.repo.Init(ctx)
}

// Stop halts the worker pool. Not part of the spec's contract; used by
// graceful shutdown in cmd/server.
func (w *Worker) Stop() {
	close(w.done)
}

func errFromRecover(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &recoverError{r}
}

type recoverError struct{ v interface{} }

func (e *recoverError) Error() string { return "panic: " + errToString(e.v) }

func errToString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}
