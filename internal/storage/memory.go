package storage

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// row is the raw, pre-decode representation Memory stores — mirroring
// exactly what a real table row holds, so Memory exercises the same
// decode-on-read, skip-on-corruption contract as Postgres without a
// database.
type row struct {
	gameType string
	payload  string
}

// Memory is an in-process Repository used by unit tests and local
// development without Postgres. Tests can poke PutRaw to exercise the
// "decode fails, skip the row" restore path.
type Memory struct {
	base
	mu   sync.Mutex
	rows map[string]row
}

func NewMemory(registry *module.Registry, sc codec.StateCodec, log *logrus.Logger) *Memory {
	return &Memory{base: newBase(registry, sc, log), rows: make(map[string]row)}
}

func (m *Memory) Init(ctx context.Context) error { return nil }

func (m *Memory) Save(ctx context.Context, id models.GameId, gameType models.GameType, state module.GameModel) error {
	payload, err := m.codec.Encode(state)
	if err != nil {
		return models.NewInfraError(models.InfraDecode, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id.String()] = row{gameType: string(gameType), payload: payload}
	return nil
}

func (m *Memory) Load(ctx context.Context, id models.GameId, gameType models.GameType) (module.GameModel, bool, error) {
	m.mu.Lock()
	r, ok := m.rows[id.String()]
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	if r.gameType != string(gameType) {
		return nil, false, nil
	}
	snap, ok := m.decodeRow(id, r.gameType, r.payload)
	if !ok {
		return nil, false, nil
	}
	return snap.State, true, nil
}

func (m *Memory) LoadAll(ctx context.Context) (map[models.GameId]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[models.GameId]Snapshot)
	for rawId, r := range m.rows {
		id, err := models.ParseId(rawId)
		if err != nil {
			continue
		}
		snap, ok := m.decodeRow(id, r.gameType, r.payload)
		if !ok {
			continue
		}
		out[id] = snap
	}
	return out, nil
}

// PutRaw inserts a row bypassing the codec entirely, for tests that need a
// row present with an arbitrary or corrupt payload.
func (m *Memory) PutRaw(id models.GameId, gameType, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id.String()] = row{gameType: gameType, payload: payload}
}
