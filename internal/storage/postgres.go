package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// Postgres is the pgx-backed Repository, grounded on the teacher's
// internal/database connection-pool pattern.
type Postgres struct {
	base
	pool *pgxpool.Pool
}

// NewPostgres wraps an already-connected pool. Connecting the pool itself
// (DSN assembly, ping) is config/main.go's job, matching the teacher's
// ConnectDB split between "build the pool" and "use the pool".
func NewPostgres(pool *pgxpool.Pool, registry *module.Registry, sc codec.StateCodec, log *logrus.Logger) *Postgres {
	return &Postgres{base: newBase(registry, sc, log), pool: pool}
}

func (p *Postgres) Init(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS games (
			game_id    TEXT PRIMARY KEY,
			game_type  TEXT NOT NULL,
			game_state TEXT NOT NULL
		)
	`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return models.NewInfraError(models.InfraStorage, fmt.Errorf("init games table: %w", err))
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, id models.GameId, gameType models.GameType, state module.GameModel) error {
	payload, err := p.codec.Encode(state)
	if err != nil {
		return models.NewInfraError(models.InfraDecode, err)
	}
	const upsert = `
		INSERT INTO games (game_id, game_type, game_state)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id) DO UPDATE SET game_type = EXCLUDED.game_type, game_state = EXCLUDED.game_state
	`
	err = pgx.BeginTxFunc(ctx, p.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, upsert, id.String(), string(gameType), payload)
		return e
	})
	if err != nil {
		return models.NewInfraError(models.InfraStorage, fmt.Errorf("save snapshot %s: %w", id, err))
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, id models.GameId, gameType models.GameType) (module.GameModel, bool, error) {
	const q = `SELECT game_type, game_state FROM games WHERE game_id = $1`
	var rawType, payload string
	err := p.pool.QueryRow(ctx, q, id.String()).Scan(&rawType, &payload)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.NewInfraError(models.InfraStorage, fmt.Errorf("load snapshot %s: %w", id, err))
	}
	if models.GameType(rawType) != gameType {
		p.log.WithFields(logrus.Fields{"gameId": id, "expected": gameType, "actual": rawType}).
			Warn("storage: game type mismatch on targeted load")
		return nil, false, nil
	}
	snap, ok := p.decodeRow(id, rawType, payload)
	if !ok {
		return nil, false, nil
	}
	return snap.State, true, nil
}

func (p *Postgres) LoadAll(ctx context.Context) (map[models.GameId]Snapshot, error) {
	const q = `SELECT game_id, game_type, game_state FROM games`
	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, models.NewInfraError(models.InfraStorage, fmt.Errorf("load all snapshots: %w", err))
	}
	defer rows.Close()

	out := make(map[models.GameId]Snapshot)
	for rows.Next() {
		var rawId, rawType, payload string
		if err := rows.Scan(&rawId, &rawType, &payload); err != nil {
			return nil, models.NewInfraError(models.InfraStorage, fmt.Errorf("scan snapshot row: %w", err))
		}
		id, err := models.ParseId(rawId)
		if err != nil {
			p.log.WithFields(logrus.Fields{"gameId": rawId, "error": err}).
				Warn("storage: skipping row with malformed game id")
			continue
		}
		snap, ok := p.decodeRow(id, rawType, payload)
		if !ok {
			continue
		}
		out[id] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewInfraError(models.InfraStorage, fmt.Errorf("iterate snapshot rows: %w", err))
	}
	return out, nil
}
