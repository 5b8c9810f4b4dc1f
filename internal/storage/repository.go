// Package storage implements the durable Repository of spec.md §4.1: the
// single `games` table keyed by GameId, decoded through the registered
// GameModule's codec on the way out so a corrupt or unrecognized row never
// fails the whole restore.
package storage

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// Snapshot pairs the stored GameType tag with the decoded state, as
// returned by LoadAll.
type Snapshot struct {
	GameType models.GameType
	State    module.GameModel
}

// Repository is the durable snapshot store contract, spec.md §4.1.
type Repository interface {
	// Init ensures the games table exists.
	Init(ctx context.Context) error
	// Save upserts the row: insert, or on primary-key conflict overwrite
	// game_type and game_state.
	Save(ctx context.Context, id models.GameId, gameType models.GameType, state module.GameModel) error
	// Load returns (state, true, nil) iff the row exists, its game_type
	// equals gameType, and game_state decodes. Decode failures and type
	// mismatches yield (nil, false, nil), never an error. A Storage error
	// is returned only for I/O failure.
	Load(ctx context.Context, id models.GameId, gameType models.GameType) (module.GameModel, bool, error)
	// LoadAll returns every row that has a well-formed id, a registered
	// type, and a decodable payload. Other rows are skipped and logged,
	// never fail the call. A Storage error is returned only for I/O
	// failure at the query level.
	LoadAll(ctx context.Context) (map[models.GameId]Snapshot, error)
}

// base holds the pieces shared by every Repository implementation: the
// module registry (to find a bundle's EmptyState/codec target) and the
// codec itself.
type base struct {
	registry *module.Registry
	codec    codec.StateCodec
	log      *logrus.Logger
}

func newBase(registry *module.Registry, sc codec.StateCodec, log *logrus.Logger) base {
	return base{registry: registry, codec: sc, log: log}
}

// decodeRow applies the Repository's decode-on-read contract to one raw row.
// ok=false covers both an unrecognized type and an undecodable payload;
// both are logged here rather than surfaced as errors.
func (b base) decodeRow(id models.GameId, rawType, payload string) (Snapshot, bool) {
	gameType := models.GameType(rawType)
	bundle, known := b.registry.Lookup(gameType)
	if !known {
		b.log.WithFields(logrus.Fields{"gameId": id, "gameType": rawType}).
			Warn("storage: skipping row with unrecognized game type")
		return Snapshot{}, false
	}
	state, err := b.codec.Decode(payload, bundle.EmptyState())
	if err != nil {
		b.log.WithFields(logrus.Fields{"gameId": id, "gameType": rawType, "error": err}).
			Warn("storage: skipping row with undecodable payload")
		return Snapshot{}, false
	}
	return Snapshot{GameType: gameType, State: state}, true
}
