package module

import (
	"fmt"
	"sync"

	"github.com/msyu/cambia-arena/internal/models"
)

// Bundle is the per-GameType bundle spec.md §4.6 requires: a move decoder,
// an operation-to-command translator, a worker factory (Create/EmptyState),
// and a client-facing state view. Adding a game means adding a Bundle;
// neither the Supervisor nor the HTTP adapter gains a game-type branch.
type Bundle struct {
	Type   models.GameType
	Bounds models.PlayerBounds

	// DecodeMove parses client JSON into the game-specific move payload.
	DecodeMove func(raw []byte) (any, error)

	// ToCommand translates a game-agnostic operation into this game's
	// worker command language, rejecting payload/operation mismatches.
	ToCommand func(op GameOperation, replyTo chan<- Reply) (Command, error)

	// Create builds a fresh GameModel for players. It does not check the
	// player count; match.Create checks it against Bounds before calling.
	Create func(gameId models.GameId, players []models.Player) (GameModel, error)

	// EmptyState allocates a zero-value target the codec can decode a
	// stored snapshot into.
	EmptyState func() GameModel

	// StateView converts a GameModel into the shape sent to clients.
	StateView func(state GameModel) any
}

// Registry is the startup-time, read-only-after-init table GameType ->
// Bundle. A zero Registry is ready to use.
type Registry struct {
	mu      sync.RWMutex
	bundles map[models.GameType]Bundle
}

// NewRegistry returns an empty registry. Callers register every supported
// game before handing the registry to the Supervisor; after that point it
// is never mutated again.
func NewRegistry() *Registry {
	return &Registry{bundles: make(map[models.GameType]Bundle)}
}

// Register adds a bundle, overwriting any prior registration for the same
// type. Intended to be called only during process startup.
func (r *Registry) Register(b Bundle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bundles == nil {
		r.bundles = make(map[models.GameType]Bundle)
	}
	r.bundles[b.Type] = b
}

// Lookup returns the bundle for gameType, or ok=false if unregistered.
func (r *Registry) Lookup(gameType models.GameType) (Bundle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bundles[gameType]
	return b, ok
}

// Types lists every registered GameType, for diagnostics and parsing
// validation.
func (r *Registry) Types() []models.GameType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.GameType, 0, len(r.bundles))
	for t := range r.bundles {
		out = append(out, t)
	}
	return out
}

// ParseRegistered parses shortName and confirms it is registered, returning
// models.ErrUnsupportedGameType wrapped with the offending name if not.
func (r *Registry) ParseRegistered(shortName string) (models.GameType, error) {
	t, err := models.ParseGameType(shortName)
	if err != nil {
		return "", err
	}
	if _, ok := r.Lookup(t); !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnsupportedGameType, shortName)
	}
	return t, nil
}
