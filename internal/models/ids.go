// Package models holds the data types shared across the orchestration
// kernel: identifiers, players, game types, and lobby metadata.
package models

import "github.com/google/uuid"

// GameId identifies one lobby/match for its entire lifetime. The same value
// names the lobby row and, once started, the live match and its snapshot.
type GameId = uuid.UUID

// PlayerId is a stable identity tying a bearer token to one player across
// lobbies and matches.
type PlayerId = uuid.UUID

// NewGameId mints a fresh GameId.
func NewGameId() GameId {
	return uuid.New()
}

// ParseId parses the canonical UUID string form used on the wire.
func ParseId(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
