package models

import (
	"fmt"
	"strings"
)

// GameType is the closed enumeration tag identifying a family of rules and
// its registered module. The canonical form is lowercase; parsing is
// case-insensitive.
type GameType string

// PlayerBounds carries the {minPlayers, maxPlayers} pair spec.md §3 assigns
// to every GameType.
type PlayerBounds struct {
	Min int
	Max int
}

// Contains reports whether count players is a legal match size.
func (b PlayerBounds) Contains(count int) bool {
	return count >= b.Min && count <= b.Max
}

// ParseGameType normalizes a short name ("tictactoe", "TicTacToe", ...) into
// its canonical lowercase GameType tag. It does not check registration;
// callers that need a registered type should look it up in the module
// registry afterward.
func ParseGameType(shortName string) (GameType, error) {
	trimmed := strings.TrimSpace(shortName)
	if trimmed == "" {
		return "", fmt.Errorf("empty game type")
	}
	return GameType(strings.ToLower(trimmed)), nil
}

func (t GameType) String() string {
	return string(t)
}
