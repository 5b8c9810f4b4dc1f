package models

// Player is a stable identity, not a connection. Equality is by ID.
type Player struct {
	ID   PlayerId `json:"id"`
	Name string   `json:"name"`
}

// Equal compares players by ID only, per spec.
func (p Player) Equal(other Player) bool {
	return p.ID == other.ID
}
