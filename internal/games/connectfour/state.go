// Package connectfour is the second worked GameModule, added beyond
// spec.md's tic-tac-toe example to prove the registry genuinely needs zero
// supervisor/HTTP changes to gain a game (SPEC_FULL.md §12).
package connectfour

import (
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

const (
	Cols = 7
	Rows = 6
)

// Disc is a column cell's occupant.
type Disc string

const (
	DiscEmpty Disc = ""
	DiscRed   Disc = "R"
	DiscBlack Disc = "B"
)

// Move is the connect-four move payload: the column to drop a disc into.
type Move struct {
	Column int `json:"column"`
}

// State is the immutable connect-four GameModel. Board is indexed
// [col][row] with row 0 at the bottom, so gravity fills upward.
type State struct {
	PlayerIds  []models.PlayerId    `json:"players"`
	Board      [Cols][Rows]Disc     `json:"board"`
	Heights    [Cols]int            `json:"heights"`
	CurrentDsc Disc                 `json:"currentDisc"`
	Winner     Disc                 `json:"winner,omitempty"`
	Draw       bool                 `json:"draw"`
}

func New(players []models.PlayerId) *State {
	return &State{
		PlayerIds:  append([]models.PlayerId(nil), players...),
		CurrentDsc: DiscRed,
	}
}

func (s *State) Players() []models.PlayerId {
	return append([]models.PlayerId(nil), s.PlayerIds...)
}

func (s *State) discFor(player models.PlayerId) (Disc, bool) {
	for i, p := range s.PlayerIds {
		if p == player {
			if i == 0 {
				return DiscRed, true
			}
			return DiscBlack, true
		}
	}
	return DiscEmpty, false
}

func (s *State) playerFor(d Disc) models.PlayerId {
	idx := 0
	if d == DiscBlack {
		idx = 1
	}
	if idx >= len(s.PlayerIds) {
		return models.PlayerId{}
	}
	return s.PlayerIds[idx]
}

func (s *State) CurrentPlayer() models.PlayerId {
	return s.playerFor(s.CurrentDsc)
}

func (s *State) Status() module.Status {
	if s.Winner != DiscEmpty {
		return module.Status{Phase: module.PhaseWon, Winner: s.playerFor(s.Winner)}
	}
	if s.Draw {
		return module.Status{Phase: module.PhaseDraw}
	}
	return module.Status{Phase: module.PhaseInProgress}
}

func otherDisc(d Disc) Disc {
	if d == DiscRed {
		return DiscBlack
	}
	return DiscRed
}

func (s *State) Apply(player models.PlayerId, move any) (module.GameModel, error) {
	if s.Status().Phase != module.PhaseInProgress {
		return nil, module.ErrGameOver
	}
	disc, known := s.discFor(player)
	if !known {
		return nil, module.ErrInvalidPlayer(player)
	}
	if disc != s.CurrentDsc {
		return nil, module.ErrInvalidTurn
	}
	mv, ok := move.(Move)
	if !ok {
		return nil, module.ErrUnknown("malformed move payload")
	}
	if mv.Column < 0 || mv.Column >= Cols {
		return nil, module.ErrOutOfBounds
	}
	if s.Heights[mv.Column] >= Rows {
		return nil, module.ErrColumnFull
	}

	next := *s
	next.Board = s.Board
	next.Heights = s.Heights
	next.PlayerIds = s.Players()
	row := next.Heights[mv.Column]
	next.Board[mv.Column][row] = disc
	next.Heights[mv.Column] = row + 1

	if computeWinner(&next, mv.Column, row, disc) {
		next.Winner = disc
	} else if boardFull(next.Heights) {
		next.Draw = true
	} else {
		next.CurrentDsc = otherDisc(disc)
	}
	return &next, nil
}

func boardFull(heights [Cols]int) bool {
	for _, h := range heights {
		if h < Rows {
			return false
		}
	}
	return true
}

// computeWinner checks the four lines through the just-played cell only:
// horizontal, vertical, and both diagonals.
func computeWinner(s *State, col, row int, disc Disc) bool {
	dirs := [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1
		count += countDirection(s, col, row, d[0], d[1], disc)
		count += countDirection(s, col, row, -d[0], -d[1], disc)
		if count >= 4 {
			return true
		}
	}
	return false
}

func countDirection(s *State, col, row, dc, dr int, disc Disc) int {
	n := 0
	c, r := col+dc, row+dr
	for c >= 0 && c < Cols && r >= 0 && r < Rows && s.Board[c][r] == disc {
		n++
		c += dc
		r += dr
	}
	return n
}
