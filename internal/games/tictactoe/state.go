// Package tictactoe is the worked example of the GameModule contract,
// spec.md §4.6/§4.7: pure 3x3 rules plus the bundle that plugs them into
// the kernel.
package tictactoe

import (
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// Mark is a board cell's occupant.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

// Move is the tic-tac-toe move payload, spec.md §3.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// State is the immutable tic-tac-toe GameModel.
type State struct {
	PlayerIds   []models.PlayerId `json:"players"`
	Board       [3][3]Mark        `json:"board"`
	CurrentMark Mark              `json:"currentMark"`
	Winner      Mark              `json:"winner,omitempty"`
	Draw        bool              `json:"draw"`
}

// New builds the starting state for exactly two players; players[0] plays
// X and moves first.
func New(players []models.PlayerId) *State {
	s := &State{
		PlayerIds:   append([]models.PlayerId(nil), players...),
		CurrentMark: MarkX,
	}
	return s
}

func (s *State) Players() []models.PlayerId {
	return append([]models.PlayerId(nil), s.PlayerIds...)
}

func (s *State) markFor(player models.PlayerId) (Mark, bool) {
	for i, p := range s.PlayerIds {
		if p == player {
			if i == 0 {
				return MarkX, true
			}
			return MarkO, true
		}
	}
	return MarkEmpty, false
}

func (s *State) playerFor(mark Mark) models.PlayerId {
	idx := 0
	if mark == MarkO {
		idx = 1
	}
	if idx >= len(s.PlayerIds) {
		return models.PlayerId{}
	}
	return s.PlayerIds[idx]
}

func (s *State) CurrentPlayer() models.PlayerId {
	return s.playerFor(s.CurrentMark)
}

func (s *State) Status() module.Status {
	if s.Winner != MarkEmpty {
		return module.Status{Phase: module.PhaseWon, Winner: s.playerFor(s.Winner)}
	}
	if s.Draw {
		return module.Status{Phase: module.PhaseDraw}
	}
	return module.Status{Phase: module.PhaseInProgress}
}

// Apply implements module.GameModel. It never mutates the receiver.
func (s *State) Apply(player models.PlayerId, move any) (module.GameModel, error) {
	if s.Status().Phase != module.PhaseInProgress {
		return nil, module.ErrGameOver
	}
	mark, known := s.markFor(player)
	if !known {
		return nil, module.ErrInvalidPlayer(player)
	}
	if mark != s.CurrentMark {
		return nil, module.ErrInvalidTurn
	}
	mv, ok := move.(Move)
	if !ok {
		return nil, module.ErrUnknown("malformed move payload")
	}
	if mv.Row < 0 || mv.Row > 2 || mv.Col < 0 || mv.Col > 2 {
		return nil, module.ErrOutOfBounds
	}
	if s.Board[mv.Row][mv.Col] != MarkEmpty {
		return nil, module.ErrCellOccupied
	}

	next := *s
	next.Board = s.Board
	next.Board[mv.Row][mv.Col] = mark
	next.PlayerIds = s.Players()

	if w := computeWinner(next.Board); w != MarkEmpty {
		next.Winner = w
	} else if boardFull(next.Board) {
		next.Draw = true
	} else {
		next.CurrentMark = otherMark(mark)
	}
	return &next, nil
}

func otherMark(m Mark) Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

func boardFull(b [3][3]Mark) bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == MarkEmpty {
				return false
			}
		}
	}
	return true
}

// computeWinner checks rows, columns, and both diagonals.
func computeWinner(b [3][3]Mark) Mark {
	lines := [][3][2]int{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
	for _, line := range lines {
		a := b[line[0][0]][line[0][1]]
		bm := b[line[1][0]][line[1][1]]
		c := b[line[2][0]][line[2][1]]
		if a != MarkEmpty && a == bm && bm == c {
			return a
		}
	}
	return MarkEmpty
}
