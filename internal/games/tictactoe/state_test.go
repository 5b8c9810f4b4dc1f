package tictactoe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msyu/cambia-arena/internal/module"
)

func twoPlayers() (models []uuid.UUID) {
	return []uuid.UUID{uuid.New(), uuid.New()}
}

func TestNewState_XMovesFirst(t *testing.T) {
	players := twoPlayers()
	s := New(players)
	assert.Equal(t, players[0], s.CurrentPlayer())
	assert.Equal(t, module.PhaseInProgress, s.Status().Phase)
}

func TestApply_PlacesMarkAndFlipsTurn(t *testing.T) {
	players := twoPlayers()
	s := New(players)

	next, err := s.Apply(players[0], Move{Row: 0, Col: 0})
	require.NoError(t, err)
	ns := next.(*State)
	assert.Equal(t, MarkX, ns.Board[0][0])
	assert.Equal(t, players[1], ns.CurrentPlayer())
	// original state is untouched
	assert.Equal(t, MarkEmpty, s.Board[0][0])
}

func TestApply_WrongTurnRejected(t *testing.T) {
	players := twoPlayers()
	s := New(players)
	_, err := s.Apply(players[1], Move{Row: 0, Col: 0})
	assert.ErrorIs(t, err, module.ErrInvalidTurn)
}

func TestApply_UnknownPlayerRejected(t *testing.T) {
	players := twoPlayers()
	s := New(players)
	_, err := s.Apply(uuid.New(), Move{Row: 0, Col: 0})
	require.Error(t, err)
	var ge *module.GameError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "InvalidPlayer", ge.Kind())
}

func TestApply_OutOfBounds(t *testing.T) {
	players := twoPlayers()
	s := New(players)
	_, err := s.Apply(players[0], Move{Row: 3, Col: 0})
	assert.ErrorIs(t, err, module.ErrOutOfBounds)
}

func TestApply_CellOccupied(t *testing.T) {
	players := twoPlayers()
	s := New(players)
	next, err := s.Apply(players[0], Move{Row: 0, Col: 0})
	require.NoError(t, err)
	ns := next.(*State)
	_, err = ns.Apply(players[1], Move{Row: 0, Col: 0})
	assert.ErrorIs(t, err, module.ErrCellOccupied)
}

func TestApply_WinningLine(t *testing.T) {
	players := twoPlayers()
	s := New(players)

	moves := []struct {
		player int
		row    int
		col    int
	}{
		{0, 0, 0}, // X
		{1, 1, 0}, // O
		{0, 0, 1}, // X
		{1, 1, 1}, // O
		{0, 0, 2}, // X wins top row
	}

	var cur module.GameModel = s
	for _, mv := range moves {
		var err error
		cur, err = cur.Apply(players[mv.player], Move{Row: mv.row, Col: mv.col})
		require.NoError(t, err)
	}

	status := cur.Status()
	require.Equal(t, module.PhaseWon, status.Phase)
	assert.Equal(t, players[0], status.Winner)

	_, err := cur.Apply(players[1], Move{Row: 2, Col: 2})
	assert.ErrorIs(t, err, module.ErrGameOver)
}

func TestApply_Draw(t *testing.T) {
	players := twoPlayers()
	var cur module.GameModel = New(players)

	// X O X
	// X O O
	// O X X
	sequence := []struct {
		player   int
		row, col int
	}{
		{0, 0, 0}, {1, 0, 1}, {0, 0, 2},
		{1, 1, 1}, {0, 1, 0}, {1, 1, 2},
		{0, 2, 1}, {1, 2, 0}, {0, 2, 2},
	}
	var err error
	for _, mv := range sequence {
		cur, err = cur.Apply(players[mv.player], Move{Row: mv.row, Col: mv.col})
		require.NoError(t, err)
	}
	status := cur.Status()
	assert.Equal(t, module.PhaseDraw, status.Phase)
}
