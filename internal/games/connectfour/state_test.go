package connectfour

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msyu/cambia-arena/internal/module"
)

func TestApply_VerticalWin(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New()}
	var cur module.GameModel = New(players)

	// Red drops column 0 four times, Black drops column 1 in between.
	moves := []struct {
		player int
		column int
	}{
		{0, 0}, {1, 1},
		{0, 0}, {1, 1},
		{0, 0}, {1, 1},
		{0, 0},
	}
	var err error
	for _, mv := range moves {
		cur, err = cur.Apply(players[mv.player], Move{Column: mv.column})
		require.NoError(t, err)
	}
	status := cur.Status()
	require.Equal(t, module.PhaseWon, status.Phase)
	assert.Equal(t, players[0], status.Winner)
}

func TestApply_ColumnFull(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New()}
	var cur module.GameModel = New(players)

	// Fill column 0 to its 6-row height. Turns alternate red/black on every
	// drop regardless of column, so six drops into the same column land
	// R, B, R, B, R, B — never four of the same color in a row.
	var err error
	for i := 0; i < Rows; i++ {
		cur, err = cur.Apply(players[i%2], Move{Column: 0})
		require.NoError(t, err)
	}
	_, err = cur.Apply(players[0], Move{Column: 0})
	assert.ErrorIs(t, err, module.ErrColumnFull)
}

func TestApply_OutOfBounds(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New()}
	s := New(players)
	_, err := s.Apply(players[0], Move{Column: Cols})
	assert.ErrorIs(t, err, module.ErrOutOfBounds)
}

func TestApply_WrongTurn(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New()}
	s := New(players)
	_, err := s.Apply(players[1], Move{Column: 0})
	assert.ErrorIs(t, err, module.ErrInvalidTurn)
}
