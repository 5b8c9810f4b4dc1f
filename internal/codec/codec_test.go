package codec

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msyu/cambia-arena/internal/games/tictactoe"
)

func TestJSON_RoundTripsIdentity(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New()}
	state := tictactoe.New(players)
	next, err := state.Apply(players[0], tictactoe.Move{Row: 1, Col: 1})
	require.NoError(t, err)

	var c JSON
	payload, err := c.Encode(next)
	require.NoError(t, err)

	decoded, err := c.Decode(payload, &tictactoe.State{})
	require.NoError(t, err)
	assert.Equal(t, next, decoded)
}

func TestJSON_DecodeFailsOnMalformedPayload(t *testing.T) {
	var c JSON
	_, err := c.Decode("{not json", &tictactoe.State{})
	require.Error(t, err)
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
