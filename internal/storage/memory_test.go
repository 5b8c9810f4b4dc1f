package storage

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/games/tictactoe"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

func newTestRepo() (*Memory, *module.Registry) {
	registry := module.NewRegistry()
	tictactoe.Register(registry)
	log := logrus.New()
	return NewMemory(registry, codec.JSON{}, log), registry
}

func TestMemory_SaveLoadRoundTrip(t *testing.T) {
	mem, _ := newTestRepo()
	ctx := context.Background()

	players := []models.PlayerId{models.NewGameId(), models.NewGameId()}
	state := tictactoe.New(players)
	id := models.NewGameId()

	require.NoError(t, mem.Save(ctx, id, tictactoe.Type, state))

	loaded, found, err := mem.Load(ctx, id, tictactoe.Type)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, state, loaded)
}

func TestMemory_Load_TypeMismatchYieldsNotFound(t *testing.T) {
	mem, _ := newTestRepo()
	ctx := context.Background()
	players := []models.PlayerId{models.NewGameId(), models.NewGameId()}
	id := models.NewGameId()
	require.NoError(t, mem.Save(ctx, id, tictactoe.Type, tictactoe.New(players)))

	_, found, err := mem.Load(ctx, id, "connectfour")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Load_Absent(t *testing.T) {
	mem, _ := newTestRepo()
	_, found, err := mem.Load(context.Background(), models.NewGameId(), tictactoe.Type)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_LoadAll_SkipsUnrecognizedTypeAndCorruptPayload(t *testing.T) {
	mem, _ := newTestRepo()
	ctx := context.Background()

	good := models.NewGameId()
	players := []models.PlayerId{models.NewGameId(), models.NewGameId()}
	require.NoError(t, mem.Save(ctx, good, tictactoe.Type, tictactoe.New(players)))

	mem.PutRaw(models.NewGameId(), "unknown-game", `{}`)
	mem.PutRaw(models.NewGameId(), string(tictactoe.Type), `not json at all`)

	all, err := mem.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	_, ok := all[good]
	assert.True(t, ok)
}
