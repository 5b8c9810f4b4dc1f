package persistence

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/games/tictactoe"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/storage"
)

func newTestWorker() (*Worker, *storage.Memory) {
	registry := module.NewRegistry()
	tictactoe.Register(registry)
	log := logrus.New()
	log.SetOutput(io.Discard)
	mem := storage.NewMemory(registry, codec.JSON{}, log)
	return NewWorker(mem, log, 2), mem
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	w, _ := newTestWorker()
	defer w.Stop()

	players := []models.PlayerId{models.NewGameId(), models.NewGameId()}
	state := tictactoe.New(players)
	gameId := models.NewGameId()

	saveReply := make(chan SaveResult, 1)
	w.SaveSnapshot(gameId, tictactoe.Type, state, saveReply)
	select {
	case res := <-saveReply:
		require.NoError(t, res.Err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for save reply")
	}

	loadReply := make(chan LoadResult, 1)
	w.LoadSnapshot(gameId, tictactoe.Type, loadReply)
	select {
	case res := <-loadReply:
		require.NoError(t, res.Err)
		assert.True(t, res.Found)
		assert.NotNil(t, res.State)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for load reply")
	}
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	w, _ := newTestWorker()
	defer w.Stop()

	reply := make(chan LoadResult, 1)
	w.LoadSnapshot(models.NewGameId(), tictactoe.Type, reply)
	res := <-reply
	require.NoError(t, res.Err)
	assert.False(t, res.Found)
}

func TestLoadAll_SkipsCorruptRows(t *testing.T) {
	w, mem := newTestWorker()
	defer w.Stop()

	good := models.NewGameId()
	players := []models.PlayerId{models.NewGameId(), models.NewGameId()}
	payload, err := codec.JSON{}.Encode(tictactoe.New(players))
	require.NoError(t, err)
	mem.PutRaw(good, string(tictactoe.Type), payload)
	mem.PutRaw(models.NewGameId(), string(tictactoe.Type), "{not json")
	mem.PutRaw(models.NewGameId(), "unknown-type", payload)

	all, err := w.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	_, ok := all[good]
	assert.True(t, ok)
}
