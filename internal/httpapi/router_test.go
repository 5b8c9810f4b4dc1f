package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msyu/cambia-arena/internal/auth"
	"github.com/msyu/cambia-arena/internal/games/tictactoe"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

type fakeSupervisor struct {
	lobbies map[models.GameId]models.LobbyMetadata
	opErr   error
}

func newFakeSupervisor() *fakeSupervisor {
	return &fakeSupervisor{lobbies: make(map[models.GameId]models.LobbyMetadata)}
}

func (f *fakeSupervisor) CreateLobby(gameType models.GameType, host models.Player) (models.LobbyMetadata, error) {
	id := models.NewGameId()
	lobby := models.LobbyMetadata{
		GameId: id, GameType: gameType, HostId: host.ID, Status: models.LobbyWaitingForPlayers,
		Players: map[models.PlayerId]models.Player{host.ID: host},
	}
	f.lobbies[id] = lobby
	return lobby, nil
}

func (f *fakeSupervisor) JoinLobby(gameId models.GameId, player models.Player) (models.LobbyMetadata, error) {
	lobby, ok := f.lobbies[gameId]
	if !ok {
		return models.LobbyMetadata{}, models.ErrLobbyNotFound
	}
	return lobby, nil
}

func (f *fakeSupervisor) LeaveLobby(gameId models.GameId, playerId models.PlayerId) (string, error) {
	if _, ok := f.lobbies[gameId]; !ok {
		return "", models.ErrLobbyNotFound
	}
	return "left lobby", nil
}

func (f *fakeSupervisor) StartGame(gameId models.GameId, callerId models.PlayerId) error {
	lobby, ok := f.lobbies[gameId]
	if !ok {
		return models.ErrGameNotFound
	}
	if callerId != lobby.HostId {
		return models.ErrNotHost
	}
	return nil
}

func (f *fakeSupervisor) ListLobbies() []models.LobbyMetadata {
	out := make([]models.LobbyMetadata, 0, len(f.lobbies))
	for _, l := range f.lobbies {
		out = append(out, l)
	}
	return out
}

func (f *fakeSupervisor) GetLobbyInfo(gameId models.GameId) (models.LobbyMetadata, error) {
	lobby, ok := f.lobbies[gameId]
	if !ok {
		return models.LobbyMetadata{}, models.ErrGameNotFound
	}
	return lobby, nil
}

func (f *fakeSupervisor) RunGameOperation(ctx context.Context, gameId models.GameId, op module.GameOperation) (any, error) {
	if _, ok := f.lobbies[gameId]; !ok {
		return nil, models.ErrMatchNotFound
	}
	if f.opErr != nil {
		return nil, f.opErr
	}
	return tictactoe.View{CurrentPlayer: "X"}, nil
}

func newTestHandler() (*Handler, *fakeSupervisor, *auth.Issuer) {
	sup := newFakeSupervisor()
	issuer := auth.NewIssuer("test-secret")
	registry := module.NewRegistry()
	tictactoe.Register(registry)
	log := logrus.New()
	return NewHandler(sup, issuer, registry, log, time.Second, nil), sup, issuer
}

func bearerRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestIssueToken_ThenWhoami(t *testing.T) {
	h, _, _ := newTestHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"name":"alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	token := body["token"]
	require.NotEmpty(t, token)

	req2 := bearerRequest(http.MethodGet, "/auth/whoami", "", token)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusOK, rec2.Code)

	var who map[string]string
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &who))
	assert.Equal(t, "alice", who["name"])
}

func TestWhoami_RejectsMissingToken(t *testing.T) {
	h, _, _ := newTestHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateLobby_RequiresAuth(t *testing.T) {
	h, _, _ := newTestHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodPost, "/lobby/create/tictactoe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateLobby_Success(t *testing.T) {
	h, _, issuer := newTestHandler()
	router := h.Router()
	token, err := issuer.Issue(models.NewGameId(), "alice")
	require.NoError(t, err)

	req := bearerRequest(http.MethodPost, "/lobby/create/tictactoe", "", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMakeMove_NoSuchMatch(t *testing.T) {
	h, _, issuer := newTestHandler()
	router := h.Router()
	token, err := issuer.Issue(models.NewGameId(), "alice")
	require.NoError(t, err)

	req := bearerRequest(http.MethodPost, "/tictactoe/"+models.NewGameId().String()+"/move", `{"row":0,"col":0}`, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMakeMove_GameAlreadyOver(t *testing.T) {
	h, sup, issuer := newTestHandler()
	router := h.Router()
	token, err := issuer.Issue(models.NewGameId(), "alice")
	require.NoError(t, err)

	gameId := models.NewGameId()
	sup.lobbies[gameId] = models.LobbyMetadata{GameId: gameId, GameType: tictactoe.Type}
	sup.opErr = module.ErrGameOver

	req := bearerRequest(http.MethodPost, "/tictactoe/"+gameId.String()+"/move", `{"row":0,"col":0}`, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "already over")
}

func TestMakeMove_NotYourTurn(t *testing.T) {
	h, sup, issuer := newTestHandler()
	router := h.Router()
	token, err := issuer.Issue(models.NewGameId(), "alice")
	require.NoError(t, err)

	gameId := models.NewGameId()
	sup.lobbies[gameId] = models.LobbyMetadata{GameId: gameId, GameType: tictactoe.Type}
	sup.opErr = module.ErrInvalidTurn

	req := bearerRequest(http.MethodPost, "/tictactoe/"+gameId.String()+"/move", `{"row":0,"col":0}`, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not your turn")
}

func TestGetStatus_UnknownGameType(t *testing.T) {
	h, _, _ := newTestHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodGet, "/not-a-game/"+models.NewGameId().String()+"/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStatus_Success(t *testing.T) {
	h, sup, _ := newTestHandler()
	router := h.Router()
	gameId := models.NewGameId()
	sup.lobbies[gameId] = models.LobbyMetadata{GameId: gameId, GameType: tictactoe.Type}

	req := httptest.NewRequest(http.MethodGet, "/tictactoe/"+gameId.String()+"/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestJoinLeaveStartLobby_FullFlow(t *testing.T) {
	h, sup, issuer := newTestHandler()
	router := h.Router()

	hostToken, err := issuer.Issue(models.NewGameId(), "host")
	require.NoError(t, err)

	req := bearerRequest(http.MethodPost, "/lobby/create/tictactoe", "", hostToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var lobby models.LobbyMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lobby))

	joinerToken, err := issuer.Issue(models.NewGameId(), "joiner")
	require.NoError(t, err)

	joinReq := bearerRequest(http.MethodPost, "/lobby/"+lobby.GameId.String()+"/join", "", joinerToken)
	joinRec := httptest.NewRecorder()
	router.ServeHTTP(joinRec, joinReq)
	assert.Equal(t, http.StatusOK, joinRec.Code)

	infoReq := httptest.NewRequest(http.MethodGet, "/lobby/"+lobby.GameId.String(), nil)
	infoRec := httptest.NewRecorder()
	router.ServeHTTP(infoRec, infoReq)
	assert.Equal(t, http.StatusOK, infoRec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/lobby/list", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	assert.Equal(t, http.StatusOK, listRec.Code)

	leaveReq := bearerRequest(http.MethodPost, "/lobby/"+lobby.GameId.String()+"/leave", "", joinerToken)
	leaveRec := httptest.NewRecorder()
	router.ServeHTTP(leaveRec, leaveReq)
	assert.Equal(t, http.StatusOK, leaveRec.Code)

	startReq := bearerRequest(http.MethodPost, "/lobby/"+lobby.GameId.String()+"/start", "", hostToken)
	startRec := httptest.NewRecorder()
	router.ServeHTTP(startRec, startReq)
	assert.Equal(t, http.StatusOK, startRec.Code)

	_ = sup
}
