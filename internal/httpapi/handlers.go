package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

type tokenRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	id := models.NewGameId()
	if req.ID != "" {
		parsed, err := models.ParseId(req.ID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a uuid")
			return
		}
		id = parsed
	}

	token, err := h.issuer.Issue(id, req.Name)
	if err != nil {
		writeUnexpected(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": claims.ID.String(), "name": claims.Name})
}

func (h *Handler) createLobby(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	gameType, err := h.registry.ParseRegistered(chi.URLParam(r, "gameType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown game type")
		return
	}

	lobby, err := h.sup.CreateLobby(gameType, models.Player{ID: claims.ID, Name: claims.Name})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lobby)
}

func (h *Handler) joinLobby(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	gameId, err := models.ParseId(chi.URLParam(r, "gameId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "gameId must be a uuid")
		return
	}

	lobby, err := h.sup.JoinLobby(gameId, models.Player{ID: claims.ID, Name: claims.Name})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lobby)
}

func (h *Handler) leaveLobby(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	gameId, err := models.ParseId(chi.URLParam(r, "gameId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "gameId must be a uuid")
		return
	}

	reason, err := h.sup.LeaveLobby(gameId, claims.ID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reason": reason})
}

func (h *Handler) startGame(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	gameId, err := models.ParseId(chi.URLParam(r, "gameId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "gameId must be a uuid")
		return
	}

	if err := h.sup.StartGame(gameId, claims.ID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"gameId": gameId.String(), "status": "started"})
}

func (h *Handler) getLobby(w http.ResponseWriter, r *http.Request) {
	gameId, err := models.ParseId(chi.URLParam(r, "gameId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no such lobby")
		return
	}

	lobby, err := h.sup.GetLobbyInfo(gameId)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lobby)
}

func (h *Handler) listLobbies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sup.ListLobbies())
}

func (h *Handler) makeMove(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	gameType, gameId, ok := h.parseGameRoute(w, r)
	if !ok {
		return
	}

	bundle, known := h.registry.Lookup(gameType)
	if !known {
		writeError(w, http.StatusBadRequest, "unknown game type")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	move, err := bundle.DecodeMove(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed move")
		return
	}

	h.runOperation(w, r, gameId, module.GameOperation{Kind: module.OpMakeMove, PlayerId: claims.ID, Payload: move})
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	_, gameId, ok := h.parseGameRoute(w, r)
	if !ok {
		return
	}
	h.runOperation(w, r, gameId, module.GameOperation{Kind: module.OpGetState})
}

func (h *Handler) parseGameRoute(w http.ResponseWriter, r *http.Request) (models.GameType, models.GameId, bool) {
	// spec.md §6's failure column for both /move and /status lists only
	// 404 for an unrecognized route, never a separate 400 for the game
	// type segment — an unknown gameType means "no such match" same as an
	// unknown gameId.
	gameType, err := h.registry.ParseRegistered(chi.URLParam(r, "gameType"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no such match")
		return "", models.GameId{}, false
	}
	gameId, err := models.ParseId(chi.URLParam(r, "gameId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no such match")
		return "", models.GameId{}, false
	}
	return gameType, gameId, true
}

func (h *Handler) runOperation(w http.ResponseWriter, r *http.Request, gameId models.GameId, op module.GameOperation) {
	ctx, cancel := context.WithTimeout(r.Context(), h.askTimeout)
	defer cancel()

	view, err := h.sup.RunGameOperation(ctx, gameId, op)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if view == nil {
		writeUnexpected(w)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
