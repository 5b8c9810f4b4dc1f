// Package httpapi is the HTTP adapter of spec.md §6: JSON over HTTP/1.1,
// chi-routed, translating each endpoint into a Supervisor ask and mapping
// Either-style replies to status codes. Only the move and status asks are
// bounded by a timeout; the lobby asks wait for the supervisor's reply.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	internalmw "github.com/msyu/cambia-arena/internal/middleware"
)

// Handler wires the Supervisor, auth issuer, and registry into chi routes.
type Handler struct {
	sup        supervisorAPI
	issuer     tokenIssuer
	registry   registryAPI
	log        *logrus.Logger
	askTimeout time.Duration
	metrics    metricsCollector
}

// NewHandler builds a Handler. askTimeout bounds the move and status asks
// to the supervisor (RunGameOperation); a non-positive value means 3s.
// The lobby and auth routes do not use it. metrics may be nil to disable
// request instrumentation (e.g. in tests).
func NewHandler(sup supervisorAPI, issuer tokenIssuer, registry registryAPI, log *logrus.Logger, askTimeout time.Duration, metrics metricsCollector) *Handler {
	if askTimeout <= 0 {
		askTimeout = 3 * time.Second
	}
	return &Handler{sup: sup, issuer: issuer, registry: registry, log: log, askTimeout: askTimeout, metrics: metrics}
}

// Router builds the full chi.Router for the process, per SPEC_FULL.md §13.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(internalmw.LogMiddleware(h.log))
	r.Use(withMetrics(h.metrics))

	r.Post("/auth/token", h.issueToken)
	r.With(h.requireAuth).Get("/auth/whoami", h.whoami)

	r.With(h.requireAuth).Post("/lobby/create/{gameType}", h.createLobby)
	r.With(h.requireAuth).Post("/lobby/{gameId}/join", h.joinLobby)
	r.With(h.requireAuth).Post("/lobby/{gameId}/leave", h.leaveLobby)
	r.With(h.requireAuth).Post("/lobby/{gameId}/start", h.startGame)
	r.Get("/lobby/{gameId}", h.getLobby)
	r.Get("/lobby/list", h.listLobbies)

	r.With(h.requireAuth).Post("/{gameType}/{gameId}/move", h.makeMove)
	r.Get("/{gameType}/{gameId}/status", h.getStatus)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
