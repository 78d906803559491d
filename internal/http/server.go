// Package http is the JSON API boundary. Handlers decode, call a service,
// and map domain errors onto statuses; no business rules live here.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"focolare/internal/auth"
	"focolare/internal/log"
	"focolare/internal/services"
)

// Services bundles the service layer collaborators the API exposes.
type Services struct {
	Auth         *services.AuthService
	Groups       *services.GroupService
	Schedules    *services.ScheduleService
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	AssetSources *services.AssetSourceService
	Stats        *services.StatsService
}

type Server struct {
	httpServer *http.Server
	services   Services
	jwt        *auth.JWTManager
	limiter    *rateLimiter
	logger     *log.Logger
}

func NewServer(addr string, svcs Services, jwt *auth.JWTManager, logger *log.Logger) *Server {
	s := &Server{
		services: svcs,
		jwt:      jwt,
		limiter:  newRateLimiter(),
		logger:   logger,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	handler := log.Middleware(logger)(
		s.limiter.middleware(
			withSecurityHeaders(
				withMetrics(mux))))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metricsHandler())

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("POST /api/groups", s.requireAuth(s.handleCreateGroup))
	mux.HandleFunc("GET /api/groups", s.requireAuth(s.handleListGroups))
	mux.HandleFunc("GET /api/groups/{id}", s.requireAuth(s.handleGetGroup))
	mux.HandleFunc("PUT /api/groups/{id}", s.requireAuth(s.handleUpdateGroup))
	mux.HandleFunc("GET /api/groups/{id}/members", s.requireAuth(s.handleListMembers))
	mux.HandleFunc("POST /api/groups/{id}/invites", s.requireAuth(s.handleInvite))
	mux.HandleFunc("POST /api/groups/{id}/invites/accept", s.requireAuth(s.handleAcceptInvite))
	mux.HandleFunc("GET /api/groups/{id}/activity", s.requireAuth(s.handleListActivity))
	mux.HandleFunc("GET /api/groups/{id}/stats", s.requireAuth(s.handleStats))

	mux.HandleFunc("POST /api/groups/{id}/schedules", s.requireAuth(s.handleCreateSchedule))
	mux.HandleFunc("GET /api/groups/{id}/schedules", s.requireAuth(s.handleListSchedules))
	mux.HandleFunc("GET /api/schedules/{id}", s.requireAuth(s.handleGetSchedule))
	mux.HandleFunc("PUT /api/schedules/{id}", s.requireAuth(s.handleUpdateSchedule))
	mux.HandleFunc("DELETE /api/schedules/{id}", s.requireAuth(s.handleDeleteSchedule))
	mux.HandleFunc("DELETE /api/repeat-groups/{id}", s.requireAuth(s.handleDeleteRepeatGroup))

	mux.HandleFunc("POST /api/groups/{id}/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/groups/{id}/transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/groups/{id}/categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/groups/{id}/categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("PUT /api/categories/{id}", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("POST /api/groups/{id}/asset-sources", s.requireAuth(s.handleCreateAssetSource))
	mux.HandleFunc("GET /api/groups/{id}/asset-sources", s.requireAuth(s.handleListAssetSources))
	mux.HandleFunc("PUT /api/asset-sources/{id}", s.requireAuth(s.handleUpdateAssetSource))
	mux.HandleFunc("DELETE /api/asset-sources/{id}", s.requireAuth(s.handleDeleteAssetSource))
}

// Handler exposes the full middleware chain, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
