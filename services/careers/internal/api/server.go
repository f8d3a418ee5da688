// Package api exposes the careers services over JSON/HTTP.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"abletech/services/careers/internal/chat"
	"abletech/services/careers/internal/config"
	"abletech/services/careers/internal/service"
	"abletech/services/careers/internal/store"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Services is everything the handlers call into.
type Services struct {
	fx.In

	Store           *store.Store
	Jobs            *service.JobService
	Applications    *service.ApplicationService
	Recommendations *service.RecommendationService
	Catalog         *service.CatalogService
	Community       *service.CommunityService
	Notifications   *service.NotificationService
	Profiles        *service.ProfileService
	Analytics       *service.AnalyticsService
	Chat            *chat.Service
}

type Server struct {
	svc     Services
	logger  *zap.Logger
	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server
}

func NewServer(logger *zap.Logger, cfg *config.Config, svc Services) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	s.handler = s.recoverer(s.requestLogger(cors(cfg.AllowedOrigins, s.mux)))
	s.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	s.mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	s.mux.HandleFunc("GET /api/jobs/departments", s.handleDepartments)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("PUT /api/jobs/{id}", s.handleUpdateJob)
	s.mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)

	s.mux.HandleFunc("POST /api/applications", s.handleSubmitApplication)
	s.mux.HandleFunc("GET /api/applications", s.handleListApplications)
	s.mux.HandleFunc("GET /api/applications/{id}", s.handleGetApplication)
	s.mux.HandleFunc("PUT /api/applications/{id}/status", s.handleUpdateApplicationStatus)
	s.mux.HandleFunc("POST /api/applications/{id}/emails", s.handleSendEmail)
	s.mux.HandleFunc("GET /api/email-templates", s.handleListTemplates)

	s.mux.HandleFunc("GET /api/recommendations", s.handleJobRecommendations)
	s.mux.HandleFunc("GET /api/recommendations/{email}", s.handleJobRecommendations)
	s.mux.HandleFunc("POST /api/recommendations/interaction", s.handleInteraction)

	s.mux.HandleFunc("GET /api/assistive-tech", s.handleListAssistiveTech)
	s.mux.HandleFunc("POST /api/assistive-tech", s.handleCreateAssistiveTech)
	s.mux.HandleFunc("GET /api/assistive-tech/recommended", s.handleTechRecommendations)
	s.mux.HandleFunc("GET /api/motivational-sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /api/trainers/training-programs", s.handleListTrainingPrograms)

	s.mux.HandleFunc("GET /api/community/posts", s.handleListPosts)
	s.mux.HandleFunc("POST /api/community/posts", s.handleCreatePost)
	s.mux.HandleFunc("DELETE /api/community/posts/{id}", s.handleDeletePost)
	s.mux.HandleFunc("POST /api/community/posts/{id}/like", s.handleToggleLike)
	s.mux.HandleFunc("POST /api/community/posts/{id}/comment", s.handleComment)

	s.mux.HandleFunc("POST /api/chatbot/chat", s.handleChat)

	s.mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /api/notifications", s.handleCreateNotification)
	s.mux.HandleFunc("GET /api/notifications/unread-count", s.handleUnreadCount)
	s.mux.HandleFunc("PUT /api/notifications/read-all", s.handleMarkAllRead)
	s.mux.HandleFunc("PUT /api/notifications/{id}/read", s.handleMarkRead)
	s.mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDeleteNotification)

	s.mux.HandleFunc("GET /api/profiles/{email}", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profiles/{email}", s.handleUpdateProfile)
	s.mux.HandleFunc("GET /api/profiles/{email}/disability", s.handleGetDisability)
	s.mux.HandleFunc("PUT /api/profiles/{email}/disability", s.handleUpdateDisability)

	s.mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)
	s.mux.HandleFunc("GET /api/analytics/engagement", s.handleEngagement)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.Store.Ping(ctx); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
