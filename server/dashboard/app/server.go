package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/common/log"
	"schooldesk/server/dashboard/api"
	"schooldesk/server/dashboard/service"
)

type Server struct {
	HTTPServer *http.Server
	State      *service.AppState
}

func NewServer(cfg Config) (*Server, error) {
	state := service.NewAppState()
	tokens := service.NewTokenStore(cfg.TokenFile)

	// The state store doubles as the bearer-token source: the API client
	// always sends whatever token the current session holds.
	apiClient := backend.NewClient(cfg.BackendBaseURL, cfg.HTTPTimeout, state)

	sessions := service.NewSessionService(service.NewAuthClient(apiClient), state, tokens)
	if sessions.Restore() {
		log.Infof("stored token found, dashboard starts logged in")
	}

	view := service.NewMessagingView(service.NewMessageClient(apiClient), state)
	notifications := service.NewNotificationsPanel(service.NewNotificationClient(apiClient))
	forms := service.NewFormsPanel(service.NewFormClient(apiClient))
	evaluations := service.NewEvaluationsPanel(service.NewEvaluationClient(apiClient))
	rewards := service.NewRewardsPanel(service.NewRewardClient(apiClient))

	h := api.NewHandler(sessions, state, view, notifications, forms, evaluations, rewards)
	r := gin.Default()
	h.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{HTTPServer: httpServer, State: state}, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTPServer.Shutdown(ctx)
}
