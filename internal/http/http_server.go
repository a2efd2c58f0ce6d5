package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/services/contest"
	"gitlab.com/cse-2025.net/internal/core/services/leaderboard"
	"gitlab.com/cse-2025.net/internal/core/services/lifecycle"
	"gitlab.com/cse-2025.net/internal/core/services/qa"
	"gitlab.com/cse-2025.net/internal/core/services/registration"
	"gitlab.com/cse-2025.net/internal/core/services/scoring"
	"gitlab.com/cse-2025.net/internal/handlers"
	"gitlab.com/cse-2025.net/internal/handlers/contests"
	"gitlab.com/cse-2025.net/internal/handlers/participants"
	"gitlab.com/cse-2025.net/internal/handlers/questions"
	"gitlab.com/cse-2025.net/internal/handlers/scoreboard"
)

type ServiceProvider struct {
	contestService      contest.IContestService
	registrationService registration.IRegistrationService
	scoringService      scoring.IScoringService
	leaderboardService  leaderboard.ILeaderboardService
	lifecycleService    lifecycle.ILifecycleService
	qaService           qa.IQAService
	tokenService        primary.TokenService
}

func NewServiceProvider(
	contestService contest.IContestService,
	registrationService registration.IRegistrationService,
	scoringService scoring.IScoringService,
	leaderboardService leaderboard.ILeaderboardService,
	lifecycleService lifecycle.ILifecycleService,
	qaService qa.IQAService,
	tokenService primary.TokenService,
) *ServiceProvider {
	return &ServiceProvider{
		contestService:      contestService,
		registrationService: registrationService,
		scoringService:      scoringService,
		leaderboardService:  leaderboardService,
		lifecycleService:    lifecycleService,
		qaService:           qaService,
		tokenService:        tokenService,
	}
}

type Server struct {
	router          *mux.Router
	Port            string
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
	srv             *http.Server
}

func NewServer(port string, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()

	middleware := handlers.New(s.ServiceProvider.tokenService)
	r.Use(middleware.JWTMiddleware)
	admin := middleware.AdminMiddleware

	contests.NewContestHandler(
		s.ServiceProvider.contestService,
		s.ServiceProvider.lifecycleService,
		s.ServiceProvider.qaService,
		s.logger,
	).RegisterRoutes(r, admin)
	participants.
		NewParticipantHandler(s.ServiceProvider.registrationService, s.logger).
		RegisterRoutes(r, admin)
	scoreboard.
		NewScoreboardHandler(s.ServiceProvider.scoringService, s.ServiceProvider.leaderboardService, s.logger).
		RegisterRoutes(r, admin)
	questions.
		NewQuestionHandler(s.ServiceProvider.qaService, s.logger).
		RegisterRoutes(r, admin)

	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.srv = srv

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Http server shutdown error", "error", err)
	}
}
