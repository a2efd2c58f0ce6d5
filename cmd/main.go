package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/cse-2025.net/internal/adapter/crypto"
	"gitlab.com/cse-2025.net/internal/adapter/postgres/contestrepository"
	"gitlab.com/cse-2025.net/internal/adapter/postgres/participantrepository"
	"gitlab.com/cse-2025.net/internal/adapter/postgres/questionrepository"
	"gitlab.com/cse-2025.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/cse-2025.net/internal/adapter/postgres/userdirectory"
	"gitlab.com/cse-2025.net/internal/adapter/redis/leaderboardcache"
	"gitlab.com/cse-2025.net/internal/config"
	"gitlab.com/cse-2025.net/internal/core/services/contest"
	"gitlab.com/cse-2025.net/internal/core/services/leaderboard"
	"gitlab.com/cse-2025.net/internal/core/services/lifecycle"
	"gitlab.com/cse-2025.net/internal/core/services/qa"
	"gitlab.com/cse-2025.net/internal/core/services/registration"
	"gitlab.com/cse-2025.net/internal/core/services/scoring"
	logger2 "gitlab.com/cse-2025.net/internal/global/logger"
	http2 "gitlab.com/cse-2025.net/internal/http"
	"gitlab.com/cse-2025.net/internal/sweeperengine"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting contest scoring service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	contestRepo := contestrepository.NewContestRepository(db, logger)
	participantRepo := participantrepository.NewParticipantRepository(db, logger)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger)
	questionRepo := questionrepository.NewQuestionRepository(db, logger)
	boardCache := leaderboardcache.NewLeaderboardCache(redisClient, logger, sysCfg.SweeperCfg.LeaderboardCacheTTL)

	// PRIMARY PORTS
	directory := userdirectory.NewUserDirectory(db, logger)
	tokenService := crypto.NewTokenService(sysCfg.JwtConfig)

	// SERVICES
	leaderboardSvc := leaderboard.NewLeaderboardService(contestRepo, participantRepo, submissionRepo, boardCache, directory, logger)
	scoringSvc := scoring.NewScoringService(contestRepo, participantRepo, submissionRepo, boardCache, logger)
	registrationSvc := registration.NewRegistrationService(participantRepo, contestRepo, directory, leaderboardSvc, logger)
	lifecycleSvc := lifecycle.NewLifecycleService(contestRepo, participantRepo, logger)
	contestSvc := contest.NewContestService(contestRepo, participantRepo, submissionRepo, questionRepo, logger)
	qaSvc := qa.NewQAService(contestRepo, questionRepo, logger)

	serviceProvider := http2.NewServiceProvider(
		contestSvc,
		registrationSvc,
		scoringSvc,
		leaderboardSvc,
		lifecycleSvc,
		qaSvc,
		tokenService,
	)

	// SERVER
	httpServer := http2.NewServer(sysCfg.HttpConfig.Port, "contestScoring", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}

	ctxBg, stop := context.WithCancel(context.Background())
	httpServer.Start(ctxBg)

	sweeper := sweeperengine.NewSweeperEngine(sysCfg.SweeperCfg, lifecycleSvc, leaderboardSvc, contestRepo, logger)
	if !sysCfg.DebugMode {
		sweeper.StartSweepEngine(ctxBg)
	}

	<-quit
	logger.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
