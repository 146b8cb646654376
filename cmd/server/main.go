package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ogurasousui/jobboard-api/internal/adapters/repository/postgres"
	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/company"
	"github.com/ogurasousui/jobboard-api/internal/core/job"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
	"github.com/ogurasousui/jobboard-api/internal/platform/config"
	pg "github.com/ogurasousui/jobboard-api/internal/platform/db/postgres"
	"github.com/ogurasousui/jobboard-api/internal/platform/logging"
	"github.com/ogurasousui/jobboard-api/internal/platform/metrics"
	"github.com/ogurasousui/jobboard-api/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ローカル開発向け。ファイルが無い場合は環境変数だけで動作します。
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger := logging.L()
	defer func() {
		_ = logger.Sync()
	}()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)

	companySvc := company.NewService(companyRepo)
	jobSvc := job.NewService(jobRepo)
	userSvc := user.NewService(userRepo, &user.BcryptHasher{Cost: cfg.Auth.BcryptCost})

	codec := auth.NewTokenCodec(cfg.JWT.SigningKey, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	httpMetrics := metrics.NewHTTPMetrics(cfg.Metrics.Namespace, nil)

	httpServer := server.New(cfg.Server.ListenAddr, cfg.Server.ShutdownTimeout, server.Dependencies{
		Companies: companySvc,
		Jobs:      jobSvc,
		Users:     userSvc,
		Codec:     codec,
		DB:        dbPool,
		Metrics:   httpMetrics,
	})

	logger.Info("HTTP server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := httpServer.Run(ctx); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}
