package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prompt-future/backend/config"
	"github.com/prompt-future/backend/internal/notify"
	"github.com/prompt-future/backend/internal/registrations"
	"github.com/prompt-future/backend/internal/seminar"
	"github.com/prompt-future/backend/internal/worker"
	"github.com/prompt-future/backend/pkg/database"
	"github.com/prompt-future/backend/pkg/queue"
	"github.com/prompt-future/backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var zapCfg zap.Config
	if cfg.Server.GinMode == "release" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	processor := worker.NewEmailProcessor(
		queue.NewQueue(redisClient.Client, logger),
		registrations.NewRepository(pool),
		seminar.NewRepository(pool),
		notify.NewMailer(cfg.Email, logger),
		logger,
	)
	processor.Run(ctx)
}
