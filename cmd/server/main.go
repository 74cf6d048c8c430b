package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prompt-future/backend/config"
	"github.com/prompt-future/backend/internal/auth"
	"github.com/prompt-future/backend/internal/captcha"
	"github.com/prompt-future/backend/internal/middleware"
	"github.com/prompt-future/backend/internal/notify"
	"github.com/prompt-future/backend/internal/registrations"
	"github.com/prompt-future/backend/internal/seminar"
	"github.com/prompt-future/backend/internal/stats"
	"github.com/prompt-future/backend/internal/twofactor"
	"github.com/prompt-future/backend/internal/worker"
	"github.com/prompt-future/backend/pkg/database"
	"github.com/prompt-future/backend/pkg/queue"
	"github.com/prompt-future/backend/pkg/redis"
)

func newLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "release" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Server.GinMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	seminarRepo := seminar.NewRepository(pool)
	if err := seminarRepo.EnsureDefaults(ctx, cfg.Seminar); err != nil {
		logger.Fatal("seed seminar settings failed", zap.Error(err))
	}

	authRepo := auth.NewRepository(pool)
	passwordHash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		logger.Fatal("hash admin password failed", zap.Error(err))
	}
	if err := authRepo.EnsureDefaultAdmin(ctx, cfg.Admin.Username, passwordHash, cfg.Admin.Email, logger); err != nil {
		logger.Fatal("seed admin account failed", zap.Error(err))
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	emailQueue := queue.NewQueue(redisClient.Client, logger)

	mailer := notify.NewMailer(cfg.Email, logger)
	verifier := captcha.NewVerifier(cfg.Recaptcha.SecretKey, cfg.Recaptcha.MinScore,
		cfg.Recaptcha.VerifyURL, time.Duration(cfg.Recaptcha.TimeoutMS)*time.Millisecond, logger)

	regRepo := registrations.NewRepository(pool)
	statsRepo := stats.NewRepository(pool)
	admission := registrations.NewService(regRepo, seminarRepo, seminarRepo, verifier, mailer, logger)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	twoFactorService := twofactor.NewService("Prompt Your Future")

	regHandler := registrations.NewHandler(admission, regRepo, seminarRepo, logger)
	seminarHandler := seminar.NewHandler(seminarRepo, statsRepo, logger)
	statsHandler := stats.NewHandler(statsRepo, logger)
	authHandler := auth.NewHandler(authRepo, jwtService, twoFactorService, logger)
	notifyHandler := notify.NewHandler(regRepo, seminarRepo, emailQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/registration", regHandler.Submit)
		reg := api.Group("/registration")
		{
			reg.GET("/check/:email", regHandler.CheckEmail)
			reg.GET("/stats", statsHandler.Public)
			reg.GET("/seminar-info", seminarHandler.PublicInfo)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", authHandler.Login)
			admin.POST("/2fa/verify", authHandler.TwoFAVerify)

			protected := admin.Group("")
			protected.Use(middleware.JWT(jwtService), middleware.RequireRole("admin", "superadmin"))
			{
				protected.GET("/profile", authHandler.Profile)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.PUT("/change-password", authHandler.ChangePassword)

				protected.GET("/2fa/status", authHandler.TwoFAStatus)
				protected.POST("/2fa/setup", authHandler.TwoFASetup)
				protected.POST("/2fa/verify-setup", authHandler.TwoFAVerifySetup)
				protected.POST("/2fa/disable", authHandler.TwoFADisable)
				protected.POST("/2fa/regenerate-backup-codes", authHandler.TwoFARegenerateBackupCodes)

				protected.GET("/registrations", regHandler.List)
				protected.GET("/export/csv", regHandler.Export)
				protected.GET("/registrations/:id", regHandler.GetByID)
				protected.PUT("/registrations/:id", regHandler.Update)
				protected.DELETE("/registrations/:id", regHandler.Delete)

				protected.GET("/statistics", statsHandler.Admin)

				protected.GET("/seminar-settings", seminarHandler.GetSettings)
				protected.PUT("/seminar-settings", seminarHandler.UpdateSettings)
				protected.GET("/registration-control", seminarHandler.GetRegistrationControl)
				protected.PUT("/registration-control", seminarHandler.SetRegistrationControl)
				protected.GET("/email-control", seminarHandler.GetEmailControl)
				protected.PUT("/email-control", seminarHandler.SetEmailControl)

				protected.POST("/send-reminders", notifyHandler.SendReminders)
			}
		}
	}

	// In-process queue drain; cmd/worker runs the same processor standalone.
	processor := worker.NewEmailProcessor(emailQueue, regRepo, seminarRepo, mailer, logger)
	go processor.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
