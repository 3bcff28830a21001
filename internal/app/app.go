package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visaflow_backend/database"
	"visaflow_backend/internal/auth"
	"visaflow_backend/internal/config"
	"visaflow_backend/internal/email"
	"visaflow_backend/internal/handlers"
	"visaflow_backend/internal/logger"
	"visaflow_backend/internal/middleware"
	"visaflow_backend/internal/models"
	"visaflow_backend/internal/push"
	"visaflow_backend/internal/realtime"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/routes"
	"visaflow_backend/internal/services"
	"visaflow_backend/internal/validator"
	"visaflow_backend/internal/workers"
	"visaflow_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Run boots the whole application and blocks until shutdown.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	if err := database.AutoMigrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	db, err := database.ConnectGorm()
	if err != nil {
		return err
	}

	if err := seedFirstAdmin(db, cfg); err != nil {
		return err
	}

	hub := ws.NewManager()
	go hub.Run()

	sc := services.NewServiceContainer(services.ContainerDeps{
		DB:             db,
		EmailProvider:  selectEmailProvider(cfg),
		PushProvider:   selectPushProvider(cfg),
		RealtimeClient: realtime.NewHTTPClient(cfg),
		Publisher:      hub,
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go startCleanupWorker(workerCtx, sc, db)

	router := SetupRouter(sc, hub, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// SetupRouter builds the gin engine with the full middleware chain and
// all routes. Separated from Run so tests can mount the router.
func SetupRouter(sc *services.ServiceContainer, hub *ws.Manager, cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	h := handlers.NewAppHandlers(sc, validator.New())
	routes.Register(r, h, hub, cfg)
	return r
}

func selectEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured, emails are logged only")
		return email.NewLogProvider()
	}
	provider, err := email.NewSMTPProvider(cfg)
	if err != nil {
		logger.Warn("SMTP provider init failed, emails are logged only", "error", err)
		return email.NewLogProvider()
	}
	return provider
}

func selectPushProvider(cfg *config.Config) push.Provider {
	if cfg.Push.GatewayURL == "" {
		logger.Warn("push gateway not configured, pushes are logged only")
		return push.NewLogProvider()
	}
	return push.NewGatewayProvider(cfg.Push.GatewayURL, cfg.Push.APIKey)
}

func startCleanupWorker(ctx context.Context, sc *services.ServiceContainer, db *gorm.DB) {
	worker := workers.NewCleanupWorker(sc.Notification, repositories.NewRefreshTokenRepository(db))
	worker.Run(ctx)
}

// seedFirstAdmin creates the bootstrap administrator account when none
// exists and credentials are configured.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		return nil
	}

	userRepo := repositories.NewUserRepository(db)
	count, err := userRepo.CountByRole(models.UserRoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        cfg.FirstAdminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		Name:         "Administrator",
		IsVerified:   true,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	logger.Info("first admin seeded", "email", cfg.FirstAdminEmail)
	return nil
}
