package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"missioncontrol/internal/config"
	"missioncontrol/internal/handler"
	"missioncontrol/internal/httpserver"
	"missioncontrol/internal/repository"
	"missioncontrol/internal/service/ai"
	"missioncontrol/internal/service/clientauth"
	"missioncontrol/internal/service/dashboard"
	"missioncontrol/internal/summary"
	"missioncontrol/pkg/db"
	"missioncontrol/pkg/logger"
	"missioncontrol/pkg/otel"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	log.Info("Starting mission-control api...",
		zap.String("version", version),
		zap.String("db_host", cfg.DB.Host),
		zap.String("port", cfg.Server.Port),
	)

	shutdownTracing, err := otel.Init(cfg.Otel, version, log)
	if err != nil {
		log.Warn("Tracing unavailable, continuing without it", zap.Error(err))
		shutdownTracing = func() {}
	}
	defer shutdownTracing()

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		mg, err := db.NewMigrator(cfg.DB, cfg.Migrations, log)
		if err != nil {
			log.Fatal("Failed to init migrator", zap.Error(err))
		}
		if err := mg.Up(); err != nil {
			log.Fatal("Migrations failed", zap.Error(err))
		}
		mg.Close()
	}

	// repositories
	projectRepo := repository.NewProjectRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	moduleRepo := repository.NewModuleRepository(dbConn, taskRepo, log)
	blockerRepo := repository.NewBlockerRepository(dbConn, log)
	crRepo := repository.NewChangeRequestRepository(dbConn, log)
	clientRepo := repository.NewClientRepository(dbConn, log)
	eventRepo := repository.NewEventRepository(dbConn, log)

	// services
	generator := ai.NewClient(cfg.AI, log)
	summaries := summary.NewService(projectRepo, eventRepo, moduleRepo, blockerRepo, crRepo, generator, summary.Options{
		TTL:         cfg.AI.CacheTTL,
		EventWindow: cfg.Dashboard.SummaryEventWindow,
	}, log)
	dashboards := dashboard.NewService(projectRepo, eventRepo, moduleRepo, blockerRepo, crRepo, summaries, cfg.Dashboard.EventWindow, log)
	auth := clientauth.NewService(projectRepo, log)

	handlers := httpserver.Handlers{
		Projects:       handler.NewProjectHandler(projectRepo, log),
		Modules:        handler.NewModuleHandler(moduleRepo, log),
		Tasks:          handler.NewTaskHandler(taskRepo, log),
		Blockers:       handler.NewBlockerHandler(blockerRepo, log),
		ChangeRequests: handler.NewChangeRequestHandler(crRepo, log),
		Clients:        handler.NewClientHandler(clientRepo, log),
		Events:         handler.NewEventHandler(eventRepo, log),
		ClientAuth:     handler.NewClientAuthHandler(auth, dashboards, projectRepo, cfg.Server.CookieSecure, log),
		Summary:        handler.NewSummaryHandler(summaries, log),
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewRouter(handlers, httpserver.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AdminCookie:    cfg.Auth.AdminCookie,
		LoginPerMinute: cfg.Server.LoginPerMinute,
		LoginBurst:     cfg.Server.LoginBurst,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, log, httpserver.ReadinessCheck{Name: "db", Check: dbConn.Ping})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down api gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("api shutdown complete")
}
