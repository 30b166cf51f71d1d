package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contractmq "missioncontrol/contracts/mq"
	"missioncontrol/internal/config"
	"missioncontrol/internal/httpserver"
	"missioncontrol/internal/mqhandler"
	"missioncontrol/internal/repository"
	"missioncontrol/pkg/db"
	"missioncontrol/pkg/logger"
	"missioncontrol/pkg/mq"
	"missioncontrol/pkg/redis"
	"missioncontrol/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	log.Info("Starting mission-control worker...",
		zap.String("queue", cfg.Worker.Queue),
		zap.String("routing_key", contractmq.RoutingKeyIntegrationEvent),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb, err := redis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer rdb.Close()
	deduper := util.NewDeduper(rdb, cfg.Worker.DedupTTL, log)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	// MQ
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()
	if err := publisher.DeclareDLQ(contractmq.RoutingKeyIntegrationEvent); err != nil {
		log.Fatal("Failed to declare DLQ", zap.Error(err))
	}

	eventRepo := repository.NewEventRepository(dbConn, log)
	ingest := mqhandler.NewEventIngestHandler(eventRepo, deduper, publisher, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Worker.Queue, contractmq.RoutingKeyIntegrationEvent, cfg.Worker.Prefetch, log)
	if err != nil {
		log.Fatal("Consumer init failed", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(ingest.Handle)

	// health and metrics
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	httpserver.RegisterHealth(r,
		httpserver.ReadinessCheck{Name: "db", Check: dbConn.Ping},
		httpserver.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		httpserver.ReadinessCheck{Name: "mq", Check: func(context.Context) error {
			if !consumer.IsConnected() {
				return errors.New("consumer connection closed")
			}
			return nil
		}},
	)
	srv := &http.Server{Addr: cfg.Worker.HealthAddr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health server failed", zap.Error(err))
		}
	}()

	log.Info("Worker running", zap.String("health_addr", cfg.Worker.HealthAddr))
	err = consumer.StartConsuming(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("worker shutdown complete")
}
