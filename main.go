package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"spendsense/api/config"
	"spendsense/api/db"
	"spendsense/api/events"
	"spendsense/api/kafka"
	"spendsense/api/logger"
	"spendsense/api/mongodb"
	"spendsense/api/qdrant"
	"spendsense/api/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.Development(), logger.LogLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := db.InitDB(); err != nil {
		logger.Get().Fatal("failed to initialize Postgres", zap.Error(err))
	}
	defer db.CloseDB()

	if err := mongodb.InitMongoDB(); err != nil {
		logger.Get().Fatal("failed to initialize MongoDB", zap.Error(err))
	}
	defer mongodb.CloseMongoDB()

	if err := kafka.InitProducer(); err != nil {
		logger.Get().Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer kafka.CloseProducer()

	if cfg.QdrantURL != "" {
		if err := qdrant.InitQdrantClient(); err != nil {
			logger.Get().Warn("Qdrant unavailable, advisor retrieval disabled", zap.Error(err))
		}
		defer qdrant.CloseQdrantClient()
	}

	bus := events.NewBus()
	defer bus.Close()
	go watchPermissionErrors(bus, cfg.Development())

	pool := worker.NewPool(cfg.WorkerCount)
	pool.Start()
	defer pool.Stop()

	if err := kafka.StartConsumer(pool); err != nil {
		logger.Get().Fatal("failed to start Kafka consumer", zap.Error(err))
	}
	// Deferred after pool.Stop so it runs first: the consumer must be gone
	// before the pool it submits to shuts down.
	defer kafka.CloseConsumer()

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := buildRouter(cfg, bus, pool)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Get().Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Get().Fatal("server error", zap.Error(err))
	}
	logger.Get().Info("server stopped")
}

// watchPermissionErrors is the development-time listener the bus exists
// for: denied writes get a loud, fully detailed log line in development
// and a generic one in production.
func watchPermissionErrors(bus *events.Bus, development bool) {
	ch, cancel := bus.Subscribe()
	defer cancel()

	for ev := range ch {
		if development {
			logger.Get().Error("PERMISSION DENIED by store rules",
				zap.String("user_id", ev.UserID),
				zap.String("path", ev.Err.Path),
				zap.String("operation", string(ev.Err.Operation)),
				zap.Any("payload", ev.Err.Payload),
				zap.Error(ev.Err.Cause))
			continue
		}
		logger.Get().Warn("store write denied",
			zap.String("operation", string(ev.Err.Operation)))
	}
}
