package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	"github.com/BruksfildServices01/barbershop-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-engine/internal/db"
	"github.com/BruksfildServices01/barbershop-engine/internal/infra/archive"
	"github.com/BruksfildServices01/barbershop-engine/internal/infra/broker"
	infraPayment "github.com/BruksfildServices01/barbershop-engine/internal/infra/payment"
	"github.com/BruksfildServices01/barbershop-engine/internal/infra/redisstore"
	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
	"github.com/BruksfildServices01/barbershop-engine/internal/routes"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.InitLogger(cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.SyncLogger()

	logger := logging.GetLogger()
	logger.Info("Starting barbershop engine", zap.String("env", cfg.Env))

	timezone.SetDefault(cfg.BusinessTimezone)

	tp, err := tracing.InitTracer("barbershop-engine", cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected")

	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Clock:  timezone.SystemClock{},
	}

	// --------------------------------------------------
	// Optional infrastructure
	// --------------------------------------------------
	if cfg.RedisAddr != "" {
		redisClient, err := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		deps.Ledger = redisstore.NewWebhookLedger(redisClient)
		deps.Cache = redisstore.NewJSONCache(redisClient, "report:")
		logger.Info("Redis connected")
	}

	sinks := []audit.Sink{audit.New(db)}
	if len(cfg.KafkaBrokers) > 0 {
		producer := broker.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicAppointments)
		defer producer.Close()

		sinks = append(sinks, producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.KafkaTopicAppointments))
	}

	if cfg.S3Bucket != "" {
		deps.Archive = archive.NewS3Archive(archive.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		logger.Info("Report archive enabled", zap.String("bucket", cfg.S3Bucket))
	}

	if cfg.MercadoPagoAccessToken != "" {
		provider, err := infraPayment.NewMercadoPagoProvider(
			cfg.MercadoPagoAccessToken,
			cfg.MercadoPagoWebhookSecret,
			cfg.MercadoPagoNotificationURL,
		)
		if err != nil {
			logger.Fatal("Failed to initialize payment provider", zap.Error(err))
		}
		deps.Provider = provider
		logger.Info("Payment provider configured", zap.String("provider", provider.Name()))
	}

	dispatcher := audit.NewDispatcher(sinks...)
	deps.Audit = dispatcher

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	routes.RegisterRoutes(router, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain pending audit events before the sinks close.
	dispatcher.Close()

	logger.Info("Server exited")
}
