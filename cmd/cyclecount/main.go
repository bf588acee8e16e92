package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	httpDelivery "github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/delivery/http"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/repository"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/sampler"
	invrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/repository"
	userrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/user/repository"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
	"github.com/PapaBear1981/supplyline-mro-suite/pkg/database"
	"github.com/PapaBear1981/supplyline-mro-suite/pkg/logger"
	"github.com/PapaBear1981/supplyline-mro-suite/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "cyclecount-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting cycle count service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "supplyline"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	inventory := invrepo.NewGormProvider(db)
	if err := inventory.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate inventory tables")
	}

	repo := repository.NewGormRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka audit publisher, nil when no brokers are configured
	var audit *kafka.AuditPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		audit, err = kafka.NewAuditPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect audit publisher, audit events disabled")
			audit = nil
		} else {
			defer audit.Close()
			logger.Logger.Info().Str("brokers", brokers).Msg("Audit publisher connected")
		}
	}

	// Redis report cache, nil disables caching
	var cache *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		logger.Logger.Info().Str("addr", addr).Msg("Report cache enabled")
	}

	// Assemble handler
	tracedRepo := repository.NewTracingRepository(repo)
	users := userrepo.NewGormDirectory(db)
	s := sampler.New(tracedRepo.Inventory(), nil)
	handler := httpDelivery.NewCycleCountHandler(tracedRepo, users, s, audit, cache)

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8084")
	go startHTTPServer(handler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(handler *httpDelivery.CycleCountHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	traced := httpDelivery.TracingMiddleware("cyclecount-http", c.Handler(router))
	if err := http.ListenAndServe(":"+port, traced); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
