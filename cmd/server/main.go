package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/inventario/internal/adapter/handler"
	"github.com/rl1809/inventario/internal/adapter/storage"
	"github.com/rl1809/inventario/internal/config"
	"github.com/rl1809/inventario/internal/core/service"
	"github.com/rl1809/inventario/internal/obs"
	"github.com/rl1809/inventario/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := obs.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	store, err := storage.Open(cfg.Database, log)
	if err != nil {
		fatal(log, "failed to open database", err)
	}
	if err := store.Ping(ctx); err != nil {
		fatal(log, "failed to ping database", err)
	}
	if err := store.Migrate(ctx); err != nil {
		fatal(log, "failed to migrate database", err)
	}
	log.Info("connected to database", "driver", cfg.Database.Driver)

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(reg)
	publishers := service.Publishers{metrics}

	// Initialize Redis; the app runs without it
	var limiter port.RateLimiter
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, rate limiting and events disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			redisAdapter := storage.NewRedisAdapter(rdb)
			limiter = redisAdapter
			publishers = append(publishers, redisAdapter)
			log.Info("connected to redis", "addr", cfg.Redis.Addr)
		}
	}

	// Initialize services
	products := service.NewProductService(store, publishers, log)
	sellers := service.NewSellerService(store, publishers, log)
	sales := service.NewSaleService(store, publishers, log)

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterInventoryServer(grpcServer, handler.NewGRPCHandler(products, sellers, sales))
	healthServer := health.NewServer()
	healthServer.SetServingStatus(handler.InventoryServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		fatal(log, "failed to listen", err)
	}

	go func() {
		log.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", "error", err)
		}
	}()

	// Initialize HTTP server
	gin.SetMode(gin.ReleaseMode)
	httpHandler := handler.NewHTTPHandler(products, sellers, sales, store, log)
	router, err := handler.NewRouter(httpHandler, handler.RouterOptions{
		Log:       log,
		Observer:  metrics,
		Gatherer:  reg,
		Limiter:   limiter,
		RateLimit: cfg.RateLimitPerMinute,
	})
	if err != nil {
		fatal(log, "failed to build router", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	// Stop HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown", "error", err)
	}
	log.Info("HTTP server stopped")

	// Stop gRPC server
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	// Close connections
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(); err != nil {
		log.Error("database close", "error", err)
	}
	log.Info("connections closed")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
