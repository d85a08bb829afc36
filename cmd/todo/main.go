package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arunsaradgi/fullstacktodo/handlers"
	"github.com/arunsaradgi/fullstacktodo/internal/config"
	"github.com/arunsaradgi/fullstacktodo/internal/database"
	"github.com/arunsaradgi/fullstacktodo/internal/server"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/cache"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/repository"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/service"
	"github.com/arunsaradgi/fullstacktodo/pkg/logger"
	"github.com/arunsaradgi/fullstacktodo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []service.Option
	var redisPing handlers.Pinger

	// Redis is optional: it backs the list cache and the shared rate limiter.
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s): %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
		lc := cache.NewRedisCache(rdb, cache.DefaultKey, cfg.Redis.CacheTTL)
		opts = append(opts, service.WithListCache(lc))
		redisPing = lc
	}

	svc, client, err := openStore(ctx, cfg, opts)
	if err != nil {
		logger.Fatalf("failed to open todo store: %v", err)
	}
	if client != nil {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r, err := server.NewRouter(server.Deps{
		Config: cfg,
		Todos:  svc,
		Ready:  readyChecks(svc, redisPing),
		Redis:  rdb,
	})
	if err != nil {
		logger.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("todo service listening on %s (env=%s)", srv.Addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Infof("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// readyChecks lists what /ready pings: the todo store, and Redis whenever it
// is configured.
func readyChecks(store, redisPing handlers.Pinger) map[string]handlers.Pinger {
	deps := map[string]handlers.Pinger{"store": store}
	if redisPing != nil {
		deps["redis"] = redisPing
	}
	return deps
}

// openStore connects to MongoDB with retries. When the database stays
// unreachable it falls back to the in-memory store only if
// MONGODB_FALLBACK_MEMORY is set; the returned client is nil in that case.
func openStore(ctx context.Context, cfg *config.Config, opts []service.Option) (*service.Service, *mongo.Client, error) {
	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, database.DefaultRetry)
	if err != nil {
		if !cfg.MongoDB.FallbackMemory {
			return nil, nil, err
		}
		logger.Warnf("cannot connect to MongoDB (%v), using memory-backed store", err)
		return service.NewMemoryService(opts...), nil, nil
	}
	logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)

	repo := repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
	ictx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
	defer cancel()
	if err := repo.EnsureIndexes(ictx); err != nil {
		logger.Warnf("failed to create todo indexes: %v", err)
	}
	return service.NewService(repo, opts...), client, nil
}
