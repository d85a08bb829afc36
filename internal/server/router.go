package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/arunsaradgi/fullstacktodo/handlers"
	"github.com/arunsaradgi/fullstacktodo/internal/config"
	"github.com/arunsaradgi/fullstacktodo/internal/todo/handler"
	"github.com/arunsaradgi/fullstacktodo/pkg/middleware"
	"github.com/arunsaradgi/fullstacktodo/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config *config.Config
	Todos  handler.Service
	// Ready lists the dependencies checked by GET /ready.
	Ready map[string]handlers.Pinger
	// Redis backs the shared rate limiter when configured; may be nil.
	Redis *redis.Client
	// Gatherer serves /metrics; defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine: middleware chain, todo API, health,
// metrics, API docs and the web client.
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})

	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.ErrorHandler(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods),
		middleware.BodyLimit(middleware.DefaultMaxBodyBytes),
	)

	handlers.RegisterHealth(r, d.Ready)
	handlers.RegisterSwagger(r)

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	if rl := cfg.RateLimit; rl.Enabled {
		if rl.UseRedis && d.Redis != nil {
			api.Use(middleware.RedisRateLimitMiddleware(d.Redis, rl.RPS, rl.Burst, time.Duration(rl.WindowSeconds)*time.Second))
		} else {
			api.Use(middleware.RateLimitMiddleware(rl.RPS, rl.Burst))
		}
	}
	handler.RegisterTodoRoutes(api, d.Todos)

	if err := web.Register(r, cfg.Client.APIURL); err != nil {
		return nil, fmt.Errorf("register web client: %w", err)
	}
	return r, nil
}
