package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/http/handlers"
	"github.com/accountd/accountd/internal/http/middlewares"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/repo/memory"
	"github.com/accountd/accountd/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// userStore is everything the handlers need from a credential store; both
// the postgres and memory repos satisfy it.
type userStore interface {
	handlers.UserReader
	handlers.UserWriter
	handlers.UserLister
	handlers.UserDeactivator
}

// NewRouter wires middlewares, stores and handlers. A nil pool selects the
// in-memory store (tests and store-less dev runs).
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// per-router registry so tests can build as many routers as they like
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware([]string{cfg.ClientOrigin}))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("accountd"))
	r.Use(prom.GinHandleMiddleware())

	// store: postgres when a pool is supplied, memory otherwise
	var store userStore

	if pool != nil {
		store = postgres.NewUsersRepo(pool, prom)
	} else {
		store = memory.NewUsersRepo()
	}

	// listing cache: shared redis when configured, in-process otherwise
	var listCache cache.UserList

	if cfg.RedisAddr != "" {
		listCache = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, 5*time.Second, log)
	} else {
		listCache = cache.NewMemory(5 * time.Second)
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL())
	session := middlewares.NewSessionMiddleware(jwtManager, handlers.SessionCookieName, log, prom)

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// docs
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// auth flow
	authHandler := handlers.NewAuthHandler(store, store, jwtManager, listCache, cfg, log, prom)
	usersHandler := handlers.NewUsersHandler(store, store, listCache, log)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/profile", session.RequireSession(), authHandler.Profile)
	r.POST("/logout", authHandler.Logout)

	// user administration
	r.GET("/users", usersHandler.ListUsers)
	r.PUT("/users/:id/deactivate", usersHandler.Deactivate)

	return r
}
