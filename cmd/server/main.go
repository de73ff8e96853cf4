//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vncsmyrnk/survey/internal/adapters/auth/jwt"
	"github.com/vncsmyrnk/survey/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/survey/internal/adapters/handler/http"
	"github.com/vncsmyrnk/survey/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/ports"
	"github.com/vncsmyrnk/survey/internal/core/services"
)

// @title        Survey API
// @version      1.0
// @description  Polls with typed questions, anonymous or authenticated responses and aggregated results.
// @BasePath     /api
func main() {
	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, every access token will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	var cache ports.ResultsCache
	if cfg.RedisURI != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURI)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		cache = redis.NewResultsCache(client, cfg.ResultsCacheTTL)
	} else {
		log.Info("redis_uri not set, results are computed on every request")
	}

	logger := log.WithField("category", "server")

	pollRepo := postgres.NewPollRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	userRepo := postgres.NewUserRepository(db)

	pollSvc := services.NewPollService(pollRepo, responseRepo, cache, logger)
	voteSvc := services.NewVoteService(pollRepo, responseRepo, cache, logger)
	resultsSvc := services.NewResultsService(pollRepo, responseRepo, userRepo, cache, logger)
	dashboardSvc := services.NewDashboardService(pollRepo, userRepo)
	userSvc := services.NewUserService(userRepo)
	identitySvc := services.NewIdentityService()

	handler := http.NewHandler(http.Handlers{
		Polls:     http.NewPollHandler(pollSvc),
		Votes:     http.NewVoteHandler(voteSvc, identitySvc, cfg.CookieDomain, cfg.CookieSecure),
		Results:   http.NewResultsHandler(resultsSvc),
		Dashboard: http.NewDashboardHandler(dashboardSvc),
		Users:     http.NewUserHandler(userSvc),
	}, jwt.NewVerifier(cfg.JWTSecret), logger.WithField("component", "http"), cfg.AllowedOrigins)

	server := &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(handler, "survey"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
