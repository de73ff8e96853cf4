package main

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/survey/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/survey/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/services"
)

func main() {
	cfg, err := config.Load("resultsnapshot", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.RedisURI == "" {
		log.Fatal("redis_uri is required to store result snapshots")
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	client, err := redis.NewClient(ctx, cfg.RedisURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	logger := log.WithField("category", "resultsnapshot")

	pollRepo := postgres.NewPollRepository(db)
	resultsSvc := services.NewResultsService(
		pollRepo,
		postgres.NewResponseRepository(db),
		postgres.NewUserRepository(db),
		redis.NewResultsCache(client, cfg.ResultsCacheTTL),
		logger,
	)
	snapshotSvc := services.NewSnapshotService(pollRepo, resultsSvc, logger)

	logger.Info("Starting results snapshot job...")

	if err := snapshotSvc.RefreshAll(ctx); err != nil {
		logger.WithError(err).Fatal("Error refreshing results")
	}

	logger.Info("Results snapshot completed successfully.")
}
