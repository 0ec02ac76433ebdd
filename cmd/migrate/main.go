package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/postgres"
	"github.com/printstudio/docengine/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ddl := storage.PostgresSchema(cfg.Storage.Postgres.Table)
	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		fmt.Println(ddl)
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Storage.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Infow("Running database migrations...", "table", cfg.Storage.Postgres.Table)
	if _, err := db.Querier().ExecContext(ctx, ddl); err != nil {
		logger.Fatalw("Failed to create schema resources", "error", err)
	}
	logger.Info("Migration completed successfully")
}
