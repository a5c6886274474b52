package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const migrateTimeout = 30 * time.Second

type dependencies struct {
	loadEnv    func(...string) error
	loadConfig func() commons.Config
	openDB     func(driverName, dataSourceName string) (*sql.DB, error)
}

func main() {
	deps := dependencies{
		loadEnv:    godotenv.Load,
		loadConfig: commons.LoadConverterConfig,
		openDB:     sql.Open,
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := run(ctx, deps); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("logs schema and partitions are up to date")
}

func run(ctx context.Context, deps dependencies) error {
	deps.loadEnv(".env")
	config := deps.loadConfig()
	if config.PostgresConn == "" {
		return errors.New("POSTGRES_CONN is not set")
	}

	db, err := deps.openDB("postgres", config.PostgresConn)
	if err != nil {
		return err
	}

	repo, err := repository.NewPostgresLogRepository(ctx, config.PostgresConn, db)
	if err != nil {
		db.Close()
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	return logger.NewPartitionManager(repo).EnsurePartitions(ctx)
}
