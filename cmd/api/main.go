package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/Lutefd/currency-converter/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env")
	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if config.PostgresConn != "" {
		if err := startLogSink(ctx, config.PostgresConn); err != nil {
			logger.Errorf("log persistence disabled: %v", err)
		}
	}

	srv := server.NewServer(config)
	err = srv.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), commons.LoggerShutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := logger.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("failed to flush logs: %v", shutdownErr)
	}

	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func startLogSink(ctx context.Context, connURL string) error {
	logRepo, err := repository.NewPostgresLogRepository(ctx, connURL, nil)
	if err != nil {
		return err
	}

	partitionManager := logger.NewPartitionManager(logRepo)
	if err := partitionManager.Start(ctx); err != nil {
		logRepo.Close()
		return err
	}

	logger.InitLogger(logRepo)
	return nil
}
