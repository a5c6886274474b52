package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env")
	// stdout carries the JSON outcome only.
	logger.InfoLogger.SetOutput(os.Stderr)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCommand(commons.LoadConverterConfig()).ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
