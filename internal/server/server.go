package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/metrics"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Server struct {
	port     int
	router   http.Handler
	config   commons.Config
	registry *prometheus.Registry
}

func NewServer(config commons.Config) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	converter := service.NewCurrencyConverter(
		config.APIKey,
		service.WithBaseURL(config.BaseURL),
		service.WithMetrics(metrics.NewConversionMetrics(registry)),
	)
	if !config.APIKeyConfigured() {
		logger.Warnf("%s is not set or is a placeholder; every conversion will fail", commons.APIKeyEnvVar)
	}

	server := &Server{
		port:     int(config.ServerPort),
		config:   config,
		registry: registry,
	}
	server.registerRoutes(converter)
	return server
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	logger.Infof("Starting server on port %d", s.port)
	ch := make(chan error, 1)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		IdleTimeout:  commons.ServerIdleTimeout,
		ReadTimeout:  commons.ServerReadTimeout,
		WriteTimeout: commons.ServerWriteTimeout,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- fmt.Errorf("failed to start server: %w", err)
		}
		close(ch)
	}()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), commons.ServerShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	}
}
