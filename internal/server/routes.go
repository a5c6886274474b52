package server

import (
	"github.com/Lutefd/currency-converter/internal/handler"
	api_middleware "github.com/Lutefd/currency-converter/internal/middleware"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes(converter service.CurrencyConverterInterface) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	rateLimiter := api_middleware.NewRateLimiter(s.config.AllowedRPS)
	currencyHandler := handler.NewCurrencyHandler(converter)

	router.Get("/healthz", handler.HandlerReadiness)
	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	router.Route("/currency", func(r chi.Router) {
		r.Use(rateLimiter.Middleware)
		r.Get("/convert", currencyHandler.ConvertCurrency)
		r.Post("/convert", currencyHandler.ConvertCurrencyJSON)
	})
	s.router = router
}
