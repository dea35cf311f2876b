package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	patternshandler "github.com/xam-health/equity-atlas/pkg/handlers/patterns"
	qahandler "github.com/xam-health/equity-atlas/pkg/handlers/qa"
	"github.com/xam-health/equity-atlas/pkg/handlers/respond"
	"github.com/xam-health/equity-atlas/pkg/models/api"
	equitymiddleware "github.com/xam-health/equity-atlas/pkg/server/middleware"
	"github.com/xam-health/equity-atlas/pkg/services/dataset"
	"github.com/xam-health/equity-atlas/pkg/services/insight"
	"github.com/xam-health/equity-atlas/pkg/services/mining"
	qasvc "github.com/xam-health/equity-atlas/pkg/services/qa"
)

type Dependencies struct {
	Miner    mining.Miner
	Narrator insight.Narrator
	Datasets dataset.Explorer
	Answerer qasvc.Answerer
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	patternsHandler := patternshandler.NewHandler(deps.Miner, deps.Narrator, deps.Datasets)
	qaHandler := qahandler.NewHandler(deps.Answerer)
	metrics := equitymiddleware.NewMetrics()

	router := chi.NewRouter()

	router.Use(equitymiddleware.Logger(&deps.Logger))
	router.Use(metrics.Instrument)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Post("/mine_patterns", patternsHandler.MinePatterns)
		r.Post("/ai_insights", patternsHandler.AIInsights)
		r.Get("/health_check", healthCheck)
	})
	router.Post("/filter", patternsHandler.Filter)
	router.Post("/qa", qaHandler.Ask)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, api.HealthCheckResponse{Status: "ok"})
}

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	config Config
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(config)

	return &WebAPI{
		router: router,
		logger: &logger,
		config: config,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		timeout := w.config.ShutdownTimeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
