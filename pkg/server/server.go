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
	"github.com/rs/zerolog"

	handlers "github.com/clearops/ticketlens/pkg/handlers/dataset"
	ticketlensmiddleware "github.com/clearops/ticketlens/pkg/server/middleware"
	"github.com/clearops/ticketlens/pkg/services/report"
	"github.com/clearops/ticketlens/pkg/store/files"
	reportstore "github.com/clearops/ticketlens/pkg/store/sqlite/report"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Controller *report.Controller
	Files      *files.Store
	Reports    reportstore.Store
	MaxUpload  int64
	Logger     zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter wires the API routes. Split out of NewWebAPI so endpoint
// tests can run against httptest servers.
func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	dsHandler := handlers.NewHandler(deps.Controller, deps.Files, deps.Reports, deps.MaxUpload)

	router := chi.NewRouter()
	router.Use(ticketlensmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/datasets", dsHandler.UploadDataset)
		r.Get("/datasets/{upload}/structure", dsHandler.GetStructure)
		r.Post("/datasets/{upload}/reports", dsHandler.GenerateReport)
		r.Get("/reports", dsHandler.ListReports)
		r.Get("/reports/{report}/download", dsHandler.DownloadReport)
		r.Delete("/reports/{report}", dsHandler.DeleteReport)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(config)
	return &WebAPI{
		router: router,
		logger: &logger,
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

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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
