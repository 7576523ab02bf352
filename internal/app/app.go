package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"iq-home/estimate/internal/app/config"
	apphttp "iq-home/estimate/internal/app/http"
	"iq-home/estimate/internal/app/http/handlers"
	"iq-home/estimate/internal/domain/estimate"
	pdfgen "iq-home/estimate/internal/domain/estimate/pdf/gofpdf"
	"iq-home/estimate/internal/domain/estimate/session"
	"iq-home/estimate/internal/infra/db/postgres"
	"iq-home/estimate/internal/obs"
)

func Run() {
	cfg := config.MustLoad()
	log := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	deps := handlers.Deps{
		Catalog:   estimate.DefaultCatalog(),
		Generator: pdfgen.New(cfg.FontDir, log),
		Log:       log,
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		deps.DB = db

		templates, err := db.LoadTemplates(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("templates: using built-in table")
		case len(templates) > 0:
			deps.Catalog = estimate.NewCatalog(templates)
			log.Info().Int("count", len(templates)).Msg("templates: loaded from database")
		}
	}

	metrics := obs.NewMetrics(cfg.MetricsNamespace, nil)
	deps.Metrics = metrics

	store := session.NewStore(cfg.SessionTTL)
	store.OnChange = func(n int) { metrics.LiveSessions.Set(float64(n)) }
	deps.Sessions = store
	go store.Run(ctx, cfg.SessionSweepInterval)

	router := apphttp.NewRouter(cfg, handlers.New(deps), nil)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
