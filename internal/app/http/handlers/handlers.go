package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"iq-home/estimate/internal/domain/estimate"
	"iq-home/estimate/internal/domain/estimate/pdf"
	"iq-home/estimate/internal/domain/estimate/session"
	"iq-home/estimate/internal/obs"
)

// Pinger is satisfied by the optional template database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Catalog   *estimate.Catalog
	Generator pdf.Generator
	Sessions  *session.Store
	Metrics   *obs.Metrics
	Log       zerolog.Logger
	DB        Pinger
	Now       func() time.Time
}

type Handlers struct {
	Deps
}

func New(d Deps) *Handlers {
	if d.Catalog == nil {
		d.Catalog = estimate.DefaultCatalog()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handlers{Deps: d}
}
