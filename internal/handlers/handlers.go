package handlers

import (
	"time"

	"image-service/internal/pipeline"
	"image-service/internal/registry"
	"image-service/internal/startup"
	"image-service/internal/store"
)

// Handlers carries the shared state every HTTP handler needs.
type Handlers struct {
	cfg      *startup.Config
	pipeline *pipeline.Pipeline
	store    *store.Store
	registry *registry.Registry
	started  time.Time
}

// New creates the handler set. registry may be nil in tests.
func New(cfg *startup.Config, p *pipeline.Pipeline, st *store.Store, reg *registry.Registry) *Handlers {
	return &Handlers{
		cfg:      cfg,
		pipeline: p,
		store:    st,
		registry: reg,
		started:  time.Now(),
	}
}
