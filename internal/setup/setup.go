// Package setup wires the application dependencies together.
package setup

import (
	"github.com/innosearch-dev/innosearch/internal/config"
	"github.com/innosearch-dev/innosearch/internal/csvstore"
	"github.com/innosearch-dev/innosearch/internal/events"
	"github.com/innosearch-dev/innosearch/internal/handler"
	"github.com/innosearch-dev/innosearch/internal/middleware"
	"github.com/innosearch-dev/innosearch/internal/search"
	"github.com/innosearch-dev/innosearch/internal/service"
	"github.com/innosearch-dev/innosearch/internal/storage/pg"
)

// Dependencies holds all initialized collaborators.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	tech1 := csvstore.NewSource("tech1", cfg.Public.Csv.Tech1.Path, cfg.Public.Csv.Tech1.Encoding)
	tech2 := csvstore.NewSource("tech2", cfg.Public.Csv.Tech2.Path, cfg.Public.Csv.Tech2.Encoding)
	eventsSrc := csvstore.NewSource("events", cfg.Public.Csv.Events.Path, cfg.Public.Csv.Events.Encoding)
	// load failures here are non-fatal; sources retry on first query
	tech1.Preload()
	tech2.Preload()
	eventsSrc.Preload()

	auth := service.NewAuth(storage, &cfg.Public)
	board := service.NewBoard(storage)
	engine := search.New(tech1, tech2)
	directory := events.New(eventsSrc)

	h := handler.New(auth, board, engine, directory, storage, cfg)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(auth),
		Config:         cfg,
	}, nil
}
