package handlers

import (
	"context"
	"html/template"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"medassist/config"
	"medassist/diagnosis"
	"medassist/store"
	"medassist/utils"
)

// Diagnoser runs the document-to-suggestion pipeline.
type Diagnoser interface {
	Diagnose(ctx context.Context, req diagnosis.Request) (*diagnosis.Outcome, error)
}

// App carries the dependencies every handler needs.
type App struct {
	Config    *config.Config
	Store     store.Store
	Redis     *redis.Client
	Diagnoser Diagnoser
	Mailer    utils.Mailer
	Templates map[string]*template.Template
	Log       zerolog.Logger
}
