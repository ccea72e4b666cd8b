package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ReadyHandler reports ready only when both the database and Redis answer.
func ReadyHandler(w http.ResponseWriter, r *http.Request, app *App) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := app.Store.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("database not ready")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unavailable"))
		return
	}
	if err := app.Redis.Ping(ctx).Err(); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("redis not ready")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("redis unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
