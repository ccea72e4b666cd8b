package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"medassist/store"
	"medassist/utils"
)

// RequireLogin redirects anonymous requests to the login page and puts the
// session of authenticated ones on the request context.
func (app *App) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := utils.CurrentSession(r.Context(), r, app.Redis)
		if errors.Is(err, utils.ErrUnauthorized) {
			target := "/login"
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		if err != nil {
			app.serverError(w, r, err, "error loading session")
			return
		}

		// sessions of deleted users are dropped
		userID, err := uuid.Parse(session.UserID)
		if err != nil {
			app.serverError(w, r, err, "invalid user id in session")
			return
		}
		if _, err := app.Store.UserByID(r.Context(), userID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				app.serverError(w, r, err, "error loading session user")
				return
			}
			hlog.FromRequest(r).Warn().Str("user_id", session.UserID).Msg("session user no longer exists")
			if err := utils.EndSession(r.Context(), w, r, app.Redis); err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("failed to delete session")
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if err := utils.UpdateLastActivityRedis(r.Context(), app.Redis, session.SessionToken); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to update session activity")
		}

		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", session.UserID)
		})
		next(w, r.WithContext(utils.WithSession(r.Context(), session)))
	}
}

// withSession attaches the session if there is one but never redirects.
func (app *App) withSession(r *http.Request) *http.Request {
	session, err := utils.CurrentSession(r.Context(), r, app.Redis)
	if err != nil {
		return r
	}
	return r.WithContext(utils.WithSession(r.Context(), session))
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)
				hlog.FromRequest(r).Error().
					Str("panic", fmt.Sprintf("%v", rec)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")
				w.Header().Set("Connection", "close")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logging installs the request logger and writes one access line per
// request.
func logging(log zerolog.Logger, next http.Handler) http.Handler {
	h := recovery(next)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("latency", duration).
			Msg("request")
	})(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RemoteAddrHandler("remote_ip")(h)
	h = hlog.RequestIDHandler("request_id", "X-Request-ID")(h)
	h = hlog.NewHandler(log)(h)
	return h
}
