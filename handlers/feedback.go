package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"medassist/models"
	"medassist/utils"
)

// FeedbackHandler stores whatever the user typed, including nothing.
func FeedbackHandler(w http.ResponseWriter, r *http.Request, app *App) {
	switch r.Method {
	case http.MethodGet:
		app.render(w, r, http.StatusOK, "feedback.html", app.newPageData(w, r, "Feedback"))
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	log := hlog.FromRequest(r)
	session := utils.SessionFromContext(r.Context())
	if err := utils.Authorize(r, session); err != nil {
		log.Warn().Err(err).Msg("csrf check failed")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		app.serverError(w, r, err, "invalid user id in session")
		return
	}

	fb := &models.Feedback{UserID: userID, Content: r.FormValue("feedback")}
	if err := app.Store.AddFeedback(r.Context(), fb); err != nil {
		app.serverError(w, r, err, "error saving feedback")
		return
	}
	log.Info().Str("feedback_id", fb.ID.String()).Int("length", len(fb.Content)).Msg("feedback received")

	if app.Config.FeedbackInbox != "" {
		mailCtx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := utils.ForwardFeedback(mailCtx, app.Mailer, app.Config.FeedbackInbox, session.Username, fb.Content); err != nil {
			log.Warn().Err(err).Msg("failed to forward feedback")
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
