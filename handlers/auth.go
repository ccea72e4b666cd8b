package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"medassist/models"
	"medassist/store"
	"medassist/utils"
)

const invalidCredentials = "Invalid username or password"

func RegisterHandler(w http.ResponseWriter, r *http.Request, app *App) {
	switch r.Method {
	case http.MethodGet:
		r = app.withSession(r)
		if utils.SessionFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		app.render(w, r, http.StatusOK, "register.html", app.newPageData(w, r, "Register"))
	case http.MethodPost:
		registerUser(w, r, app)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func registerUser(w http.ResponseWriter, r *http.Request, app *App) {
	log := hlog.FromRequest(r)

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirmedPassword := r.FormValue("confirm-password")

	data := app.newPageData(w, r, "Register")
	data.Form["username"] = username
	data.Form["email"] = email

	if err := utils.ValidateUsername(username); err != nil {
		data.Errors["username"] = err.Error()
	}
	if err := utils.ValidateEmail(email); err != nil {
		data.Errors["email"] = err.Error()
	}
	if err := utils.ValidatePassword(password); err != nil {
		data.Errors["password"] = err.Error()
	}
	if !utils.SamePassword(password, confirmedPassword) {
		data.Errors["confirm-password"] = "passwords must match"
	}
	if len(data.Errors) > 0 {
		app.render(w, r, http.StatusUnprocessableEntity, "register.html", data)
		return
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		app.serverError(w, r, err, "error hashing password")
		return
	}

	user := &models.User{Username: username, Email: email, PasswordHash: passwordHash}
	if err := app.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			data.Error = "Username or email is already registered"
			app.render(w, r, http.StatusConflict, "register.html", data)
			return
		}
		app.serverError(w, r, err, "error adding user")
		return
	}
	log.Info().Str("user_id", user.ID.String()).Msg("user registered")

	mailCtx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := utils.SendWelcome(mailCtx, app.Mailer, user.Username, user.Email); err != nil {
		log.Warn().Err(err).Msg("failed to send welcome email")
	}

	utils.SetFlash(w, models.Flash{Category: "success", Message: "Registration successful!"})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func LoginHandler(w http.ResponseWriter, r *http.Request, app *App) {
	switch r.Method {
	case http.MethodGet:
		r = app.withSession(r)
		if utils.SessionFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		data := app.newPageData(w, r, "Log in")
		data.Next = r.URL.Query().Get("next")
		app.render(w, r, http.StatusOK, "login.html", data)
	case http.MethodPost:
		loginUser(w, r, app)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func loginUser(w http.ResponseWriter, r *http.Request, app *App) {
	log := hlog.FromRequest(r)

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	data := app.newPageData(w, r, "Log in")
	data.Form["username"] = username
	data.Next = r.FormValue("next")

	if username == "" {
		data.Errors["username"] = "username is required"
	}
	if password == "" {
		data.Errors["password"] = "password is required"
	}
	if len(data.Errors) > 0 {
		app.render(w, r, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	user, err := app.Store.UserByUsername(r.Context(), username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.CompareDummyPassword(password)
		log.Info().Msg("login failed")
		data.Error = invalidCredentials
		app.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	case err != nil:
		app.serverError(w, r, err, "error looking up user")
		return
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Info().Msg("login failed")
		data.Error = invalidCredentials
		app.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}

	session, err := utils.StartSession(r.Context(), w, r, app.Redis, user, app.Config.SessionTTL, app.Config.CookieSecure)
	if err != nil {
		app.serverError(w, r, err, "error creating session")
		return
	}
	active, _ := utils.CountUserSessions(r.Context(), app.Redis, session.UserID)
	log.Info().Str("user_id", session.UserID).Int64("active_sessions", active).Msg("login successful")

	utils.SetFlash(w, models.Flash{Category: "success", Message: "Login successful!"})
	http.Redirect(w, r, utils.SafeNext(data.Next), http.StatusSeeOther)
}

func LogoutHandler(w http.ResponseWriter, r *http.Request, app *App) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := utils.EndSession(r.Context(), w, r, app.Redis); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to delete session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
