package handlers

import (
	"io/fs"
	"net/http"

	"medassist/ui"
)

// Routes builds the application's handler tree.
func Routes(app *App) http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(ui.Files, "static")
	mux.Handle("/static/", http.StripPrefix("/static", http.FileServer(http.FS(static))))

	mux.HandleFunc("/healthz", HealthHandler)
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ReadyHandler(w, r, app)
	})

	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		RegisterHandler(w, r, app)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		LoginHandler(w, r, app)
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		LogoutHandler(w, r, app)
	})

	mux.HandleFunc("/", app.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		HomeHandler(w, r, app)
	}))
	mux.HandleFunc("/dashboard", app.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		DashboardHandler(w, r, app)
	}))
	mux.HandleFunc("/feedback", app.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		FeedbackHandler(w, r, app)
	}))

	return logging(app.Log, mux)
}
