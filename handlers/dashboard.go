package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"medassist/models"
	"medassist/utils"
)

const dashboardLimit = 20

func DashboardHandler(w http.ResponseWriter, r *http.Request, app *App) {
	switch r.Method {
	case http.MethodGet:
		showDashboard(w, r, app, http.StatusOK, app.newPageData(w, r, "Dashboard"))
	case http.MethodPost:
		uploadRecord(w, r, app)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func showDashboard(w http.ResponseWriter, r *http.Request, app *App, status int, data models.PageData) {
	session := utils.SessionFromContext(r.Context())
	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		app.serverError(w, r, err, "invalid user id in session")
		return
	}

	records, err := app.Store.MedicalRecordsByUser(r.Context(), userID, dashboardLimit)
	if err != nil {
		app.serverError(w, r, err, "error loading medical records")
		return
	}
	data.Records = records
	app.render(w, r, status, "dashboard.html", data)
}

// uploadRecord keeps the file on disk and records it without running the
// model.
func uploadRecord(w http.ResponseWriter, r *http.Request, app *App) {
	log := hlog.FromRequest(r)
	session := utils.SessionFromContext(r.Context())
	data := app.newPageData(w, r, "Dashboard")

	if err := app.parseUpload(w, r); err != nil {
		data.Errors[uploadField] = err.Error()
		showDashboard(w, r, app, http.StatusUnprocessableEntity, data)
		return
	}
	if err := utils.Authorize(r, session); err != nil {
		log.Warn().Err(err).Msg("csrf check failed")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	notes := strings.TrimSpace(r.FormValue(symptomsField))
	data.Form[symptomsField] = notes

	file, header, err := openPDF(r)
	if err != nil {
		data.Errors[uploadField] = err.Error()
		showDashboard(w, r, app, http.StatusUnprocessableEntity, data)
		return
	}
	defer file.Close()

	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		app.serverError(w, r, err, "invalid user id in session")
		return
	}

	path, err := app.saveRetained(session.UserID, file)
	if err != nil {
		app.serverError(w, r, err, "error saving upload")
		return
	}

	record := &models.MedicalRecord{
		UserID:     userID,
		Filename:   uploadFilename(header),
		StoredPath: path,
		Symptoms:   notes,
	}
	if err := app.Store.AddMedicalRecord(r.Context(), record); err != nil {
		os.Remove(path)
		app.serverError(w, r, err, "error recording upload")
		return
	}
	log.Info().Str("record_id", record.ID.String()).Msg("medical record uploaded")

	utils.SetFlash(w, models.Flash{Category: "success", Message: "File uploaded successfully!"})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
