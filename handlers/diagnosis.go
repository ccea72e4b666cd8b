package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"medassist/diagnosis"
	"medassist/models"
	"medassist/utils"
)

const (
	msgExtraction = "We could not read text from that PDF."
	msgInference  = "The diagnosis model is unavailable right now. Please try again later."
)

// HomeHandler shows the upload form and runs a diagnosis on submit.
func HomeHandler(w http.ResponseWriter, r *http.Request, app *App) {
	if r.URL.Path != "/" {
		data := app.newPageData(w, r, "Page not found")
		app.render(w, r, http.StatusNotFound, "error.html", data)
		return
	}

	switch r.Method {
	case http.MethodGet:
		app.render(w, r, http.StatusOK, "home.html", app.newPageData(w, r, "Diagnose"))
	case http.MethodPost:
		runDiagnosis(w, r, app)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func runDiagnosis(w http.ResponseWriter, r *http.Request, app *App) {
	log := hlog.FromRequest(r)
	session := utils.SessionFromContext(r.Context())
	data := app.newPageData(w, r, "Diagnose")

	if err := app.parseUpload(w, r); err != nil {
		log.Info().Err(err).Str("kind", string(diagnosis.KindValidation)).Msg("diagnosis rejected")
		data.Errors[uploadField] = err.Error()
		app.render(w, r, http.StatusUnprocessableEntity, "home.html", data)
		return
	}
	if err := utils.Authorize(r, session); err != nil {
		log.Warn().Err(err).Msg("csrf check failed")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	symptoms := r.FormValue(symptomsField)
	data.Form[symptomsField] = symptoms
	if err := utils.ValidateSymptoms(symptoms); err != nil {
		data.Errors[symptomsField] = err.Error()
	}
	file, header, err := openPDF(r)
	if err != nil {
		data.Errors[uploadField] = err.Error()
	}
	if len(data.Errors) > 0 {
		if file != nil {
			file.Close()
		}
		log.Info().Str("kind", string(diagnosis.KindValidation)).Msg("diagnosis rejected")
		app.render(w, r, http.StatusUnprocessableEntity, "home.html", data)
		return
	}
	defer file.Close()

	path, err := app.saveTransient(file)
	if err != nil {
		app.serverError(w, r, err, "error saving upload")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove transient upload")
		}
	}()

	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		app.serverError(w, r, err, "invalid user id in session")
		return
	}
	record := &models.MedicalRecord{
		UserID:   userID,
		Filename: uploadFilename(header),
		Symptoms: strings.TrimSpace(symptoms),
	}
	if err := app.Store.AddMedicalRecord(r.Context(), record); err != nil {
		app.serverError(w, r, err, "error recording upload")
		return
	}

	outcome, err := app.Diagnoser.Diagnose(r.Context(), diagnosis.Request{DocumentPath: path, Symptoms: symptoms})
	if err != nil {
		kind := diagnosis.KindOf(err)
		log.Error().Err(err).Str("kind", string(kind)).Str("record_id", record.ID.String()).Msg("diagnosis failed")

		switch kind {
		case diagnosis.KindValidation:
			data.Errors[symptomsField] = "please describe your current symptoms"
			app.render(w, r, http.StatusUnprocessableEntity, "home.html", data)
		case diagnosis.KindExtraction:
			data.Error = msgExtraction
			app.render(w, r, http.StatusUnprocessableEntity, "home.html", data)
		case diagnosis.KindInference:
			data.Error = msgInference
			app.render(w, r, http.StatusServiceUnavailable, "home.html", data)
		default:
			app.serverError(w, r, err, "diagnosis failed")
		}
		return
	}

	log.Info().
		Str("record_id", record.ID.String()).
		Bool("fallback", outcome.Fallback).
		Msg("diagnosis complete")

	data.Title = "Result"
	data.Result = &outcome.Result
	data.Fallback = outcome.Fallback
	data.Flashes = append(data.Flashes, models.Flash{Category: "success", Message: "Analysis complete!"})
	app.render(w, r, http.StatusOK, "result.html", data)
}
