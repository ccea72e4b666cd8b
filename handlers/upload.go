package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"medassist/pdftext"
	"medassist/utils"
)

const (
	uploadField   = "past_medical_records"
	symptomsField = "current_symptoms"
)

// errFormTooLarge and errBadForm are validation failures of the multipart
// body itself.
var (
	errFormTooLarge = errors.New("the upload is too large")
	errBadForm      = errors.New("the form could not be read")
)

// parseUpload limits and parses a multipart body. Call before Authorize so
// the CSRF form field is available.
func (app *App) parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, app.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errFormTooLarge
		}
		return errBadForm
	}
	return nil
}

// openPDF returns the uploaded file after checking its extension and sniffing
// its first bytes. The returned file is positioned at the start.
func openPDF(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, nil, errors.New("please choose a PDF file to upload")
	}
	if err := pdftext.CheckExtension(header.Filename); err != nil {
		file.Close()
		return nil, nil, errors.New("only .pdf files are accepted")
	}
	if err := pdftext.Sniff(file); err != nil {
		file.Close()
		if errors.Is(err, pdftext.ErrNotPDF) {
			return nil, nil, errors.New("the uploaded file is not a valid PDF")
		}
		return nil, nil, fmt.Errorf("the uploaded file could not be read")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("the uploaded file could not be read")
	}
	return file, header, nil
}

// saveTransient copies src into a uniquely named file in the upload
// directory. The caller removes it.
func (app *App) saveTransient(src io.Reader) (string, error) {
	if err := os.MkdirAll(app.Config.UploadDir, 0o750); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.CreateTemp(app.Config.UploadDir, "upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create transient file: %w", err)
	}
	if err := copyAndClose(dst, src); err != nil {
		return "", err
	}
	return dst.Name(), nil
}

// saveRetained stores src under <upload dir>/<user id>/<uuid>.pdf.
func (app *App) saveRetained(userID string, src io.Reader) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("invalid user id %q", userID)
	}
	dir := filepath.Join(app.Config.UploadDir, userID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create user upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+".pdf")
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create retained file: %w", err)
	}
	if err := copyAndClose(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func copyAndClose(dst *os.File, src io.Reader) error {
	_, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst.Name())
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// uploadFilename is the name shown back to the user.
func uploadFilename(header *multipart.FileHeader) string {
	return utils.SanitizeFilename(header.Filename)
}
