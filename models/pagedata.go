package models

type Flash struct {
	Category string
	Message  string
}

// PageData is handed to every template.
type PageData struct {
	Title      string
	Flashes    []Flash
	CSRFtoken  string
	IsLoggedIn bool
	Username   string
	Form       map[string]string
	Errors     map[string]string
	Error      string
	Result     *DiagnosisResult
	Fallback   bool
	Records    []MedicalRecord
	Next       string
}
