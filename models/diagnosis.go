package models

// DiagnosisResult is the parsed model suggestion. It is rendered once and
// never stored.
type DiagnosisResult struct {
	Disease    string
	Medicine   string
	Directions string
}
