package diagnosis

import (
	"strings"

	"medassist/models"
)

// Fallback is returned when the model output cannot be interpreted.
var Fallback = models.DiagnosisResult{
	Disease:    "Unable to determine",
	Medicine:   "Please consult a doctor",
	Directions: "Visit your healthcare provider for proper diagnosis",
}

const (
	diseaseMarker    = "Disease:"
	medicineMarker   = "Medicine:"
	directionsMarker = "Directions:"
)

// Parse extracts the three labelled values from raw model output. The markers
// must appear in order Disease, Medicine, Directions; the first Disease marker
// anchors the search. Directions run to the end of the output, or to a later
// Disease marker when the model repeats the format, and may span several
// lines. Runs of whitespace inside a value collapse to one space. When a
// marker is missing or a value is empty the Fallback result is returned with
// ok set to false.
func Parse(raw string) (result models.DiagnosisResult, ok bool) {
	d := strings.Index(raw, diseaseMarker)
	if d < 0 {
		return Fallback, false
	}
	afterDisease := d + len(diseaseMarker)

	m := strings.Index(raw[afterDisease:], medicineMarker)
	if m < 0 {
		return Fallback, false
	}
	m += afterDisease
	afterMedicine := m + len(medicineMarker)

	r := strings.Index(raw[afterMedicine:], directionsMarker)
	if r < 0 {
		return Fallback, false
	}
	r += afterMedicine

	result = models.DiagnosisResult{
		Disease:    clean(raw[afterDisease:m]),
		Medicine:   clean(raw[afterMedicine:r]),
		Directions: clean(untilNextAnswer(raw[r+len(directionsMarker):])),
	}
	if result.Disease == "" || result.Medicine == "" || result.Directions == "" {
		return Fallback, false
	}
	return result, true
}

// untilNextAnswer cuts s where the model starts a second answer.
func untilNextAnswer(s string) string {
	if i := strings.Index(s, diseaseMarker); i >= 0 {
		return s[:i]
	}
	return s
}

func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " ,;'\"")
}
