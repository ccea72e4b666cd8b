package diagnosis

import (
	"fmt"
	"strings"
)

const noPastDiseases = "no recorded past diseases"

// BuildPrompt renders the instruction sent to the model. Runs of whitespace
// in either input collapse to a single space.
func BuildPrompt(pastDiseases, symptoms string) string {
	past := collapse(pastDiseases)
	if past == "" {
		past = noPastDiseases
	}
	return fmt.Sprintf(
		"Given the past medical records: %s and current symptoms: %s, provide a diagnosis in this exact format: "+
			"'Disease: [disease name], Medicine: [medicine name], Directions: [usage directions]'",
		past, collapse(symptoms),
	)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
