// Package medinfo summarizes the free text of a medical document into a fixed
// set of named sections.
package medinfo

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Sections is the fixed-shape summary of a document. A heading that does not
// appear in the text leaves its section empty.
type Sections struct {
	PastDiseases         string
	CurrentSymptoms      string
	Medications          string
	Allergies            string
	SurgicalHistory      string
	FamilyMedicalHistory string
}

// Record is one labelled section value.
type Record struct {
	Label string
	Value string
}

// Labels are the section names in display order.
var Labels = []string{
	"Past Diseases",
	"Current Symptoms",
	"Medications",
	"Allergies",
	"Surgical History",
	"Family Medical History",
}

// Records returns the sections as label/value pairs in Labels order.
func (s Sections) Records() []Record {
	return []Record{
		{Labels[0], s.PastDiseases},
		{Labels[1], s.CurrentSymptoms},
		{Labels[2], s.Medications},
		{Labels[3], s.Allergies},
		{Labels[4], s.SurgicalHistory},
		{Labels[5], s.FamilyMedicalHistory},
	}
}

func (s *Sections) field(label string) *string {
	switch label {
	case "Past Diseases":
		return &s.PastDiseases
	case "Current Symptoms":
		return &s.CurrentSymptoms
	case "Medications":
		return &s.Medications
	case "Allergies":
		return &s.Allergies
	case "Surgical History":
		return &s.SurgicalHistory
	case "Family Medical History":
		return &s.FamilyMedicalHistory
	}
	return nil
}

type heading struct {
	alias string
	label string
}

var headings = buildHeadings(map[string][]string{
	"Past Diseases":          {"past diseases", "past medical history", "medical history", "diagnoses", "past illnesses"},
	"Current Symptoms":       {"current symptoms", "symptoms", "chief complaint"},
	"Medications":            {"medications", "current medications", "medicines"},
	"Allergies":              {"allergies"},
	"Surgical History":       {"surgical history", "past surgical history", "surgeries"},
	"Family Medical History": {"family medical history", "family history"},
})

// buildHeadings flattens the alias table, longest alias first, so that
// "past surgical history" wins over "surgical history".
func buildHeadings(aliases map[string][]string) []heading {
	var hs []heading
	for label, names := range aliases {
		for _, name := range names {
			hs = append(hs, heading{alias: name, label: label})
		}
	}
	sort.Slice(hs, func(i, j int) bool {
		if len(hs[i].alias) != len(hs[j].alias) {
			return len(hs[i].alias) > len(hs[j].alias)
		}
		return hs[i].alias < hs[j].alias
	})
	return hs
}

// matchHeading reports whether line opens a section. A heading is an alias at
// the start of the line followed by nothing, a colon or a dash; whatever
// follows the separator is the first piece of the section body.
func matchHeading(line string) (label, rest string, ok bool) {
	for _, h := range headings {
		if len(line) < len(h.alias) || !strings.EqualFold(line[:len(h.alias)], h.alias) {
			continue
		}
		after := strings.TrimLeft(line[len(h.alias):], " \t")
		switch {
		case after == "":
			return h.label, "", true
		case after[0] == ':' || after[0] == '-':
			return h.label, strings.TrimSpace(after[1:]), true
		}
	}
	return "", "", false
}

// Summarize splits text on recognised headings. Lines before the first
// heading are ignored; a heading seen twice accumulates both bodies.
func Summarize(text string) Sections {
	var s Sections
	var current *string

	appendTo := func(dst *string, piece string) {
		if piece == "" {
			return
		}
		if *dst != "" {
			*dst += " "
		}
		*dst += piece
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if label, rest, ok := matchHeading(line); ok {
			current = s.field(label)
			appendTo(current, rest)
			continue
		}
		if current != nil {
			appendTo(current, strings.Join(strings.Fields(line), " "))
		}
	}
	return s
}

// WriteCSV writes a header row of section labels and one row of values.
func WriteCSV(w io.Writer, s Sections) error {
	cw := csv.NewWriter(w)
	records := s.Records()
	header := make([]string, len(records))
	values := make([]string, len(records))
	for i, r := range records {
		header[i] = r.Label
		values[i] = r.Value
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(values); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
