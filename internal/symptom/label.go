// Package symptom formats the service's snake_case symptom and disease
// identifiers for display.
package symptom

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label turns an identifier like "skin_rash" into "Skin Rash".
// Letters after the first of each word keep their case.
func Label(id string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(id, "_", " ")), " ")
	// Casers are stateful; one per call.
	return cases.Title(language.English, cases.NoLower).String(s)
}

// Labels applies Label to every id.
func Labels(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Label(id)
	}
	return out
}

// JoinLabels formats ids as a comma-separated list of labels.
func JoinLabels(ids []string) string {
	return strings.Join(Labels(ids), ", ")
}
