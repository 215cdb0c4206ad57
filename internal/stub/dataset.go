package stub

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

//go:embed data/*.json
var dataFS embed.FS

// Age groups the dataset is keyed by.
const (
	AgeChild  = "child"
	AgeTeen   = "teen"
	AgeAdult  = "adult"
	AgeSenior = "senior"
)

// AgeGroup buckets an age in years.
func AgeGroup(age int) string {
	switch {
	case age < 13:
		return AgeChild
	case age < 20:
		return AgeTeen
	case age < 60:
		return AgeAdult
	default:
		return AgeSenior
	}
}

// Profile is one disease with its symptoms. Empty Gender or AgeGroup means
// the profile applies to everyone.
type Profile struct {
	Disease  string   `json:"disease"`
	Gender   string   `json:"gender,omitempty"`
	AgeGroup string   `json:"age_group,omitempty"`
	Symptoms []string `json:"symptoms"`
}

func (p Profile) applies(ageGroup, gender string) bool {
	return (p.AgeGroup == "" || p.AgeGroup == ageGroup) &&
		(p.Gender == "" || p.Gender == gender)
}

// Entry is one remedy bundle, optionally narrowed by age group and gender.
type Entry struct {
	Name     string `json:"name"`
	AgeGroup string `json:"ageGroup,omitempty"`
	Gender   string `json:"gender,omitempty"`
	predictor.Bundle
}

func (e Entry) applies(ageGroup, gender string) bool {
	return (e.AgeGroup == "" || e.AgeGroup == ageGroup) &&
		(e.Gender == "" || e.Gender == gender)
}

// Dataset is what the stub serves from.
type Dataset struct {
	Profiles []Profile
	Entries  []Entry
}

// DefaultDataset loads the embedded dataset.
func DefaultDataset() (*Dataset, error) {
	var ds Dataset
	if err := readJSON("data/diseases.json", &ds.Profiles); err != nil {
		return nil, err
	}
	if err := readJSON("data/remedies.json", &ds.Entries); err != nil {
		return nil, err
	}
	return &ds, nil
}

func readJSON(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Lookup returns the first entry for disease that applies to the asker.
func (ds *Dataset) Lookup(disease string, age int, gender string) (*Entry, bool) {
	group := AgeGroup(age)
	for i := range ds.Entries {
		e := &ds.Entries[i]
		if e.Name == disease && e.applies(group, gender) {
			return e, true
		}
	}
	return nil, false
}

// Symptoms returns every symptom id in the dataset, first-seen order.
func (ds *Dataset) Symptoms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ds.Profiles {
		for _, s := range p.Symptoms {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
