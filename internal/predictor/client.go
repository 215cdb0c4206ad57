// Package predictor talks to the remote diagnosis service: /predict ranks
// diseases and next symptoms for the current answers, /get_data returns the
// remedy bundle for a diagnosed disease.
//
// The service is stateless across calls, so every Predict sends the full
// accepted and rejected sets. Nothing is cached and nothing is retried.
package predictor

import "context"

// Client is the diagnosis service.
type Client interface {
	// Predict returns fresh candidates for the given answers.
	Predict(ctx context.Context, q Query) (*Candidates, error)

	// Remedies returns the remedy bundle for a diagnosed disease.
	Remedies(ctx context.Context, q RemedyQuery) (*Bundle, error)
}

// Query is the /predict request body.
type Query struct {
	Symptoms         []string `json:"symptoms"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	RejectedSymptoms []string `json:"rejected_symptoms"`
}

// Candidates is the /predict response. Both lists are best first. An empty
// Symptoms list is a valid answer meaning there is nothing left to ask.
type Candidates struct {
	Diseases []string `json:"top_diseases"`
	Symptoms []string `json:"top_symptoms"`
}

// RemedyQuery is the /get_data request body.
type RemedyQuery struct {
	Disease string `json:"disease"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
}

// Bundle is the /get_data response.
type Bundle struct {
	Description       string   `json:"description"`
	AyurvedicRemedies []string `json:"ayurvedicRemedies"`
	Yoga              []string `json:"yoga"`
	AyurvedicDiet     []string `json:"ayurvedicDiet"`
	FoodAvoid         []string `json:"foodAvoid"`
	Remedy            []string `json:"remedy"`
}

// Endpoint paths.
const (
	PathPredict = "/predict"
	PathGetData = "/get_data"
)
