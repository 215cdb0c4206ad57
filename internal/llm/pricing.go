package llm

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of one request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a served model ID, or nil if unknown.
// Friendly names are resolved first so "claude-haiku" prices like its
// dated ID.
func LookupCost(modelID string) *ModelCost {
	for _, m := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		if id, ok := m[modelID]; ok {
			modelID = id
			break
		}
	}
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// EstimateCost prices a logged request. ok is false for unknown models.
func EstimateCost(model string, inputTokens, outputTokens int) (usd float64, ok bool) {
	c := LookupCost(model)
	if c == nil {
		return 0, false
	}
	return c.Cost(inputTokens, outputTokens), true
}

// modelCosts covers the models the explainer is configured with by default
// and their larger siblings. Source: models.dev, 2026-02.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-haiku-4-5":           {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5-mini":   {0.25, 2},

	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},

	"google/gemini-2.5-flash": {0.3, 2.5},
}
