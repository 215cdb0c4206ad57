package insight

import "github.com/ayushhealth/ayushbot/internal/llm"

// Schema is the structured output the explainer asks for.
var Schema = &llm.Schema{
	Name:        "diagnosis-insight",
	Description: "A plain-language explanation of a symptom-checker result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three short sentences explaining the likely condition in everyday words",
			},
			"see_doctor": map[string]any{
				"type":        "boolean",
				"description": "True when the reported symptoms warrant seeing a doctor soon",
			},
			"follow_up": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to three short questions the user could ask next",
			},
		},
		"required":             []any{"summary", "see_doctor", "follow_up"},
		"additionalProperties": false,
	},
}
