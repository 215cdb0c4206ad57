package predictor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// candidatesSchema is the shape of a /predict response.
var candidatesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"top_diseases": stringList,
		"top_symptoms": stringList,
	},
	"required": []any{"top_diseases", "top_symptoms"},
}

// bundleSchema is the shape of a /get_data response.
var bundleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"description":       map[string]any{"type": "string"},
		"ayurvedicRemedies": stringList,
		"yoga":              stringList,
		"ayurvedicDiet":     stringList,
		"foodAvoid":         stringList,
		"remedy":            stringList,
	},
	"required": []any{"description", "ayurvedicRemedies", "yoga", "ayurvedicDiet", "foodAvoid", "remedy"},
}

var schemas = map[string]map[string]any{
	PathPredict: candidatesSchema,
	PathGetData: bundleSchema,
}

// schemaCache caches compiled schemas by endpoint.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validate checks raw against the schema for endpoint and returns a
// *MalformedResponseError when it does not fit.
func validate(endpoint string, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(endpoint)
	if err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Content: raw, Err: err}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSchema(endpoint string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(endpoint); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := schemas[endpoint]
	if !ok {
		return nil, fmt.Errorf("no schema for %s", endpoint)
	}

	c := jsonschema.NewCompiler()
	url := "schema://predictor" + endpoint + ".json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(endpoint, compiled)
	return compiled, nil
}
