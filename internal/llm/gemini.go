package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash":      "gemini-2.5-flash",
	"gemini-flash-lite": "gemini-2.5-flash-lite",
	"gemini-pro":        "gemini-2.5-pro",
}

type geminiBackend struct {
	client *genai.Client
}

// newGemini builds the Gemini provider. A non-empty baseURL replaces the
// public endpoint.
func newGemini(ctx context.Context, cfg GeminiConfig, baseURL string) (*sdkProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey("gemini")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &sdkProvider{
		vendor: "gemini",
		model:  modelID(cfg.Model, geminiModels),
		b:      &geminiBackend{client: client},
	}, nil
}

func (g *geminiBackend) send(ctx context.Context, model string, req Request) (reply, error) {
	conf := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		conf.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		conf.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseSchema = geminiSchema(req.Schema.Definition)
	}

	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), conf)
	if err != nil {
		return reply{}, err
	}
	r := reply{text: res.Text(), model: res.ModelVersion}
	if u := res.UsageMetadata; u != nil {
		r.usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	if len(res.Candidates) > 0 {
		r.truncated = res.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
	}
	return r, nil
}

// failure reads the status off genai.APIError, which the SDK returns by
// value.
func (*geminiBackend) failure(err error) (int, time.Duration) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, 0
	}
	return 0, 0
}

var geminiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
}

// geminiSchema converts the JSON Schema subset the explainer uses into
// Gemini's schema type. Unknown types fall back to string.
func geminiSchema(def map[string]any) *genai.Schema {
	t, _ := def["type"].(string)
	s := &genai.Schema{Type: genai.TypeString}
	if gt, ok := geminiTypes[t]; ok {
		s.Type = gt
	}
	s.Description, _ = def["description"].(string)
	s.Enum = stringList(def["enum"])
	s.Required = stringList(def["required"])
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if sub, ok := p.(map[string]any); ok {
				s.Properties[name] = geminiSchema(sub)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	return s
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
