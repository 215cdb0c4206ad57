package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
	"gpt-mini":    "gpt-5-mini",
}

// openRouterURL is OpenRouter's OpenAI-compatible endpoint. Its model IDs
// are vendor-qualified ("google/gemini-2.5-flash") and passed through.
const openRouterURL = "https://openrouter.ai/api/v1"

// openaiBackend speaks the chat completions API, which serves both OpenAI
// and OpenRouter.
type openaiBackend struct {
	client *openai.Client
}

func newOpenAI(vendor, key, model, baseURL string) (*sdkProvider, error) {
	if key == "" {
		return nil, missingKey(vendor)
	}
	conf := openai.DefaultConfig(key)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &sdkProvider{
		vendor: vendor,
		model:  model,
		b:      &openaiBackend{client: openai.NewClientWithConfig(conf)},
	}, nil
}

func (o *openaiBackend) send(ctx context.Context, model string, req Request) (reply, error) {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	chat := openai.ChatCompletionRequest{
		Model:               model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if s := req.Schema; s != nil {
		def, err := json.Marshal(s.Definition)
		if err != nil {
			return reply{}, fmt.Errorf("encode schema %q: %w", s.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        s.Name,
				Description: s.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return reply{}, err
	}
	r := reply{
		usage: Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens},
		model: resp.Model,
	}
	if len(resp.Choices) > 0 {
		r.text = resp.Choices[0].Message.Content
		r.truncated = resp.Choices[0].FinishReason == openai.FinishReasonLength
	}
	return r, nil
}

func (*openaiBackend) failure(err error) (int, time.Duration) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, 0
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, 0
	}
	return 0, 0
}
