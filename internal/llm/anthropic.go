package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

type anthropicBackend struct {
	client anthropic.Client
}

// newAnthropic builds the Anthropic provider. opts are appended to the
// client options, which is how tests point it at a local server.
func newAnthropic(cfg AnthropicConfig, opts ...option.RequestOption) (*sdkProvider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey("anthropic")
	}
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &sdkProvider{
		vendor: "anthropic",
		model:  modelID(cfg.Model, anthropicModels),
		b:      &anthropicBackend{client: anthropic.NewClient(opts...)},
	}, nil
}

func (a *anthropicBackend) send(ctx context.Context, model string, req Request) (reply, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return reply{}, err
	}
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return reply{
		text:      text.String(),
		usage:     Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)},
		model:     string(msg.Model),
		truncated: msg.StopReason == anthropic.StopReasonMaxTokens,
	}, nil
}

func (*anthropicBackend) failure(err error) (int, time.Duration) {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return 0, 0
	}
	var wait time.Duration
	if apiErr.Response != nil {
		wait = retryAfter(apiErr.Response.Header)
	}
	return apiErr.StatusCode, wait
}
