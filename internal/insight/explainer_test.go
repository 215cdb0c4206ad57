package insight

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushhealth/ayushbot/internal/llm"
)

func input() Input {
	return Input{
		Name:        "Asha",
		Age:         34,
		Gender:      "female",
		Disease:     "common_cold",
		Description: "A viral infection.",
		Accepted:    []string{"cough", "runny_nose"},
		Rejected:    []string{"high_fever"},
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"summary": "  A mild viral infection. ",
		"see_doctor": true,
		"follow_up": ["How long does it last?", " ", "Is it contagious?", "What should I eat?", "Can I exercise?"]
	}`)})

	got, err := New(mock).Explain(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "A mild viral infection.", got.Summary)
	assert.True(t, got.SeeDoctor)
	assert.Equal(t, []string{"How long does it last?", "Is it contagious?", "What should I eat?"}, got.FollowUp)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, Schema, req.Schema)
	assert.Contains(t, req.System, "not a replacement for professional medical advice")
	msg := req.Prompt
	assert.Contains(t, msg, "Likely condition: Common Cold")
	assert.Contains(t, msg, "Reported symptoms: Cough, Runny Nose")
	assert.Contains(t, msg, "Symptoms the user does not have: High Fever")
}

func TestExplainErrors(t *testing.T) {
	_, err := New(llm.NewMockProvider()).Explain(context.Background(), Input{})
	assert.Error(t, err, "no disease")

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":"","see_doctor":false,"follow_up":[]}`)})
	_, err = New(mock).Explain(context.Background(), input())
	assert.ErrorIs(t, err, ErrEmptySummary)

	_, err = New(llm.NewMockProvider()).Explain(context.Background(), input())
	var un *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &un)
}

func TestExplainTimeout(t *testing.T) {
	_, err := New(stallingProvider{}, WithTimeout(10*time.Millisecond)).Explain(context.Background(), input())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// stallingProvider never answers before the context ends.
type stallingProvider struct{}

func (stallingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stallingProvider) ModelID() string { return "stalling" }

func TestLines(t *testing.T) {
	in := &Insight{Summary: "Rest and fluids help.", FollowUp: []string{"Is it contagious?"}}
	assert.Equal(t, []string{
		"About your condition: Rest and fluids help.",
		"You could also ask me:",
		"  • Is it contagious?",
	}, in.Lines())

	in = &Insight{Summary: "See someone.", SeeDoctor: true}
	assert.Len(t, in.Lines(), 2)
}
