package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushhealth/ayushbot/internal/chatsvc"
	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/session"
	"github.com/ayushhealth/ayushbot/internal/symptom"
)

func defaultDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := DefaultDataset()
	require.NoError(t, err)
	return ds
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(defaultDataset(t)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestNeighbours(t *testing.T) {
	for n, want := range map[int]int{0: 5, 2: 5, 3: 3, 4: 3, 5: 2, 6: 2, 7: 1, 12: 1} {
		assert.Equal(t, want, Neighbours(n), "accepted=%d", n)
	}
}

func TestAgeGroup(t *testing.T) {
	assert.Equal(t, AgeChild, AgeGroup(8))
	assert.Equal(t, AgeTeen, AgeGroup(13))
	assert.Equal(t, AgeAdult, AgeGroup(34))
	assert.Equal(t, AgeSenior, AgeGroup(60))
}

func TestDatasetSymptomsCatalogued(t *testing.T) {
	for _, id := range defaultDataset(t).Symptoms() {
		assert.True(t, symptom.Known(id), id)
	}
}

func TestRankOrdering(t *testing.T) {
	ds := &Dataset{Profiles: []Profile{
		{Disease: "a", Symptoms: []string{"x", "y", "z", "p"}},
		{Disease: "b", Symptoms: []string{"x", "y", "q"}},
		{Disease: "c", Symptoms: []string{"w", "z"}},
	}}

	got := ds.Rank(predictor.Query{Symptoms: []string{"x", "y"}, Age: 30, Gender: "male"})
	assert.Equal(t, []string{"b", "a", "c"}, got.Diseases, "closest first")
	// z appears in two kept profiles, so it sorts after the singletons.
	assert.Equal(t, []string{"q", "p", "w", "z"}, got.Symptoms)

	got = ds.Rank(predictor.Query{Symptoms: []string{"x", "y"}, RejectedSymptoms: []string{"p"}, Age: 30})
	assert.Equal(t, []string{"q", "w", "z"}, got.Symptoms)
}

func TestRankNeverEchoesKnown(t *testing.T) {
	ds := defaultDataset(t)
	q := predictor.Query{
		Symptoms:         []string{"cough", "high_fever", "chills", "fatigue"},
		RejectedSymptoms: []string{"headache", "sweating"},
		Age:              40,
		Gender:           "male",
	}
	got := ds.Rank(q)
	assert.Len(t, got.Diseases, 3)
	for _, s := range got.Symptoms {
		assert.NotContains(t, q.Symptoms, s)
		assert.NotContains(t, q.RejectedSymptoms, s)
	}
}

func TestRankFiltersByGenderAndAge(t *testing.T) {
	ds := defaultDataset(t)
	uti := []string{"burning_micturition", "bladder_discomfort", "mild_fever"}

	got := ds.Rank(predictor.Query{Symptoms: uti, Age: 30, Gender: "female"})
	assert.Equal(t, "urinary_tract_infection", got.Diseases[0])

	got = ds.Rank(predictor.Query{Symptoms: uti, Age: 30, Gender: "male"})
	assert.NotContains(t, got.Diseases, "urinary_tract_infection")

	pox := []string{"itching", "skin_rash", "red_spots_over_body"}
	assert.Contains(t, ds.Rank(predictor.Query{Symptoms: pox, Age: 8}).Diseases, "chicken_pox")
	assert.NotContains(t, ds.Rank(predictor.Query{Symptoms: pox, Age: 30}).Diseases, "chicken_pox")
}

func TestPredictOverHTTP(t *testing.T) {
	srv := newServer(t)
	c := predictor.NewHTTPClient(srv.URL)

	got, err := c.Predict(context.Background(), predictor.Query{
		Symptoms: []string{"cough", "runny_nose", "continuous_sneezing"},
		Age:      34,
		Gender:   "female",
	})
	require.NoError(t, err)
	assert.Len(t, got.Diseases, 3)
	assert.NotEmpty(t, got.Symptoms)
}

func TestGetData(t *testing.T) {
	srv := newServer(t)
	c := predictor.NewHTTPClient(srv.URL)
	ctx := context.Background()

	b, err := c.Remedies(ctx, predictor.RemedyQuery{Disease: "common_cold", Age: 34, Gender: "female"})
	require.NoError(t, err)
	assert.Contains(t, b.Description, "viral infection")
	assert.NotEmpty(t, b.Yoga)

	// chicken_pox is only listed for children.
	_, err = c.Remedies(ctx, predictor.RemedyQuery{Disease: "chicken_pox", Age: 34, Gender: "male"})
	var se *predictor.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.JSONEq(t, `{"message":"No data found"}`, se.Body)
	assert.Equal(t, "No data found for this diagnosis.", predictor.Describe(err))

	_, err = c.Remedies(ctx, predictor.RemedyQuery{Disease: "chicken_pox", Age: 7, Gender: "male"})
	assert.NoError(t, err)
}

func TestBadRequest(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Post(srv.URL+predictor.PathPredict, "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+chatsvc.PathLogin, "application/json",
		bytes.NewBufferString(`{"email":"a@b.c","password":"pw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, Token, out["access_token"])

	resp2, err := http.Post(srv.URL+chatsvc.PathLogin, "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestChatRoundTrip(t *testing.T) {
	srv := newServer(t)
	c := chatsvc.New(srv.URL)
	ctx := context.Background()

	reply, err := c.Send(ctx, "I have had a headache since morning")
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "headaches")
	assert.NotEmpty(t, reply.FollowUp)

	h, err := c.History(ctx)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "user", h[0].Sender)
	assert.True(t, h[1].IsBot())

	require.NoError(t, c.Clear(ctx))
	h, err = c.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestReplyRules(t *testing.T) {
	assert.Equal(t, "Hello! How can I help you with your health today?", Reply("Hi there").Message)
	assert.Equal(t, fallbackReply, Reply("what about high blood pressure").Message, "'high' is not 'hi'")
	assert.Contains(t, Reply("Thanks!").Message, "You're welcome")
	assert.Contains(t, Reply("which symptoms matter").Message, "symptom checker")
}

func TestPingAllReachable(t *testing.T) {
	srv := newServer(t)
	statuses, err := chatsvc.New(srv.URL).Ping(context.Background())
	require.NoError(t, err)
	for _, p := range statuses {
		assert.True(t, p.Reachable(), "%s -> %d", p.Path, p.Status)
	}
}

// answerFor answers yes exactly when the symptom belongs to disease.
func answerFor(t *testing.T, ds *Dataset, disease string) func(string) bool {
	t.Helper()
	for _, p := range ds.Profiles {
		if p.Disease == disease {
			set := make(map[string]bool)
			for _, s := range p.Symptoms {
				set[s] = true
			}
			return func(s string) bool { return set[s] }
		}
	}
	t.Fatalf("no profile for %s", disease)
	return nil
}

func TestEndToEndConcludes(t *testing.T) {
	tests := []struct {
		disease string
		seeds   []string
	}{
		{"common_cold", []string{"cough", "runny_nose", "continuous_sneezing"}},
		{"gastroenteritis", []string{"vomiting", "diarrhoea", "nausea"}},
		{"migraine", []string{"headache", "stiff_neck", "visual_disturbances"}},
	}
	srv := newServer(t)
	ds := defaultDataset(t)

	for _, tt := range tests {
		t.Run(tt.disease, func(t *testing.T) {
			sess := session.New()
			sess.Name, sess.Age, sess.Gender = "Asha", 34, "female"
			require.NoError(t, sess.Seed(tt.seeds))

			loop := elicit.New(predictor.NewHTTPClient(srv.URL), sess)
			yes := answerFor(t, ds, tt.disease)
			ctx := context.Background()

			act, err := loop.Start(ctx)
			require.NoError(t, err)
			for i := 0; act.Kind == elicit.Ask; i++ {
				require.Less(t, i, 200, "loop does not terminate")
				act, err = loop.Answer(ctx, yes(act.Symptom))
				require.NoError(t, err)
			}

			require.Equal(t, elicit.Conclude, act.Kind, "state %s", loop.State())
			assert.Equal(t, tt.disease, act.Disease)
			assert.Greater(t, sess.AcceptedCount(), elicit.ConclusionThreshold)
		})
	}
}
