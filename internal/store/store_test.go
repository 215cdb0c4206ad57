package store

import (
	"context"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() == nil {
		t.Fatal("expected non-nil driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{
		tableSessionEvents, tableAnswerEvents, tablePredictorEvents, tableLLMEvents, "global_sequence",
	} {
		ok, err := tableExists(ctx, s.Driver(), name)
		if err != nil {
			t.Fatalf("table %s: %v", name, err)
		}
		if !ok {
			t.Errorf("table %s missing", name)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := migrate(context.Background(), s.Driver()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMigrationFillsDefaults(t *testing.T) {
	s := openTestStore(t)
	_, err := s.DB().Exec(`INSERT INTO session_events (sequence, timestamp, session_id, action) VALUES (99, 0, 's1', 'start')`)
	if err != nil {
		t.Fatalf("insert minimal row: %v", err)
	}

	var name, accepted string
	var asked int
	err = s.DB().QueryRow(`SELECT name, accepted, questions_asked FROM session_events WHERE sequence = 99`).
		Scan(&name, &accepted, &asked)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if name != "" || accepted != "[]" || asked != 0 {
		t.Errorf("defaults = (%q, %q, %d), want (\"\", \"[]\", 0)", name, accepted, asked)
	}

	_, err = s.DB().Exec(`INSERT INTO session_events (sequence, timestamp, session_id, action) VALUES (99, 0, 's2', 'start')`)
	if err == nil {
		t.Error("duplicate sequence accepted")
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	history := s.HistoryRepo()
	ctx := context.Background()

	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", Symptom: "cough", Answer: true}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendPredictorEvent(ctx, PredictorEventData{Endpoint: "/predict", Success: true}); err != nil {
		t.Fatal(err)
	}

	answers, err := history.QueryAnswers(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	calls, err := history.QueryPredictorEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 1 || len(calls) != 1 {
		t.Fatalf("got %d answers, %d calls", len(answers), len(calls))
	}
	if answers[0].Sequence >= calls[0].Sequence {
		t.Errorf("answer seq %d should precede predictor seq %d", answers[0].Sequence, calls[0].Sequence)
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	history := s.HistoryRepo()
	ctx := context.Background()

	start := SessionEventData{SessionID: "a", Action: ActionStart, Name: "Asha", Age: 30, Gender: "female"}
	if err := repo.AppendSessionEvent(ctx, start); err != nil {
		t.Fatal(err)
	}
	end := SessionEventData{
		SessionID:      "a",
		Action:         ActionEnd,
		Name:           "Asha",
		Age:            30,
		Gender:         "female",
		Outcome:        OutcomeConcluded,
		Disease:        "common_cold",
		Accepted:       []string{"cough", "fever", "headache"},
		Rejected:       []string{"rash"},
		QuestionsAsked: 5,
		DurationSecs:   42,
	}
	if err := repo.AppendSessionEvent(ctx, end); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "b", Action: ActionEnd, Outcome: OutcomeExhausted}); err != nil {
		t.Fatal(err)
	}

	got, err := history.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (start events excluded)", len(got))
	}
	if got[0].SessionID != "b" {
		t.Errorf("first = %q, want newest session b", got[0].SessionID)
	}
	if got[1].Disease != "common_cold" || got[1].QuestionsAsked != 5 {
		t.Errorf("record = %+v", got[1])
	}
	if len(got[1].Accepted) != 3 || got[1].Accepted[2] != "headache" {
		t.Errorf("accepted = %v", got[1].Accepted)
	}
	if len(got[0].Rejected) != 0 {
		t.Errorf("rejected = %v, want empty", got[0].Rejected)
	}

	limited, err := history.QuerySessionSummaries(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limited len = %d, want 1", len(limited))
	}
}

func TestGetSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.HistoryRepo().GetSession(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("expected nil for unknown session, got %+v", rec)
	}

	err = s.EventRepo().AppendSessionEvent(ctx, SessionEventData{
		SessionID: "x", Action: ActionEnd, Outcome: OutcomeFailed, Age: 61,
	})
	if err != nil {
		t.Fatal(err)
	}
	rec, err = s.HistoryRepo().GetSession(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.Outcome != OutcomeFailed || rec.Age != 61 {
		t.Errorf("record = %+v", rec)
	}
}

func TestQueryAnswersInOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s", Symptom: "chills", Answer: false, AcceptedCount: 3},
		{SessionID: "s", Symptom: "fatigue", Answer: true, AcceptedCount: 4},
		{SessionID: "other", Symptom: "cough", Answer: true, AcceptedCount: 4},
	}
	for _, a := range answers {
		if err := repo.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.HistoryRepo().QueryAnswers(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Symptom != "chills" || got[0].Answer {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Symptom != "fatigue" || !got[1].Answer || got[1].AcceptedCount != 4 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestPredictorEventsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, ep := range []string{"/predict", "/predict", "/get_data"} {
		err := repo.AppendPredictorEvent(ctx, PredictorEventData{
			Endpoint:     ep,
			StatusCode:   200,
			LatencyMs:    12,
			Success:      true,
			RequestBody:  `{"symptoms":[]}`,
			ResponseBody: `{}`,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.AppendPredictorEvent(ctx, PredictorEventData{Endpoint: "/predict", StatusCode: 500, ErrorMessage: "boom"}); err != nil {
		t.Fatal(err)
	}

	all, err := s.HistoryRepo().QueryPredictorEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].Success || all[0].ErrorMessage != "boom" || all[0].StatusCode != 500 {
		t.Errorf("newest = %+v", all[0])
	}
	if all[3].RequestBody != `{"symptoms":[]}` {
		t.Errorf("request body = %q", all[3].RequestBody)
	}

	after, err := s.HistoryRepo().QueryPredictorEvents(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 {
		t.Errorf("after filter len = %d, want 1", len(after))
	}

	future, err := s.HistoryRepo().QueryPredictorEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(future) != 0 {
		t.Errorf("from filter len = %d, want 0", len(future))
	}
}

func TestLLMRequests(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "mock",
		Model:        "m1",
		Purpose:      "insight",
		InputTokens:  10,
		OutputTokens: 20,
		LatencyMs:    5,
		Success:      true,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.HistoryRepo().QueryLLMRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Purpose != "insight" || got[0].OutputTokens != 20 || !got[0].Success {
		t.Errorf("record = %+v", got[0])
	}
}
