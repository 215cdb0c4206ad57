package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"session_id", "name", "age", "gender", "outcome", "disease",
	"accepted", "rejected", "questions_asked", "duration_secs",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	accepted, err := marshalList(data.Accepted)
	if err != nil {
		return fmt.Errorf("marshal accepted: %w", err)
	}
	rejected, err := marshalList(data.Rejected)
	if err != nil {
		return fmt.Errorf("marshal rejected: %w", err)
	}

	err = r.insert(ctx, tableSessionEvents,
		[]string{"session_id", "action", "name", "age", "gender", "outcome", "disease",
			"accepted", "rejected", "questions_asked", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Name, data.Age, data.Gender, data.Outcome, data.Disease,
			accepted, rejected, data.QuestionsAsked, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, tableAnswerEvents,
		[]string{"session_id", "symptom", "answer", "accepted_count"},
		[]any{data.SessionID, data.Symptom, data.Answer, data.AcceptedCount},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := r.selectEvents(tableSessionEvents, opts, sessionColumns...).
		Where(entsql.EQ("action", ActionEnd))

	var records []SessionSummaryRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		rec, err := scanSession(rows)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return records, nil
}

func (r *eventRepo) GetSession(ctx context.Context, sessionID string) (*SessionSummaryRecord, error) {
	sel := r.selectEvents(tableSessionEvents, QueryOpts{Limit: 1}, sessionColumns...).
		Where(entsql.And(
			entsql.EQ("action", ActionEnd),
			entsql.EQ("session_id", sessionID),
		))

	var found *SessionSummaryRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		rec, err := scanSession(rows)
		if err != nil {
			return err
		}
		found = &rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return found, nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string) ([]AnswerEventRecord, error) {
	b := r.builder()
	sel := b.Select("sequence", "timestamp", "session_id", "symptom", "answer", "accepted_count").
		From(b.Table(tableAnswerEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence")

	var records []AnswerEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec AnswerEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.Symptom, &rec.Answer, &rec.AcceptedCount); err != nil {
			return err
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return records, nil
}

func scanSession(rows *entsql.Rows) (SessionSummaryRecord, error) {
	var (
		rec                SessionSummaryRecord
		ts                 int64
		accepted, rejected string
	)
	err := rows.Scan(&rec.Sequence, &ts,
		&rec.SessionID, &rec.Name, &rec.Age, &rec.Gender, &rec.Outcome, &rec.Disease,
		&accepted, &rejected, &rec.QuestionsAsked, &rec.DurationSecs)
	if err != nil {
		return rec, err
	}
	rec.Timestamp = fromMillis(ts)
	if err := json.Unmarshal([]byte(accepted), &rec.Accepted); err != nil {
		return rec, fmt.Errorf("decode accepted: %w", err)
	}
	if err := json.Unmarshal([]byte(rejected), &rec.Rejected); err != nil {
		return rec, fmt.Errorf("decode rejected: %w", err)
	}
	return rec, nil
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}
