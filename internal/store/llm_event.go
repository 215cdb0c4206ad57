package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, tableLLMEvents,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message",
			"request_body", "response_body"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := r.selectEvents(tableLLMEvents, opts,
		"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message",
		"request_body", "response_body")

	var records []LLMRequestEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec LLMRequestEventRecord
			ts  int64
		)
		err := rows.Scan(&rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose,
			&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
			&rec.RequestBody, &rec.ResponseBody)
		if err != nil {
			return err
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	return records, nil
}
