package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendPredictorEvent(ctx context.Context, data PredictorEventData) error {
	err := r.insert(ctx, tablePredictorEvents,
		[]string{"endpoint", "status_code", "latency_ms", "success", "error_message", "request_body", "response_body"},
		[]any{data.Endpoint, data.StatusCode, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody},
	)
	if err != nil {
		return fmt.Errorf("save predictor event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPredictorEvents(ctx context.Context, opts QueryOpts) ([]PredictorEventRecord, error) {
	sel := r.selectEvents(tablePredictorEvents, opts,
		"id", "endpoint", "status_code", "latency_ms", "success", "error_message", "request_body", "response_body")

	var records []PredictorEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec PredictorEventRecord
			ts  int64
		)
		err := rows.Scan(&rec.Sequence, &ts, &rec.ID, &rec.Endpoint, &rec.StatusCode, &rec.LatencyMs,
			&rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody)
		if err != nil {
			return err
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query predictor events: %w", err)
	}
	return records, nil
}
