package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableSessionEvents   = "session_events"
	tableAnswerEvents    = "answer_events"
	tablePredictorEvents = "predictor_events"
	tableLLMEvents       = "llm_request_events"
	tableSequence        = "global_sequence"
)

// Column constructors. Every column is NOT NULL; optional ones carry a
// zero default instead.
func text(name string) *schema.Column { return &schema.Column{Name: name, Type: field.TypeString} }

func textOr(name, def string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: def}
}

func integer(name string) *schema.Column { return &schema.Column{Name: name, Type: field.TypeInt64} }

func integerOr0(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt64, Default: 0}
}

func boolean(name string) *schema.Column { return &schema.Column{Name: name, Type: field.TypeBool} }

// eventTable starts a table with the columns every event shares: a row id,
// the global sequence number and a unix-millisecond timestamp.
func eventTable(name string, cols ...*schema.Column) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := schema.NewTable(name).
		AddPrimary(id).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}).
		AddColumn(integer("timestamp"))
	for _, c := range cols {
		t.AddColumn(c)
	}
	return t.AddIndex(name+"_timestamp", false, []string{"timestamp"})
}

func tables() []*schema.Table {
	sessions := eventTable(tableSessionEvents,
		text("session_id"),
		text("action"),
		textOr("name", ""),
		integerOr0("age"),
		textOr("gender", ""),
		textOr("outcome", ""),
		textOr("disease", ""),
		textOr("accepted", "[]"),
		textOr("rejected", "[]"),
		integerOr0("questions_asked"),
		integerOr0("duration_secs"),
	).AddIndex(tableSessionEvents+"_session_id", false, []string{"session_id"})

	answers := eventTable(tableAnswerEvents,
		text("session_id"),
		text("symptom"),
		integer("answer"),
		integerOr0("accepted_count"),
	).AddIndex(tableAnswerEvents+"_session_id", false, []string{"session_id"})

	predictor := eventTable(tablePredictorEvents,
		text("endpoint"),
		integerOr0("status_code"),
		integerOr0("latency_ms"),
		boolean("success"),
		textOr("error_message", ""),
		textOr("request_body", ""),
		textOr("response_body", ""),
	)

	llm := eventTable(tableLLMEvents,
		text("provider"),
		text("model"),
		textOr("purpose", ""),
		integerOr0("input_tokens"),
		integerOr0("output_tokens"),
		integerOr0("latency_ms"),
		boolean("success"),
		textOr("error_message", ""),
		textOr("request_body", ""),
		textOr("response_body", ""),
	)

	// One row, id 1, seeded by newSequenceCounter.
	sequence := schema.NewTable(tableSequence).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "next_val", Type: field.TypeInt64, Default: 1})

	return []*schema.Table{sessions, answers, predictor, llm, sequence}
}

// migrate creates missing tables and appends missing columns. It never
// drops anything.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(false))
	if err != nil {
		return fmt.Errorf("prepare migration: %w", err)
	}
	return m.Create(ctx, tables()...)
}

// tableExists reports whether name is a table in the database.
func tableExists(ctx context.Context, drv *entsql.Driver, name string) (bool, error) {
	q, args := entsql.Dialect(drv.Dialect()).
		Select("name").
		From(entsql.Table("sqlite_master")).
		Where(entsql.And(entsql.EQ("type", "table"), entsql.EQ("name", name))).
		Query()

	var rows entsql.Rows
	if err := drv.Query(ctx, q, args, &rows); err != nil {
		return false, fmt.Errorf("query sqlite_master: %w", err)
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}
