package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore implements Store using the transactional outbox pattern.
// Events are written to the outbox table and shipped to Kafka by the outbox
// worker; Kafka is the source of truth for downstream consumers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL event store that writes to the outbox.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append writes an event to the outbox table.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	// Aggregate by bank when present, otherwise by customer.
	aggregateType, aggregateID := "bank", event.Bank
	if aggregateID == "" {
		aggregateType, aggregateID = "customer", event.Username
	}
	if aggregateID == "" {
		aggregateType, aggregateID = "registry", event.ID
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.ExecContext(ctx, query,
		event.ID, aggregateType, aggregateID, event.Type, payload, event.Timestamp,
	); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// ListRecent returns the most recent N outbox events, oldest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	query := `
		SELECT payload FROM (
			SELECT payload, created_at FROM outbox
			ORDER BY created_at DESC
			LIMIT $1
		) recent ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("unmarshal outbox payload: %w", err)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// EnsureSchema creates the outbox table when it does not exist. Dev and test
// convenience; production schemas are managed by migrations.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS outbox (
			id UUID PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			published_at TIMESTAMPTZ
		)
	`)
	return err
}
