package db

import (
	"context"
	"fmt"
	"marketplace/entities"
)

type IEventArchiveRepository interface {
	Store(ctx context.Context, event entities.ArchivedEvent) error
	GetAll(ctx context.Context) ([]entities.ArchivedEvent, error)
}

// EventArchiveRepository is the data lake: every published domain event
// lands here untouched. It exists for audits and for reconciling or
// rebuilding read models after the fact.
type EventArchiveRepository struct {
	db *DB
}

func NewEventArchiveRepository(db *DB) EventArchiveRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventArchiveRepository{
		db: db,
	}
}

func (r EventArchiveRepository) Store(ctx context.Context, event entities.ArchivedEvent) error {
	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO
		    data_lake_events (event_id, published_at, event_name, event_payload)
		VALUES
			 ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING; -- at-least-once delivery
`, event.EventID, event.PublishedAt, event.EventName, event.Payload)
	if err != nil {
		return fmt.Errorf("could not archive event: %w", err)
	}

	return nil
}

func (r EventArchiveRepository) GetAll(ctx context.Context) ([]entities.ArchivedEvent, error) {
	var events []entities.ArchivedEvent
	err := r.db.Conn.SelectContext(ctx, &events, `
		SELECT
		    *
		FROM
		    data_lake_events
		ORDER BY published_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("could not get archived events: %w", err)
	}

	return events, nil
}
