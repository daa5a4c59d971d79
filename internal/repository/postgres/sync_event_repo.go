package postgres

import (
	"context"

	"tienda-backend/internal/domain"

	"github.com/google/uuid"
)

type syncEventRepository struct {
	db DBTX
}

func NewSyncEventRepository(db DBTX) domain.SyncLedger {
	return &syncEventRepository{db: db}
}

func (r *syncEventRepository) Record(ctx context.Context, e *domain.SyncEvent) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		id = uuid.New()
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO sync_events (id, request_id, entity, operation, local_key, success, external_id, external, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, e.RequestID, e.Entity, string(e.Operation), e.LocalKey, e.Success, e.ExternalID, string(e.External), e.Message, e.CreatedAt,
	)
	return err
}

func (r *syncEventRepository) List(ctx context.Context, filter domain.SyncEventFilter) ([]domain.SyncEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, entity, operation, local_key, success, external_id, external, message, created_at
		FROM sync_events
		WHERE ($1 = '' OR entity = $1)
		ORDER BY created_at DESC
		LIMIT $2`,
		filter.Entity, filter.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.SyncEvent{}
	for rows.Next() {
		var (
			e         domain.SyncEvent
			id        uuid.UUID
			operation string
			external  string
		)
		if err := rows.Scan(&id, &e.RequestID, &e.Entity, &operation, &e.LocalKey, &e.Success, &e.ExternalID, &external, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.Operation = domain.Operation(operation)
		e.External = domain.ExternalOutcome(external)
		events = append(events, e)
	}
	return events, rows.Err()
}

// noopLedger is used when no database is configured.
type noopLedger struct{}

func NewNoopLedger() domain.SyncLedger { return noopLedger{} }

func (noopLedger) Record(context.Context, *domain.SyncEvent) error { return nil }

func (noopLedger) List(context.Context, domain.SyncEventFilter) ([]domain.SyncEvent, error) {
	return []domain.SyncEvent{}, nil
}
