package postgres

import (
	"context"
	"errors"

	"tienda-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type linkRepository struct {
	db DBTX
}

// NewLinkRepository persists discovered document -> commerce id links.
func NewLinkRepository(db DBTX) domain.LinkStore {
	return &linkRepository{db: db}
}

func (r *linkRepository) GetLink(ctx context.Context, entity, documentID string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT external_id FROM external_links WHERE entity = $1 AND document_id = $2`,
		entity, documentID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *linkRepository) SaveLink(ctx context.Context, entity, documentID string, externalID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO external_links (entity, document_id, external_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (entity, document_id)
		DO UPDATE SET external_id = EXCLUDED.external_id, updated_at = now()`,
		entity, documentID, externalID,
	)
	return err
}

func (r *linkRepository) DeleteLink(ctx context.Context, entity, documentID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM external_links WHERE entity = $1 AND document_id = $2`,
		entity, documentID,
	)
	return err
}
