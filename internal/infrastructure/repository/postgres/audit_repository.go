package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

// AuditRepository is the append-only history sink. Rows are never updated
// or deleted.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, rec domain.AuditRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO audit_log (event_kind, description, entity_kind, entity_id, actor, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, string(rec.Kind), rec.Description, rec.EntityKind, rec.EntityID, rec.Actor, createdAt)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// ListByEntity returns the trail for one entity, oldest first, so the
// created record always precedes the summary outcome record.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityKind string, entityID int64) ([]domain.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, event_kind, description, entity_kind, entity_id, actor, created_at
FROM audit_log
WHERE entity_kind = $1 AND entity_id = $2
ORDER BY id
`, entityKind, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var kind string
		if err := rows.Scan(&rec.ID, &kind, &rec.Description, &rec.EntityKind, &rec.EntityID, &rec.Actor, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.Kind = domain.EventKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}
