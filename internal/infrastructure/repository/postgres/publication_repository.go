package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

type PublicationRepository struct {
	db *sql.DB
}

func NewPublicationRepository(db *sql.DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *PublicationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS publications (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	scientific_area TEXT NOT NULL,
	publication_date DATE NOT NULL,
	authors JSONB NOT NULL DEFAULT '[]'::jsonb,
	submitter TEXT NOT NULL REFERENCES users(username),
	file_name TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	container_kind TEXT NOT NULL,
	summary_state TEXT NOT NULL,
	visible BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_publications_summary_state ON publications(summary_state);
CREATE INDEX IF NOT EXISTS idx_publications_publication_date ON publications(publication_date DESC);

CREATE TABLE IF NOT EXISTS publication_tags (
	publication_id BIGINT NOT NULL REFERENCES publications(id) ON DELETE CASCADE,
	tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (publication_id, tag_id)
);

CREATE TABLE IF NOT EXISTS audit_log (
	id BIGSERIAL PRIMARY KEY,
	event_kind TEXT NOT NULL,
	description TEXT NOT NULL,
	entity_kind TEXT NOT NULL,
	entity_id BIGINT NOT NULL,
	actor TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_kind, entity_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Create persists the publication row and its tag associations in one
// transaction: an aborted write leaves neither behind.
func (r *PublicationRepository) Create(ctx context.Context, pub *domain.Publication, tagIDs []int64) error {
	authorsJSON, err := json.Marshal(authorsOrEmpty(pub.Authors))
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err = tx.QueryRowContext(ctx, `
INSERT INTO publications (
	title, description, scientific_area, publication_date, authors, submitter,
	file_name, storage_path, container_kind, summary_state, visible, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
RETURNING id
`,
		pub.Title, pub.Description, pub.ScientificArea, pub.PublicationDate, authorsJSON, pub.Submitter,
		pub.Document.FileName, pub.Document.StoragePath, string(pub.Document.Kind),
		string(pub.SummaryState), pub.Visible, pub.CreatedAt, pub.UpdatedAt,
	).Scan(&pub.ID)
	if err != nil {
		return fmt.Errorf("insert publication: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO publication_tags (publication_id, tag_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, pub.ID, tagID); err != nil {
			return fmt.Errorf("associate tag %d: %w", tagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (*domain.Publication, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, scientific_area, publication_date, authors, submitter,
	file_name, storage_path, container_kind, summary_state, visible, created_at, updated_at
FROM publications
WHERE id = $1
`, id)

	pub, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get publication", fmt.Errorf("publication %d", id))
		}
		return nil, fmt.Errorf("scan publication: %w", err)
	}

	tags, err := r.loadTags(ctx, id)
	if err != nil {
		return nil, err
	}
	pub.Tags = tags
	return pub, nil
}

func (r *PublicationRepository) List(ctx context.Context, visibleOnly bool, search, area string) ([]domain.Publication, error) {
	query := `
SELECT id, title, description, scientific_area, publication_date, authors, submitter,
	file_name, storage_path, container_kind, summary_state, visible, created_at, updated_at
FROM publications
WHERE 1=1`
	var args []any
	argIdx := 1

	if visibleOnly {
		query += " AND visible = TRUE"
	}
	if search != "" {
		query += fmt.Sprintf(" AND (LOWER(title) LIKE LOWER($%d) OR LOWER(description) LIKE LOWER($%d))", argIdx, argIdx)
		args = append(args, "%"+search+"%")
		argIdx++
	}
	if area != "" {
		query += fmt.Sprintf(" AND scientific_area = $%d", argIdx)
		args = append(args, area)
		argIdx++
	}
	query += " ORDER BY publication_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var pubs []domain.Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		pubs = append(pubs, *pub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publications: %w", err)
	}
	return pubs, nil
}

// SetSummaryOutcome performs the single transition out of pending. A row
// that is missing or already terminal is not transitioned again.
func (r *PublicationRepository) SetSummaryOutcome(ctx context.Context, id int64, state domain.SummaryState, description string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE publications
SET summary_state = $2, description = $3, updated_at = $4
WHERE id = $1 AND summary_state = $5
`, id, string(state), description, time.Now().UTC(), string(domain.SummaryPending))
	if err != nil {
		return fmt.Errorf("set summary outcome: %w", err)
	}
	return requireRow(res, "set summary outcome", id)
}

func (r *PublicationRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE publications
SET description = $2, updated_at = $3
WHERE id = $1
`, id, description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	return requireRow(res, "update description", id)
}

func (r *PublicationRepository) SetVisibility(ctx context.Context, id int64, visible bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE publications
SET visible = $2, updated_at = $3
WHERE id = $1
`, id, visible, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	return requireRow(res, "set visibility", id)
}

func (r *PublicationRepository) loadTags(ctx context.Context, publicationID int64) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.name
FROM tags t
JOIN publication_tags pt ON pt.tag_id = t.id
WHERE pt.publication_id = $1
ORDER BY t.name
`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPublication(row rowScanner) (*domain.Publication, error) {
	var pub domain.Publication
	var authorsRaw []byte
	var kind, state string

	err := row.Scan(
		&pub.ID, &pub.Title, &pub.Description, &pub.ScientificArea, &pub.PublicationDate,
		&authorsRaw, &pub.Submitter, &pub.Document.FileName, &pub.Document.StoragePath,
		&kind, &state, &pub.Visible, &pub.CreatedAt, &pub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(authorsRaw, &pub.Authors); err != nil {
		return nil, fmt.Errorf("unmarshal authors: %w", err)
	}
	pub.Document.Kind = domain.ContainerKind(kind)
	pub.SummaryState = domain.SummaryState(state)
	return &pub, nil
}

func requireRow(res sql.Result, operation string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, operation, fmt.Errorf("publication %d", id))
	}
	return nil
}

func authorsOrEmpty(authors []string) []string {
	if authors == nil {
		return []string{}
	}
	return authors
}
