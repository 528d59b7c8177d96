package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

func TestRecordFillsCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_log")).
		WithArgs("publication.created", "desc", "Publication", int64(12), "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewAuditRepository(db).Record(context.Background(), domain.AuditRecord{
		Kind:        domain.EventPublicationCreated,
		Description: "desc",
		EntityKind:  "Publication",
		EntityID:    12,
		Actor:       "alice",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListByEntityOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_log")).
		WithArgs("Publication", int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_kind", "description", "entity_kind", "entity_id", "actor", "created_at"}).
			AddRow(int64(1), "publication.created", "created", "Publication", int64(12), "alice", now).
			AddRow(int64(2), "publication.summary_generated", "summarized", "Publication", int64(12), "alice", now))

	records, err := NewAuditRepository(db).ListByEntity(context.Background(), "Publication", 12)
	if err != nil {
		t.Fatalf("ListByEntity() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Kind != domain.EventPublicationCreated || records[1].Kind != domain.EventSummaryGenerated {
		t.Errorf("record order = %q then %q, want created before summary", records[0].Kind, records[1].Kind)
	}
}
