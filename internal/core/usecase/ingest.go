package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
)

// IngestPublicationUseCase coordinates publication submission: store the
// document bytes, persist the row, and either finish synchronously (submitter
// supplied a description) or schedule the background summary task.
type IngestPublicationUseCase struct {
	pubs    ports.PublicationRepository
	users   ports.UserRepository
	tags    ports.TagRepository
	storage ports.ObjectStorage
	queue   ports.TaskQueue
	audit   ports.AuditSink
}

func NewIngestPublicationUseCase(
	pubs ports.PublicationRepository,
	users ports.UserRepository,
	tags ports.TagRepository,
	storage ports.ObjectStorage,
	queue ports.TaskQueue,
	audit ports.AuditSink,
) *IngestPublicationUseCase {
	return &IngestPublicationUseCase{
		pubs:    pubs,
		users:   users,
		tags:    tags,
		storage: storage,
		queue:   queue,
		audit:   audit,
	}
}

func (uc *IngestPublicationUseCase) Ingest(ctx context.Context, req ports.IngestRequest) (*domain.Publication, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest publication", errors.New("title is required"))
	}
	if req.FileName == "" || len(req.FileBytes) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest publication", errors.New("document file is required"))
	}

	submitter, err := uc.users.GetByUsername(ctx, req.Submitter)
	if err != nil {
		return nil, fmt.Errorf("resolve submitter: %w", err)
	}

	kind := domain.ContainerKindFor(req.FileName)

	// A fresh key per upload: re-uploading the same filename never collides.
	storageKey := fmt.Sprintf("%s/file_%s", submitter.Username, uuid.NewString())
	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(req.FileBytes)); err != nil {
		return nil, domain.WrapError(domain.ErrStorageIO, "store document", err)
	}

	description := req.Description
	needsSummary := strings.TrimSpace(description) == ""

	state := domain.SummaryNotNeeded
	if needsSummary {
		description = domain.DescriptionPending
		state = domain.SummaryPending
	}

	tagIDs, err := uc.tags.FilterExisting(ctx, req.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	now := time.Now().UTC()
	pub := &domain.Publication{
		Title:           req.Title,
		Description:     description,
		ScientificArea:  req.ScientificArea,
		PublicationDate: req.PublicationDate,
		Authors:         req.Authors,
		Submitter:       submitter.Username,
		Document: domain.Document{
			FileName:    req.FileName,
			StoragePath: storageKey,
			Kind:        kind,
		},
		SummaryState: state,
		Visible:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.pubs.Create(ctx, pub, tagIDs); err != nil {
		return nil, fmt.Errorf("create publication: %w", err)
	}

	recordAudit(ctx, uc.audit, domain.AuditRecord{
		Kind:        domain.EventPublicationCreated,
		Description: fmt.Sprintf("Publication created: %s with file: %s", pub.Title, req.FileName),
		EntityKind:  "Publication",
		EntityID:    pub.ID,
		Actor:       submitter.Username,
	})

	if needsSummary {
		uc.scheduleSummary(ctx, pub, storageKey, kind, submitter.Username)
	}
	return pub, nil
}

// scheduleSummary publishes the background job. A publish failure must not
// strand the row in pending with nothing coming, so it transitions straight
// to failed with the usual placeholder and audit record.
func (uc *IngestPublicationUseCase) scheduleSummary(ctx context.Context, pub *domain.Publication, storageKey string, kind domain.ContainerKind, submitter string) {
	err := uc.queue.PublishSummaryJob(ctx, domain.SummaryJob{
		PublicationID: pub.ID,
		StorageKey:    storageKey,
		Kind:          kind,
		Submitter:     submitter,
	})
	if err == nil {
		return
	}

	slog.Error("summary_job_publish_failed", "publication_id", pub.ID, "error", err)
	if updErr := uc.pubs.SetSummaryOutcome(ctx, pub.ID, domain.SummaryFailed, domain.DescriptionSummaryFailed); updErr != nil {
		slog.Error("summary_failed_write_error", "publication_id", pub.ID, "error", updErr)
	} else {
		pub.SummaryState = domain.SummaryFailed
		pub.Description = domain.DescriptionSummaryFailed
	}
	recordAudit(ctx, uc.audit, domain.AuditRecord{
		Kind:        domain.EventSummaryFailed,
		Description: fmt.Sprintf("Summary scheduling failed for publication %d: %v", pub.ID, err),
		EntityKind:  "Publication",
		EntityID:    pub.ID,
		Actor:       submitter,
	})
}

// recordAudit drops sink errors exactly once, here. Audit failures never
// abort the operation that produced them.
func recordAudit(ctx context.Context, sink ports.AuditSink, rec domain.AuditRecord) {
	if err := sink.Record(ctx, rec); err != nil {
		slog.Warn("audit_record_dropped", "kind", string(rec.Kind), "entity_id", rec.EntityID, "error", err)
	}
}
