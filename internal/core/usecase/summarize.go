package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
)

// SummaryTaskUseCase executes the single summarization pass for a pending
// publication: extract text, call the summarization service, and transition
// the row to completed or failed. Every failure path ends in exactly one
// terminal-state write and one audit record; nothing escapes to the scheduler.
type SummaryTaskUseCase struct {
	pubs       ports.PublicationRepository
	users      ports.UserRepository
	extractors map[domain.ContainerKind]ports.TextExtractor
	summarizer ports.Summarizer
	audit      ports.AuditSink
}

func NewSummaryTaskUseCase(
	pubs ports.PublicationRepository,
	users ports.UserRepository,
	extractors map[domain.ContainerKind]ports.TextExtractor,
	summarizer ports.Summarizer,
	audit ports.AuditSink,
) *SummaryTaskUseCase {
	return &SummaryTaskUseCase{
		pubs:       pubs,
		users:      users,
		extractors: extractors,
		summarizer: summarizer,
		audit:      audit,
	}
}

// RunSummaryTask runs off the request path. The returned error is for worker
// logs and metrics only; by the time it returns, the publication is already
// in a terminal state with its audit record written.
func (uc *SummaryTaskUseCase) RunSummaryTask(ctx context.Context, publicationID int64, data []byte, kind domain.ContainerKind, submitter string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("summary_task_panic", "publication_id", publicationID, "panic", r)
			uc.fail(ctx, publicationID, submitter, domain.DescriptionSummaryFailed,
				fmt.Sprintf("panic during summarization: %v", r))
			err = fmt.Errorf("summary task panic: %v", r)
		}
	}()

	extractor, ok := uc.extractors[kind]
	if !ok {
		uc.fail(ctx, publicationID, submitter, domain.DescriptionExtractionFailed,
			fmt.Sprintf("no extractor for container kind %q", kind))
		return fmt.Errorf("no extractor for kind %q", kind)
	}

	text, extractErr := extractor.Extract(ctx, data)
	if extractErr != nil || strings.TrimSpace(text) == "" {
		reason := "document yielded no text"
		if extractErr != nil {
			reason = extractErr.Error()
		}
		// The summarizer is never called with blank input.
		uc.fail(ctx, publicationID, submitter, domain.DescriptionExtractionFailed,
			fmt.Sprintf("text extraction failed: %s", reason))
		return domain.WrapError(domain.ErrExtraction, "run summary task", fmt.Errorf("%s", reason))
	}

	summary, sumErr := uc.summarizer.Summarize(ctx, text)
	if sumErr != nil {
		uc.fail(ctx, publicationID, submitter, domain.DescriptionSummaryFailed,
			fmt.Sprintf("summary generation failed: %v", sumErr))
		return fmt.Errorf("run summary task: %w", sumErr)
	}

	if err := uc.pubs.SetSummaryOutcome(ctx, publicationID, domain.SummaryCompleted, summary); err != nil {
		slog.Error("summary_completed_write_error", "publication_id", publicationID, "error", err)
		return fmt.Errorf("write summary outcome: %w", err)
	}

	recordAudit(ctx, uc.audit, domain.AuditRecord{
		Kind:        domain.EventSummaryGenerated,
		Description: fmt.Sprintf("AI summary generated for publication %d", publicationID),
		EntityKind:  "Publication",
		EntityID:    publicationID,
		Actor:       uc.resolveActor(ctx, submitter),
	})
	return nil
}

// fail performs the single pending -> failed transition plus its audit record.
func (uc *SummaryTaskUseCase) fail(ctx context.Context, publicationID int64, submitter, description, reason string) {
	if err := uc.pubs.SetSummaryOutcome(ctx, publicationID, domain.SummaryFailed, description); err != nil {
		slog.Error("summary_failed_write_error", "publication_id", publicationID, "error", err)
	}
	recordAudit(ctx, uc.audit, domain.AuditRecord{
		Kind:        domain.EventSummaryFailed,
		Description: fmt.Sprintf("Summary failed for publication %d: %s", publicationID, reason),
		EntityKind:  "Publication",
		EntityID:    publicationID,
		Actor:       uc.resolveActor(ctx, submitter),
	})
}

// resolveActor attributes records to the submitter when resolvable, otherwise
// to the system.
func (uc *SummaryTaskUseCase) resolveActor(ctx context.Context, submitter string) string {
	user, err := uc.users.GetByUsername(ctx, submitter)
	if err != nil {
		return domain.SystemActor
	}
	return user.Username
}
