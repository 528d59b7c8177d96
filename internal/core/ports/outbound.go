package ports

import (
	"context"
	"io"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

// PublicationRepository persists and reads publication state.
type PublicationRepository interface {
	// Create persists the publication together with its document reference
	// and tag associations in a single atomic unit and assigns the id.
	Create(ctx context.Context, pub *domain.Publication, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Publication, error)
	List(ctx context.Context, visibleOnly bool, search, area string) ([]domain.Publication, error)
	// SetSummaryOutcome performs the single transition out of pending.
	SetSummaryOutcome(ctx context.Context, id int64, state domain.SummaryState, description string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	SetVisibility(ctx context.Context, id int64, visible bool) error
}

// UserRepository resolves submitters and actors.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TagRepository supports best-effort tag association at ingest time.
type TagRepository interface {
	// FilterExisting returns the subset of ids that exist, preserving order.
	FilterExisting(ctx context.Context, ids []int64) ([]int64, error)
}

// AuditSink appends one record per pipeline milestone. Implementations may
// fail; callers swallow the error exactly once at the call site.
type AuditSink interface {
	Record(ctx context.Context, rec domain.AuditRecord) error
}

// AuditTrailReader serves the per-entity history, oldest record first.
type AuditTrailReader interface {
	ListByEntity(ctx context.Context, entityKind string, entityID int64) ([]domain.AuditRecord, error)
}

// ObjectStorage stores uploaded document bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// TaskQueue hands summary jobs from the api to the worker.
type TaskQueue interface {
	PublishSummaryJob(ctx context.Context, job domain.SummaryJob) error
	SubscribeSummaryJobs(ctx context.Context, handler func(context.Context, domain.SummaryJob) error) error
}

// TextExtractor turns raw document bytes into plain text for one container
// kind. A document that cannot be parsed is an error, not a panic.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Summarizer is the boundary to the external AI text-summarization service.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
