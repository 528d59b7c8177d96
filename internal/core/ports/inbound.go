package ports

import (
	"context"
	"time"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

// IngestRequest carries everything a submitter provides for a new publication.
type IngestRequest struct {
	Title           string
	Description     string
	ScientificArea  string
	PublicationDate time.Time
	Authors         []string
	TagIDs          []int64
	Submitter       string
	FileName        string
	FileBytes       []byte
}

// PublicationIngestor is the inbound contract for publication submission.
// The returned publication is already persisted and queryable; when its
// summary state is pending the summarization runs in the background.
type PublicationIngestor interface {
	Ingest(ctx context.Context, req IngestRequest) (*domain.Publication, error)
}

// SummaryProcessor executes the background summarization pass for one
// pending publication. It never propagates a failure to its scheduler: every
// failure path inside ends in a terminal state plus an audit record.
type SummaryProcessor interface {
	RunSummaryTask(ctx context.Context, publicationID int64, data []byte, kind domain.ContainerKind, submitter string) error
}

// PublicationReader is the inbound read model.
type PublicationReader interface {
	GetByID(ctx context.Context, id int64, actor string) (*domain.Publication, error)
	List(ctx context.Context, actor, search, area string) ([]domain.Publication, error)
	Trail(ctx context.Context, id int64, actor string) ([]domain.AuditRecord, error)
}

// PublicationEditor covers the manual, synchronous update paths. These are
// deliberately outside the async pipeline.
type PublicationEditor interface {
	UpdateDescription(ctx context.Context, id int64, description, actor string) error
	SetVisibility(ctx context.Context, id int64, visible bool, actor string) error
}
