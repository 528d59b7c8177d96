package domain

import (
	"strings"
	"time"
)

// SummaryState is the explicit lifecycle of a publication's AI summary.
// Pending is the only non-terminal state; the worker transitions out of it
// exactly once.
type SummaryState string

const (
	SummaryNotNeeded SummaryState = "not_needed"
	SummaryPending   SummaryState = "pending"
	SummaryCompleted SummaryState = "completed"
	SummaryFailed    SummaryState = "failed"
)

// ContainerKind tells whether an uploaded file is one parseable document or
// an archive bundling several of them.
type ContainerKind string

const (
	KindPDF ContainerKind = "pdf"
	KindZIP ContainerKind = "zip"
)

// ContainerKindFor infers the container kind from the upload filename.
// Anything that is not a .pdf is treated as an archive.
func ContainerKindFor(filename string) ContainerKind {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return KindPDF
	}
	return KindZIP
}

// Descriptions written by the pipeline. State is never inferred from these
// strings; SummaryState is the source of truth.
const (
	DescriptionPending          = "Generating summary... please wait"
	DescriptionExtractionFailed = "Could not extract text from the document. Please add a description manually."
	DescriptionSummaryFailed    = "Automatic summary unavailable. Please add a description manually."
)

// Document is the uploaded artifact, owned exclusively by its publication.
type Document struct {
	FileName    string        `json:"file_name"`
	StoragePath string        `json:"-"`
	Kind        ContainerKind `json:"container_kind"`
}

type Publication struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ScientificArea  string       `json:"scientific_area"`
	PublicationDate time.Time    `json:"publication_date"`
	Authors         []string     `json:"authors"`
	Submitter       string       `json:"submitter"`
	Document        Document     `json:"document"`
	SummaryState    SummaryState `json:"summary_state"`
	Visible         bool         `json:"visible"`
	Tags            []Tag        `json:"tags,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SummaryJob is the payload carried from the api to the worker for one
// pending publication.
type SummaryJob struct {
	PublicationID int64         `json:"publication_id"`
	StorageKey    string        `json:"storage_key"`
	Kind          ContainerKind `json:"container_kind"`
	Submitter     string        `json:"submitter"`
}
