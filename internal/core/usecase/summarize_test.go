package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
)

func newSummaryFixture(extractor *fakeExtractor, summarizer *fakeSummarizer) (*SummaryTaskUseCase, *fakePubRepo, *fakeAudit) {
	pubs := newFakePubRepo()
	users := newFakeUserRepo(domain.User{Username: "alice", Role: domain.RoleCollaborator})
	audit := &fakeAudit{}
	uc := NewSummaryTaskUseCase(pubs, users, map[domain.ContainerKind]ports.TextExtractor{
		domain.KindPDF: extractor,
	}, summarizer, audit)
	return uc, pubs, audit
}

func TestSummaryTaskSuccess(t *testing.T) {
	extractor := &fakeExtractor{text: "Extracted body of the paper."}
	summarizer := &fakeSummarizer{summary: "A short summary."}
	uc, pubs, audit := newSummaryFixture(extractor, summarizer)

	err := uc.RunSummaryTask(context.Background(), 7, []byte("pdf bytes"), domain.KindPDF, "alice")
	if err != nil {
		t.Fatalf("RunSummaryTask() error = %v", err)
	}
	if summarizer.input != extractor.text {
		t.Errorf("summarizer received %q, want extracted text", summarizer.input)
	}

	if len(pubs.outcomes) != 1 {
		t.Fatalf("recorded %d outcome writes, want exactly 1", len(pubs.outcomes))
	}
	out := pubs.outcomes[0]
	if out.id != 7 || out.state != domain.SummaryCompleted || out.description != "A short summary." {
		t.Errorf("outcome = %+v, want id 7 completed with summary text", out)
	}
	if audit.lastKind() != domain.EventSummaryGenerated {
		t.Errorf("last audit kind = %q, want %q", audit.lastKind(), domain.EventSummaryGenerated)
	}
}

func TestSummaryServiceFailureMarksFailed(t *testing.T) {
	extractor := &fakeExtractor{text: "Extracted body."}
	summarizer := &fakeSummarizer{err: domain.ErrSummaryUnavailable}
	uc, pubs, audit := newSummaryFixture(extractor, summarizer)

	err := uc.RunSummaryTask(context.Background(), 7, []byte("pdf bytes"), domain.KindPDF, "alice")
	if err == nil {
		t.Fatal("RunSummaryTask() error = nil, want failure")
	}

	if len(pubs.outcomes) != 1 {
		t.Fatalf("recorded %d outcome writes, want exactly 1", len(pubs.outcomes))
	}
	out := pubs.outcomes[0]
	if out.state != domain.SummaryFailed || out.description != domain.DescriptionSummaryFailed {
		t.Errorf("outcome = %+v, want failed with summary placeholder", out)
	}

	if audit.lastKind() != domain.EventSummaryFailed {
		t.Fatalf("last audit kind = %q, want %q", audit.lastKind(), domain.EventSummaryFailed)
	}
	reason := audit.records[len(audit.records)-1].Description
	if !strings.Contains(reason, "unavailable") {
		t.Errorf("audit reason = %q, want the service error preserved", reason)
	}
}

func TestExtractionFailureSkipsSummarizer(t *testing.T) {
	extractor := &fakeExtractor{err: domain.ErrExtraction}
	summarizer := &fakeSummarizer{summary: "unused"}
	uc, pubs, _ := newSummaryFixture(extractor, summarizer)

	err := uc.RunSummaryTask(context.Background(), 7, []byte("broken"), domain.KindPDF, "alice")
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("RunSummaryTask() error = %v, want ErrExtraction", err)
	}
	if summarizer.calls != 0 {
		t.Errorf("summarizer called %d times, want 0", summarizer.calls)
	}
	if len(pubs.outcomes) != 1 || pubs.outcomes[0].description != domain.DescriptionExtractionFailed {
		t.Errorf("outcomes = %+v, want one failed write with extraction placeholder", pubs.outcomes)
	}
}

func TestBlankExtractedTextSkipsSummarizer(t *testing.T) {
	extractor := &fakeExtractor{text: "   \n\t "}
	summarizer := &fakeSummarizer{summary: "unused"}
	uc, pubs, _ := newSummaryFixture(extractor, summarizer)

	err := uc.RunSummaryTask(context.Background(), 7, []byte("blank"), domain.KindPDF, "alice")
	if err == nil {
		t.Fatal("RunSummaryTask() error = nil, want failure for blank text")
	}
	if summarizer.calls != 0 {
		t.Errorf("summarizer called %d times, want 0", summarizer.calls)
	}
	if len(pubs.outcomes) != 1 || pubs.outcomes[0].description != domain.DescriptionExtractionFailed {
		t.Errorf("outcomes = %+v, want one failed write with extraction placeholder", pubs.outcomes)
	}
}

func TestMissingExtractorMarksFailed(t *testing.T) {
	uc, pubs, _ := newSummaryFixture(&fakeExtractor{}, &fakeSummarizer{})

	err := uc.RunSummaryTask(context.Background(), 7, []byte("zip bytes"), domain.KindZIP, "alice")
	if err == nil {
		t.Fatal("RunSummaryTask() error = nil, want failure for unknown kind")
	}
	if len(pubs.outcomes) != 1 || pubs.outcomes[0].state != domain.SummaryFailed {
		t.Errorf("outcomes = %+v, want one failed write", pubs.outcomes)
	}
}

func TestSummaryTaskRecoversFromPanic(t *testing.T) {
	extractor := &fakeExtractor{panic: true}
	uc, pubs, audit := newSummaryFixture(extractor, &fakeSummarizer{})

	err := uc.RunSummaryTask(context.Background(), 7, []byte("evil"), domain.KindPDF, "alice")
	if err == nil {
		t.Fatal("RunSummaryTask() error = nil, want panic surfaced as error")
	}
	if len(pubs.outcomes) != 1 || pubs.outcomes[0].state != domain.SummaryFailed {
		t.Errorf("outcomes = %+v, want one failed write", pubs.outcomes)
	}
	if audit.lastKind() != domain.EventSummaryFailed {
		t.Errorf("last audit kind = %q, want %q", audit.lastKind(), domain.EventSummaryFailed)
	}
}

func TestAuditActorFallsBackToSystem(t *testing.T) {
	extractor := &fakeExtractor{text: "text"}
	summarizer := &fakeSummarizer{summary: "summary"}
	uc, _, audit := newSummaryFixture(extractor, summarizer)

	if err := uc.RunSummaryTask(context.Background(), 7, []byte("pdf"), domain.KindPDF, "ghost"); err != nil {
		t.Fatalf("RunSummaryTask() error = %v", err)
	}
	if actor := audit.records[len(audit.records)-1].Actor; actor != domain.SystemActor {
		t.Errorf("audit actor = %q, want %q for unresolvable submitter", actor, domain.SystemActor)
	}
}
