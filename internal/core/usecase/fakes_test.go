package usecase

import (
	"bytes"
	"context"
	"io"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

type outcomeCall struct {
	id          int64
	state       domain.SummaryState
	description string
}

type fakePubRepo struct {
	created     []*domain.Publication
	createErr   error
	byID        map[int64]*domain.Publication
	getErr      error
	outcomes    []outcomeCall
	outcomeErr  error
	updates     map[int64]string
	visibility  map[int64]bool
	listResult  []domain.Publication
	listVisible bool
	listSearch  string
	listArea    string
}

func newFakePubRepo() *fakePubRepo {
	return &fakePubRepo{
		byID:       make(map[int64]*domain.Publication),
		updates:    make(map[int64]string),
		visibility: make(map[int64]bool),
	}
}

func (f *fakePubRepo) Create(_ context.Context, pub *domain.Publication, _ []int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	pub.ID = int64(len(f.created) + 1)
	f.created = append(f.created, pub)
	f.byID[pub.ID] = pub
	return nil
}

func (f *fakePubRepo) GetByID(_ context.Context, id int64) (*domain.Publication, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	pub, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pub, nil
}

func (f *fakePubRepo) List(_ context.Context, visibleOnly bool, search, area string) ([]domain.Publication, error) {
	f.listVisible = visibleOnly
	f.listSearch = search
	f.listArea = area
	return f.listResult, nil
}

func (f *fakePubRepo) SetSummaryOutcome(_ context.Context, id int64, state domain.SummaryState, description string) error {
	if f.outcomeErr != nil {
		return f.outcomeErr
	}
	f.outcomes = append(f.outcomes, outcomeCall{id: id, state: state, description: description})
	return nil
}

func (f *fakePubRepo) UpdateDescription(_ context.Context, id int64, description string) error {
	f.updates[id] = description
	return nil
}

func (f *fakePubRepo) SetVisibility(_ context.Context, id int64, visible bool) error {
	f.visibility[id] = visible
	return nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	m := make(map[string]domain.User, len(users))
	for _, u := range users {
		m[u.Username] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type fakeTagRepo struct {
	existing map[int64]bool
}

func (f *fakeTagRepo) FilterExisting(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if f.existing[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeStorage struct {
	saved   map[string][]byte
	saveErr error
	openErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = b
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	b, ok := f.saved[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type fakeQueue struct {
	published  []domain.SummaryJob
	publishErr error
}

func (f *fakeQueue) PublishSummaryJob(_ context.Context, job domain.SummaryJob) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, job)
	return nil
}

func (f *fakeQueue) SubscribeSummaryJobs(context.Context, func(context.Context, domain.SummaryJob) error) error {
	return nil
}

type fakeAudit struct {
	records   []domain.AuditRecord
	recordErr error
}

func (f *fakeAudit) Record(_ context.Context, rec domain.AuditRecord) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeAudit) ListByEntity(_ context.Context, entityKind string, entityID int64) ([]domain.AuditRecord, error) {
	var out []domain.AuditRecord
	for _, rec := range f.records {
		if rec.EntityKind == entityKind && rec.EntityID == entityID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAudit) lastKind() domain.EventKind {
	if len(f.records) == 0 {
		return ""
	}
	return f.records[len(f.records)-1].Kind
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
	panic bool
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	f.calls++
	if f.panic {
		panic("malformed document")
	}
	return f.text, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
	input   string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	f.input = text
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}
