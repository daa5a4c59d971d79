package reconcile

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"tienda-backend/internal/domain"
)

type contentCall struct {
	Op    string
	Key   string
	Field string
}

type fakeContent struct {
	mu      sync.Mutex
	records []domain.Record
	calls   []contentCall

	filterErr error // FindByField answers with this error
	listErr   error
	getErr    error
	updateErr error
	deleteErr error
}

func (f *fakeContent) log(c contentCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeContent) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *fakeContent) FindByField(_ context.Context, _, field, value string) ([]domain.Record, error) {
	f.log(contentCall{Op: "filter", Key: value, Field: field})
	if f.filterErr != nil {
		return nil, f.filterErr
	}
	var out []domain.Record
	for _, r := range f.records {
		if r.Matches(value) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeContent) List(_ context.Context, _ string, page, pageSize int) ([]domain.Record, *domain.Pagination, error) {
	f.log(contentCall{Op: "list"})
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	out := f.records
	if len(out) > pageSize {
		out = out[:pageSize]
	}
	return out, &domain.Pagination{Page: page, PageSize: pageSize, TotalItems: int64(len(f.records)), TotalPages: 1}, nil
}

func (f *fakeContent) Get(_ context.Context, _, key string) (*domain.Record, error) {
	f.log(contentCall{Op: "get", Key: key})
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.records {
		if f.records[i].Matches(key) {
			return &f.records[i], nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeContent) Update(_ context.Context, _, key string, fields map[string]interface{}) (*domain.Record, error) {
	f.log(contentCall{Op: "update", Key: key})
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.records {
		if f.records[i].Key() == key {
			for k, v := range fields {
				f.records[i].Fields[k] = v
			}
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, &domain.UpstreamError{System: "content-store", StatusCode: http.StatusNotFound, Message: "Not Found"}
}

func (f *fakeContent) Delete(_ context.Context, _, key string) error {
	f.log(contentCall{Op: "delete", Key: key})
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.records {
		if f.records[i].Key() == key {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

type fakeCommerce struct {
	mu      sync.Mutex
	records map[int64]*domain.ExternalRecord
	err     error // every call fails with this
	calls   []string
}

func newFakeCommerce(records ...domain.ExternalRecord) *fakeCommerce {
	f := &fakeCommerce{records: make(map[int64]*domain.ExternalRecord)}
	for i := range records {
		rec := records[i]
		if rec.Fields == nil {
			rec.Fields = map[string]interface{}{}
		}
		f.records[rec.ID] = &rec
	}
	return f
}

func (f *fakeCommerce) track(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.err
}

func (f *fakeCommerce) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

// FindBySlug mimics the loose matching of the real API, so callers must compare exactly.
func (f *fakeCommerce) FindBySlug(_ context.Context, _ domain.ExternalResource, slug string) ([]domain.ExternalRecord, error) {
	if err := f.track("find"); err != nil {
		return nil, err
	}
	var out []domain.ExternalRecord
	for _, r := range f.records {
		if strings.EqualFold(r.Slug, slug) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCommerce) Get(_ context.Context, _ domain.ExternalResource, id int64) (*domain.ExternalRecord, error) {
	if err := f.track("get"); err != nil {
		return nil, err
	}
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, domain.ErrExternalNotFound
}

func (f *fakeCommerce) Update(_ context.Context, _ domain.ExternalResource, id int64, payload map[string]interface{}) (*domain.ExternalRecord, error) {
	if err := f.track("update"); err != nil {
		return nil, err
	}
	r, ok := f.records[id]
	if !ok {
		return nil, domain.ErrExternalNotFound
	}
	for k, v := range payload {
		r.Fields[k] = v
	}
	return r, nil
}

func (f *fakeCommerce) Delete(_ context.Context, _ domain.ExternalResource, id int64) error {
	if err := f.track("delete"); err != nil {
		return err
	}
	if _, ok := f.records[id]; !ok {
		return domain.ErrExternalNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeLinks struct {
	links map[string]int64
}

func newFakeLinks() *fakeLinks { return &fakeLinks{links: map[string]int64{}} }

func (f *fakeLinks) GetLink(_ context.Context, entity, doc string) (int64, bool, error) {
	id, ok := f.links[entity+"/"+doc]
	return id, ok, nil
}

func (f *fakeLinks) SaveLink(_ context.Context, entity, doc string, id int64) error {
	f.links[entity+"/"+doc] = id
	return nil
}

func (f *fakeLinks) DeleteLink(_ context.Context, entity, doc string) error {
	delete(f.links, entity+"/"+doc)
	return nil
}

type fakeLedger struct {
	events []domain.SyncEvent
}

func (f *fakeLedger) Record(_ context.Context, e *domain.SyncEvent) error {
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeLedger) List(_ context.Context, _ domain.SyncEventFilter) ([]domain.SyncEvent, error) {
	return f.events, nil
}
