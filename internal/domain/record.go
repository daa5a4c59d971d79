package domain

import (
	"context"
	"strconv"
	"strings"
)

// Record is a content-store entity with its attributes flattened.
// Fields keep whatever casing the record was created with.
type Record struct {
	ID         int64                  `json:"id"`
	DocumentID string                 `json:"documentId,omitempty"`
	Fields     map[string]interface{} `json:"fields"`
}

// Key is the path suffix used for item endpoints: the document identifier
// when present, otherwise the numeric id.
func (r *Record) Key() string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	return strconv.FormatInt(r.ID, 10)
}

// Matches reports whether id names this record by numeric id or document identifier.
func (r *Record) Matches(id string) bool {
	if id == "" {
		return false
	}
	if r.DocumentID != "" && r.DocumentID == id {
		return true
	}
	return r.ID != 0 && strconv.FormatInt(r.ID, 10) == id
}

// Flatten returns a display shape with id and documentId alongside the attributes.
func (r *Record) Flatten() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	if r.DocumentID != "" {
		out["documentId"] = r.DocumentID
	}
	return out
}

// ExternalRecord is a commerce-platform entity (attribute term, tag, category, coupon, order).
type ExternalRecord struct {
	ID     int64                  `json:"id"`
	Slug   string                 `json:"slug,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// ExternalResource addresses a commerce collection, e.g. "products/attributes/3/terms".
type ExternalResource struct {
	Path string
	// AnyStatusFallback retries a failed direct lookup with status=any so
	// trashed records are still reachable.
	AnyStatusFallback bool
}

// ContentStore is the CRUD surface of the content store the reconciler needs.
type ContentStore interface {
	FindByField(ctx context.Context, collection, field, value string) ([]Record, error)
	List(ctx context.Context, collection string, page, pageSize int) ([]Record, *Pagination, error)
	Get(ctx context.Context, collection, key string) (*Record, error)
	Update(ctx context.Context, collection, key string, fields map[string]interface{}) (*Record, error)
	Delete(ctx context.Context, collection, key string) error
}

// CommerceStore is the CRUD surface of the commerce platform the reconciler needs.
type CommerceStore interface {
	FindBySlug(ctx context.Context, res ExternalResource, slug string) ([]ExternalRecord, error)
	Get(ctx context.Context, res ExternalResource, id int64) (*ExternalRecord, error)
	Update(ctx context.Context, res ExternalResource, id int64, payload map[string]interface{}) (*ExternalRecord, error)
	Delete(ctx context.Context, res ExternalResource, id int64) error
}

// AsInt64 reads a numeric id that may have been stored as a JSON number or a string.
func AsInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	}
	return 0
}
