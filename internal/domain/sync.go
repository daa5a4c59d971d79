package domain

import (
	"context"
	"time"
)

// ExternalOutcome is what happened on the commerce side of a reconciliation.
type ExternalOutcome string

const (
	ExternalUpdated  ExternalOutcome = "updated"
	ExternalDeleted  ExternalOutcome = "deleted"
	ExternalSkipped  ExternalOutcome = "skipped"  // no linked record
	ExternalFailed   ExternalOutcome = "failed"   // write attempted, error swallowed
	ExternalDisabled ExternalOutcome = "disabled" // commerce platform not configured
	ExternalPulled   ExternalOutcome = "pulled"   // local record refreshed from commerce
)

// Synced reports whether the commerce side reflects the change.
func (o ExternalOutcome) Synced() bool {
	return o == ExternalUpdated || o == ExternalDeleted
}

type Operation string

const (
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationPull   Operation = "pull"
)

// SyncEvent is one row of the sync ledger.
type SyncEvent struct {
	ID         string          `json:"id"`
	RequestID  string          `json:"requestId,omitempty"`
	Entity     string          `json:"entity"`
	Operation  Operation       `json:"operation"`
	LocalKey   string          `json:"localKey"`
	Success    bool            `json:"success"`
	ExternalID int64           `json:"externalId,omitempty"`
	External   ExternalOutcome `json:"external"`
	Message    string          `json:"message"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type SyncEventFilter struct {
	Entity string
	Limit  int
}

// SyncLedger is an append-only audit of reconciliation outcomes.
type SyncLedger interface {
	Record(ctx context.Context, event *SyncEvent) error
	List(ctx context.Context, filter SyncEventFilter) ([]SyncEvent, error)
}

// LinkStore remembers which commerce record a local document is linked to.
type LinkStore interface {
	GetLink(ctx context.Context, entity, documentID string) (int64, bool, error)
	SaveLink(ctx context.Context, entity, documentID string, externalID int64) error
	DeleteLink(ctx context.Context, entity, documentID string) error
}
