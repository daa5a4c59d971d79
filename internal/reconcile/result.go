package reconcile

import (
	"fmt"

	"tienda-backend/internal/domain"
)

// Result is the composite outcome of one reconciliation.
type Result struct {
	Entity     string
	LocalKey   string
	ExternalID int64
	Local      bool
	External   domain.ExternalOutcome
	Warning    string
	Message    string
	Record     *domain.Record
}

// Sync is the machine-readable status sent alongside the message.
func (r *Result) Sync() *domain.SyncStatus {
	return &domain.SyncStatus{
		Local:      r.Local,
		External:   r.External,
		ExternalID: r.ExternalID,
		Warning:    r.Warning,
	}
}

// externalStep is what the commerce half of an operation produced.
type externalStep struct {
	outcome domain.ExternalOutcome
	id      int64
	warning string
}

func describe(label string, op domain.Operation, step externalStep) string {
	verb, both := "updated", "updated in both systems"
	if op == domain.OperationDelete {
		verb, both = "deleted", "deleted from both systems"
	}

	switch step.outcome {
	case domain.ExternalUpdated, domain.ExternalDeleted:
		return fmt.Sprintf("%s %s", label, both)
	case domain.ExternalDisabled:
		return fmt.Sprintf("%s %s locally only (commerce sync disabled)", label, verb)
	case domain.ExternalFailed:
		return fmt.Sprintf("%s %s locally only (commerce sync failed: %s)", label, verb, step.warning)
	default:
		reason := step.warning
		if reason == "" {
			reason = "no linked commerce record"
		}
		return fmt.Sprintf("%s %s locally only (%s)", label, verb, reason)
	}
}
