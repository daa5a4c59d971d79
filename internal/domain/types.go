package domain

// --- Shared Custom Types ---

// Pagination
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// Response standardizes API responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Hint    string      `json:"hint,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Sync    *SyncStatus `json:"sync,omitempty"`
}

// SyncStatus is the machine-readable half of a reconciliation result.
// Callers branch on External instead of parsing Message.
type SyncStatus struct {
	Local      bool            `json:"local"`
	External   ExternalOutcome `json:"external"`
	ExternalID int64           `json:"externalId,omitempty"`
	Warning    string          `json:"warning,omitempty"`
}
