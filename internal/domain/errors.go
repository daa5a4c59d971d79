package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrExternalNotFound = errors.New("external record not found")
	ErrUnknownEntity    = errors.New("unknown entity")
	ErrCommerceDisabled = errors.New("commerce platform not configured")
)

// Upstream system names carried on UpstreamError.
const (
	SystemContentStore = "content-store"
	SystemCommerce     = "commerce"
)

// UpstreamError is a non-2xx answer (or transport failure) from one of the two stores.
type UpstreamError struct {
	System     string // SystemContentStore or SystemCommerce
	StatusCode int    // 0 when the request never got an answer
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s unreachable: %s", e.System, e.Message)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.System, e.StatusCode, e.Message)
}

// ValidationError is returned before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReservedIDError rejects ids that collide with another route segment.
type ReservedIDError struct {
	ID   string
	Hint string
}

func (e *ReservedIDError) Error() string {
	return fmt.Sprintf("'%s' is not a record id", e.ID)
}

// StatusCode maps an error to the HTTP status returned to the caller.
// Upstream 4xx/5xx codes pass through. An unreachable content store is a 500,
// an unreachable commerce platform a 502.
func StatusCode(err error) int {
	var upstream *UpstreamError
	var validation *ValidationError
	var reserved *ReservedIDError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, ErrCommerceDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &reserved),
		errors.Is(err, ErrRecordNotFound),
		errors.Is(err, ErrExternalNotFound),
		errors.Is(err, ErrUnknownEntity):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		if upstream.StatusCode >= 400 && upstream.StatusCode < 600 {
			return upstream.StatusCode
		}
		if upstream.StatusCode == 0 && upstream.System == SystemCommerce {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether err means the addressed record does not exist on either side.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrExternalNotFound) {
		return true
	}
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound
}
