package reconcile

import (
	"fmt"

	"tienda-backend/internal/domain"
)

// ExternalField maps a canonical local field onto a commerce payload key.
type ExternalField struct {
	Canonical string
	External  string
	// Transform converts the local value into the commerce representation.
	// An error is reported to the caller as a validation failure.
	Transform func(v interface{}) (interface{}, error)
}

// EntitySpec parameterizes the reconciliation routine for one entity kind.
type EntitySpec struct {
	Name  string // log/ledger name, e.g. "brand"
	Label string // human-readable, used in messages

	// Collection is the content-store collection path.
	Collection string
	// External is the commerce collection; nil means the entity lives only in the content store.
	External *domain.ExternalResource

	Fields         domain.FieldMap
	ExternalFields []ExternalField

	// StoredIDFields are the variants under which the local record may carry
	// the commerce id. Checked before any slug search.
	StoredIDFields []string
	// SlugLinked entities are found in commerce by slug == document identifier.
	SlugLinked bool

	// Rules are validator tags applied per canonical field, e.g. "oneof=a b".
	Rules map[string]string

	// PullFields map commerce keys (External) back onto canonical local fields.
	PullFields []ExternalField
}

// ExternalPayload builds the commerce payload for the canonical fields being written.
func (s *EntitySpec) ExternalPayload(fields map[string]interface{}) (map[string]interface{}, error) {
	payload := make(map[string]interface{}, len(s.ExternalFields))
	for _, f := range s.ExternalFields {
		v, ok := fields[f.Canonical]
		if !ok {
			continue
		}
		if f.Transform != nil {
			converted, err := f.Transform(v)
			if err != nil {
				return nil, &domain.ValidationError{Field: f.Canonical, Message: err.Error()}
			}
			v = converted
		}
		payload[f.External] = v
	}
	return payload, nil
}

// PulledFields converts a commerce record into canonical local fields.
func (s *EntitySpec) PulledFields(ext *domain.ExternalRecord) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(s.PullFields))
	for _, f := range s.PullFields {
		v, ok := domain.GetField(ext.Fields, f.External)
		if !ok {
			continue
		}
		if f.Transform != nil {
			converted, err := f.Transform(v)
			if err != nil {
				return nil, fmt.Errorf("commerce field %s: %w", f.External, err)
			}
			v = converted
		}
		out[f.Canonical] = v
	}
	return out, nil
}
