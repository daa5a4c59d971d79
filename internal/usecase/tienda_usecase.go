package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tienda-backend/internal/domain"
	"tienda-backend/internal/reconcile"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
	maxEventLimit   = 200
)

// TiendaUsecase routes admin operations on store entities to the reconciler.
type TiendaUsecase struct {
	reconciler *reconcile.Reconciler
	entities   map[string]*reconcile.EntitySpec
	ledger     domain.SyncLedger
}

// NewTiendaUsecase creates a new TiendaUsecase instance.
func NewTiendaUsecase(reconciler *reconcile.Reconciler, entities map[string]*reconcile.EntitySpec, ledger domain.SyncLedger) *TiendaUsecase {
	return &TiendaUsecase{
		reconciler: reconciler,
		entities:   entities,
		ledger:     ledger,
	}
}

// Entities lists the supported route segments.
func (uc *TiendaUsecase) Entities() []string {
	names := make([]string, 0, len(uc.entities))
	for name := range uc.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (uc *TiendaUsecase) entity(name string) (*reconcile.EntitySpec, error) {
	spec, ok := uc.entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, name)
	}
	return spec, nil
}

// CheckID rejects empty ids and ids that are really route segments. It runs
// before any lookup, and handlers call it before reading a request body.
func CheckID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &domain.ValidationError{Field: "id", Message: "id is required"}
	}
	if hint, reserved := domain.ReservedIDs[strings.ToLower(id)]; reserved {
		return &domain.ReservedIDError{ID: id, Hint: hint}
	}
	return nil
}

// target validates the id and resolves the entity in one step.
func (uc *TiendaUsecase) target(entity, id string) (*reconcile.EntitySpec, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}
	return uc.entity(entity)
}

func (uc *TiendaUsecase) List(ctx context.Context, entity string, page, pageSize int) ([]map[string]interface{}, *domain.Pagination, error) {
	spec, err := uc.entity(entity)
	if err != nil {
		return nil, nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	records, pagination, err := uc.reconciler.List(ctx, spec, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	out := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		out = append(out, records[i].Flatten())
	}
	return out, pagination, nil
}

func (uc *TiendaUsecase) Get(ctx context.Context, entity, id string) (map[string]interface{}, error) {
	spec, err := uc.target(entity, id)
	if err != nil {
		return nil, err
	}
	rec, err := uc.reconciler.Get(ctx, spec, id)
	if err != nil {
		return nil, err
	}
	return rec.Flatten(), nil
}

func (uc *TiendaUsecase) Update(ctx context.Context, entity, id string, fields map[string]interface{}) (*reconcile.Result, error) {
	spec, err := uc.target(entity, id)
	if err != nil {
		return nil, err
	}
	return uc.reconciler.Update(ctx, spec, id, fields)
}

func (uc *TiendaUsecase) Delete(ctx context.Context, entity, id string) (*reconcile.Result, error) {
	spec, err := uc.target(entity, id)
	if err != nil {
		return nil, err
	}
	return uc.reconciler.Delete(ctx, spec, id)
}

// SyncOrder pulls order state from the commerce platform into the local order.
func (uc *TiendaUsecase) SyncOrder(ctx context.Context, id string) (*reconcile.Result, error) {
	spec, err := uc.target(domain.EntityOrders, id)
	if err != nil {
		return nil, err
	}
	return uc.reconciler.PullOrder(ctx, spec, id)
}

// SyncEvents lists recent ledger entries, newest first.
func (uc *TiendaUsecase) SyncEvents(ctx context.Context, entity string, limit int) ([]domain.SyncEvent, error) {
	filter := domain.SyncEventFilter{Limit: limit}
	if entity != "" {
		spec, err := uc.entity(entity)
		if err != nil {
			return nil, err
		}
		filter.Entity = spec.Name
	}
	if filter.Limit < 1 || filter.Limit > maxEventLimit {
		filter.Limit = 50
	}
	if uc.ledger == nil {
		return []domain.SyncEvent{}, nil
	}
	return uc.ledger.List(ctx, filter)
}
