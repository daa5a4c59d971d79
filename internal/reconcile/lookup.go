package reconcile

import (
	"context"
	"errors"
	"net/http"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/logger"
	"tienda-backend/pkg/utils"
)

// errNotApplicable means a strategy cannot handle this kind of id at all.
var errNotApplicable = errors.New("lookup strategy not applicable")

// LookupStrategy is one way of locating a local record by the id a caller supplied.
// Find returns domain.ErrRecordNotFound on a clean miss.
type LookupStrategy interface {
	Name() string
	Find(ctx context.Context, store domain.ContentStore, collection, id string) (*domain.Record, error)
}

// DirectFilter runs an exact id filter. Only numeric ids qualify.
type DirectFilter struct{}

func (DirectFilter) Name() string { return "direct-filter" }

func (DirectFilter) Find(ctx context.Context, store domain.ContentStore, collection, id string) (*domain.Record, error) {
	if !utils.IsNumeric(id) {
		return nil, errNotApplicable
	}
	records, err := store.FindByField(ctx, collection, "id", id)
	if err != nil {
		return nil, err
	}
	// A store that ignores the filter returns arbitrary rows.
	for i := range records {
		if records[i].Matches(id) {
			return &records[i], nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// CollectionScan reads one bounded page of the collection and compares both
// the numeric id and the document identifier.
type CollectionScan struct {
	PageSize int
}

func (CollectionScan) Name() string { return "collection-scan" }

func (s CollectionScan) Find(ctx context.Context, store domain.ContentStore, collection, id string) (*domain.Record, error) {
	records, _, err := store.List(ctx, collection, 1, s.PageSize)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Matches(id) {
			return &records[i], nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// DirectPath fetches <collection>/<id>, which works for document identifiers
// on stores whose list endpoints are restricted.
type DirectPath struct{}

func (DirectPath) Name() string { return "direct-path" }

func (DirectPath) Find(ctx context.Context, store domain.ContentStore, collection, id string) (*domain.Record, error) {
	return store.Get(ctx, collection, id)
}

// LookupChain tries each strategy in order and returns the first hit.
type LookupChain []LookupStrategy

// DefaultLookupChain is filter, then scan, then direct path.
func DefaultLookupChain(pageSize int) LookupChain {
	return LookupChain{DirectFilter{}, CollectionScan{PageSize: pageSize}, DirectPath{}}
}

// Resolve returns domain.ErrRecordNotFound when at least one strategy
// answered cleanly and none found the record. When every strategy failed
// outright the last upstream error is returned instead.
func (c LookupChain) Resolve(ctx context.Context, store domain.ContentStore, collection, id string) (*domain.Record, error) {
	log := logger.WithContext(ctx)

	var lastErr error
	cleanMiss := false
	for _, strategy := range c {
		rec, err := strategy.Find(ctx, store, collection, id)
		switch {
		case err == nil && rec != nil:
			log.Debug().Str("collection", collection).Str("id", id).Str("strategy", strategy.Name()).Msg("local record resolved")
			return rec, nil
		case errors.Is(err, errNotApplicable):
			continue
		case err == nil, isMiss(err):
			cleanMiss = true
		default:
			log.Warn().Err(err).Str("collection", collection).Str("id", id).Str("strategy", strategy.Name()).Msg("lookup strategy failed, trying next")
			lastErr = err
		}
	}

	if lastErr != nil && !cleanMiss {
		return nil, lastErr
	}
	return nil, domain.ErrRecordNotFound
}

// isMiss treats 404 and the 400 some stores return for unsupported filters or
// malformed keys as "not here".
func isMiss(err error) bool {
	if domain.IsNotFound(err) {
		return true
	}
	var upstream *domain.UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == http.StatusBadRequest
}
