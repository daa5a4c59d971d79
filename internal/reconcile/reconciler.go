package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type linkSource int

const (
	linkNone linkSource = iota
	linkStored
	linkCached
	linkSlug
)

// Step names carried on reconciliation log lines.
const (
	stepValidate      = "validate"
	stepResolveLink   = "resolve_link"
	stepExternalWrite = "external_write"
	stepLocalWrite    = "local_write"
	stepPull          = "pull"
	stepLedger        = "ledger"
	stepResult        = "result"
)

// Reconciler applies mutations to the content store and, best effort, to the
// commerce platform. commerce, links and ledger may be nil.
type Reconciler struct {
	content  domain.ContentStore
	commerce domain.CommerceStore
	links    domain.LinkStore
	ledger   domain.SyncLedger
	lookup   LookupChain
	validate *validator.Validate
}

func NewReconciler(content domain.ContentStore, commerce domain.CommerceStore, links domain.LinkStore, ledger domain.SyncLedger, lookup LookupChain) *Reconciler {
	return &Reconciler{
		content:  content,
		commerce: commerce,
		links:    links,
		ledger:   ledger,
		lookup:   lookup,
		validate: validator.New(),
	}
}

// Get resolves a single local record through the lookup chain.
func (r *Reconciler) Get(ctx context.Context, spec *EntitySpec, id string) (*domain.Record, error) {
	return r.lookup.Resolve(ctx, r.content, spec.Collection, id)
}

func (r *Reconciler) List(ctx context.Context, spec *EntitySpec, page, pageSize int) ([]domain.Record, *domain.Pagination, error) {
	return r.content.List(ctx, spec.Collection, page, pageSize)
}

// Update writes fields to the commerce record first, then to the local record.
// Only a local failure fails the operation.
func (r *Reconciler) Update(ctx context.Context, spec *EntitySpec, id string, input map[string]interface{}) (*Result, error) {
	fields := spec.Fields.Canonicalize(input)
	if len(fields) == 0 {
		return nil, &domain.ValidationError{Message: "no updatable fields in request"}
	}
	if unmapped := spec.Fields.Unmapped(input); len(unmapped) > 0 {
		logger.Step(ctx, spec.Name, id, stepValidate).Debug().Strs("fields", unmapped).Msg("ignoring unmapped fields")
	}
	if err := r.checkRules(spec, fields); err != nil {
		return nil, err
	}
	payload, err := spec.ExternalPayload(fields)
	if err != nil {
		return nil, err
	}

	rec, err := r.lookup.Resolve(ctx, r.content, spec.Collection, id)
	if err != nil {
		return nil, err
	}

	step := r.applyExternal(ctx, spec, rec, domain.OperationUpdate, payload)

	updated, err := r.content.Update(ctx, spec.Collection, rec.Key(), fields)
	if err != nil {
		logger.Step(ctx, spec.Name, rec.Key(), stepLocalWrite).Error().Err(err).Msg("local update failed")
		r.record(ctx, spec, domain.OperationUpdate, rec.Key(), false, step, err.Error())
		return nil, err
	}
	if updated == nil {
		// Store answered without a body: report what was sent.
		merged := *rec
		merged.Fields = make(map[string]interface{}, len(rec.Fields)+len(fields))
		for k, v := range rec.Fields {
			merged.Fields[k] = v
		}
		for k, v := range fields {
			merged.Fields[k] = v
		}
		updated = &merged
	}

	res := &Result{
		Entity:     spec.Name,
		LocalKey:   rec.Key(),
		ExternalID: step.id,
		Local:      true,
		External:   step.outcome,
		Warning:    step.warning,
		Message:    describe(spec.Label, domain.OperationUpdate, step),
		Record:     updated,
	}
	r.record(ctx, spec, domain.OperationUpdate, res.LocalKey, true, step, res.Message)
	logger.Step(ctx, spec.Name, res.LocalKey, stepResult).Info().Int64("external_id", step.id).Str("external", string(step.outcome)).Msg(res.Message)
	return res, nil
}

// Delete removes the commerce record first, then the local one.
func (r *Reconciler) Delete(ctx context.Context, spec *EntitySpec, id string) (*Result, error) {
	rec, err := r.lookup.Resolve(ctx, r.content, spec.Collection, id)
	if err != nil {
		return nil, err
	}

	step := r.applyExternal(ctx, spec, rec, domain.OperationDelete, nil)

	if err := r.content.Delete(ctx, spec.Collection, rec.Key()); err != nil {
		logger.Step(ctx, spec.Name, rec.Key(), stepLocalWrite).Error().Err(err).Msg("local delete failed")
		r.record(ctx, spec, domain.OperationDelete, rec.Key(), false, step, err.Error())
		return nil, err
	}
	r.forgetLink(ctx, spec, rec)

	res := &Result{
		Entity:     spec.Name,
		LocalKey:   rec.Key(),
		ExternalID: step.id,
		Local:      true,
		External:   step.outcome,
		Warning:    step.warning,
		Message:    describe(spec.Label, domain.OperationDelete, step),
		Record:     rec,
	}
	r.record(ctx, spec, domain.OperationDelete, res.LocalKey, true, step, res.Message)
	logger.Step(ctx, spec.Name, res.LocalKey, stepResult).Info().Int64("external_id", step.id).Str("external", string(step.outcome)).Msg(res.Message)
	return res, nil
}

// PullOrder refreshes a local record from its commerce counterpart. Unlike
// Update the commerce side is mandatory here.
func (r *Reconciler) PullOrder(ctx context.Context, spec *EntitySpec, id string) (*Result, error) {
	if spec.External == nil || len(spec.PullFields) == 0 {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("%s cannot be pulled from commerce", spec.Label)}
	}
	if r.commerce == nil {
		return nil, domain.ErrCommerceDisabled
	}

	rec, err := r.lookup.Resolve(ctx, r.content, spec.Collection, id)
	if err != nil {
		return nil, err
	}

	extID, _, err := r.resolveExternalID(ctx, spec, rec, true)
	if err != nil {
		return nil, err
	}
	if extID == 0 {
		return nil, fmt.Errorf("%s %s has no commerce id: %w", spec.Label, rec.Key(), domain.ErrExternalNotFound)
	}

	ext, err := r.commerce.Get(ctx, *spec.External, extID)
	if err != nil {
		logger.Step(ctx, spec.Name, rec.Key(), stepPull).Warn().Err(err).Int64("external_id", extID).Msg("commerce read failed")
		return nil, err
	}
	fields, err := spec.PulledFields(ext)
	if err != nil {
		return nil, &domain.UpstreamError{System: domain.SystemCommerce, StatusCode: http.StatusBadGateway, Message: err.Error()}
	}

	updated, err := r.content.Update(ctx, spec.Collection, rec.Key(), fields)
	step := externalStep{outcome: domain.ExternalPulled, id: extID}
	if err != nil {
		r.record(ctx, spec, domain.OperationPull, rec.Key(), false, step, err.Error())
		return nil, err
	}
	if updated == nil {
		updated = rec
	}

	res := &Result{
		Entity:     spec.Name,
		LocalKey:   rec.Key(),
		ExternalID: extID,
		Local:      true,
		External:   domain.ExternalPulled,
		Message:    fmt.Sprintf("%s refreshed from commerce", spec.Label),
		Record:     updated,
	}
	r.record(ctx, spec, domain.OperationPull, res.LocalKey, true, step, res.Message)
	logger.Step(ctx, spec.Name, res.LocalKey, stepResult).Info().Int64("external_id", extID).Interface("fields", fields).Msg(res.Message)
	return res, nil
}

// checkRules validates enum-like fields before any network call.
func (r *Reconciler) checkRules(spec *EntitySpec, fields map[string]interface{}) error {
	names := make([]string, 0, len(spec.Rules))
	for name := range spec.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		tag := spec.Rules[name]
		// Rules are string enums; numbers from JSON are compared by their text.
		if err := r.validate.Var(fmt.Sprint(v), tag); err != nil {
			return &domain.ValidationError{Field: name, Message: fmt.Sprintf("invalid value %v (%s)", v, tag)}
		}
	}
	return nil
}

// applyExternal never returns an error: every failure is downgraded to the outcome.
func (r *Reconciler) applyExternal(ctx context.Context, spec *EntitySpec, rec *domain.Record, op domain.Operation, payload map[string]interface{}) externalStep {
	log := logger.Step(ctx, spec.Name, rec.Key(), stepExternalWrite)

	if spec.External == nil {
		return externalStep{outcome: domain.ExternalSkipped, warning: "entity is not synced to commerce"}
	}
	if r.commerce == nil {
		return externalStep{outcome: domain.ExternalDisabled}
	}
	if op == domain.OperationUpdate && len(payload) == 0 {
		return externalStep{outcome: domain.ExternalSkipped, warning: "no commerce fields changed"}
	}

	useCache := true
	for attempt := 0; attempt < 2; attempt++ {
		extID, source, err := r.resolveExternalID(ctx, spec, rec, useCache)
		if err != nil {
			log.Warn().Err(err).Msg("commerce link resolution failed")
			return externalStep{outcome: domain.ExternalFailed, warning: err.Error()}
		}
		if extID == 0 {
			log.Info().Msg("no linked commerce record, skipping commerce write")
			return externalStep{outcome: domain.ExternalSkipped}
		}

		err = r.writeExternal(ctx, spec, op, extID, payload)
		switch {
		case err == nil:
			if op == domain.OperationDelete {
				return externalStep{outcome: domain.ExternalDeleted, id: extID}
			}
			return externalStep{outcome: domain.ExternalUpdated, id: extID}
		case domain.IsNotFound(err) && source == linkCached && attempt == 0:
			log.Info().Int64("external_id", extID).Msg("cached commerce link is stale, re-resolving")
			r.forgetLink(ctx, spec, rec)
			useCache = false
			continue
		case domain.IsNotFound(err):
			log.Info().Int64("external_id", extID).Msg("linked commerce record no longer exists")
			return externalStep{outcome: domain.ExternalSkipped, id: extID, warning: "linked commerce record no longer exists"}
		default:
			log.Warn().Err(err).Int64("external_id", extID).Msg("commerce write failed, continuing with local write")
			return externalStep{outcome: domain.ExternalFailed, id: extID, warning: err.Error()}
		}
	}
	return externalStep{outcome: domain.ExternalSkipped}
}

func (r *Reconciler) writeExternal(ctx context.Context, spec *EntitySpec, op domain.Operation, extID int64, payload map[string]interface{}) error {
	if op == domain.OperationDelete {
		return r.commerce.Delete(ctx, *spec.External, extID)
	}
	_, err := r.commerce.Update(ctx, *spec.External, extID, payload)
	return err
}

// resolveExternalID checks the stored id field, then the link store, then an
// exact slug match. A zero id with a nil error means "not linked".
func (r *Reconciler) resolveExternalID(ctx context.Context, spec *EntitySpec, rec *domain.Record, useCache bool) (int64, linkSource, error) {
	if v, ok := domain.GetField(rec.Fields, spec.StoredIDFields...); ok {
		if id := domain.AsInt64(v); id > 0 {
			return id, linkStored, nil
		}
	}
	if !spec.SlugLinked || rec.DocumentID == "" {
		return 0, linkNone, nil
	}

	if useCache && r.links != nil {
		id, found, err := r.links.GetLink(ctx, spec.Name, rec.DocumentID)
		if err != nil {
			logger.Step(ctx, spec.Name, rec.Key(), stepResolveLink).Warn().Err(err).Msg("link store read failed")
		} else if found && id > 0 {
			return id, linkCached, nil
		}
	}

	candidates, err := r.commerce.FindBySlug(ctx, *spec.External, rec.DocumentID)
	if err != nil {
		return 0, linkNone, err
	}
	for _, c := range candidates {
		if c.Slug != rec.DocumentID {
			continue
		}
		if r.links != nil {
			if err := r.links.SaveLink(ctx, spec.Name, rec.DocumentID, c.ID); err != nil {
				logger.Step(ctx, spec.Name, rec.Key(), stepResolveLink).Warn().Err(err).Int64("external_id", c.ID).Msg("link store write failed")
			}
		}
		return c.ID, linkSlug, nil
	}
	return 0, linkNone, nil
}

func (r *Reconciler) forgetLink(ctx context.Context, spec *EntitySpec, rec *domain.Record) {
	if r.links == nil || !spec.SlugLinked || rec.DocumentID == "" {
		return
	}
	if err := r.links.DeleteLink(ctx, spec.Name, rec.DocumentID); err != nil {
		logger.Step(ctx, spec.Name, rec.Key(), stepResolveLink).Warn().Err(err).Msg("link store delete failed")
	}
}

func (r *Reconciler) record(ctx context.Context, spec *EntitySpec, op domain.Operation, key string, success bool, step externalStep, message string) {
	if r.ledger == nil {
		return
	}
	event := &domain.SyncEvent{
		ID:         uuid.NewString(),
		RequestID:  logger.RequestID(ctx),
		Entity:     spec.Name,
		Operation:  op,
		LocalKey:   key,
		Success:    success,
		ExternalID: step.id,
		External:   step.outcome,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.ledger.Record(ctx, event); err != nil {
		logger.Step(ctx, spec.Name, key, stepLedger).Warn().Err(err).Msg("sync ledger write failed")
	}
}
