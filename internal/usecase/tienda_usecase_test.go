package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tienda-backend/internal/domain"
	"tienda-backend/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingContent struct {
	records   []domain.Record
	calls     int
	lastSize  int
	lastWrite map[string]interface{}
}

func (c *countingContent) FindByField(_ context.Context, _, _, value string) ([]domain.Record, error) {
	c.calls++
	for _, r := range c.records {
		if r.Matches(value) {
			return []domain.Record{r}, nil
		}
	}
	return nil, nil
}

func (c *countingContent) List(_ context.Context, _ string, page, pageSize int) ([]domain.Record, *domain.Pagination, error) {
	c.calls++
	c.lastSize = pageSize
	return c.records, &domain.Pagination{Page: page, PageSize: pageSize, TotalItems: int64(len(c.records)), TotalPages: 1}, nil
}

func (c *countingContent) Get(_ context.Context, _, key string) (*domain.Record, error) {
	c.calls++
	for i := range c.records {
		if c.records[i].Matches(key) {
			return &c.records[i], nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (c *countingContent) Update(_ context.Context, _, _ string, fields map[string]interface{}) (*domain.Record, error) {
	c.calls++
	c.lastWrite = fields
	return nil, nil
}

func (c *countingContent) Delete(context.Context, string, string) error {
	c.calls++
	return nil
}

type recordingCommerce struct {
	calls   int
	payload map[string]interface{}
}

func (c *recordingCommerce) FindBySlug(context.Context, domain.ExternalResource, string) ([]domain.ExternalRecord, error) {
	c.calls++
	return nil, nil
}

func (c *recordingCommerce) Get(_ context.Context, _ domain.ExternalResource, id int64) (*domain.ExternalRecord, error) {
	c.calls++
	return &domain.ExternalRecord{ID: id}, nil
}

func (c *recordingCommerce) Update(_ context.Context, _ domain.ExternalResource, id int64, payload map[string]interface{}) (*domain.ExternalRecord, error) {
	c.calls++
	c.payload = payload
	return &domain.ExternalRecord{ID: id}, nil
}

func (c *recordingCommerce) Delete(context.Context, domain.ExternalResource, int64) error {
	c.calls++
	return nil
}

func testResources() CommerceResources {
	return CommerceResources{
		Brands:     domain.ExternalResource{Path: "products/attributes/3/terms"},
		Imprints:   domain.ExternalResource{Path: "products/attributes/4/terms"},
		Tags:       domain.ExternalResource{Path: "products/tags"},
		Categories: domain.ExternalResource{Path: "products/categories"},
		Coupons:    domain.ExternalResource{Path: "coupons"},
		Orders:     domain.ExternalResource{Path: "orders", AnyStatusFallback: true},
	}
}

func newTestUsecase(content *countingContent, commerce *recordingCommerce) *TiendaUsecase {
	r := reconcile.NewReconciler(content, commerce, nil, nil, reconcile.DefaultLookupChain(1000))
	return NewTiendaUsecase(r, NewEntityCatalog(testResources()), nil)
}

func TestReservedIDNeverReachesStores(t *testing.T) {
	content := &countingContent{records: []domain.Record{{ID: 1, DocumentID: "productos", Fields: map[string]interface{}{}}}}
	commerce := &recordingCommerce{}
	uc := newTestUsecase(content, commerce)
	ctx := context.Background()

	for _, entity := range []string{domain.EntityBrands, domain.EntityImprints, domain.EntityCoupons, "desconocido"} {
		for _, id := range []string{"productos", "Productos"} {
			_, getErr := uc.Get(ctx, entity, id)
			_, updErr := uc.Update(ctx, entity, id, map[string]interface{}{"nombre": "x"})
			_, delErr := uc.Delete(ctx, entity, id)

			for _, err := range []error{getErr, updErr, delErr} {
				var reserved *domain.ReservedIDError
				require.True(t, errors.As(err, &reserved), "entity %s id %s", entity, id)
				assert.Equal(t, "/api/tienda/productos", reserved.Hint)
				assert.Equal(t, http.StatusNotFound, domain.StatusCode(err))
			}
		}
	}
	_, err := uc.SyncOrder(ctx, "productos")
	assert.Equal(t, http.StatusNotFound, domain.StatusCode(err))

	assert.Zero(t, content.calls)
	assert.Zero(t, commerce.calls)
}

func TestUnknownEntity(t *testing.T) {
	uc := newTestUsecase(&countingContent{}, &recordingCommerce{})

	_, _, err := uc.List(context.Background(), "zapatos", 1, 10)
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
	_, err = uc.SyncEvents(context.Background(), "zapatos", 10)
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestListClampsPageSize(t *testing.T) {
	content := &countingContent{records: []domain.Record{{ID: 4, DocumentID: "abc", Fields: map[string]interface{}{"nombre": "Ficción"}}}}
	uc := newTestUsecase(content, &recordingCommerce{})

	rows, meta, err := uc.List(context.Background(), domain.EntityTags, 0, 5000)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, content.lastSize)
	assert.Equal(t, 1, meta.Page)
	require.Len(t, rows, 1)
	assert.Equal(t, "abc", rows[0]["documentId"])
	assert.Equal(t, int64(4), rows[0]["id"])
	assert.Equal(t, "Ficción", rows[0]["nombre"])
}

func TestCouponUpdateNormalisesPayload(t *testing.T) {
	content := &countingContent{records: []domain.Record{{
		ID: 9, DocumentID: "cup9",
		Fields: map[string]interface{}{"codigo": "VERANO", "wooId": float64(300)},
	}}}
	commerce := &recordingCommerce{}
	uc := newTestUsecase(content, commerce)

	res, err := uc.Update(context.Background(), domain.EntityCoupons, "9", map[string]interface{}{
		"MONTO":           "15.5",
		"tipoDescuento":   "fixed_cart",
		"fechaExpiracion": "2026-12-31",
		"limite_uso":      float64(10),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExternalUpdated, res.External)
	assert.Equal(t, "15.50", commerce.payload["amount"])
	assert.Equal(t, "fixed_cart", commerce.payload["discount_type"])
	assert.Equal(t, "2026-12-31T00:00:00", commerce.payload["date_expires"])
	assert.Equal(t, int64(10), commerce.payload["usage_limit"])
	// the local store keeps what the caller sent
	assert.Equal(t, "15.5", content.lastWrite["monto"])
}

func TestOrderEnumValidation(t *testing.T) {
	content := &countingContent{records: []domain.Record{{ID: 2, DocumentID: "ord2", Fields: map[string]interface{}{}}}}
	commerce := &recordingCommerce{}
	uc := newTestUsecase(content, commerce)

	_, err := uc.Update(context.Background(), domain.EntityOrders, "2", map[string]interface{}{"plataforma": "shopify"})
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(err))

	_, err = uc.Update(context.Background(), domain.EntityOrders, "2", map[string]interface{}{"estado": "shipped"})
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(err))

	assert.Zero(t, content.calls)
	assert.Zero(t, commerce.calls)

	res, err := uc.Update(context.Background(), domain.EntityOrders, "2", map[string]interface{}{"status": "on-hold", "platform": "manual"})
	require.NoError(t, err)
	assert.Equal(t, domain.ExternalSkipped, res.External)
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    string
		wantErr bool
	}{
		{in: "10", want: "10.00"},
		{in: float64(9.999), want: "10.00"},
		{in: " 0.5 ", want: "0.50"},
		{in: int64(3), want: "3.00"},
		{in: "diez", wantErr: true},
		{in: "-1", wantErr: true},
		{in: true, wantErr: true},
	}
	for _, tt := range tests {
		got, err := normalizeAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizeDate(t *testing.T) {
	buenosAires := time.FixedZone("ART", -3*60*60)

	tests := []struct {
		name    string
		loc     *time.Location
		in      interface{}
		want    string
		wantErr bool
	}{
		{name: "utc timestamp in utc store", loc: time.UTC, in: "2026-03-01T10:30:00Z", want: "2026-03-01T10:30:00"},
		{name: "offset converted to store time", loc: buenosAires, in: "2026-01-01T10:00:00+05:00", want: "2026-01-01T02:00:00"},
		{name: "offset crosses midnight", loc: buenosAires, in: "2026-01-01T01:00:00Z", want: "2025-12-31T22:00:00"},
		{name: "naive time kept", loc: buenosAires, in: "2026-01-01T10:00:00", want: "2026-01-01T10:00:00"},
		{name: "bare date", loc: buenosAires, in: " 2026-12-31 ", want: "2026-12-31T00:00:00"},
		{name: "day first", loc: time.UTC, in: "01/03/2026", wantErr: true},
		{name: "not a string", loc: time.UTC, in: float64(20260101), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDate(tt.loc)(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCount(t *testing.T) {
	n, err := normalizeCount("5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = normalizeCount(float64(1.5))
	assert.Error(t, err)
}
