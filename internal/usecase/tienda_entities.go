package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tienda-backend/internal/domain"
	"tienda-backend/internal/reconcile"

	"github.com/shopspring/decimal"
)

// CommerceResources addresses the commerce collection behind each entity kind.
type CommerceResources struct {
	Brands     domain.ExternalResource
	Imprints   domain.ExternalResource
	Tags       domain.ExternalResource
	Categories domain.ExternalResource
	Coupons    domain.ExternalResource
	Orders     domain.ExternalResource
	// Location is the store's timezone. WooCommerce keeps coupon expiry in
	// site-local time. Nil means UTC.
	Location *time.Location
}

// storedIDVariants are the keys under which a local record may carry its commerce id.
var storedIDVariants = []string{"woocommerce_id", "woocommerceId", "wooId", "WOO_ID"}

var descriptionField = domain.FieldVariants{
	Canonical: "descripcion",
	Variants:  []string{"descripcion", "description", "DESCRIPCION"},
}

// NewEntityCatalog maps each route segment to the reconciliation parameters of its entity kind.
func NewEntityCatalog(res CommerceResources) map[string]*reconcile.EntitySpec {
	brands, imprints := res.Brands, res.Imprints
	tags, categories := res.Tags, res.Categories
	coupons, orders := res.Coupons, res.Orders
	loc := res.Location
	if loc == nil {
		loc = time.UTC
	}

	return map[string]*reconcile.EntitySpec{
		domain.EntityBrands: {
			Name:       "brand",
			Label:      "Brand",
			Collection: domain.EntityBrands,
			External:   &brands,
			Fields: domain.FieldMap{
				{Canonical: "nombre_marca", Variants: []string{"nombre_marca", "nombreMarca", "NOMBRE_MARCA", "name", "nombre"}},
				descriptionField,
			},
			ExternalFields: []reconcile.ExternalField{
				{Canonical: "nombre_marca", External: "name"},
				{Canonical: "descripcion", External: "description"},
			},
			StoredIDFields: storedIDVariants,
			SlugLinked:     true,
		},
		domain.EntityImprints: {
			Name:       "imprint",
			Label:      "Imprint",
			Collection: domain.EntityImprints,
			External:   &imprints,
			Fields: domain.FieldMap{
				{Canonical: "nombre_sello", Variants: []string{"nombre_sello", "nombreSello", "NOMBRE_SELLO", "name", "nombre"}},
				descriptionField,
			},
			ExternalFields: []reconcile.ExternalField{
				{Canonical: "nombre_sello", External: "name"},
				{Canonical: "descripcion", External: "description"},
			},
			StoredIDFields: storedIDVariants,
			SlugLinked:     true,
		},
		domain.EntityTags: {
			Name:       "tag",
			Label:      "Tag",
			Collection: domain.EntityTags,
			External:   &tags,
			Fields: domain.FieldMap{
				{Canonical: "nombre", Variants: []string{"nombre", "name", "NOMBRE"}},
				descriptionField,
			},
			ExternalFields: []reconcile.ExternalField{
				{Canonical: "nombre", External: "name"},
				{Canonical: "descripcion", External: "description"},
			},
			StoredIDFields: storedIDVariants,
			SlugLinked:     true,
		},
		domain.EntityCategories: {
			Name:       "category",
			Label:      "Category",
			Collection: domain.EntityCategories,
			External:   &categories,
			Fields: domain.FieldMap{
				{Canonical: "nombre", Variants: []string{"nombre", "name", "NOMBRE"}},
				descriptionField,
			},
			ExternalFields: []reconcile.ExternalField{
				{Canonical: "nombre", External: "name"},
				{Canonical: "descripcion", External: "description"},
			},
			StoredIDFields: storedIDVariants,
			SlugLinked:     true,
		},
		domain.EntityCoupons: {
			Name:       "coupon",
			Label:      "Coupon",
			Collection: domain.EntityCoupons,
			External:   &coupons,
			Fields: domain.FieldMap{
				{Canonical: "codigo", Variants: []string{"codigo", "code", "CODIGO"}},
				{Canonical: "tipo_descuento", Variants: []string{"tipo_descuento", "tipoDescuento", "TIPO_DESCUENTO", "discount_type"}},
				{Canonical: "monto", Variants: []string{"monto", "amount", "MONTO"}},
				{Canonical: "fecha_expiracion", Variants: []string{"fecha_expiracion", "fechaExpiracion", "FECHA_EXPIRACION", "date_expires"}},
				{Canonical: "limite_uso", Variants: []string{"limite_uso", "limiteUso", "LIMITE_USO", "usage_limit"}},
				descriptionField,
			},
			ExternalFields: []reconcile.ExternalField{
				{Canonical: "codigo", External: "code"},
				{Canonical: "tipo_descuento", External: "discount_type"},
				{Canonical: "monto", External: "amount", Transform: normalizeAmount},
				{Canonical: "fecha_expiracion", External: "date_expires", Transform: normalizeDate(loc)},
				{Canonical: "limite_uso", External: "usage_limit", Transform: normalizeCount},
				{Canonical: "descripcion", External: "description"},
			},
			StoredIDFields: storedIDVariants,
			Rules: map[string]string{
				"tipo_descuento": domain.OneOf(domain.DiscountTypes),
			},
		},
		domain.EntityOrders: {
			Name:       "order",
			Label:      "Order",
			Collection: domain.EntityOrders,
			External:   &orders,
			Fields: domain.FieldMap{
				{Canonical: "estado", Variants: []string{"estado", "status", "ESTADO"}},
				{Canonical: "nota", Variants: []string{"nota", "note", "NOTA", "customer_note"}},
				{Canonical: "plataforma", Variants: []string{"plataforma", "platform", "PLATAFORMA"}},
			},
			ExternalFields: []reconcile.ExternalField{
				{Canonical: "estado", External: "status"},
				{Canonical: "nota", External: "customer_note"},
			},
			StoredIDFields: storedIDVariants,
			Rules: map[string]string{
				"estado":     domain.OneOf(domain.OrderStatuses),
				"plataforma": domain.OneOf(domain.Platforms),
			},
			PullFields: []reconcile.ExternalField{
				{Canonical: "estado", External: "status"},
				{Canonical: "total", External: "total", Transform: normalizeAmount},
			},
		},
	}
}

// normalizeAmount renders money as a two-decimal string, the format WooCommerce expects.
func normalizeAmount(v interface{}) (interface{}, error) {
	var d decimal.Decimal
	var err error
	switch n := v.(type) {
	case float64:
		d = decimal.NewFromFloat(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(n))
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return nil, fmt.Errorf("must be a decimal amount")
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("must not be negative")
	}
	return d.StringFixed(2), nil
}

const wooLocalLayout = "2006-01-02T15:04:05"

var naiveDateLayouts = []string{wooLocalLayout, "2006-01-02"}

// normalizeDate returns a transform producing the site-local ISO form
// WooCommerce stores. Timestamps with an offset are converted into loc;
// naive dates and times are taken as already local.
func normalizeDate(loc *time.Location) func(v interface{}) (interface{}, error) {
	return func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be a date string")
		}
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.In(loc).Format(wooLocalLayout), nil
		}
		for _, layout := range naiveDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(wooLocalLayout), nil
			}
		}
		return nil, fmt.Errorf("must be a date (YYYY-MM-DD)")
	}
}

func normalizeCount(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(int64(n)) {
			return nil, fmt.Errorf("must be a non-negative whole number")
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("must be a non-negative whole number")
		}
		return i, nil
	}
	return nil, fmt.Errorf("must be a non-negative whole number")
}
