package domain

import "strings"

// Order statuses accepted by the commerce platform
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusOnHold     = "on-hold"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusFailed     = "failed"
	OrderStatusTrash      = "trash"
)

// Coupon discount types
const (
	DiscountPercent      = "percent"
	DiscountFixedCart    = "fixed_cart"
	DiscountFixedProduct = "fixed_product"
)

// Order platforms
const (
	PlatformWooCommerce = "woocommerce"
	PlatformManual      = "manual"
)

// Route segments under /api/tienda
const (
	EntityBrands     = "marcas"
	EntityImprints   = "sellos"
	EntityTags       = "etiquetas"
	EntityCategories = "categorias"
	EntityCoupons    = "cupones"
	EntityOrders     = "pedidos"
	EntityProducts   = "productos"
)

// List Exports for API
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusOnHold,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
	OrderStatusFailed,
	OrderStatusTrash,
}

var DiscountTypes = []string{DiscountPercent, DiscountFixedCart, DiscountFixedProduct}

var Platforms = []string{PlatformWooCommerce, PlatformManual}

// ReservedIDs are route segments that must never be treated as record ids.
// The value is the endpoint the caller most likely meant.
var ReservedIDs = map[string]string{
	EntityProducts: "/api/tienda/" + EntityProducts,
}

// OneOf renders a validator "oneof" tag for values.
func OneOf(values []string) string {
	return "oneof=" + strings.Join(values, " ")
}
