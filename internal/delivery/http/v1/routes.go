package v1

import (
	"net/http"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/utils"
)

// RegisterTiendaRoutes mounts the admin API. protect wraps every route with
// authentication; tests pass an identity wrapper.
func RegisterTiendaRoutes(mux *http.ServeMux, tienda *TiendaHandler, media *MediaHandler, config *ConfigHandler, protect func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /api/tienda", protect(tienda.Entities))
	mux.Handle("GET /api/tienda/sync-events", protect(tienda.SyncEvents))
	mux.Handle("GET /api/tienda/enums", protect(config.GetEnums))
	mux.Handle("GET /api/tienda/{entity}", protect(tienda.List))
	mux.Handle("GET /api/tienda/{entity}/{id}", protect(tienda.Get))
	mux.Handle("PUT /api/tienda/{entity}/{id}", protect(tienda.Update))
	mux.Handle("DELETE /api/tienda/{entity}/{id}", protect(tienda.Delete))
	mux.Handle("POST /api/tienda/"+domain.EntityOrders+"/{id}/sync", protect(tienda.SyncOrder))
	mux.Handle("POST /api/tienda/{entity}/media", protect(media.Upload))
}

// HealthPaths are the unauthenticated liveness endpoints. Load balancers poll
// them, so they are also exempt from rate limiting.
var HealthPaths = []string{"/health", "/api/health"}

// RegisterHealthRoutes mounts HealthHandler on every HealthPaths entry.
func RegisterHealthRoutes(mux *http.ServeMux, components map[string]bool) {
	h := HealthHandler(components)
	for _, p := range HealthPaths {
		mux.HandleFunc("GET "+p, h)
	}
}

// HealthHandler reports liveness and which optional backends are wired.
func HealthHandler(components map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"components": components,
		})
	}
}
