package v1

import (
	"net/http"
	"time"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/cache"
	"tienda-backend/pkg/utils"
)

const enumsCacheKey = "tienda:config:enums"

type ConfigHandler struct {
	cache    cache.CacheService
	entities func() []string
}

func NewConfigHandler(c cache.CacheService, entities func() []string) *ConfigHandler {
	return &ConfigHandler{cache: c, entities: entities}
}

// GetEnums handles GET /api/tienda/enums: the values the admin UI offers in
// its dropdowns, matching the server-side validation rules.
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "private, max-age=3600")

	if val, found := h.cache.Get(enumsCacheKey); found {
		utils.WriteJSON(w, http.StatusOK, val)
		return
	}

	response := domain.Response{
		Success: true,
		Data: map[string]interface{}{
			"entities":      h.entities(),
			"orderStatuses": domain.OrderStatuses,
			"discountTypes": domain.DiscountTypes,
			"platforms":     domain.Platforms,
		},
	}
	h.cache.Set(enumsCacheKey, response, time.Hour)
	utils.WriteJSON(w, http.StatusOK, response)
}
