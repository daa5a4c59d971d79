package v1

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"tienda-backend/internal/domain"
	"tienda-backend/internal/reconcile"
	"tienda-backend/internal/usecase"
	"tienda-backend/pkg/logger"
	"tienda-backend/pkg/utils"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

type TiendaHandler struct {
	usecase *usecase.TiendaUsecase
}

func NewTiendaHandler(uc *usecase.TiendaUsecase) *TiendaHandler {
	return &TiendaHandler{usecase: uc}
}

// List handles GET /api/tienda/{entity}?page=&pageSize=
func (h *TiendaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := utils.ParseInt(q.Get("page"), 1)
	pageSize := utils.ParseInt(q.Get("pageSize"), 0)

	rows, pagination, err := h.usecase.List(r.Context(), r.PathValue("entity"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    rows,
		Meta:    pagination,
	})
}

func (h *TiendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.usecase.Get(r.Context(), r.PathValue("entity"), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: row})
}

func (h *TiendaHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := usecase.CheckID(r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.usecase.Update(r.Context(), r.PathValue("entity"), r.PathValue("id"), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, res)
}

func (h *TiendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.usecase.Delete(r.Context(), r.PathValue("entity"), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, res)
}

// SyncOrder handles POST /api/tienda/pedidos/{id}/sync
func (h *TiendaHandler) SyncOrder(w http.ResponseWriter, r *http.Request) {
	res, err := h.usecase.SyncOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, res)
}

// SyncEvents handles GET /api/tienda/sync-events?entity=&limit=
func (h *TiendaHandler) SyncEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.usecase.SyncEvents(r.Context(), q.Get("entity"), utils.ParseInt(q.Get("limit"), 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: events})
}

// Entities handles GET /api/tienda
func (h *TiendaHandler) Entities(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: h.usecase.Entities()})
}

// decodeFields accepts {data:{...}} and, for older clients, a bare object.
func decodeFields(r *http.Request) (map[string]interface{}, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &domain.ValidationError{Message: "could not read request body"}
	}
	if len(body) > maxBodyBytes {
		return nil, &domain.ValidationError{Message: "request body too large"}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &domain.ValidationError{Message: "request body is required"}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ValidationError{Message: "request body must be a JSON object"}
	}
	if data, ok := payload["data"]; ok {
		inner, isObject := data.(map[string]interface{})
		if !isObject {
			return nil, &domain.ValidationError{Field: "data", Message: "must be an object"}
		}
		return inner, nil
	}
	return payload, nil
}

func writeResult(w http.ResponseWriter, res *reconcile.Result) {
	resp := domain.Response{
		Success: true,
		Message: res.Message,
		Sync:    res.Sync(),
	}
	if res.Record != nil {
		resp.Data = res.Record.Flatten()
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.StatusCode(err)
	resp := domain.Response{Success: false, Error: err.Error()}

	var reserved *domain.ReservedIDError
	if errors.As(err, &reserved) {
		resp.Hint = reserved.Hint
	}

	log := logger.WithContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
		// upstream messages pass through; anything else is ours and stays in the log
		var upstream *domain.UpstreamError
		if status == http.StatusInternalServerError && !errors.As(err, &upstream) {
			resp.Error = "internal server error"
		}
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	utils.WriteJSON(w, status, resp)
}
