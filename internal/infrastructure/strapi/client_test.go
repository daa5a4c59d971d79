package strapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tienda-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token", 5*time.Second)
}

func TestClient_FindByField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/marcas", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("filters[id][$eq]"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[{"id":12,"documentId":"doc12","nombre_marca":"Acme"}],"meta":{}}`)
	})

	records, err := client.FindByField(context.Background(), "marcas", "id", "12")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(12), records[0].ID)
	assert.Equal(t, "doc12", records[0].DocumentID)
	assert.Equal(t, "Acme", records[0].Fields["nombre_marca"])
	assert.NotContains(t, records[0].Fields, "id")
}

func TestClient_List_WrappedAttributes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000", r.URL.Query().Get("pagination[pageSize]"))
		_, _ = io.WriteString(w, `{
			"data":[
				{"id":1,"attributes":{"documentId":"a1","NOMBRE_SELLO":"Norte"}},
				{"id":2,"documentId":"b2","nombre_sello":"Sur"}
			],
			"meta":{"pagination":{"page":1,"pageSize":1000,"pageCount":1,"total":2}}
		}`)
	})

	records, pagination, err := client.List(context.Background(), "sellos", 1, 1000)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "a1", records[0].DocumentID)
	assert.Equal(t, "Norte", records[0].Fields["NOMBRE_SELLO"])
	assert.NotContains(t, records[0].Fields, "attributes")
	assert.Equal(t, "b2", records[1].DocumentID)
	assert.Equal(t, int64(2), pagination.TotalItems)
}

func TestClient_Get_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"data":null,"error":{"status":404,"name":"NotFoundError","message":"Not Found"}}`)
	})

	rec, err := client.Get(context.Background(), "marcas", "missing")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestClient_Update_SendsDataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/cupones/doc-9", r.URL.Path)

		var body map[string]map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "VERANO", body["data"]["codigo"])

		_, _ = io.WriteString(w, `{"data":{"id":9,"documentId":"doc-9","codigo":"VERANO"}}`)
	})

	rec, err := client.Update(context.Background(), "cupones", "doc-9", map[string]interface{}{"codigo": "VERANO"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.ID)
	assert.Equal(t, "VERANO", rec.Fields["codigo"])
}

func TestClient_ErrorMessagePassthrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"data":null,"error":{"status":400,"name":"ValidationError","message":"Invalid key nombre"}}`)
	})

	err := client.Delete(context.Background(), "etiquetas", "x")
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Equal(t, "Invalid key nombre", upstream.Message)
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(err))
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", time.Second)

	_, err := client.Get(context.Background(), "marcas", "1")
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 0, upstream.StatusCode)
}
