package strapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tienda-backend/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const systemName = domain.SystemContentStore

// Client talks to the Strapi REST API. It satisfies domain.ContentStore.
type Client struct {
	http *resty.Client
}

// NewClient creates a content store client rooted at <baseURL>/api.
func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if apiToken != "" {
		c.SetAuthToken(apiToken)
	}
	return &Client{http: c}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination *struct {
			Page      int   `json:"page"`
			PageSize  int   `json:"pageSize"`
			PageCount int   `json:"pageCount"`
			Total     int64 `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// FindByField runs an exact-match filter. Some collections reject filters on
// some fields; that surfaces as an UpstreamError for the caller to fall back on.
func (c *Client) FindByField(ctx context.Context, collection, field, value string) ([]domain.Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam(fmt.Sprintf("filters[%s][$eq]", field), value).
		SetQueryParam("pagination[pageSize]", "1").
		Get("/" + collection)
	env, err := c.decode(resp, err)
	if err != nil {
		return nil, err
	}
	return decodeList(env.Data)
}

func (c *Client) List(ctx context.Context, collection string, page, pageSize int) ([]domain.Record, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("pagination[page]", strconv.Itoa(page)).
		SetQueryParam("pagination[pageSize]", strconv.Itoa(pageSize)).
		Get("/" + collection)
	env, err := c.decode(resp, err)
	if err != nil {
		return nil, nil, err
	}

	records, err := decodeList(env.Data)
	if err != nil {
		return nil, nil, err
	}

	pagination := &domain.Pagination{Page: page, PageSize: pageSize, TotalItems: int64(len(records)), TotalPages: 1}
	if p := env.Meta.Pagination; p != nil {
		pagination = &domain.Pagination{Page: p.Page, PageSize: p.PageSize, TotalItems: p.Total, TotalPages: p.PageCount}
	}
	return records, pagination, nil
}

func (c *Client) Get(ctx context.Context, collection, key string) (*domain.Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(itemPath(collection, key))
	env, err := c.decode(resp, err)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return decodeOne(env.Data)
}

func (c *Client) Update(ctx context.Context, collection, key string, fields map[string]interface{}) (*domain.Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{"data": fields}).
		Put(itemPath(collection, key))
	env, err := c.decode(resp, err)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	return decodeOne(env.Data)
}

func (c *Client) Delete(ctx context.Context, collection, key string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(itemPath(collection, key))
	_, err = c.decode(resp, err)
	return err
}

func itemPath(collection, key string) string {
	return "/" + collection + "/" + url.PathEscape(key)
}

// decode turns a resty result into the Strapi envelope or an UpstreamError.
func (c *Client) decode(resp *resty.Response, err error) (*envelope, error) {
	if err != nil {
		return nil, &domain.UpstreamError{System: systemName, Message: err.Error()}
	}

	var env envelope
	body := resp.Body()
	if len(body) > 0 {
		if uerr := json.Unmarshal(body, &env); uerr != nil && !resp.IsError() {
			return nil, &domain.UpstreamError{
				System:     systemName,
				StatusCode: http.StatusBadGateway,
				Message:    fmt.Sprintf("invalid response body: %v", uerr),
			}
		}
	}

	if resp.IsError() {
		msg := strings.TrimSpace(string(body))
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &domain.UpstreamError{System: systemName, StatusCode: resp.StatusCode(), Message: msg}
	}
	return &env, nil
}

func decodeList(raw json.RawMessage) ([]domain.Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.Record{}, nil
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &domain.UpstreamError{System: systemName, StatusCode: http.StatusBadGateway, Message: "expected a list in data"}
	}
	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		records = append(records, decodeRecord(item))
	}
	return records, nil
}

func decodeOne(raw json.RawMessage) (*domain.Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		// DELETE on some versions answers with an empty body
		return nil, domain.ErrRecordNotFound
	}
	var item map[string]interface{}
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, &domain.UpstreamError{System: systemName, StatusCode: http.StatusBadGateway, Message: "expected an object in data"}
	}
	rec := decodeRecord(item)
	return &rec, nil
}

// decodeRecord accepts both the flat shape {id, documentId, ...} and the
// wrapped shape {id, attributes: {...}}.
func decodeRecord(item map[string]interface{}) domain.Record {
	rec := domain.Record{Fields: make(map[string]interface{}, len(item))}

	for k, v := range item {
		if k == "attributes" {
			continue
		}
		rec.Fields[k] = v
	}
	if attrs, ok := item["attributes"].(map[string]interface{}); ok {
		for k, v := range attrs {
			rec.Fields[k] = v
		}
	}

	rec.ID = domain.AsInt64(rec.Fields["id"])
	rec.DocumentID = domain.GetString(rec.Fields, "documentId", "document_id")
	delete(rec.Fields, "id")
	delete(rec.Fields, "documentId")
	delete(rec.Fields, "document_id")
	return rec
}
