package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tienda-backend/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const systemName = domain.SystemCommerce

// Client talks to the WooCommerce REST API (wp-json/wc/v3). It satisfies domain.CommerceStore.
type Client struct {
	http *resty.Client
}

// NewClient authenticates with the consumer key/secret over basic auth, which
// WooCommerce accepts on HTTPS stores.
func NewClient(storeURL, consumerKey, consumerSecret string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(storeURL, "/")+"/wp-json/wc/v3").
		SetTimeout(timeout).
		SetBasicAuth(consumerKey, consumerSecret).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &Client{http: c}
}

// Attribute terms live under their parent attribute.
func AttributeTerms(attributeID int64) domain.ExternalResource {
	return domain.ExternalResource{Path: fmt.Sprintf("products/attributes/%d/terms", attributeID)}
}

var (
	ProductTags       = domain.ExternalResource{Path: "products/tags"}
	ProductCategories = domain.ExternalResource{Path: "products/categories"}
	Coupons           = domain.ExternalResource{Path: "coupons"}
	Orders            = domain.ExternalResource{Path: "orders", AnyStatusFallback: true}
)

// FindBySlug returns whatever WooCommerce matches for the slug. WooCommerce
// normalises slugs on its side, so callers must still compare exactly.
func (c *Client) FindBySlug(ctx context.Context, res domain.ExternalResource, slug string) ([]domain.ExternalRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("slug", slug).
		SetQueryParam("per_page", "100").
		Get("/" + res.Path)
	body, err := c.check(resp, err)
	if err != nil {
		return nil, err
	}
	return decodeList(body)
}

func (c *Client) Get(ctx context.Context, res domain.ExternalResource, id int64) (*domain.ExternalRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/%s/%d", res.Path, id))
	body, err := c.check(resp, err)
	if err == nil {
		return decodeOne(body)
	}
	if !res.AnyStatusFallback || !domain.IsNotFound(err) {
		return nil, err
	}

	// Trashed orders 404 on the item endpoint but still show up in a status=any search.
	resp, err = c.http.R().
		SetContext(ctx).
		SetQueryParam("include", strconv.FormatInt(id, 10)).
		SetQueryParam("status", "any").
		Get("/" + res.Path)
	body, err = c.check(resp, err)
	if err != nil {
		return nil, err
	}
	records, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, domain.ErrExternalNotFound
}

func (c *Client) Update(ctx context.Context, res domain.ExternalResource, id int64, payload map[string]interface{}) (*domain.ExternalRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(fmt.Sprintf("/%s/%d", res.Path, id))
	body, err := c.check(resp, err)
	if err != nil {
		return nil, err
	}
	return decodeOne(body)
}

// Delete removes the record permanently; terms, tags and categories cannot be trashed anyway.
func (c *Client) Delete(ctx context.Context, res domain.ExternalResource, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("force", "true").
		Delete(fmt.Sprintf("/%s/%d", res.Path, id))
	_, err = c.check(resp, err)
	return err
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) check(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, &domain.UpstreamError{System: systemName, Message: err.Error()}
	}
	body := resp.Body()
	if resp.IsError() {
		msg := strings.TrimSpace(string(body))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &domain.UpstreamError{System: systemName, StatusCode: resp.StatusCode(), Message: msg}
	}
	return body, nil
}

func decodeList(body []byte) ([]domain.ExternalRecord, error) {
	var items []map[string]interface{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &domain.UpstreamError{System: systemName, StatusCode: http.StatusBadGateway, Message: "expected a JSON array"}
	}
	out := make([]domain.ExternalRecord, 0, len(items))
	for _, item := range items {
		out = append(out, decodeRecord(item))
	}
	return out, nil
}

func decodeOne(body []byte) (*domain.ExternalRecord, error) {
	var item map[string]interface{}
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, &domain.UpstreamError{System: systemName, StatusCode: http.StatusBadGateway, Message: "expected a JSON object"}
	}
	rec := decodeRecord(item)
	return &rec, nil
}

func decodeRecord(item map[string]interface{}) domain.ExternalRecord {
	rec := domain.ExternalRecord{Fields: item}
	if id, ok := item["id"].(float64); ok {
		rec.ID = int64(id)
	}
	rec.Slug, _ = item["slug"].(string)
	return rec
}
