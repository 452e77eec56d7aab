// Package api is the HTTP client for the remote catalog and order service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/internal/hydrate"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is kept on StatusError.
const maxErrorBody = 4 << 10

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return "api: " + e.Method + " " + e.URL + ": " + http.StatusText(e.StatusCode)
	}
	return "api: " + e.Method + " " + e.URL + ": " + http.StatusText(e.StatusCode) + ": " + body
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger receives warnings about catalog items that were skipped.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// Client talks to the remote storefront API. Product images are rewritten
// to absolute CDN URLs on the way in.
type Client struct {
	baseURL  string
	cdnURL   string
	http     *http.Client
	logger   *zap.Logger
	products *hydrate.Decoder[storefront.CatalogItem]
}

// New constructs a Client for the API rooted at baseURL whose images live
// under cdnURL.
func New(baseURL, cdnURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cdnURL:  strings.TrimRight(cdnURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	c.products = hydrate.New[storefront.CatalogItem]().
		Rewrite(c.rewriteImage).
		Check(func(_ hydrate.Location, item *storefront.CatalogItem) error {
			return validate.Struct(item)
		}).
		Numbers()
	return c
}

type productList struct {
	Total int              `json:"total"`
	Items []map[string]any `json:"items"`
}

// ProductList fetches the full catalog. Items that fail to decode or
// validate are logged and left out; the rest of the catalog is returned.
func (c *Client) ProductList(ctx context.Context) ([]storefront.CatalogItem, error) {
	var list productList
	if err := c.do(ctx, http.MethodGet, "/product/", nil, &list); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	items := make([]storefront.CatalogItem, 0, len(list.Items))
	for i, payload := range list.Items {
		item, err := c.products.Decode(hydrate.Location{Resource: "product", Index: i}, payload)
		if err != nil {
			c.logger.Warn("catalog item skipped", zap.Int("index", i), zap.Any("id", payload["id"]), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Product fetches a single catalog item.
func (c *Client) Product(ctx context.Context, id string) (storefront.CatalogItem, error) {
	var payload map[string]any
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &payload); err != nil {
		return storefront.CatalogItem{}, errors.Wrapf(err, "get product %q", id)
	}
	item, err := c.products.Decode(hydrate.Location{Resource: "product", Index: -1}, payload)
	if err != nil {
		return storefront.CatalogItem{}, errors.Wrapf(err, "get product %q", id)
	}
	return item, nil
}

type orderBody struct {
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Payment string      `json:"payment"`
	Items   []string    `json:"items"`
	Total   json.Number `json:"total"`
}

type orderReply struct {
	ID    string      `json:"id"`
	Total json.Number `json:"total"`
}

// PostOrder submits an order and returns the remote confirmation.
func (c *Client) PostOrder(ctx context.Context, req storefront.OrderRequest) (storefront.OrderResult, error) {
	body := orderBody{
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Payment: string(req.Payment),
		Items:   append([]string{}, req.Items...),
		Total:   json.Number(req.Total.String()),
	}
	var reply orderReply
	if err := c.do(ctx, http.MethodPost, "/order", body, &reply); err != nil {
		return storefront.OrderResult{}, errors.Wrap(err, "post order")
	}
	total := decimal.Zero
	if reply.Total != "" {
		parsed, err := decimal.NewFromString(reply.Total.String())
		if err != nil {
			return storefront.OrderResult{}, errors.Wrapf(err, "post order: total %q", reply.Total)
		}
		total = parsed
	}
	return storefront.OrderResult{ID: reply.ID, Total: total}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(buf)
	}
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// rewriteImage points relative image paths at the CDN.
func (c *Client) rewriteImage(_ hydrate.Location, payload map[string]any) error {
	image, ok := payload["image"].(string)
	if !ok || image == "" || c.cdnURL == "" {
		return nil
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return nil
	}
	payload["image"] = c.cdnURL + "/" + strings.TrimPrefix(image, "/")
	return nil
}
