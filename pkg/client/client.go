// Package client is a typed REST client for the AgroFix API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agrofix/agrofix-backend/pkg/types"
)

const (
	defaultTimeout      = 15 * time.Second
	idempotencyHeader   = "Idempotency-Key"
	maxErrorBodyPreview = 512
)

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("agrofix api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("agrofix api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Client keeps the session cookie in a jar and the bearer token in memory;
// both are sent on every request.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the transport client. Its Jar is kept when set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken seeds the bearer token, e.g. one restored from disk.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	return c, nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResult, error) {
	var out types.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/register", nil, req, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*types.AuthResult, error) {
	var out types.AuthResult
	creds := types.Credentials{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, creds, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return &out, nil
}

// Logout clears local credentials even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	c.setToken("")
	if jar, jerr := cookiejar.New(nil); jerr == nil {
		c.http.Jar = jar
	}
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductQuery filters ListProducts.
type ProductQuery struct {
	Category string
	InStock  bool
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]types.Product, error) {
	query := url.Values{}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.InStock {
		query.Set("inStock", "true")
	}
	var out []types.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*types.Product, error) {
	var out types.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, req types.CreateProductRequest) (*types.Product, error) {
	var out types.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req types.UpdateProductRequest) (*types.Product, error) {
	var out types.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+strconv.FormatInt(id, 10), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// CreateOrder places an order. A non-empty idempotencyKey makes retries of
// the same request return the first response.
func (c *Client) CreateOrder(ctx context.Context, req types.CreateOrderRequest, idempotencyKey string) (*types.Order, error) {
	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{idempotencyHeader: []string{idempotencyKey}}
	}
	var out types.Order
	if err := c.doWithHeaders(ctx, http.MethodPost, "/api/orders", nil, headers, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var out []types.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*types.Order, error) {
	var out types.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) (*types.Order, error) {
	var out types.Order
	body := types.UpdateOrderStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+strconv.FormatInt(id, 10)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Track(ctx context.Context, orderNumber string) (*types.OrderTracking, error) {
	var out types.OrderTracking
	if err := c.do(ctx, http.MethodGet, "/api/track/"+url.PathEscape(orderNumber), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*types.Cart, error) {
	var out types.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReplaceCart(ctx context.Context, items types.LineItems) (*types.Cart, error) {
	if items == nil {
		items = types.LineItems{}
	}
	var out types.Cart
	body := types.UpdateCartRequest{Items: &items}
	if err := c.do(ctx, http.MethodPost, "/api/cart", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.doWithHeaders(ctx, method, path, query, nil, body, out)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path string, query url.Values, headers http.Header, body, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	endpoint.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}

	var envelope types.DataEnvelope[json.RawMessage]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return &Error{
			Status:  status,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			Details: envelope.Error.Details,
		}
	}
	preview := strings.TrimSpace(string(raw))
	if len(preview) > maxErrorBodyPreview {
		preview = preview[:maxErrorBodyPreview]
	}
	if preview == "" {
		preview = http.StatusText(status)
	}
	return &Error{Status: status, Message: preview}
}
