// Package backend is the typed client for the upstream orders REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"orders-admin/internal/order"
)

// ErrNotFound marks a 404 from the upstream: the referenced order or product
// is absent.
var ErrNotFound = errors.New("backend: not found")

// StatusError is a non-2xx upstream response that is not a plain not-found.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: unexpected status %d", e.Code)
}

// OrderPage is one page of the upstream order list.
type OrderPage struct {
	List  []order.Row `json:"list"`
	Total int         `json:"total"`
}

// Gateway is the upstream surface the admin depends on. The list
// synchronizer and admin handlers consume this interface; tests substitute it.
type Gateway interface {
	ListOrders(ctx context.Context, q order.PageQuery) (*OrderPage, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	CreateOrder(ctx context.Context, draft order.Draft) error
	UpdateOrder(ctx context.Context, id int64, draft order.Draft) error
	DeleteOrder(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]order.Product, error)
}

var _ Gateway = (*Client)(nil)

// Client implements Gateway over HTTP against a single base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

const DefaultTimeout = 10 * time.Second

// NewClient creates a client for the given base URL. A zero timeout falls
// back to DefaultTimeout; a hung upstream surfaces as a request error rather
// than blocking its caller forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListOrders fetches one page of orders for the given query.
func (c *Client) ListOrders(ctx context.Context, q order.PageQuery) (*OrderPage, error) {
	var page OrderPage
	if err := c.getJSON(ctx, "/api/orders?"+q.Values().Encode(), &page); err != nil {
		return nil, err
	}
	if page.List == nil {
		page.List = []order.Row{}
	}
	return &page, nil
}

// GetOrder fetches a single order with its nested line items.
func (c *Client) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := c.getJSON(ctx, fmt.Sprintf("/api/order/%d", id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder sends the full order representation to the upstream.
func (c *Client) CreateOrder(ctx context.Context, draft order.Draft) error {
	return c.send(ctx, http.MethodPost, "/api/order", draft)
}

// UpdateOrder replaces the order's representation wholesale.
func (c *Client) UpdateOrder(ctx context.Context, id int64, draft order.Draft) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/order/%d", id), draft)
}

// DeleteOrder deletes the order by id.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/order/%d", id), nil)
}

// ListProducts fetches the full product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]order.Product, error) {
	var body struct {
		Data []order.Product `json:"data"`
	}
	if err := c.getJSON(ctx, "/api/products", &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		body.Data = []order.Product{}
	}
	return body.Data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return fmt.Errorf("backend: request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
