// Package session holds the client-side controllers behind the three screens:
// the customer order page, the staff order board and the staff table board.
// Each keeps transient state locally, issues commands against the HTTP API and
// treats relay notifications purely as a signal to re-query.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/projection"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a staff bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode >= 300 {
			return &APIError{Status: res.StatusCode, Message: res.Status}
		}
		return err
	}

	if res.StatusCode >= 300 || !env.Success {
		return &APIError{Status: res.StatusCode, Message: env.Message}
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) Order(ctx context.Context, table, id string) (models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodGet, "/order/"+table+"/"+id, nil, &order)
	return order, err
}

func (c *Client) CreateOrder(ctx context.Context, table, id string) (models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodPost, "/order/"+table+"/"+id, nil, &order)
	return order, err
}

func (c *Client) AppendItems(ctx context.Context, table, id string, lines []models.OrderLine) (models.Order, error) {
	var order models.Order
	body := map[string]interface{}{"items": lines}
	err := c.do(ctx, http.MethodPut, "/order/"+table+"/"+id, body, &order)
	return order, err
}

func (c *Client) RemoveItem(ctx context.Context, table, id, lineID string) (models.Order, error) {
	var order models.Order
	body := map[string]interface{}{"line_id": lineID}
	err := c.do(ctx, http.MethodDelete, "/order/"+table+"/"+id, body, &order)
	return order, err
}

func (c *Client) Items(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := c.do(ctx, http.MethodGet, "/item", nil, &items)
	return items, err
}

func (c *Client) StaffOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, "/order/staff", nil, &orders)
	return orders, err
}

func (c *Client) UpdateItemStatus(ctx context.Context, orderID, lineID, status string) (models.Order, error) {
	var order models.Order
	body := map[string]interface{}{"id": orderID, "line_id": lineID, "status": status}
	err := c.do(ctx, http.MethodPut, "/order/staff", body, &order)
	return order, err
}

// PendingOrders returns the open orders and the greatest existing order id.
func (c *Client) PendingOrders(ctx context.Context) ([]models.Order, string, error) {
	var data struct {
		Orders []models.Order `json:"orders"`
		LastID string         `json:"lastId"`
	}
	err := c.do(ctx, http.MethodGet, "/order/staff/pending", nil, &data)
	return data.Orders, data.LastID, err
}

func (c *Client) SettleOrder(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	body := map[string]interface{}{"id": orderID}
	err := c.do(ctx, http.MethodPut, "/order/staff/pending", body, &order)
	return order, err
}

func (c *Client) Tables(ctx context.Context) ([]projection.TableView, error) {
	var views []projection.TableView
	err := c.do(ctx, http.MethodGet, "/table", nil, &views)
	return views, err
}
