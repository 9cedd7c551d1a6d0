package shopsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// HealthResponse is the body of /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime,omitempty"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := json.Unmarshal([]byte(resp.body), &health); err != nil {
		return nil, &StatusError{Status: resp.status, Body: resp.body}
	}
	if resp.status != http.StatusOK {
		return &health, &StatusError{Status: resp.status, Body: resp.body}
	}
	return &health, nil
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

// Page fetches any page as HTML.
func (c *Client) Page(ctx context.Context, path string) (string, error) {
	return c.get(ctx, path)
}

func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	form := url.Values{
		"productId": {strconv.FormatInt(productID, 10)},
		"quantity":  {strconv.Itoa(quantity)},
	}
	_, err := c.expect(ctx, "/cart/add", form, "/cart")
	return err
}

func (c *Client) ClearCart(ctx context.Context) error {
	_, err := c.expect(ctx, "/cart/clear", nil, "/cart")
	return err
}

// ProductRequest is the admin product form. Price is in dollars.
type ProductRequest struct {
	Name        string
	Category    string
	Quantity    int
	Price       string
	Image       string
	Description string
}

// CreateProduct adds a product. The account must be an admin.
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) error {
	form := url.Values{
		"name":        {req.Name},
		"category":    {req.Category},
		"quantity":    {strconv.Itoa(req.Quantity)},
		"price":       {req.Price},
		"image":       {req.Image},
		"description": {req.Description},
	}
	_, err := c.expect(ctx, "/admin/products", form, "/admin/products")
	return err
}
