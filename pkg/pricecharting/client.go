// Package pricecharting is a client for the PriceCharting API, which
// tracks market prices for video games, LEGO sets, and comic books.
package pricecharting

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.pricecharting.com"

// Client queries the PriceCharting product catalog.
type Client interface {
	// Search returns catalog products matching a free-text query,
	// ordered by relevance.
	Search(ctx context.Context, query string) ([]ProductSummary, error)

	// Product fetches full price detail for a single product id.
	Product(ctx context.Context, id string) (*Product, error)
}

// Cents is a price in US pennies, PriceCharting's native unit.
type Cents int

// Dollars converts to USD.
func (c Cents) Dollars() float64 { return float64(c) / 100 }

// ProductSummary is one hit from the products search endpoint.
type ProductSummary struct {
	ID          string `json:"id"`
	ProductName string `json:"product-name"`
	ConsoleName string `json:"console-name"`
}

// Product is the full price detail for one catalog entry. Absent price
// points are nil; PriceCharting omits them for categories where the
// condition does not apply.
type Product struct {
	ID          string `json:"id"`
	ProductName string `json:"product-name"`
	ConsoleName string `json:"console-name"`
	Genre       string `json:"genre,omitempty"`
	ReleaseDate string `json:"release-date,omitempty"`
	UPC         string `json:"upc,omitempty"`

	LoosePrice *Cents `json:"loose-price,omitempty"`
	CIBPrice   *Cents `json:"cib-price,omitempty"`
	NewPrice   *Cents `json:"new-price,omitempty"`
	UsedPrice  *Cents `json:"used-price,omitempty"`
}

// URL returns the public product page.
func (p *Product) URL() string {
	return defaultBaseURL + "/game/" + p.ID
}

// APIError is a non-2xx response from PriceCharting.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pricecharting: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a PriceCharting API client. The default rate limit of
// 5 req/s keeps a full lookup (search plus per-product detail) polite.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string) ([]ProductSummary, error) {
	var result struct {
		Status   string           `json:"status"`
		Products []ProductSummary `json:"products"`
	}
	if err := c.get(ctx, "/api/products", url.Values{"q": {query}}, &result); err != nil {
		return nil, err
	}
	return result.Products, nil
}

func (c *httpClient) Product(ctx context.Context, id string) (*Product, error) {
	var result Product
	if err := c.get(ctx, "/api/product", url.Values{"id": {id}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "pricecharting: rate limit wait")
	}

	q.Set("t", c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "pricecharting: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "pricecharting: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "pricecharting: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "pricecharting: unmarshal response")
	}
	return nil
}
