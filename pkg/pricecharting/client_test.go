package pricecharting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
}

func TestSearch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("t"))
		assert.Equal(t, "chrono trigger super-nintendo", r.URL.Query().Get("q"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"status": "success",
			"products": [
				{"id": "6910", "product-name": "Chrono Trigger", "console-name": "Super Nintendo"},
				{"id": "102118", "product-name": "Chrono Trigger [Player's Choice]", "console-name": "Super Nintendo"}
			]
		}`))
	})

	products, err := c.Search(context.Background(), "chrono trigger super-nintendo")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "6910", products[0].ID)
	assert.Equal(t, "Chrono Trigger", products[0].ProductName)
	assert.Equal(t, "Super Nintendo", products[0].ConsoleName)
}

func TestSearch_Empty(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "success", "products": []}`))
	})

	products, err := c.Search(context.Background(), "nothing at all")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProduct(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product", r.URL.Path)
		assert.Equal(t, "6910", r.URL.Query().Get("id"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"id": "6910",
			"product-name": "Chrono Trigger",
			"console-name": "Super Nintendo",
			"genre": "RPG",
			"release-date": "1995-08-11",
			"upc": "662248990057",
			"loose-price": 10999,
			"cib-price": 24800,
			"new-price": 150000
		}`))
	})

	p, err := c.Product(context.Background(), "6910")
	require.NoError(t, err)

	assert.Equal(t, "Chrono Trigger", p.ProductName)
	require.NotNil(t, p.LoosePrice)
	assert.Equal(t, 109.99, p.LoosePrice.Dollars())
	require.NotNil(t, p.CIBPrice)
	assert.Equal(t, 248.00, p.CIBPrice.Dollars())
	assert.Nil(t, p.UsedPrice)
	assert.Equal(t, "https://www.pricecharting.com/game/6910", p.URL())
}

func TestAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status": "error", "error-message": "invalid token"}`))
	})

	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
