package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/retry"
	"github.com/totemove/inventory-cli/pkg/llm"
	"github.com/totemove/inventory-cli/pkg/pricecharting"
	"github.com/totemove/inventory-cli/pkg/serpapi"
)

func fastPolicy() retry.Policy {
	return retry.Policy{Attempts: 3, BaseDelay: 1, MaxDelay: 1, Service: "test"}
}

type stubSerp struct {
	calls int
	resps []*serpapi.LensResponse
	errs  []error
}

func (s *stubSerp) Lens(_ context.Context, _ string) (*serpapi.LensResponse, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.resps) {
		return s.resps[i], nil
	}
	return &serpapi.LensResponse{}, nil
}

func TestLensSearcher_ConvertsMatches(t *testing.T) {
	stub := &stubSerp{resps: []*serpapi.LensResponse{{
		VisualMatches: []serpapi.VisualMatch{
			{
				Title:     "EarthBound (Super Nintendo, 1995)",
				Link:      "https://www.ebay.com/itm/1",
				Source:    "eBay",
				Price:     &serpapi.Price{ExtractedValue: 199.99, Currency: "$"},
				Condition: "Pre-owned",
			},
			{Title: "EarthBound SNES", Link: "https://example.com/2"},
		},
	}}}

	s := NewLensSearcher(stub)
	s.policy = fastPolicy()

	candidates, err := s.Search(context.Background(), "https://host/img.jpg")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "EarthBound (Super Nintendo, 1995)", candidates[0].Title)
	assert.Equal(t, "https://www.ebay.com/itm/1", candidates[0].Source)
	assert.Equal(t, 199.99, candidates[0].Price)
	assert.Equal(t, "Pre-owned", candidates[0].Condition)
	assert.Zero(t, candidates[1].Price)
}

func TestLensSearcher_CapsMatches(t *testing.T) {
	resp := &serpapi.LensResponse{}
	for i := 0; i < 30; i++ {
		resp.VisualMatches = append(resp.VisualMatches, serpapi.VisualMatch{Title: "match"})
	}
	s := NewLensSearcher(&stubSerp{resps: []*serpapi.LensResponse{resp}})
	s.policy = fastPolicy()

	candidates, err := s.Search(context.Background(), "https://host/img.jpg")
	require.NoError(t, err)
	assert.Len(t, candidates, maxVisualMatches)
}

func TestLensSearcher_RetriesTransient(t *testing.T) {
	stub := &stubSerp{
		errs: []error{&serpapi.APIError{StatusCode: 503, Body: "unavailable"}},
		resps: []*serpapi.LensResponse{
			nil,
			{VisualMatches: []serpapi.VisualMatch{{Title: "recovered"}}},
		},
	}
	s := NewLensSearcher(stub)
	s.policy = fastPolicy()

	candidates, err := s.Search(context.Background(), "https://host/img.jpg")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 2, stub.calls)
}

func TestLensSearcher_AuthErrorNotRetried(t *testing.T) {
	stub := &stubSerp{errs: []error{
		&serpapi.APIError{StatusCode: 401, Body: "bad key"},
		&serpapi.APIError{StatusCode: 401, Body: "bad key"},
	}}
	s := NewLensSearcher(stub)
	s.policy = fastPolicy()

	_, err := s.Search(context.Background(), "https://host/img.jpg")
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

type stubChart struct {
	products   []pricecharting.ProductSummary
	details    map[string]*pricecharting.Product
	searchErr  error
	detailErrs map[string]error
}

func (s *stubChart) Search(_ context.Context, _ string) ([]pricecharting.ProductSummary, error) {
	return s.products, s.searchErr
}

func (s *stubChart) Product(_ context.Context, id string) (*pricecharting.Product, error) {
	if err := s.detailErrs[id]; err != nil {
		return nil, err
	}
	return s.details[id], nil
}

func cents(c pricecharting.Cents) *pricecharting.Cents { return &c }

func TestChartPricer_ExpandsPricePoints(t *testing.T) {
	stub := &stubChart{
		products: []pricecharting.ProductSummary{{ID: "6910", ProductName: "Chrono Trigger"}},
		details: map[string]*pricecharting.Product{
			"6910": {
				ID:          "6910",
				ProductName: "Chrono Trigger",
				ConsoleName: "Super Nintendo",
				ReleaseDate: "1995-08-11",
				LoosePrice:  cents(10999),
				CIBPrice:    cents(24800),
				NewPrice:    cents(150000),
			},
		},
	}
	p := NewChartPricer(stub)
	p.policy = fastPolicy()

	listings, err := p.Lookup(context.Background(), "chrono trigger super-nintendo", 5)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, model.ConditionLooseCart, listings[0].Basis)
	assert.Equal(t, 109.99, listings[0].Price)
	assert.Equal(t, "Super Nintendo", listings[0].Platform)
	assert.Equal(t, model.ConditionCompleteInBox, listings[1].Basis)
	assert.Equal(t, model.ConditionNewSealed, listings[2].Basis)
	assert.Equal(t, "https://www.pricecharting.com/game/6910", listings[0].ProductURL)
}

func TestChartPricer_HonorsMaxResults(t *testing.T) {
	stub := &stubChart{
		products: []pricecharting.ProductSummary{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		details: map[string]*pricecharting.Product{
			"1": {ID: "1", ProductName: "A", LoosePrice: cents(100)},
			"2": {ID: "2", ProductName: "B", LoosePrice: cents(200)},
			"3": {ID: "3", ProductName: "C", LoosePrice: cents(300)},
		},
	}
	p := NewChartPricer(stub)
	p.policy = fastPolicy()

	listings, err := p.Lookup(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "A", listings[0].ProductName)
	assert.Equal(t, "B", listings[1].ProductName)
}

func TestChartPricer_DetailFailureDegrades(t *testing.T) {
	stub := &stubChart{
		products: []pricecharting.ProductSummary{{ID: "1"}, {ID: "2"}},
		details: map[string]*pricecharting.Product{
			"2": {ID: "2", ProductName: "B", LoosePrice: cents(200)},
		},
		detailErrs: map[string]error{"1": errors.New("not found")},
	}
	p := NewChartPricer(stub)
	p.policy = fastPolicy()

	listings, err := p.Lookup(context.Background(), "q", 5)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "B", listings[0].ProductName)
}

func TestChartPricer_SearchErrorPropagates(t *testing.T) {
	p := NewChartPricer(&stubChart{searchErr: &pricecharting.APIError{StatusCode: 401, Body: "bad token"}})
	p.policy = fastPolicy()

	_, err := p.Lookup(context.Background(), "q", 5)
	require.Error(t, err)
}

type stubLLM struct {
	req  llm.MessageRequest
	resp *llm.MessageResponse
	err  error
}

func (s *stubLLM) CreateMessage(_ context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	s.req = req
	return s.resp, s.err
}

func TestModelSynthesizer(t *testing.T) {
	stub := &stubLLM{resp: &llm.MessageResponse{Text: `{"item_name": "X"}`}}
	m := NewModelSynthesizer(stub, "claude-sonnet-4-5-20250929", 2048)
	m.policy = fastPolicy()

	text, err := m.Synthesize(context.Background(), "identify this")
	require.NoError(t, err)
	assert.Equal(t, `{"item_name": "X"}`, text)
	assert.Equal(t, "claude-sonnet-4-5-20250929", stub.req.Model)
	assert.Equal(t, int64(2048), stub.req.MaxTokens)
	assert.NotEmpty(t, stub.req.System)
	assert.Equal(t, "identify this", stub.req.Prompt)
}

func TestModelSynthesizer_Error(t *testing.T) {
	m := NewModelSynthesizer(&stubLLM{err: errors.New("invalid api key")}, "m", 100)
	m.policy = fastPolicy()

	_, err := m.Synthesize(context.Background(), "p")
	require.Error(t, err)
}
