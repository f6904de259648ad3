package clients

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/retry"
	"github.com/totemove/inventory-cli/pkg/pricecharting"
)

// ChartPricer resolves a catalog query into priced listings via the
// PriceCharting API.
type ChartPricer struct {
	api    pricecharting.Client
	policy retry.Policy
}

// NewChartPricer wraps a PriceCharting client.
func NewChartPricer(api pricecharting.Client) *ChartPricer {
	return &ChartPricer{api: api, policy: retry.Default("pricecharting")}
}

// Lookup searches the catalog and expands the top maxResults products into
// listings, one per available price point so each carries a single
// condition basis. Catalog order is preserved.
func (p *ChartPricer) Lookup(ctx context.Context, query string, maxResults int) ([]model.PricingListing, error) {
	products, err := retry.Do(ctx, p.policy, func(ctx context.Context) ([]pricecharting.ProductSummary, error) {
		r, err := p.api.Search(ctx, query)
		return r, markTransientChartErr(err)
	})
	if err != nil {
		return nil, err
	}
	if maxResults > 0 && len(products) > maxResults {
		products = products[:maxResults]
	}

	var listings []model.PricingListing
	for _, summary := range products {
		detail, err := retry.Do(ctx, p.policy, func(ctx context.Context) (*pricecharting.Product, error) {
			d, err := p.api.Product(ctx, summary.ID)
			return d, markTransientChartErr(err)
		})
		if err != nil {
			// A missing detail page degrades that product, not the lookup.
			zap.L().Warn("pricing detail fetch failed",
				zap.String("product_id", summary.ID),
				zap.Error(err),
			)
			continue
		}
		listings = append(listings, expandListings(detail)...)
	}

	zap.L().Debug("pricing lookup complete",
		zap.String("query", query),
		zap.Int("products", len(products)),
		zap.Int("listings", len(listings)),
	)
	return listings, nil
}

// expandListings turns one catalog product into per-condition listings.
func expandListings(d *pricecharting.Product) []model.PricingListing {
	base := model.PricingListing{
		ProductName: d.ProductName,
		Platform:    d.ConsoleName,
		ReleaseDate: d.ReleaseDate,
		UPC:         d.UPC,
		ProductURL:  d.URL(),
	}

	points := []struct {
		price *pricecharting.Cents
		basis model.ConditionBasis
	}{
		{d.LoosePrice, model.ConditionLooseCart},
		{d.CIBPrice, model.ConditionCompleteInBox},
		{d.NewPrice, model.ConditionNewSealed},
		{d.UsedPrice, model.ConditionUsed},
	}

	var out []model.PricingListing
	for _, pt := range points {
		if pt.price == nil {
			continue
		}
		l := base
		l.Basis = pt.basis
		l.Price = pt.price.Dollars()
		out = append(out, l)
	}
	return out
}

func markTransientChartErr(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *pricecharting.APIError
	if errors.As(err, &apiErr) && retry.TransientStatus(apiErr.StatusCode) {
		return retry.MarkTransient(err, apiErr.StatusCode)
	}
	return err
}
