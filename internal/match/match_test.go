package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totemove/inventory-cli/internal/model"
)

func listing(platform string, region model.Region, basis model.ConditionBasis, price float64) model.PricingListing {
	return model.PricingListing{
		ProductName: "Test Product",
		Platform:    platform,
		Region:      region,
		Basis:       basis,
		Price:       price,
	}
}

func TestListing_SingleSurvivorIsHigh(t *testing.T) {
	listings := []model.PricingListing{
		listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, 75.00),
	}

	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, listings)
	require.NotNil(t, res.Listing)
	assert.Equal(t, model.MatchHigh, res.Confidence)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, 75.00, res.Listing.Price)
}

func TestListing_MultipleSurvivorsPickFirstMedium(t *testing.T) {
	listings := []model.PricingListing{
		listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, 40.00),
		listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, 55.00),
	}

	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, listings)
	require.NotNil(t, res.Listing)
	assert.Equal(t, model.MatchMedium, res.Confidence)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, 40.00, res.Listing.Price)
}

func TestListing_RegionFallbackDowngradesToLow(t *testing.T) {
	listings := []model.PricingListing{
		listing("SNES", "", model.ConditionLooseCart, 30.00),
	}

	res := Listing("SNES", model.RegionNTSCJ, model.ConditionLooseCart, listings)
	require.NotNil(t, res.Listing)
	assert.Equal(t, model.MatchLow, res.Confidence)
}

func TestListing_WrongRegionNoFallbackCandidates(t *testing.T) {
	listings := []model.PricingListing{
		listing("SNES", model.RegionPAL, model.ConditionLooseCart, 30.00),
	}

	res := Listing("SNES", model.RegionNTSCJ, model.ConditionLooseCart, listings)
	assert.Nil(t, res.Listing)
	assert.Equal(t, model.MatchNone, res.Confidence)
	assert.Equal(t, 0, res.Index)
}

func TestListing_PlatformMismatchIsNone(t *testing.T) {
	listings := []model.PricingListing{
		listing("Genesis", model.RegionNTSCU, model.ConditionLooseCart, 20.00),
	}

	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, listings)
	assert.Nil(t, res.Listing)
	assert.Equal(t, model.MatchNone, res.Confidence)
}

func TestListing_BasisMismatchIsNone(t *testing.T) {
	listings := []model.PricingListing{
		listing("SNES", model.RegionNTSCU, model.ConditionCompleteInBox, 120.00),
	}

	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, listings)
	assert.Nil(t, res.Listing)
	assert.Equal(t, model.MatchNone, res.Confidence)
}

func TestListing_EmptyListingsIsNone(t *testing.T) {
	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, nil)
	assert.Nil(t, res.Listing)
	assert.Equal(t, model.MatchNone, res.Confidence)
}

func TestListing_PlatformComparisonIgnoresCase(t *testing.T) {
	listings := []model.PricingListing{
		listing("snes", model.RegionNTSCU, model.ConditionLooseCart, 75.00),
	}

	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, listings)
	require.NotNil(t, res.Listing)
	assert.Equal(t, model.MatchHigh, res.Confidence)
}

func TestListing_IndexCountsOriginalOrder(t *testing.T) {
	listings := []model.PricingListing{
		listing("Genesis", model.RegionNTSCU, model.ConditionLooseCart, 20.00),
		listing("SNES", model.RegionPAL, model.ConditionLooseCart, 25.00),
		listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, 30.00),
	}

	res := Listing("SNES", model.RegionNTSCU, model.ConditionLooseCart, listings)
	require.NotNil(t, res.Listing)
	assert.Equal(t, 3, res.Index)
}
