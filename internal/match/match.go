// Package match scores pricing-database listings against a synthesized item
// description to pick the best pricing match.
package match

import (
	"strings"

	"github.com/totemove/inventory-cli/internal/model"
)

// Result is the outcome of matching listings against an item.
type Result struct {
	// Listing is the chosen pricing listing, nil when nothing survived.
	Listing *model.PricingListing

	// Index is the 1-based position of the chosen listing in the supplied
	// sequence, 0 when Listing is nil. Option numbers shown to the language
	// model use the same numbering.
	Index int

	Confidence model.MatchConfidence
}

// Listing filters listings by platform, then region, then condition basis,
// against the resolved item attributes. Exactly one survivor: HIGH. Several
// survivors: first in source order, MEDIUM (listings are pre-ranked by the
// pricing collaborator). No exact regional match: region-agnostic candidates
// are reconsidered and confidence is capped at LOW. Nothing survives: NONE,
// which the review flagger must surface.
func Listing(platform string, region model.Region, basis model.ConditionBasis, listings []model.PricingListing) Result {
	byPlatform := filter(listings, func(l model.PricingListing) bool {
		return samePlatform(l.Platform, platform)
	})
	if len(byPlatform) == 0 {
		return Result{Confidence: model.MatchNone}
	}

	regionDowngraded := false
	byRegion := filter(byPlatform, func(l model.PricingListing) bool {
		return l.Region == region
	})
	if len(byRegion) == 0 {
		// Fall back to listings without a region tag; a cross-region price is
		// better than none but cannot be trusted as an exact match.
		byRegion = filter(byPlatform, func(l model.PricingListing) bool {
			return l.Region == "" || l.Region == model.RegionUnknown
		})
		regionDowngraded = true
	}
	if len(byRegion) == 0 {
		return Result{Confidence: model.MatchNone}
	}

	byBasis := filter(byRegion, func(l model.PricingListing) bool {
		return l.Basis == basis
	})
	if len(byBasis) == 0 {
		return Result{Confidence: model.MatchNone}
	}

	chosen := byBasis[0]
	confidence := model.MatchHigh
	if len(byBasis) > 1 {
		confidence = model.MatchMedium
	}
	if regionDowngraded {
		confidence = model.MatchLow
	}

	return Result{
		Listing:    &chosen,
		Index:      indexOf(listings, chosen),
		Confidence: confidence,
	}
}

func filter(listings []model.PricingListing, keep func(model.PricingListing) bool) []model.PricingListing {
	var out []model.PricingListing
	for _, l := range listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func samePlatform(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func indexOf(listings []model.PricingListing, target model.PricingListing) int {
	for i, l := range listings {
		if l == target {
			return i + 1
		}
	}
	return 0
}
