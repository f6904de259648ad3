package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/match"
	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/review"
)

// repriceCategories are the categories the pricing database can answer for.
var repriceCategories = map[string]bool{
	"Video Game Software":  true,
	"Video Game Console":   true,
	"Video Game Accessory": true,
	"LEGO":                 true,
	"Comic Books":          true,
	"Trading Cards":        true,
}

// RepriceEligible reports whether a persisted record can be refreshed against
// the pricing database. Failed records and unpriceable categories are skipped.
func RepriceEligible(rec *model.ValidatedRecord) bool {
	return rec.Status == model.StatusSuccess && repriceCategories[rec.Analysis.Category]
}

// repriceQuery builds the catalog query from a record's validated fields.
// Unlike the scan-time query it works from the trusted platform, not from raw
// search-result titles.
func repriceQuery(rec *model.ValidatedRecord) string {
	name := strings.TrimSpace(rec.ItemName)
	switch rec.Analysis.Category {
	case "LEGO":
		return "lego " + name
	case "Comic Books":
		return "comic " + name
	case "Trading Cards":
		return name
	}

	platform := strings.ToLower(strings.TrimSpace(rec.Analysis.Platform))
	for _, p := range gamePlatforms {
		if strings.Contains(platform, p.marker) {
			return name + " " + p.slug
		}
	}
	if platform != "" {
		return name + " " + strings.ReplaceAll(platform, " ", "-")
	}
	return name
}

// Reprice refreshes one record's pricing against the current catalog and
// returns the updated record plus whether anything changed. Absent listings
// or no usable match leave the record untouched; identity and every
// non-pricing field are preserved.
func (s *Synthesizer) Reprice(ctx context.Context, rec *model.ValidatedRecord) (*model.ValidatedRecord, bool, error) {
	if s.Pricer == nil {
		return rec, false, eris.New("synth: no pricing collaborator configured")
	}
	if !RepriceEligible(rec) {
		return rec, false, nil
	}

	lctx, cancel := context.WithTimeout(ctx, s.Timeouts.Pricing)
	defer cancel()
	listings, err := s.Pricer.Lookup(lctx, repriceQuery(rec), s.MaxListings)
	if err != nil {
		return rec, false, err
	}
	if len(listings) == 0 {
		return rec, false, nil
	}

	chosen := match.Listing(rec.Analysis.Platform, rec.Analysis.Region, rec.Analysis.PricingBasis, listings)
	if chosen.Listing == nil {
		// The catalog may not carry the record's exact basis; a used or loose
		// price is still a refresh, at reduced confidence.
		for _, basis := range []model.ConditionBasis{model.ConditionUsed, model.ConditionLooseCart} {
			chosen = match.Listing(rec.Analysis.Platform, rec.Analysis.Region, basis, listings)
			if chosen.Listing != nil {
				if chosen.Confidence == model.MatchHigh {
					chosen.Confidence = model.MatchMedium
				}
				break
			}
		}
	}
	if chosen.Listing == nil {
		return rec, false, nil
	}

	updated := *rec
	updated.PricingData = listings
	updated.Analysis.EstimatedValue = chosen.Listing.Price
	updated.Analysis.PriceSource = fmt.Sprintf("PriceCharting (option %d)", chosen.Index)
	idx := chosen.Index
	updated.Analysis.PricingMatchUsed = &idx
	updated.Analysis.MatchConfidence = chosen.Confidence
	now := time.Now().UTC()
	updated.RepricedAt = &now

	// Pricing-derived review reasons are stale against the fresh listings;
	// strip them and let the flagger re-derive.
	updated.ReviewHints = dropPricingReasons(updated.ReviewHints)
	flagged, reasons := review.Flag(&updated)
	updated.ManualReview = flagged
	updated.ReviewHints = reasons

	zap.L().Info("record repriced",
		zap.String("tote", updated.ToteID),
		zap.Int("sequence", updated.Sequence),
		zap.String("item", updated.ItemName),
		zap.Float64("old_value", rec.Analysis.EstimatedValue),
		zap.Float64("new_value", updated.Analysis.EstimatedValue),
	)
	return &updated, true, nil
}

func dropPricingReasons(reasons []model.ReviewReason) []model.ReviewReason {
	var out []model.ReviewReason
	for _, r := range reasons {
		switch r {
		case model.ReasonPricingMatchWeak, model.ReasonPricingMatchAbsent, model.ReasonValueSpread:
			continue
		}
		out = append(out, r)
	}
	return out
}
