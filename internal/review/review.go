// Package review derives the manual-review flag for a validated record.
// Reasons accumulate; a record can carry several independent flags.
package review

import "github.com/totemove/inventory-cli/internal/model"

// valueSpreadRatio is the condition-variant price spread at which a wrong
// condition guess moves an item's value by an order of magnitude.
const valueSpreadRatio = 10.0

// Flag inspects a record and returns whether it needs manual review together
// with every applicable reason. Correction reasons already attached to the
// record (from the validator) are preserved and count toward the flag.
func Flag(rec *model.ValidatedRecord) (bool, []model.ReviewReason) {
	reasons := append([]model.ReviewReason(nil), rec.ReviewHints...)

	if spreadTooWide(rec) {
		reasons = append(reasons, model.ReasonValueSpread)
	}

	switch rec.Analysis.RegionCertainty {
	case model.CertaintyLow, model.CertaintyNone:
		reasons = append(reasons, model.ReasonRegionUncertain)
	}

	switch rec.Analysis.MatchConfidence {
	case model.MatchMedium, model.MatchLow:
		reasons = append(reasons, model.ReasonPricingMatchWeak)
	case model.MatchNone:
		reasons = append(reasons, model.ReasonPricingMatchAbsent)
	}

	if rec.Analysis.Confidence == model.ConfidenceLow {
		reasons = append(reasons, model.ReasonLowConfidence)
	}

	return len(reasons) > 0, dedupe(reasons)
}

// spreadTooWide reports whether plausible values across condition variants
// span a ratio of valueSpreadRatio or more, either across the attached
// pricing listings or within the record's own value range.
func spreadTooWide(rec *model.ValidatedRecord) bool {
	var lo, hi float64
	for _, l := range rec.PricingData {
		if l.Price <= 0 {
			continue
		}
		if lo == 0 || l.Price < lo {
			lo = l.Price
		}
		if l.Price > hi {
			hi = l.Price
		}
	}
	if lo > 0 && hi/lo >= valueSpreadRatio {
		return true
	}

	min, max := rec.Analysis.ValueRangeMin, rec.Analysis.ValueRangeMax
	return min > 0 && max/min >= valueSpreadRatio
}

func dedupe(reasons []model.ReviewReason) []model.ReviewReason {
	seen := map[model.ReviewReason]struct{}{}
	var out []model.ReviewReason
	for _, r := range reasons {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
