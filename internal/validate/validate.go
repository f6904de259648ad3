// Package validate enforces the shape and value constraints of a synthesis
// draft before any field crosses into the trusted record type. A fixed set of
// defects is auto-corrected and flagged; everything else is rejected.
package validate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/condition"
	"github.com/totemove/inventory-cli/internal/match"
	"github.com/totemove/inventory-cli/internal/model"
)

// Input carries a draft plus the independently resolved context it is
// validated against.
type Input struct {
	Draft           *model.SynthesisDraft
	Region          model.Region
	RegionCertainty model.Certainty
	Listings        []model.PricingListing
}

// Run validates and corrects a draft. On success it returns the validated
// analysis plus any correction reasons that must feed the review flagger.
// On MissingField or InvalidEnum it returns a *Error; the caller converts
// that into a failed record. The rules are idempotent: running them over an
// already-conforming draft changes nothing and yields no reasons.
func Run(in Input) (*model.Analysis, []model.ReviewReason, error) {
	draft := in.Draft
	var reasons []model.ReviewReason

	// Required fields.
	for _, f := range []struct{ name, value string }{
		{"item_name", draft.ItemName},
		{"platform", draft.Platform},
		{"category", draft.Category},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, nil, &Error{Code: CodeMissingField, Field: f.name}
		}
	}

	// A slash-joined basis like "COMPLETE_IN_BOX/LOOSE_CART" is model
	// indecision, not an invalid enum: keep the first candidate and flag it.
	// This runs before membership checking so the split half is what gets
	// enum-validated.
	basisRaw := strings.TrimSpace(draft.PricingBasis)
	if strings.Contains(basisRaw, "/") {
		first := strings.TrimSpace(strings.SplitN(basisRaw, "/", 2)[0])
		zap.L().Warn("validate: ambiguous pricing basis",
			zap.String("raw", basisRaw),
			zap.String("kept", first),
		)
		basisRaw = first
		reasons = append(reasons, model.ReasonAmbiguousPricingBasis)
	}

	// Closed-set fields.
	if _, ok := model.ParseRegion(strings.TrimSpace(draft.Region)); !ok {
		return nil, nil, &Error{Code: CodeInvalidEnum, Field: "region", Value: draft.Region}
	}
	confidence, ok := model.ParseConfidence(strings.TrimSpace(draft.Confidence))
	if !ok {
		return nil, nil, &Error{Code: CodeInvalidEnum, Field: "confidence", Value: draft.Confidence}
	}
	var basis model.ConditionBasis
	if basisRaw == "" {
		// Absent basis is filled from the platform policy, not rejected.
		basis = condition.Default(draft.Platform)
	} else {
		basis, ok = model.ParseConditionBasis(basisRaw)
		if !ok {
			return nil, nil, &Error{Code: CodeInvalidEnum, Field: "pricing_basis", Value: basisRaw}
		}
	}

	// Reversed value range is swapped silently, not flagged.
	min, max := draft.ValueRangeMin, draft.ValueRangeMax
	if min > max {
		zap.L().Debug("validate: swapping reversed value range",
			zap.Float64("min", min),
			zap.Float64("max", max),
		)
		min, max = max, min
	}

	// A listing reference outside the bounds of what was actually supplied is
	// a hallucinated option number; null it out and flag.
	matchUsed := draft.PricingMatchUsed
	if matchUsed != nil && (*matchUsed < 1 || *matchUsed > len(in.Listings)) {
		zap.L().Warn("validate: hallucinated listing reference",
			zap.Int("option", *matchUsed),
			zap.Int("supplied", len(in.Listings)),
		)
		matchUsed = nil
		reasons = append(reasons, model.ReasonHallucinatedReference)
	}

	// Match confidence is always recomputed; the model's own claim is never
	// trusted verbatim.
	matched := match.Listing(draft.Platform, in.Region, basis, in.Listings)

	return &model.Analysis{
		Platform:         strings.TrimSpace(draft.Platform),
		Region:           in.Region,
		RegionCertainty:  in.RegionCertainty,
		RegionReasoning:  draft.RegionReasoning,
		Confidence:       confidence,
		ConfidenceReason: draft.ConfidenceReason,
		EstimatedValue:   draft.EstimatedValue,
		ValueRangeMin:    min,
		ValueRangeMax:    max,
		PriceSource:      draft.PriceSource,
		PricingBasis:     basis,
		Category:         strings.TrimSpace(draft.Category),
		ConditionNotes:   draft.ConditionNotes,
		VariantNotes:     draft.VariantNotes,
		Warnings:         draft.Warnings,
		PricingMatchUsed: matchUsed,
		MatchConfidence:  matched.Confidence,
	}, reasons, nil
}
