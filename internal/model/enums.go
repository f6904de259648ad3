package model

// Region is the release-territory variant of an item. A wrong region silently
// corrupts pricing lookups, so anything ambiguous resolves to RegionUnknown.
type Region string

const (
	RegionNTSCJ   Region = "NTSC-J"
	RegionNTSCU   Region = "NTSC-U"
	RegionPAL     Region = "PAL"
	RegionUnknown Region = "UNKNOWN"
)

// ParseRegion maps a raw string to a Region. Returns ("", false) for values
// outside the closed set; empty input parses as RegionUnknown.
func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case RegionNTSCJ, RegionNTSCU, RegionPAL, RegionUnknown:
		return Region(s), true
	case "":
		return RegionUnknown, true
	default:
		return "", false
	}
}

// Certainty grades how sure the region disambiguator is about its answer.
type Certainty string

const (
	CertaintyHigh Certainty = "HIGH"
	CertaintyLow  Certainty = "LOW"
	CertaintyNone Certainty = "NONE"
)

// Confidence is the model's self-reported identification confidence.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ParseConfidence maps a raw string to a Confidence label.
func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s), true
	default:
		return "", false
	}
}

// MatchConfidence grades the pricing-listing match. Unlike Confidence it has a
// NONE level: no listing survived filtering at all.
type MatchConfidence string

const (
	MatchHigh   MatchConfidence = "HIGH"
	MatchMedium MatchConfidence = "MEDIUM"
	MatchLow    MatchConfidence = "LOW"
	MatchNone   MatchConfidence = "NONE"
)

// ConditionBasis is the physical-completeness tier used to select a price point.
type ConditionBasis string

const (
	ConditionCompleteInBox    ConditionBasis = "COMPLETE_IN_BOX"
	ConditionLooseCart        ConditionBasis = "LOOSE_CART"
	ConditionLooseDisc        ConditionBasis = "LOOSE_DISC"
	ConditionNewSealed        ConditionBasis = "NEW_SEALED"
	ConditionLooseAccessory   ConditionBasis = "LOOSE_ACCESSORY"
	ConditionConsoleOnly      ConditionBasis = "CONSOLE_ONLY"
	ConditionCompleteConsole  ConditionBasis = "COMPLETE_CONSOLE"
	ConditionHandheldOnly     ConditionBasis = "HANDHELD_ONLY"
	ConditionCompleteHandheld ConditionBasis = "COMPLETE_HANDHELD"
	ConditionUsed             ConditionBasis = "USED"
)

// ParseConditionBasis maps a raw string to a ConditionBasis. Returns
// ("", false) for values outside the closed set. Empty input is not an error
// at this layer; callers fill defaults via the condition policy.
func ParseConditionBasis(s string) (ConditionBasis, bool) {
	switch ConditionBasis(s) {
	case ConditionCompleteInBox, ConditionLooseCart, ConditionLooseDisc,
		ConditionNewSealed, ConditionLooseAccessory, ConditionConsoleOnly,
		ConditionCompleteConsole, ConditionHandheldOnly, ConditionCompleteHandheld,
		ConditionUsed:
		return ConditionBasis(s), true
	default:
		return "", false
	}
}

// RecordStatus marks whether synthesis for an item completed or failed.
// Failed items still receive a sequence number and a durable record.
type RecordStatus string

const (
	StatusSuccess RecordStatus = "success"
	StatusFailed  RecordStatus = "failed"
)

// ReviewReason is a machine-readable code explaining why a record was flagged
// for manual review. A record accumulates every applicable reason.
type ReviewReason string

const (
	ReasonAmbiguousPricingBasis ReviewReason = "AMBIGUOUS_PRICING_BASIS"
	ReasonHallucinatedReference ReviewReason = "HALLUCINATED_REFERENCE"
	ReasonRegionUncertain       ReviewReason = "REGION_UNCERTAIN"
	ReasonPricingMatchWeak      ReviewReason = "PRICING_MATCH_WEAK"
	ReasonPricingMatchAbsent    ReviewReason = "PRICING_MATCH_ABSENT"
	ReasonValueSpread           ReviewReason = "VALUE_SPREAD"
	ReasonLowConfidence         ReviewReason = "LOW_CONFIDENCE"
	ReasonMissingField          ReviewReason = "MISSING_FIELD"
	ReasonInvalidEnum           ReviewReason = "INVALID_ENUM"
	ReasonUpstreamFailure       ReviewReason = "UPSTREAM_FAILURE"
	ReasonNoCandidates          ReviewReason = "NO_CANDIDATES"
)
