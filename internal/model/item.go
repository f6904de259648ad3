package model

import "time"

// ItemCandidate is one raw visual-search hit for a scanned item. Candidates
// are ephemeral: they feed synthesis and region resolution but are never
// persisted.
type ItemCandidate struct {
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet,omitempty"`
	Source    string  `json:"source,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Condition string  `json:"condition,omitempty"`
}

// PricingListing is one candidate pricing-database entry. Listings arrive
// pre-ranked by the pricing collaborator; source order is the tie-break.
type PricingListing struct {
	ProductName string         `json:"product_name"`
	Platform    string         `json:"platform"`
	Region      Region         `json:"region,omitempty"`
	Basis       ConditionBasis `json:"basis,omitempty"`
	Price       float64        `json:"price"`
	ReleaseDate string         `json:"release_date,omitempty"`
	UPC         string         `json:"upc,omitempty"`
	ProductURL  string         `json:"product_url,omitempty"`
}

// SynthesisDraft is the language model's raw structured output for one item.
// It is untrusted input: fields may be missing, self-contradictory, or
// reference listings that were never supplied. It must pass the validator
// before any value crosses into a ValidatedRecord.
type SynthesisDraft struct {
	ItemName         string   `json:"item_name"`
	Platform         string   `json:"platform"`
	Region           string   `json:"region"`
	RegionReasoning  string   `json:"region_reasoning,omitempty"`
	Confidence       string   `json:"confidence"`
	ConfidenceReason string   `json:"confidence_reason,omitempty"`
	EstimatedValue   float64  `json:"estimated_value_usd"`
	ValueRangeMin    float64  `json:"value_range_min"`
	ValueRangeMax    float64  `json:"value_range_max"`
	PriceSource      string   `json:"price_source,omitempty"`
	PricingBasis     string   `json:"pricing_basis"`
	Category         string   `json:"category"`
	ConditionNotes   string   `json:"condition_notes,omitempty"`
	VariantNotes     string   `json:"variant_notes,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`

	// PricingMatchUsed is a 1-based option number into the listings shown to
	// the model, or nil if it declined to pick one.
	PricingMatchUsed *int `json:"pricecharting_match_used"`

	// PricingMatchConfidence is the model's own claim; the validator always
	// recomputes it from the candidate matcher and never trusts this value.
	PricingMatchConfidence string `json:"pricecharting_match_confidence,omitempty"`

	ManualReviewRecommended bool   `json:"manual_review_recommended"`
	ManualReviewReason      string `json:"manual_review_reason,omitempty"`
}

// Analysis holds the validated synthesis fields of a record.
type Analysis struct {
	Platform         string          `json:"platform"`
	Region           Region          `json:"region"`
	RegionCertainty  Certainty       `json:"region_certainty"`
	RegionReasoning  string          `json:"region_reasoning,omitempty"`
	Confidence       Confidence      `json:"confidence"`
	ConfidenceReason string          `json:"confidence_reason,omitempty"`
	EstimatedValue   float64         `json:"estimated_value_usd"`
	ValueRangeMin    float64         `json:"value_range_min"`
	ValueRangeMax    float64         `json:"value_range_max"`
	PriceSource      string          `json:"price_source,omitempty"`
	PricingBasis     ConditionBasis  `json:"pricing_basis"`
	Category         string          `json:"category"`
	ConditionNotes   string          `json:"condition_notes,omitempty"`
	VariantNotes     string          `json:"variant_notes,omitempty"`
	Warnings         []string        `json:"warnings,omitempty"`
	PricingMatchUsed *int            `json:"pricecharting_match_used"`
	MatchConfidence  MatchConfidence `json:"pricecharting_match_confidence"`
}

// ValidatedRecord is the durable inventory entity. Created exactly once per
// scanned image; the only later mutations are deletion by the removal utility
// and the pricing refresh. Its sequence number is append-only identity within
// a tote and is never reassigned, even after removal.
type ValidatedRecord struct {
	Timestamp    time.Time        `json:"timestamp"`
	ToteID       string           `json:"tote_id"`
	Sequence     int              `json:"item_sequence"`
	ItemName     string           `json:"item_name"`
	ImageFile    string           `json:"image_file,omitempty"`
	Analysis     Analysis         `json:"ai_analysis"`
	PricingData  []PricingListing `json:"pricing_data,omitempty"`
	ManualReview bool             `json:"manual_review"`
	ReviewHints  []ReviewReason   `json:"review_reasons,omitempty"`
	Status       RecordStatus     `json:"status"`
	Error        string           `json:"error,omitempty"`

	// RepricedAt is set when a pricing refresh last touched this record.
	RepricedAt *time.Time `json:"repriced_at,omitempty"`
}

// CSVRow is the spreadsheet projection of a ValidatedRecord. It is derived
// output only: everything in it is regenerable from the JSON record set.
type CSVRow struct {
	ToteID         string  `csv:"tote_id"`
	Sequence       int     `csv:"item_sequence"`
	ItemName       string  `csv:"item_name"`
	Category       string  `csv:"category"`
	EstimatedValue float64 `csv:"estimated_value_usd"`
	Confidence     string  `csv:"confidence"`
	ManualReview   string  `csv:"manual_review"`
	Status         string  `csv:"status"`
}

// ToCSVRow projects a record onto its CSV shape.
func (r *ValidatedRecord) ToCSVRow() CSVRow {
	review := "NO"
	if r.ManualReview {
		review = "YES"
	}
	return CSVRow{
		ToteID:         r.ToteID,
		Sequence:       r.Sequence,
		ItemName:       r.ItemName,
		Category:       r.Analysis.Category,
		EstimatedValue: r.Analysis.EstimatedValue,
		Confidence:     string(r.Analysis.Confidence),
		ManualReview:   review,
		Status:         string(r.Status),
	}
}

// ToteContext is the live scanning context: which tote new items belong to
// and the highest sequence number issued for it so far. It is set when a tote
// label is scanned and threaded explicitly into each synthesis call rather
// than held as process-global state. Only the sequence manager mutates
// LastSequence.
type ToteContext struct {
	ToteID       string `json:"tote_id"`
	LastSequence int    `json:"last_sequence"`
}
