// Package synth composes the per-item synthesis pipeline: candidate
// aggregation, region disambiguation, condition defaulting, pricing match,
// validation, review flagging and identity assignment. Its single rule is
// that every scanned item produces exactly one durable record, failures
// included; nothing ever throws past the orchestrator for one item.
package synth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/region"
	"github.com/totemove/inventory-cli/internal/review"
	"github.com/totemove/inventory-cli/internal/sequence"
	"github.com/totemove/inventory-cli/internal/validate"
)

// Searcher is the visual-search collaborator.
type Searcher interface {
	Search(ctx context.Context, imageURL string) ([]model.ItemCandidate, error)
}

// Pricer is the pricing-database collaborator. A nil Pricer means no
// subscription is configured and pricing is simply absent.
type Pricer interface {
	Lookup(ctx context.Context, query string, maxResults int) ([]model.PricingListing, error)
}

// LanguageModel is the synthesis collaborator. Its output is untrusted
// structured text that must pass validation before use.
type LanguageModel interface {
	Synthesize(ctx context.Context, prompt string) (string, error)
}

// Timeouts bound each external call. A timeout converts that call's
// contribution to absent instead of blocking the pipeline.
type Timeouts struct {
	Search  time.Duration
	Pricing time.Duration
	Model   time.Duration
}

// Synthesizer runs the per-item pipeline.
type Synthesizer struct {
	Search      Searcher
	Pricer      Pricer
	Model       LanguageModel
	Seq         *sequence.Manager
	MaxListings int
	Timeouts    Timeouts
}

// Compose is the synthesis contract: given one item's raw candidate data, it
// produces one finalized record. Validation errors, malformed model output
// and absent candidates all yield a status=failed record that still consumes
// a sequence number, so a later re-scan of the same physical item cannot
// collide with it. The returned error is reserved for infrastructure
// failures (sequence issue), never for per-item defects.
func (s *Synthesizer) Compose(ctx context.Context, toteID string, candidates []model.ItemCandidate, listings []model.PricingListing, rawModelOutput string) (*model.ValidatedRecord, error) {
	if rawModelOutput == "" {
		return s.failed(ctx, toteID, "", model.ReasonUpstreamFailure, "model synthesis produced no output")
	}

	draft, err := validate.ParseDraft(rawModelOutput)
	if err != nil {
		return s.failed(ctx, toteID, "", model.ReasonUpstreamFailure, err.Error())
	}

	// Region comes from all available free text. The model's own text is one
	// signal among the candidates', never the sole authority.
	resolved, certainty := region.Resolve(signals(candidates, rawModelOutput))

	analysis, corrections, err := validate.Run(validate.Input{
		Draft:           draft,
		Region:          resolved,
		RegionCertainty: certainty,
		Listings:        listings,
	})
	if err != nil {
		reason := model.ReasonUpstreamFailure
		if verr, ok := err.(*validate.Error); ok {
			reason = verr.ReviewReason()
		}
		return s.failed(ctx, toteID, draft.ItemName, reason, err.Error())
	}

	rec := &model.ValidatedRecord{
		Timestamp:   time.Now().UTC(),
		ToteID:      toteID,
		ItemName:    draft.ItemName,
		Analysis:    *analysis,
		PricingData: listings,
		ReviewHints: corrections,
		Status:      model.StatusSuccess,
	}

	flagged, reasons := review.Flag(rec)
	rec.ManualReview = flagged
	rec.ReviewHints = reasons

	seq, err := s.Seq.Next(ctx, toteID)
	if err != nil {
		return nil, err
	}
	rec.Sequence = seq

	zap.L().Info("item synthesized",
		zap.String("tote", toteID),
		zap.Int("sequence", seq),
		zap.String("item", rec.ItemName),
		zap.Float64("value", rec.Analysis.EstimatedValue),
		zap.Bool("manual_review", rec.ManualReview),
	)
	return rec, nil
}

// Process runs the full pipeline for one scanned image: visual search,
// optional pricing lookup, model synthesis, then Compose. Each external call
// is bounded by its timeout and degrades to an absent input on failure;
// a failed or empty identification yields a failed record, never an error
// for the item itself.
func (s *Synthesizer) Process(ctx context.Context, toteID, imageURL string) (*model.ValidatedRecord, error) {
	candidates, err := s.search(ctx, imageURL)
	if err != nil {
		zap.L().Warn("visual search failed", zap.String("image", imageURL), zap.Error(err))
		return s.failed(ctx, toteID, "", model.ReasonUpstreamFailure, "visual search: "+err.Error())
	}
	if len(candidates) == 0 {
		return s.failed(ctx, toteID, "", model.ReasonNoCandidates, "visual search returned no candidates")
	}

	listings := s.lookupPricing(ctx, candidates)

	raw, err := s.synthesizeText(ctx, candidates, listings)
	if err != nil {
		zap.L().Warn("model synthesis failed", zap.String("image", imageURL), zap.Error(err))
		return s.failed(ctx, toteID, "", model.ReasonUpstreamFailure, "model synthesis: "+err.Error())
	}

	return s.Compose(ctx, toteID, candidates, listings, raw)
}

func (s *Synthesizer) search(ctx context.Context, imageURL string) ([]model.ItemCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeouts.Search)
	defer cancel()
	return s.Search.Search(ctx, imageURL)
}

// lookupPricing queries the pricing collaborator when the top candidate looks
// like a priceable category. Absent collaborator, unpriceable item, timeout
// and lookup error all degrade to no listings; the matcher then reports NONE
// and the record gets flagged rather than failed.
func (s *Synthesizer) lookupPricing(ctx context.Context, candidates []model.ItemCandidate) []model.PricingListing {
	if s.Pricer == nil {
		return nil
	}
	query, ok := pricingQuery(candidates)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeouts.Pricing)
	defer cancel()

	listings, err := s.Pricer.Lookup(ctx, query, s.MaxListings)
	if err != nil {
		zap.L().Warn("pricing lookup failed, continuing without listings",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return listings
}

func (s *Synthesizer) synthesizeText(ctx context.Context, candidates []model.ItemCandidate, listings []model.PricingListing) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeouts.Model)
	defer cancel()
	return s.Model.Synthesize(ctx, BuildPrompt(candidates, listings))
}

// failed mints a failure record. Failed items consume identity like any
// other: sequence assignment is what makes the failure auditable and keeps
// re-scans from colliding.
func (s *Synthesizer) failed(ctx context.Context, toteID, itemName string, reason model.ReviewReason, errText string) (*model.ValidatedRecord, error) {
	seq, err := s.Seq.Next(ctx, toteID)
	if err != nil {
		return nil, err
	}

	zap.L().Warn("item failed, recording failure",
		zap.String("tote", toteID),
		zap.Int("sequence", seq),
		zap.String("reason", string(reason)),
		zap.String("error", errText),
	)

	return &model.ValidatedRecord{
		Timestamp: time.Now().UTC(),
		ToteID:    toteID,
		Sequence:  seq,
		ItemName:  itemName,
		Analysis: model.Analysis{
			Region:          model.RegionUnknown,
			RegionCertainty: model.CertaintyNone,
			MatchConfidence: model.MatchNone,
		},
		ManualReview: true,
		ReviewHints:  []model.ReviewReason{reason},
		Status:       model.StatusFailed,
		Error:        errText,
	}, nil
}

// signals gathers every free-text region signal for one item.
func signals(candidates []model.ItemCandidate, rawModelOutput string) []string {
	out := make([]string, 0, len(candidates)*2+1)
	for _, c := range candidates {
		out = append(out, c.Title)
		if c.Snippet != "" {
			out = append(out, c.Snippet)
		}
	}
	if rawModelOutput != "" {
		out = append(out, rawModelOutput)
	}
	return out
}
