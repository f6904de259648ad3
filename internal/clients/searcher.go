// Package clients adapts the outbound API clients (SerpApi, PriceCharting,
// Anthropic) to the narrow interfaces the synthesis pipeline consumes,
// adding retry on transient upstream failures.
package clients

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/retry"
	"github.com/totemove/inventory-cli/pkg/serpapi"
)

// maxVisualMatches caps how many search hits feed the prompt. Beyond the
// first handful the matches are noise.
const maxVisualMatches = 15

// LensSearcher resolves an item image into candidate identifications via
// SerpApi's Google Lens engine.
type LensSearcher struct {
	api    serpapi.Client
	policy retry.Policy
}

// NewLensSearcher wraps a SerpApi client.
func NewLensSearcher(api serpapi.Client) *LensSearcher {
	return &LensSearcher{api: api, policy: retry.Default("serpapi")}
}

// Search performs a reverse image search and converts the visual matches
// into item candidates, preserving the upstream ranking.
func (s *LensSearcher) Search(ctx context.Context, imageURL string) ([]model.ItemCandidate, error) {
	resp, err := retry.Do(ctx, s.policy, func(ctx context.Context) (*serpapi.LensResponse, error) {
		r, err := s.api.Lens(ctx, imageURL)
		return r, markTransientAPIErr(err)
	})
	if err != nil {
		return nil, err
	}

	matches := resp.VisualMatches
	if len(matches) > maxVisualMatches {
		matches = matches[:maxVisualMatches]
	}

	candidates := make([]model.ItemCandidate, 0, len(matches))
	for _, m := range matches {
		c := model.ItemCandidate{
			Title:     m.Title,
			Source:    m.Link,
			Condition: m.Condition,
		}
		if m.Price != nil {
			c.Price = m.Price.ExtractedValue
			c.Currency = m.Price.Currency
		}
		candidates = append(candidates, c)
	}

	zap.L().Debug("visual search complete",
		zap.String("image_url", imageURL),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// markTransientAPIErr flags retryable upstream statuses so the retry loop
// distinguishes them from auth and validation failures.
func markTransientAPIErr(err error) error {
	if err == nil {
		return nil
	}

	var serpErr *serpapi.APIError
	if errors.As(err, &serpErr) && retry.TransientStatus(serpErr.StatusCode) {
		return retry.MarkTransient(err, serpErr.StatusCode)
	}
	return err
}
