package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/clients"
	"github.com/totemove/inventory-cli/internal/sequence"
	"github.com/totemove/inventory-cli/internal/store"
	"github.com/totemove/inventory-cli/internal/synth"
	"github.com/totemove/inventory-cli/pkg/llm"
	"github.com/totemove/inventory-cli/pkg/pricecharting"
	"github.com/totemove/inventory-cli/pkg/serpapi"
)

// initStore opens the SQLite record store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initSynthesizer wires the outbound clients into the per-item pipeline.
// PriceCharting is optional: without a token the pipeline runs identification
// only and every record is flagged for pricing review.
func initSynthesizer(st store.Store) (*synth.Synthesizer, error) {
	if cfg.SerpAPI.Key == "" {
		return nil, eris.New("serpapi.key is required")
	}
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic.key is required")
	}

	searcher := clients.NewLensSearcher(
		serpapi.NewClient(cfg.SerpAPI.Key, serpapi.WithBaseURL(cfg.SerpAPI.BaseURL)),
	)

	var pricer synth.Pricer
	if cfg.PriceCharting.Key != "" {
		pricer = clients.NewChartPricer(
			pricecharting.NewClient(cfg.PriceCharting.Key, pricecharting.WithBaseURL(cfg.PriceCharting.BaseURL)),
		)
	} else {
		zap.L().Warn("pricecharting.key not set, pricing lookups disabled")
	}

	model := clients.NewModelSynthesizer(
		llm.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
		int64(cfg.Anthropic.MaxTokens),
	)

	return &synth.Synthesizer{
		Search:      searcher,
		Pricer:      pricer,
		Model:       model,
		Seq:         sequence.NewManager(st),
		MaxListings: cfg.PriceCharting.MaxResults,
		Timeouts: synth.Timeouts{
			Search:  time.Duration(cfg.Synth.SearchTimeoutSecs) * time.Second,
			Pricing: time.Duration(cfg.Synth.PricingTimeoutSecs) * time.Second,
			Model:   time.Duration(cfg.Synth.ModelTimeoutSecs) * time.Second,
		},
	}, nil
}
