package main

import (
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/clients"
	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/store"
	"github.com/totemove/inventory-cli/internal/synth"
	"github.com/totemove/inventory-cli/pkg/pricecharting"
)

var (
	repriceTote    string
	repriceNewOnly bool
	repriceDryRun  bool
)

var repriceCmd = &cobra.Command{
	Use:   "reprice",
	Short: "Refresh pricing on persisted records from the pricing database",
	Long: "Re-queries the pricing database for every eligible success record and updates " +
		"estimated values in place. Identity, sequence numbers and identification fields " +
		"never change. Run periodically, or after scanning to backfill pricing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.PriceCharting.Key == "" {
			return eris.New("pricecharting.key is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sy := &synth.Synthesizer{
			Pricer: clients.NewChartPricer(
				pricecharting.NewClient(cfg.PriceCharting.Key, pricecharting.WithBaseURL(cfg.PriceCharting.BaseURL)),
			),
			MaxListings: cfg.PriceCharting.MaxResults,
			Timeouts: synth.Timeouts{
				Pricing: time.Duration(cfg.Synth.PricingTimeoutSecs) * time.Second,
			},
		}

		records, err := st.ListRecords(ctx, store.RecordFilter{
			ToteID: repriceTote,
			Status: model.StatusSuccess,
		})
		if err != nil {
			return err
		}

		var updated, skipped, failed int
		for i := range records {
			rec := &records[i]
			if !synth.RepriceEligible(rec) {
				skipped++
				continue
			}
			if repriceNewOnly && len(rec.PricingData) > 0 {
				skipped++
				continue
			}
			if repriceDryRun {
				zap.L().Info("would reprice",
					zap.String("tote", rec.ToteID),
					zap.Int("sequence", rec.Sequence),
					zap.String("item", rec.ItemName),
					zap.String("category", rec.Analysis.Category),
				)
				continue
			}

			fresh, changed, err := sy.Reprice(ctx, rec)
			if err != nil {
				zap.L().Warn("reprice failed",
					zap.String("tote", rec.ToteID),
					zap.Int("sequence", rec.Sequence),
					zap.Error(err),
				)
				failed++
				continue
			}
			if !changed {
				skipped++
				continue
			}
			if err := st.UpdateRecord(ctx, fresh); err != nil {
				return err
			}
			updated++
		}

		if repriceDryRun {
			return nil
		}

		if updated > 0 {
			dir := cfg.Scan.OrganizedDir
			if err := store.ExportJSON(ctx, st, filepath.Join(dir, "inventory.json")); err != nil {
				return err
			}
			if err := store.ExportCSV(ctx, st, filepath.Join(dir, "inventory.csv")); err != nil {
				return err
			}
		}

		zap.L().Info("reprice complete",
			zap.Int("updated", updated),
			zap.Int("skipped", skipped),
			zap.Int("failed", failed),
		)
		return nil
	},
}

func init() {
	repriceCmd.Flags().StringVar(&repriceTote, "tote", "", "only reprice records in this tote")
	repriceCmd.Flags().BoolVar(&repriceNewOnly, "new-only", false, "only reprice records without pricing data")
	repriceCmd.Flags().BoolVar(&repriceDryRun, "dry-run", false, "show what would be repriced without changing anything")
	rootCmd.AddCommand(repriceCmd)
}
