package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/totemove/inventory-cli/internal/model"
)

var processTote string

var processCmd = &cobra.Command{
	Use:   "process --tote TOTE-001 IMAGE_URL...",
	Short: "Run synthesis for one or more item images without the watcher",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sy, err := initSynthesizer(st)
		if err != nil {
			return err
		}

		// The sequence manager serializes number issue, so images can run
		// concurrently without risking duplicate identities.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Synth.MaxConcurrentItems)

		var mu sync.Mutex
		records := make([]*model.ValidatedRecord, 0, len(args))

		for _, imageURL := range args {
			g.Go(func() error {
				rec, err := sy.Process(gctx, processTote, imageURL)
				if err != nil {
					return err
				}
				rec.ImageFile = imageURL
				if err := st.AppendRecord(gctx, rec); err != nil {
					return err
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, rec := range records {
			if rec.Status == model.StatusFailed {
				zap.L().Warn("item failed",
					zap.String("tote_id", rec.ToteID),
					zap.Int("sequence", rec.Sequence),
					zap.String("error", rec.Error),
				)
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

func init() {
	processCmd.Flags().StringVar(&processTote, "tote", "", "tote context for the items (required)")
	_ = processCmd.MarkFlagRequired("tote")
	rootCmd.AddCommand(processCmd)
}
