package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/sequence"
)

var (
	removeTote string
	removeSeq  int
)

var removeCmd = &cobra.Command{
	Use:   "remove --tote TOTE-001 --seq 7",
	Short: "Remove a record by tote and sequence",
	Long: "Deletes one record. The sequence number is never reissued: the next item " +
		"in the tote still gets a fresh number, so removal leaves an auditable gap.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.GetRecord(ctx, removeTote, removeSeq)
		if err != nil {
			return err
		}
		if rec == nil {
			zap.L().Info("no record at that identity, nothing to do",
				zap.String("tote_id", removeTote),
				zap.Int("sequence", removeSeq),
			)
			return nil
		}

		if err := st.RemoveRecord(ctx, removeTote, removeSeq); err != nil {
			return err
		}

		if rec.ImageFile != "" {
			trashImage(removeTote, rec.ImageFile)
		}

		zap.L().Info("record removed",
			zap.String("tote_id", removeTote),
			zap.Int("sequence", removeSeq),
			zap.String("item_name", rec.ItemName),
		)
		return nil
	},
}

// trashImage moves the removed item's organized image aside so the tote
// directory stays in step with the record set. Best effort: a missing or
// unmovable image is logged, never fatal.
func trashImage(tote, imageFile string) {
	src := filepath.Join(cfg.Scan.OrganizedDir, sequence.SafeName(tote), imageFile)
	if _, err := os.Stat(src); err != nil {
		zap.L().Debug("no organized image to move", zap.String("path", src))
		return
	}

	trashDir := filepath.Join(cfg.Scan.OrganizedDir, "removed")
	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		zap.L().Warn("create trash directory failed", zap.Error(err))
		return
	}

	ext := filepath.Ext(imageFile)
	base := strings.TrimSuffix(imageFile, ext)
	dest := sequence.UniquePath(trashDir, base, ext)
	if err := os.Rename(src, dest); err != nil {
		zap.L().Warn("move image to trash failed", zap.String("path", src), zap.Error(err))
		return
	}
	zap.L().Info("image moved to trash", zap.String("path", dest))
}

func init() {
	removeCmd.Flags().StringVar(&removeTote, "tote", "", "tote id (required)")
	removeCmd.Flags().IntVar(&removeSeq, "seq", 0, "sequence number (required)")
	_ = removeCmd.MarkFlagRequired("tote")
	_ = removeCmd.MarkFlagRequired("seq")
	rootCmd.AddCommand(removeCmd)
}
