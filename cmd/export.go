package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/totemove/inventory-cli/internal/store"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate inventory.json and inventory.csv from the record store",
	Long: "The JSON and CSV files are pure projections of the record store; this " +
		"rewrites both from scratch. Safe to run at any time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dir := exportDir
		if dir == "" {
			dir = cfg.Scan.OrganizedDir
		}

		jsonPath := filepath.Join(dir, "inventory.json")
		if err := store.ExportJSON(ctx, st, jsonPath); err != nil {
			return err
		}
		csvPath := filepath.Join(dir, "inventory.csv")
		if err := store.ExportCSV(ctx, st, csvPath); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("json", jsonPath),
			zap.String("csv", csvPath),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (default organized dir)")
	rootCmd.AddCommand(exportCmd)
}
