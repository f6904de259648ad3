package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/totemove/inventory-cli/internal/scanner"
)

var scanTote string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Watch the scan directory and process items as they arrive",
	Long: "Watches the scanner output directory. A file named TOTE-NNN (image or .txt sidecar) " +
		"switches the active tote; every other image is identified, priced, recorded, and moved " +
		"into organized/<tote>/.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sy, err := initSynthesizer(st)
		if err != nil {
			return err
		}

		s := &scanner.Scanner{
			Dir:           cfg.Scan.Dir,
			OrganizedDir:  cfg.Scan.OrganizedDir,
			PublicBaseURL: cfg.Scan.PublicBaseURL,
			Settle:        time.Duration(cfg.Scan.SettleMillis) * time.Millisecond,
			Store:         st,
			Synth:         sy,
		}

		if scanTote != "" {
			if err := s.SetTote(scanTote); err != nil {
				return err
			}
		}

		if err := s.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanTote, "tote", "", "initial tote context (e.g. TOTE-001)")
	rootCmd.AddCommand(scanCmd)
}
