package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/totemove/inventory-cli/internal/model"
	"github.com/totemove/inventory-cli/internal/store"
)

var failedReview bool

var failedCmd = &cobra.Command{
	Use:   "failed",
	Short: "List failed records for triage",
	Long: "Lists records that failed synthesis, each still holding its sequence number. " +
		"With --review, lists successful records flagged for manual review instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if failedReview {
			records, err := st.ListRecords(ctx, store.RecordFilter{Status: model.StatusSuccess})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				if !rec.ManualReview {
					continue
				}
				reasons := make([]string, 0, len(rec.ReviewHints))
				for _, r := range rec.ReviewHints {
					reasons = append(reasons, string(r))
				}
				rows = append(rows, []string{
					rec.ToteID,
					fmt.Sprintf("%d", rec.Sequence),
					rec.ItemName,
					fmt.Sprintf("%.2f", rec.Analysis.EstimatedValue),
					strings.Join(reasons, ", "),
				})
			}
			if len(rows) == 0 {
				fmt.Println("No records flagged for review.")
				return nil
			}
			fmt.Println(renderTable(
				[]string{"TOTE", "SEQ", "ITEM", "VALUE", "REVIEW REASONS"},
				rows, 1, 3,
			))
			return nil
		}

		records, err := st.ListFailed(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No failed records.")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{
				rec.ToteID,
				fmt.Sprintf("%d", rec.Sequence),
				rec.ImageFile,
				rec.Error,
			})
		}
		fmt.Println(renderTable(
			[]string{"TOTE", "SEQ", "IMAGE", "ERROR"},
			rows, 1,
		))
		return nil
	},
}

func init() {
	failedCmd.Flags().BoolVar(&failedReview, "review", false, "list successful records flagged for manual review")
	rootCmd.AddCommand(failedCmd)
}
