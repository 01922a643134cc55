package cmd

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent export runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistory(cmd.OutOrStdout(), historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func RunHistory(w io.Writer, limit int) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}

	docWidth := 0
	for _, r := range runs {
		if len(r.Document) > docWidth {
			docWidth = len(r.Document)
		}
	}
	for _, r := range runs {
		created := r.CreatedAt.Local().Format(time.DateTime)
		ui.HistoryRow(w, r.ID, created, r.Document, r.Target, r.Status, docWidth)
	}
	return nil
}
