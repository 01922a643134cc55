package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/target"
	"github.com/chriserin/mfnf/internal/ui"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the available export targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTargets(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func RunTargets(w io.Writer) error {
	names := target.Names()
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range names {
		t, err := target.Lookup(name)
		if err != nil {
			return err
		}
		ui.TargetRow(w, t.Name(), t.Extension(), t.IncludeSections(), t.GenerateDependencies(), width)
	}
	return nil
}
