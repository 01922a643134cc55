package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/target"
)

var (
	depsTarget string
	depsBase   string
)

var depsCmd = &cobra.Command{
	Use:   "deps <input>",
	Short: "Print a make rule for the files the last export of a document read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunDeps(cmd.OutOrStdout(), args[0], depsTarget, depsBase)
	},
}

func init() {
	depsCmd.Flags().StringVarP(&depsTarget, "target", "t", "html", "export target")
	depsCmd.Flags().StringVar(&depsBase, "base", "", "output base name (default: input without extension)")
	rootCmd.AddCommand(depsCmd)
}

// RunDeps prints the dependencies recorded for the latest export of input
// to targetName.
func RunDeps(w io.Writer, input, targetName, base string) error {
	t, err := target.Lookup(targetName)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	run, err := store.LatestRun(input, t.Name())
	if err != nil {
		return err
	}
	recorded, err := store.Dependencies(run.ID)
	if err != nil {
		return err
	}

	deps := make([]target.Dependency, 0, len(recorded))
	for _, d := range recorded {
		deps = append(deps, target.Dependency(d))
	}
	if base == "" {
		base = baseName(input)
	}
	_, err = fmt.Fprint(w, target.MakeRule(base, t, deps))
	return err
}
