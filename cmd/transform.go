package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

var transformCmd = &cobra.Command{
	Use:   "transform <input>",
	Short: "Run all passes on a document and print the resulting tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		return RunTransform(cmd.OutOrStdout(), args[0], s)
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
}

func RunTransform(w io.Writer, input string, s *settings.Settings) error {
	root, err := readDocument(input)
	if err != nil {
		return err
	}
	root, err = pipelineFor(nil, nil).Run(root, s)
	if err != nil {
		return err
	}
	data, err := ast.Encode(root)
	if err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	_, err = w.Write(data)
	return err
}
