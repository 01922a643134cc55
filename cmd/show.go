package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/transform"
	"github.com/chriserin/mfnf/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <input>",
	Short: "Show the heading outline of a transformed document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		return RunShow(cmd.OutOrStdout(), args[0], s)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// RunShow prints the headings of the transformed document indented by depth,
// with a marker where sections were included and any inline errors.
func RunShow(w io.Writer, input string, s *settings.Settings) error {
	root, err := readDocument(input)
	if err != nil {
		return err
	}
	root, err = pipelineFor(nil, nil).Run(root, s)
	if err != nil {
		return err
	}

	printOutline(w, root, 0)

	errs := ast.Errors(root)
	for _, e := range errs {
		ui.WarningLine(w, e.Position.Start.String(), e.Message)
	}
	ui.SummaryLine(w, len(errs))
	return nil
}

func printOutline(w io.Writer, e ast.Element, depth int) {
	switch e := e.(type) {
	case *ast.Heading:
		ui.OutlineHeading(w, e.Depth, ast.PlainText(e.Caption))
		for _, c := range e.Content {
			printOutline(w, c, e.Depth)
		}
		return
	case *ast.Comment:
		if article, section, ok := transform.IncludedFrom(e.Text); ok {
			ui.OutlineInclude(w, depth, article, section)
		}
		return
	}
	for _, list := range ast.Children(e) {
		for _, c := range list {
			printOutline(w, c, depth)
		}
	}
}
