package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/transform"
	"github.com/chriserin/mfnf/internal/ui"
)

var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Verify that every heading named by the current subtarget exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		return RunCheck(cmd.OutOrStdout(), args[0], s)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// RunCheck expands section inclusions and checks the subtarget headings of
// the current target against the result.
func RunCheck(w io.Writer, input string, s *settings.Settings) error {
	root, err := readDocument(input)
	if err != nil {
		return err
	}
	if root, err = transform.NormalizeTemplateNames(root, s); err != nil {
		return err
	}
	if root, err = newIncluder(nil).IncludeSections(root, s); err != nil {
		return err
	}

	for _, e := range ast.Errors(root) {
		ui.WarningLine(w, e.Position.Start.String(), e.Message)
	}

	matching := s.Runtime.Markers.Matching(s.Runtime.TargetName)
	if len(matching) == 0 {
		ui.CheckLine(w, true, fmt.Sprintf("no subtargets for target %q", s.Runtime.TargetName))
		return nil
	}

	if err := transform.CheckSubtargets(root, s); err != nil {
		var terr *transform.TransformationError
		if errors.As(err, &terr) {
			err = terr.Cause
		}
		ui.CheckLine(w, false, err.Error())
		return errCheckFailed
	}
	for _, st := range matching {
		ui.CheckLine(w, true, fmt.Sprintf("%s: %d headings found", st.Name, len(st.Parameters)))
	}
	return nil
}
