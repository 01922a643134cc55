package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/db"
	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/target"
	"github.com/chriserin/mfnf/internal/transform"
	"github.com/chriserin/mfnf/internal/ui"
)

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export <input> [target args...]",
	Short: "Transform a document and write it with an export target",
	Long: `Transform a document and write it with an export target.

Extra arguments are handed to the target. The html target takes a page
title, the deps target an output base name and the target to list
dependencies for.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		opts := exportOpts
		opts.input, opts.args = args[0], args[1:]
		return RunExport(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, s)
	},
}

func init() {
	exportCmd.Flags().AddFlagSet(exportFlagSet(&exportOpts))
	rootCmd.AddCommand(exportCmd)
}

// RunExport exports opts.input to opts.output, or to w when no output file
// is set. Inline errors left in the tree are reported to diag. The run is
// recorded in the build database when the directory was initialized.
func RunExport(w, diag io.Writer, opts exportOptions, s *settings.Settings) error {
	t, err := target.Lookup(opts.target)
	if err != nil {
		return err
	}

	var included []transform.Inclusion
	root, err := readDocument(opts.input)
	if err == nil {
		root, err = pipelineFor(t, &included).Run(root, s)
	}
	if err != nil {
		record(db.Run{Document: opts.input, Target: t.Name(), Status: db.StatusFailed, Message: err.Error()}, nil)
		return err
	}

	args := opts.args
	if len(args) == 0 {
		args = []string{baseName(opts.input)}
	}

	var buf bytes.Buffer
	if err := t.Export(root, s, args, &buf); err != nil {
		record(db.Run{Document: opts.input, Target: t.Name(), Status: db.StatusFailed, Message: err.Error()}, nil)
		return fmt.Errorf("exporting %s: %w", t.Name(), err)
	}
	if err := writeOutput(w, opts.output, buf.Bytes()); err != nil {
		return err
	}
	if opts.output != "" {
		ui.ExportLine(w, t.Name(), opts.output)
	}

	warnings := ast.Errors(root)
	for _, e := range warnings {
		ui.WarningLine(diag, e.Position.Start.String(), e.Message)
	}

	run := db.Run{Document: opts.input, Target: t.Name(), Status: db.StatusOK}
	if len(warnings) > 0 {
		run.Status = db.StatusWarning
		run.Message = fmt.Sprintf("%d inline errors", len(warnings))
	}
	var deps []db.Dependency
	if t.GenerateDependencies() {
		for _, d := range target.Dependencies(root, t, s.General.SectionPath) {
			deps = append(deps, db.Dependency(d))
		}
	}
	record(run, deps)

	slog.Info("exported", "input", opts.input, "target", t.Name(), "sections", len(included), "warnings", len(warnings))
	return nil
}

func writeOutput(w io.Writer, output string, data []byte) error {
	if output == "" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

// record stores a run if the build database exists. Failing to record never
// fails the export.
func record(run db.Run, deps []db.Dependency) {
	store, closeStore, err := openStore()
	if err != nil {
		slog.Debug("run not recorded", "error", err)
		return
	}
	defer closeStore()

	stored, err := store.RecordRun(run, deps)
	if err != nil {
		slog.Warn("recording run failed", "error", err)
		return
	}
	slog.Debug("recorded run", "run_id", stored.ID, "dependencies", len(deps))
}
