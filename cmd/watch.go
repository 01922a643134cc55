package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/watch"
)

var watchOpts exportOptions

var watchCmd = &cobra.Command{
	Use:   "watch <input> [target args...]",
	Short: "Export a document again whenever it or its sections change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		opts := watchOpts
		opts.input, opts.args = args[0], args[1:]

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return RunWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, s)
	},
}

func init() {
	watchCmd.Flags().AddFlagSet(exportFlagSet(&watchOpts))
	rootCmd.AddCommand(watchCmd)
}

// RunWatch exports once and then again after every change to the input or
// the section directory, until ctx is done.
func RunWatch(ctx context.Context, w, diag io.Writer, opts exportOptions, s *settings.Settings) error {
	export := func() error {
		return RunExport(w, diag, opts, s)
	}
	if err := export(); err != nil {
		reportError(diag, err)
	}

	paths := []string{opts.input}
	if info, err := os.Stat(s.General.SectionPath); err == nil && info.IsDir() {
		paths = append(paths, s.General.SectionPath)
	}

	watcher := &watch.Watcher{
		Paths:  paths,
		Logger: slog.Default(),
		Run: func() error {
			err := export()
			if err != nil {
				reportError(diag, err)
			}
			return err
		},
	}
	slog.Info("watching", "paths", paths)
	return watcher.Start(ctx)
}
