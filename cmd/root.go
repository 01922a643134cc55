package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/transform"
	"github.com/chriserin/mfnf/internal/ui"
)

const defaultConfig = "mfnf.yml"

var rootCmd = &cobra.Command{
	Use:           "mfnf",
	Short:         "mfnf — transform document trees and export them to output targets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(); err != nil {
			return err
		}
		logger, err := newLogger(cmd.ErrOrStderr(), globals.logLevel, globals.logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().AddFlagSet(globalFlagSet(&globals))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	var terr *transform.TransformationError
	if errors.As(err, &terr) {
		ui.ErrorLine(w, terr.TransformationName, terr.Position.Start.String(), terr.Cause)
		return
	}
	fmt.Fprintln(w, "error: "+err.Error())
}

// loadDotEnv reads .env from the working directory if there is one.
// Variables already set in the environment win.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// loadSettings reads the settings file named by --config, falling back to
// the defaults when the default file is absent, then applies environment and
// flag overrides.
func loadSettings(o globalOptions) (*settings.Settings, error) {
	s, err := settings.Load(o.config)
	if errors.Is(err, settings.ErrSettingsNotFound) && o.config == defaultConfig {
		s, err = settings.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	s.ApplyEnv()
	if o.targetName != "" {
		s.Runtime.TargetName = o.targetName
	}
	if o.sectionPath != "" {
		s.General.SectionPath = o.sectionPath
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
