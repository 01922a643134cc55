package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/db"
	"github.com/chriserin/mfnf/internal/settings"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mfnf in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// settings
	if _, err := os.Stat(defaultConfig); err == nil {
		fmt.Fprintln(w, defaultConfig+" already exists")
	} else {
		data, err := settings.Default().Marshal()
		if err != nil {
			return fmt.Errorf("rendering default settings: %w", err)
		}
		if err := os.WriteFile(defaultConfig, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", defaultConfig, err)
		}
		fmt.Fprintln(w, defaultConfig+" created")
	}

	// sections/ directory
	_, err := os.Stat(settings.DefaultSectionPath)
	sectionsExist := err == nil
	if err := os.MkdirAll(settings.DefaultSectionPath, 0o755); err != nil {
		return fmt.Errorf("creating sections directory: %w", err)
	}
	if sectionsExist {
		fmt.Fprintln(w, settings.DefaultSectionPath+"/ already exists")
	} else {
		fmt.Fprintln(w, settings.DefaultSectionPath+"/ created")
	}

	// database
	_, err = os.Stat(db.DefaultPath)
	dbExists := err == nil
	sqlDB, err := db.Open(db.DefaultPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintln(w, db.DefaultPath+" already exists")
	} else {
		fmt.Fprintln(w, db.DefaultPath+" created")
	}

	// gitignore
	msgs, err := ensureGitignore(filepath.Dir(db.DefaultPath) + "/")
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
