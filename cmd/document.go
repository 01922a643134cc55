package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/db"
	"github.com/chriserin/mfnf/internal/markup"
	"github.com/chriserin/mfnf/internal/target"
	"github.com/chriserin/mfnf/internal/transform"
)

// readDocument loads an input tree: Markdown by extension, otherwise the
// YAML tree format.
func readDocument(path string) (ast.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if markup.IsMarkdown(path) {
		doc, err := markup.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return doc, nil
	}
	root, err := ast.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root, nil
}

// newIncluder returns an includer reading from the section path that
// records every inclusion in included.
func newIncluder(included *[]transform.Inclusion) *transform.Includer {
	return &transform.Includer{
		Logger: slog.Default(),
		OnInclude: func(i transform.Inclusion) {
			if included != nil {
				*included = append(*included, i)
			}
		},
	}
}

// pipelineFor returns the passes an export to t runs.
func pipelineFor(t target.Target, included *[]transform.Inclusion) *transform.Pipeline {
	var in *transform.Includer
	if t == nil || t.IncludeSections() {
		in = newIncluder(included)
	}
	return transform.NewPipeline(in, transform.WithLogger(slog.Default()))
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func errNotInitialized() error {
	return fmt.Errorf("run `mfnf init` first")
}

// openStore opens the build database created by init.
func openStore() (*db.Store, func(), error) {
	if _, err := os.Stat(filepath.Dir(db.DefaultPath)); os.IsNotExist(err) {
		return nil, nil, errNotInitialized()
	}
	sqlDB, err := db.Open(db.DefaultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return db.NewStore(sqlDB), func() { sqlDB.Close() }, nil
}
