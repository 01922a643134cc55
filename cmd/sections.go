package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/sections"
	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/ui"
)

var sectionsArticle string

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the stored sections that can be included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		return RunSections(cmd.OutOrStdout(), s, sectionsArticle)
	},
}

var sectionsAddCmd = &cobra.Command{
	Use:   "add <article> <section> <input>",
	Short: "Store a document as an includable section",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(globals)
		if err != nil {
			return err
		}
		return RunSectionsAdd(cmd.OutOrStdout(), s, args[0], args[1], args[2])
	},
}

func init() {
	sectionsCmd.Flags().StringVar(&sectionsArticle, "article", "", "Show only sections of this article")
	sectionsCmd.AddCommand(sectionsAddCmd)
	rootCmd.AddCommand(sectionsCmd)
}

// RunSectionsAdd reads input and stores its content as the fragment for
// article and section below the section path.
func RunSectionsAdd(w io.Writer, s *settings.Settings, article, section, input string) error {
	article, section = strings.TrimSpace(article), strings.TrimSpace(section)
	if article == "" || section == "" {
		return fmt.Errorf("article and section name must not be empty")
	}

	root, err := readDocument(input)
	if err != nil {
		return err
	}
	fragment := []ast.Element{root}
	if d, ok := root.(*ast.Document); ok {
		fragment = d.Content
	}

	path := sections.Path(s.General.SectionPath, article, section)
	if err := sections.Write(path, fragment); err != nil {
		return fmt.Errorf("storing section: %w", err)
	}
	fmt.Fprintln(w, article+"|"+section+" stored at "+path)
	return nil
}

type sectionRow struct {
	article string
	section string
	path    string
}

func RunSections(w io.Writer, s *settings.Settings, article string) error {
	base := s.General.SectionPath
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return fmt.Errorf("section directory %s does not exist", base)
	}

	var results []sectionRow
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != sections.Extension {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		dir, file := filepath.Split(rel)
		if dir == "" {
			return nil
		}
		r := sectionRow{
			article: unescape(filepath.Clean(dir)),
			section: unescape(strings.TrimSuffix(file, sections.Extension)),
			path:    path,
		}
		if article != "" && settings.NormalizeName(r.article) != settings.NormalizeName(article) {
			return nil
		}
		results = append(results, r)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading sections: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].article != results[j].article {
			return results[i].article < results[j].article
		}
		return results[i].section < results[j].section
	})

	articleWidth := 0
	for _, r := range results {
		if len(r.article) > articleWidth {
			articleWidth = len(r.article)
		}
	}
	for _, r := range results {
		ui.SectionRow(w, r.article, r.section, r.path, articleWidth)
	}
	return nil
}

// unescape reverses the file name escaping of sections.Path.
func unescape(name string) string {
	if u, err := url.PathUnescape(name); err == nil {
		name = u
	}
	return strings.ReplaceAll(name, "_", " ")
}
