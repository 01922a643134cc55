package target

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/sections"
	"github.com/chriserin/mfnf/internal/settings"
	"github.com/chriserin/mfnf/internal/transform"
)

// Dependency is a file the output of an export was built from. Article and
// Section are set for included sections.
type Dependency struct {
	Path    string
	Article string
	Section string
}

// Deps writes a make rule listing the files an export of another target
// depends on. args[0] is the output base name, args[1] the other target.
type Deps struct{}

func (Deps) Name() string                   { return "deps" }
func (Deps) IncludeSections() bool          { return true }
func (Deps) GenerateDependencies() bool     { return false }
func (Deps) Extension() string              { return "dep" }
func (Deps) ExtensionFor(ext string) string { return ext }

func (Deps) Export(root ast.Element, s *settings.Settings, args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: deps needs <output base> <target>", ErrMissingArgs)
	}
	t, err := Lookup(args[1])
	if err != nil {
		return err
	}
	if !t.GenerateDependencies() {
		return nil
	}
	_, err = io.WriteString(out, MakeRule(args[0], t, Dependencies(root, t, s.General.SectionPath)))
	return err
}

// MakeRule formats deps as "<base>.<ext>: <path>...".
func MakeRule(base string, t Target, deps []Dependency) string {
	var b strings.Builder
	b.WriteString(base + "." + t.Extension() + ":")
	for _, d := range deps {
		b.WriteString(" " + d.Path)
	}
	b.WriteString("\n")
	return b.String()
}

// Dependencies collects the included section files and the referenced media
// files of root, each listed once in document order. Media file extensions
// are mapped through t.ExtensionFor.
func Dependencies(root ast.Element, t Target, sectionPath string) []Dependency {
	var deps []Dependency
	seen := map[string]bool{}
	add := func(d Dependency) {
		if !seen[d.Path] {
			seen[d.Path] = true
			deps = append(deps, d)
		}
	}

	var walk func(e ast.Element)
	walk = func(e ast.Element) {
		switch e := e.(type) {
		case *ast.Comment:
			if article, section, ok := transform.IncludedFrom(e.Text); ok {
				add(Dependency{
					Path:    sections.Path(sectionPath, article, section),
					Article: article,
					Section: section,
				})
			}
		case *ast.InternalReference:
			if file, ok := FileReference(ast.PlainText(e.Target)); ok {
				add(Dependency{Path: withExtension(file, t.ExtensionFor)})
			}
		}
		for _, list := range ast.Children(e) {
			for _, c := range list {
				walk(c)
			}
		}
	}
	walk(root)
	return deps
}

var filePrefixes = []string{"file:", "datei:", "image:", "bild:"}

// FileReference returns the file name of a media link such as
// "Datei:Graph.svg".
func FileReference(target string) (string, bool) {
	t := strings.TrimSpace(target)
	lower := strings.ToLower(t)
	for _, p := range filePrefixes {
		if strings.HasPrefix(lower, p) {
			name := strings.TrimSpace(t[len(p):])
			return strings.ReplaceAll(name, " ", "_"), name != ""
		}
	}
	return "", false
}

func withExtension(file string, mapping func(string) string) string {
	ext := path.Ext(file)
	if ext == "" {
		return file
	}
	mapped := mapping(strings.TrimPrefix(ext, "."))
	return strings.TrimSuffix(file, ext) + "." + mapped
}
