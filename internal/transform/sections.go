package transform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/sections"
	"github.com/chriserin/mfnf/internal/settings"
)

// Inclusion describes one section spliced into the tree.
type Inclusion struct {
	Article string
	Section string
	Path    string
}

// Includer expands section inclusion templates such as
// {{#lst:Article|Section}} with the content of the stored section.
type Includer struct {
	// Resolve maps article and section to a file. Defaults to sections.Path
	// below general.section_path.
	Resolve func(article, section string) string
	// Load reads a fragment. Defaults to sections.Load.
	Load func(path string) ([]ast.Element, error)
	// OnInclude, if set, is called for every successful inclusion.
	OnInclude func(Inclusion)
	Logger    *slog.Logger
}

type includeState struct {
	settings *settings.Settings
	chain    []string
}

func (st includeState) enter(key string) includeState {
	chain := make([]string, len(st.chain), len(st.chain)+1)
	copy(chain, st.chain)
	return includeState{settings: st.settings, chain: append(chain, key)}
}

// IncludeSections is the section inclusion pass.
func (in *Includer) IncludeSections(root ast.Element, s *settings.Settings) (ast.Element, error) {
	return in.include(root, includeState{settings: s})
}

func (in *Includer) include(root ast.Element, st includeState) (ast.Element, error) {
	return RecurseWith(in.include, root, st, in.includeList)
}

// includeList replaces inclusion templates in list. A section that cannot be
// loaded is replaced by an error node and, unless
// general.keep_siblings_on_include_error is set, the rest of the list is
// dropped.
func (in *Includer) includeList(f Func[includeState], list []ast.Element, st includeState) ([]ast.Element, error) {
	if list == nil {
		return nil, nil
	}
	prefix := settings.NormalizeName(st.settings.General.SectionInclusionPrefix)

	var result []ast.Element
	for _, child := range list {
		tpl, ok := child.(*ast.Template)
		name := ""
		if ok {
			name = ast.PlainText(tpl.Name)
		}
		if !ok || !strings.HasPrefix(settings.NormalizeName(name), prefix) {
			e, err := f(child, st)
			if err != nil {
				return nil, err
			}
			result = append(result, e)
			continue
		}

		if len(tpl.Content) == 0 {
			result = append(result, &ast.Error{
				Position: tpl.Position,
				Message:  "a section inclusion must specify article name and section name",
			})
			continue
		}

		article := trimPrefix(strings.TrimSpace(name), prefix)
		section := strings.TrimSpace(ast.PlainTextOf(tpl.Content[0]))
		path := in.resolve(st.settings, article, section)

		fragment, msg := in.load(st, article, section, path)
		if msg != "" {
			result = append(result, &ast.Error{Position: tpl.Position, Message: msg})
			if st.settings.General.KeepSiblingsOnIncludeError {
				continue
			}
			return result, nil
		}

		result = append(result, &ast.Comment{
			Position: tpl.Position,
			Text:     includedFromPrefix + article + "|" + section,
		})

		// heading depths are normalized by a later pass
		expanded, err := in.includeList(in.include, fragment, st.enter(inclusionKey(article, section)))
		if err != nil {
			return nil, err
		}
		result = append(result, expanded...)

		if in.OnInclude != nil {
			in.OnInclude(Inclusion{Article: article, Section: section, Path: path})
		}
	}
	return result, nil
}

// load returns the fragment for article|section or the message of the
// error node replacing it.
func (in *Includer) load(st includeState, article, section, path string) ([]ast.Element, string) {
	key := inclusionKey(article, section)
	for _, k := range st.chain {
		if k == key {
			chain := append(append([]string{}, st.chain...), key)
			return nil, fmt.Sprintf("section inclusion cycle: %s", strings.Join(chain, " -> "))
		}
	}
	if limit := st.settings.General.SectionIncludeDepth; limit > 0 && len(st.chain) >= limit {
		return nil, fmt.Sprintf("section `%s|%s` is nested deeper than %d inclusions", article, section, limit)
	}

	load := in.Load
	if load == nil {
		load = sections.Load
	}
	fragment, err := load(path)
	if err != nil {
		in.logger().Warn("section inclusion failed", "path", path, "error", err)
		return nil, fmt.Sprintf("section file `%s` could not be read or parsed!", path)
	}
	in.logger().Debug("included section", "article", article, "section", section, "path", path)
	return fragment, ""
}

func (in *Includer) resolve(s *settings.Settings, article, section string) string {
	if in.Resolve != nil {
		return in.Resolve(article, section)
	}
	return sections.Path(s.General.SectionPath, article, section)
}

func (in *Includer) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

const includedFromPrefix = "included from: "

// IncludedFrom reads the article and section back from the comment that
// marks an included section.
func IncludedFrom(comment string) (article, section string, ok bool) {
	rest, found := strings.CutPrefix(comment, includedFromPrefix)
	if !found {
		return "", "", false
	}
	return strings.Cut(rest, "|")
}

func inclusionKey(article, section string) string {
	return settings.NormalizeName(article) + "|" + settings.NormalizeName(section)
}

// trimPrefix strips prefix from name, comparing case-insensitively. The
// prefix is matched rune by rune since lower-casing may change byte length.
func trimPrefix(name, prefix string) string {
	for i := range name {
		if i > 0 && settings.NormalizeName(name[:i]) == prefix {
			return strings.TrimSpace(name[i:])
		}
	}
	if settings.NormalizeName(name) == prefix {
		return ""
	}
	return name
}
