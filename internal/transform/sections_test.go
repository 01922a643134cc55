package transform

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/sections"
	"github.com/chriserin/mfnf/internal/settings"
)

// fakeIncluder serves fragments from memory keyed by "article/section".
func fakeIncluder(fragments map[string]func() []ast.Element) (*Includer, *[]Inclusion) {
	var seen []Inclusion
	in := &Includer{
		Resolve: func(article, section string) string { return article + "/" + section },
		Load: func(path string) ([]ast.Element, error) {
			build, ok := fragments[path]
			if !ok {
				return nil, os.ErrNotExist
			}
			return build(), nil
		},
		OnInclude: func(i Inclusion) { seen = append(seen, i) },
	}
	return in, &seen
}

func include(name, section string) *ast.Template {
	t := tpl(name, arg("1", section))
	t.Position = at(5)
	return t
}

func TestIncludeSections_SplicesFragment(t *testing.T) {
	in, seen := fakeIncluder(map[string]func() []ast.Element{
		"Folgen/Definition": func() []ast.Element {
			return []ast.Element{heading("Definition", para("body")), para("tail")}
		},
	})
	root := doc(para("before"), include("#lst:Folgen", "Definition"), para("after"))

	got, err := in.IncludeSections(root, settings.Default())
	require.NoError(t, err)

	content := got.(*ast.Document).Content
	require.Len(t, content, 5)
	assert.Equal(t, "before", ast.PlainTextOf(content[0]))
	comment, ok := content[1].(*ast.Comment)
	require.True(t, ok)
	assert.Equal(t, "included from: Folgen|Definition", comment.Text)
	assert.Equal(t, 5, comment.Position.Start.Line)
	assert.Equal(t, []string{"Definition"}, captions(content))
	assert.Equal(t, "tail", ast.PlainTextOf(content[3]))
	assert.Equal(t, "after", ast.PlainTextOf(content[4]))
	assert.Equal(t, []Inclusion{{Article: "Folgen", Section: "Definition", Path: "Folgen/Definition"}}, *seen)
}

func TestIncludeSections_PrefixIsCaseInsensitive(t *testing.T) {
	in, _ := fakeIncluder(map[string]func() []ast.Element{
		"Folgen/Satz": func() []ast.Element { return []ast.Element{para("x")} },
	})

	got, err := in.IncludeSections(doc(include("  #LST:Folgen ", " Satz ")), settings.Default())
	require.NoError(t, err)

	assert.Len(t, got.(*ast.Document).Content, 2)
}

func TestIncludeSections_Nested(t *testing.T) {
	in, seen := fakeIncluder(map[string]func() []ast.Element{
		"A/one": func() []ast.Element {
			return []ast.Element{heading("One", include("#lst:B", "two"))}
		},
		"B/two": func() []ast.Element {
			return []ast.Element{para("deep")}
		},
	})

	got, err := in.IncludeSections(doc(include("#lst:A", "one")), settings.Default())
	require.NoError(t, err)

	content := got.(*ast.Document).Content
	require.Len(t, content, 2)
	h := content[1].(*ast.Heading)
	require.Len(t, h.Content, 2)
	assert.Equal(t, "included from: B|two", h.Content[0].(*ast.Comment).Text)
	assert.Equal(t, "deep", ast.PlainTextOf(h.Content[1]))
	assert.Len(t, *seen, 2)
}

func TestIncludeSections_MissingFileTruncatesSiblings(t *testing.T) {
	in, _ := fakeIncluder(nil)
	root := doc(para("before"), include("#lst:Nope", "Gone"), para("after"), heading("later"))

	got, err := in.IncludeSections(root, settings.Default())
	require.NoError(t, err)

	content := got.(*ast.Document).Content
	require.Len(t, content, 2)
	assert.Equal(t, "before", ast.PlainTextOf(content[0]))
	errNode, ok := content[1].(*ast.Error)
	require.True(t, ok)
	assert.Contains(t, errNode.Message, "Nope/Gone")
	assert.Equal(t, 5, errNode.Position.Start.Line)
	assert.Len(t, ast.Errors(got), 1)
}

func TestIncludeSections_KeepSiblingsOnError(t *testing.T) {
	in, _ := fakeIncluder(nil)
	s := settings.Default()
	s.General.KeepSiblingsOnIncludeError = true

	got, err := in.IncludeSections(doc(include("#lst:Nope", "Gone"), para("after")), s)
	require.NoError(t, err)

	content := got.(*ast.Document).Content
	require.Len(t, content, 2)
	assert.IsType(t, &ast.Error{}, content[0])
	assert.Equal(t, "after", ast.PlainTextOf(content[1]))
}

func TestIncludeSections_ParseFailureIsInlineError(t *testing.T) {
	in := &Includer{
		Resolve: func(article, section string) string { return "broken.yml" },
		Load: func(string) ([]ast.Element, error) {
			return nil, errors.New("yaml: line 1: did not find expected node content")
		},
	}

	got, err := in.IncludeSections(doc(include("#lst:A", "b")), settings.Default())
	require.NoError(t, err)

	errs := ast.Errors(got)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "section file `broken.yml` could not be read or parsed")
}

func TestIncludeSections_MissingSectionName(t *testing.T) {
	in, _ := fakeIncluder(nil)
	directive := tpl("#lst:Folgen")
	directive.Position = at(9)

	got, err := in.IncludeSections(doc(directive, para("after")), settings.Default())
	require.NoError(t, err)

	content := got.(*ast.Document).Content
	require.Len(t, content, 2)
	errNode := content[0].(*ast.Error)
	assert.Equal(t, 9, errNode.Position.Start.Line)
	assert.Contains(t, errNode.Message, "section name")
	assert.Equal(t, "after", ast.PlainTextOf(content[1]))
}

func TestIncludeSections_DetectsCycle(t *testing.T) {
	in, _ := fakeIncluder(map[string]func() []ast.Element{
		"A/x": func() []ast.Element { return []ast.Element{include("#lst:B", "y")} },
		"B/y": func() []ast.Element { return []ast.Element{include("#lst:A", "x")} },
	})

	got, err := in.IncludeSections(doc(include("#lst:A", "x")), settings.Default())
	require.NoError(t, err)

	errs := ast.Errors(got)
	require.Len(t, errs, 1)
	assert.Equal(t, "section inclusion cycle: a|x -> b|y -> a|x", errs[0].Message)
}

func TestIncludeSections_DepthLimit(t *testing.T) {
	in, _ := fakeIncluder(map[string]func() []ast.Element{
		"A/1": func() []ast.Element { return []ast.Element{include("#lst:A", "2")} },
		"A/2": func() []ast.Element { return []ast.Element{include("#lst:A", "3")} },
		"A/3": func() []ast.Element { return []ast.Element{para("never")} },
	})
	s := settings.Default()
	s.General.SectionIncludeDepth = 2

	got, err := in.IncludeSections(doc(include("#lst:A", "1")), s)
	require.NoError(t, err)

	errs := ast.Errors(got)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "nested deeper than 2")
}

func TestIncludeSections_OtherTemplatesRecurse(t *testing.T) {
	in, _ := fakeIncluder(map[string]func() []ast.Element{
		"A/x": func() []ast.Element { return []ast.Element{para("inner")} },
	})
	box := &ast.Template{
		Name:    []ast.Element{txt("box")},
		Content: []ast.Element{&ast.TemplateArgument{Name: "1", Value: []ast.Element{include("#lst:A", "x")}}},
	}

	got, err := in.IncludeSections(doc(box), settings.Default())
	require.NoError(t, err)

	value := got.(*ast.Document).Content[0].(*ast.Template).Content[0].(*ast.TemplateArgument).Value
	require.Len(t, value, 2)
	assert.Equal(t, "inner", ast.PlainTextOf(value[1]))
}

func TestIncludeSections_ReadsFromSectionPath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, sections.Write(sections.Path(base, "Grenzwert", "Beispiel 1"), []ast.Element{para("from disk")}))
	s := settings.Default()
	s.General.SectionPath = base

	got, err := (&Includer{}).IncludeSections(doc(include("#lst:Grenzwert", "Beispiel 1")), s)
	require.NoError(t, err)

	content := got.(*ast.Document).Content
	require.Len(t, content, 2)
	assert.Equal(t, "from disk", ast.PlainTextOf(content[1]))
}

func TestIncludedFrom(t *testing.T) {
	article, section, ok := IncludedFrom("included from: Folgen|Beispiel 1")
	require.True(t, ok)
	assert.Equal(t, "Folgen", article)
	assert.Equal(t, "Beispiel 1", section)

	_, _, ok = IncludedFrom("Quelle: Serlo")
	assert.False(t, ok)
}

func TestTrimPrefix(t *testing.T) {
	assert.Equal(t, "Folgen", trimPrefix("#LST:Folgen", "#lst:"))
	assert.Equal(t, "Folgen", trimPrefix("K:Folgen", "k:"))
	assert.Equal(t, "Folgen", trimPrefix("#lst: Folgen ", "#lst:"))
	assert.Equal(t, "", trimPrefix("#lst:", "#lst:"))
	assert.Equal(t, "Folgen", trimPrefix("Folgen", "#lst:"))
}

func TestIncludeSections_PrefixChangingByteLength(t *testing.T) {
	in, seen := fakeIncluder(map[string]func() []ast.Element{
		"Folgen/Definition": func() []ast.Element { return []ast.Element{para("Eine Folge")} },
	})
	s := settings.Default()
	s.General.SectionInclusionPrefix = "k:"

	got, err := in.IncludeSections(doc(include("K:Folgen", "Definition")), s)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, "Folgen", (*seen)[0].Article)
	assert.Equal(t, "Eine Folge", ast.PlainTextOf(got.(*ast.Document).Content[1]))
}
