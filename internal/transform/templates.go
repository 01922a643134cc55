package transform

import (
	"strings"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// NormalizeTemplateNames collapses every template name into a single text
// node and lower-cases names and argument names. Names starting with '#'
// are parser functions and keep their case.
func NormalizeTemplateNames(root ast.Element, s *settings.Settings) (ast.Element, error) {
	if tpl, ok := root.(*ast.Template); ok {
		if err := normalizeTemplate(tpl); err != nil {
			return nil, err
		}
	}
	return Recurse(NormalizeTemplateNames, root, s)
}

func normalizeTemplate(tpl *ast.Template) error {
	const name = "normalize_template_names"

	if len(tpl.Name) == 0 {
		return structural(name, ErrEmptyTemplateName, tpl)
	}
	for _, child := range tpl.Content {
		if _, ok := child.(*ast.TemplateArgument); !ok {
			return structural(name, ErrTemplateChild, tpl)
		}
	}
	for _, child := range tpl.Content {
		arg := child.(*ast.TemplateArgument)
		arg.Name = settings.NormalizeName(arg.Name)
	}

	text := strings.TrimSpace(ast.PlainText(tpl.Name))
	if text == "" {
		return structural(name, ErrEmptyTemplateName, tpl)
	}
	if !strings.HasPrefix(text, "#") {
		text = settings.NormalizeName(text)
	}

	tpl.Name = []ast.Element{&ast.Text{
		Position: ast.SpanOf(tpl.Name, tpl.Position),
		Text:     text,
	}}
	return nil
}
