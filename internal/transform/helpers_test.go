package transform

import (
	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

func at(line int) ast.Span {
	return ast.Span{
		Start: ast.Position{Line: line, Col: 1},
		End:   ast.Position{Line: line, Col: 20},
	}
}

func txt(s string) *ast.Text {
	return &ast.Text{Text: s}
}

func doc(content ...ast.Element) *ast.Document {
	return &ast.Document{Content: content}
}

func heading(caption string, content ...ast.Element) *ast.Heading {
	return &ast.Heading{Depth: 1, Caption: []ast.Element{txt(caption)}, Content: content}
}

func para(s string) *ast.Paragraph {
	return &ast.Paragraph{Content: []ast.Element{txt(s)}}
}

func tpl(name string, args ...ast.Element) *ast.Template {
	return &ast.Template{Name: []ast.Element{txt(name)}, Content: args}
}

func arg(name, value string) *ast.TemplateArgument {
	return &ast.TemplateArgument{Name: name, Value: []ast.Element{txt(value)}}
}

func captions(list []ast.Element) []string {
	var out []string
	for _, e := range list {
		if h, ok := e.(*ast.Heading); ok {
			out = append(out, ast.PlainText(h.Caption))
		}
	}
	return out
}

func withTarget(target string, include, exclude []settings.Subtarget) *settings.Settings {
	s := settings.Default()
	s.Runtime.TargetName = target
	s.Runtime.Markers.Include.Subtargets = include
	s.Runtime.Markers.Exclude.Subtargets = exclude
	return s
}
