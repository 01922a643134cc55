package target

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// HTML renders the tree as a standalone HTML page.
type HTML struct{}

func (HTML) Name() string               { return "html" }
func (HTML) IncludeSections() bool      { return true }
func (HTML) GenerateDependencies() bool { return true }
func (HTML) Extension() string          { return "html" }

// ExtensionFor keeps referenced files as they are; browsers show them
// directly.
func (HTML) ExtensionFor(ext string) string { return ext }

// Export writes the page. args[0], if given, is used as the page title.
func (h HTML) Export(root ast.Element, _ *settings.Settings, args []string, out io.Writer) error {
	title := "document"
	if len(args) > 0 && args[0] != "" {
		title = args[0]
	}

	body := element(atom.Body)
	r := htmlRenderer{ext: h.ExtensionFor}
	r.render(body, root)

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	titleNode := element(atom.Title)
	titleNode.AppendChild(textNode(title))
	head.AppendChild(titleNode)

	page := element(atom.Html)
	page.AppendChild(head)
	page.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(page)

	if err := html.Render(out, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

type htmlRenderer struct {
	ext func(string) string
}

func (r htmlRenderer) renderAll(parent *html.Node, list []ast.Element) {
	for _, e := range list {
		r.render(parent, e)
	}
}

func (r htmlRenderer) render(parent *html.Node, e ast.Element) {
	switch e := e.(type) {
	case *ast.Document:
		r.renderAll(parent, e.Content)
	case *ast.Heading:
		section := element(atom.Section)
		h := element(headingAtom(e.Depth), html.Attribute{Key: "id", Val: anchor(ast.PlainText(e.Caption))})
		r.renderAll(h, e.Caption)
		section.AppendChild(h)
		r.renderAll(section, e.Content)
		parent.AppendChild(section)
	case *ast.Paragraph:
		p := element(atom.P)
		r.renderAll(p, e.Content)
		parent.AppendChild(p)
	case *ast.Formatted:
		n := formattedNode(e.Markup)
		r.renderAll(n, e.Content)
		parent.AppendChild(n)
	case *ast.List:
		a := atom.Ul
		if e.Ordered {
			a = atom.Ol
		}
		l := element(a)
		r.renderAll(l, e.Content)
		parent.AppendChild(l)
	case *ast.ListItem:
		li := element(atom.Li)
		r.renderAll(li, e.Content)
		parent.AppendChild(li)
	case *ast.Template:
		div := element(atom.Div,
			html.Attribute{Key: "class", Val: "template"},
			html.Attribute{Key: "data-name", Val: ast.PlainText(e.Name)},
		)
		r.renderAll(div, e.Content)
		parent.AppendChild(div)
	case *ast.TemplateArgument:
		div := element(atom.Div,
			html.Attribute{Key: "class", Val: "argument"},
			html.Attribute{Key: "data-name", Val: e.Name},
		)
		r.renderAll(div, e.Value)
		parent.AppendChild(div)
	case *ast.Text:
		parent.AppendChild(textNode(e.Text))
	case *ast.Comment:
		parent.AppendChild(&html.Node{Type: html.CommentNode, Data: " " + e.Text + " "})
	case *ast.Error:
		span := element(atom.Span,
			html.Attribute{Key: "class", Val: "error"},
			html.Attribute{Key: "title", Val: e.Position.Start.String()},
		)
		span.AppendChild(textNode(e.Message))
		parent.AppendChild(span)
	case *ast.InternalReference:
		r.internalReference(parent, e)
	case *ast.ExternalReference:
		a := element(atom.A, html.Attribute{Key: "href", Val: e.Target})
		if len(e.Caption) == 0 {
			a.AppendChild(textNode(e.Target))
		} else {
			r.renderAll(a, e.Caption)
		}
		parent.AppendChild(a)
	}
}

func (r htmlRenderer) internalReference(parent *html.Node, ref *ast.InternalReference) {
	target := strings.TrimSpace(ast.PlainText(ref.Target))
	if file, ok := FileReference(target); ok {
		img := element(atom.Img,
			html.Attribute{Key: "src", Val: withExtension(file, r.ext)},
			html.Attribute{Key: "alt", Val: ast.PlainText(ref.Caption)},
		)
		parent.AppendChild(img)
		return
	}

	a := element(atom.A, html.Attribute{Key: "href", Val: articleHref(target)})
	if len(ref.Caption) == 0 {
		a.AppendChild(textNode(target))
	} else {
		r.renderAll(a, ref.Caption)
	}
	parent.AppendChild(a)
}

func headingAtom(depth int) atom.Atom {
	switch {
	case depth <= 1:
		return atom.H1
	case depth == 2:
		return atom.H2
	case depth == 3:
		return atom.H3
	case depth == 4:
		return atom.H4
	case depth == 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func formattedNode(markup string) *html.Node {
	switch markup {
	case "italic":
		return element(atom.Em)
	case "bold":
		return element(atom.Strong)
	case "code":
		return element(atom.Code)
	case "preformatted":
		return element(atom.Pre)
	case "quote":
		return element(atom.Blockquote)
	default:
		return element(atom.Span, html.Attribute{Key: "class", Val: markup})
	}
}

// articleHref links to another article page, keeping a section anchor
// written as Article#Section.
func articleHref(target string) string {
	article, section, hasSection := strings.Cut(target, "#")
	href := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(article), " ", "_"))
	if href != "" {
		href += ".html"
	}
	if hasSection {
		href += "#" + anchor(section)
	}
	return href
}

func anchor(caption string) string {
	fields := strings.Fields(strings.ToLower(caption))
	return url.PathEscape(strings.Join(fields, "-"))
}
