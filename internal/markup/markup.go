// Package markup reads Markdown documents into the document tree so they can
// run through the same passes as wiki-parsed input.
package markup

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/chriserin/mfnf/internal/ast"
)

var ErrInvalidEncoding = errors.New("markdown source is not valid UTF-8")

// Extensions lists the file extensions read as Markdown.
var Extensions = []string{".md", ".markdown"}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Parse converts Markdown into a document tree. Headings nest the blocks
// that follow them up to the next heading of the same or a higher level.
// Links with a URL scheme become external references, all other links
// internal ones. A paragraph consisting only of {{name|arg|key=value}} is
// read as a template invocation.
func Parse(src []byte) (*ast.Document, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidEncoding
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	c := &converter{src: src, lines: lineStarts(src)}
	doc := &ast.Document{Position: ast.Span{Start: c.pos(0), End: c.pos(len(src))}}

	type frame struct {
		heading *ast.Heading
		level   int
	}
	var stack []frame

	appendBlock := func(e ast.Element) {
		if len(stack) == 0 {
			doc.Content = append(doc.Content, e)
			return
		}
		for _, f := range stack {
			f.heading.Position.End = e.Pos().End
		}
		top := stack[len(stack)-1].heading
		top.Content = append(top.Content, e)
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gast.Heading)
		if !ok {
			if e := c.block(n); e != nil {
				appendBlock(e)
			}
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		heading := &ast.Heading{
			Position: c.blockSpan(h),
			Depth:    h.Level,
			Caption:  c.inlines(h),
		}
		appendBlock(heading)
		stack = append(stack, frame{heading: heading, level: h.Level})
	}
	return doc, nil
}

type converter struct {
	src   []byte
	lines []int
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (c *converter) pos(offset int) ast.Position {
	line := sort.Search(len(c.lines), func(i int) bool { return c.lines[i] > offset }) - 1
	return ast.Position{Offset: offset, Line: line + 1, Col: offset - c.lines[line] + 1}
}

func (c *converter) span(start, stop int) ast.Span {
	return ast.Span{Start: c.pos(start), End: c.pos(stop)}
}

// blockSpan covers the source lines of n, or of its descendants for
// containers such as lists that own no lines themselves.
func (c *converter) blockSpan(n gast.Node) ast.Span {
	start, stop, ok := c.extent(n)
	if !ok {
		return ast.Span{}
	}
	return c.span(start, stop)
}

func (c *converter) extent(n gast.Node) (start, stop int, ok bool) {
	if n.Type() == gast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, true
		}
	}
	if t, isText := n.(*gast.Text); isText {
		return t.Segment.Start, t.Segment.Stop, true
	}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		s, e, found := c.extent(ch)
		if !found {
			continue
		}
		if !ok {
			start, ok = s, true
		}
		stop = e
	}
	return start, stop, ok
}

func (c *converter) rawLines(n gast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

func (c *converter) blocks(n gast.Node) []ast.Element {
	var out []ast.Element
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if e := c.block(ch); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (c *converter) block(n gast.Node) ast.Element {
	pos := c.blockSpan(n)
	switch n := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		if tpl := c.template(n); tpl != nil {
			return tpl
		}
		return &ast.Paragraph{Position: pos, Content: c.inlines(n)}
	case *gast.Heading:
		// only reached inside containers, where there is nothing to nest
		return &ast.Heading{Position: pos, Depth: n.Level, Caption: c.inlines(n)}
	case *gast.List:
		return &ast.List{Position: pos, Ordered: n.IsOrdered(), Content: c.blocks(n)}
	case *gast.ListItem:
		return &ast.ListItem{Position: pos, Content: c.blocks(n)}
	case *gast.Blockquote:
		return &ast.Formatted{Position: pos, Markup: "quote", Content: c.blocks(n)}
	case *gast.FencedCodeBlock, *gast.CodeBlock:
		code := c.rawLines(n)
		return &ast.Formatted{Position: pos, Markup: "preformatted", Content: []ast.Element{
			&ast.Text{Position: pos, Text: code},
		}}
	case *gast.HTMLBlock:
		raw := c.rawLines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(c.src))
		}
		if comment, ok := htmlComment(raw); ok {
			return &ast.Comment{Position: pos, Text: comment}
		}
		return &ast.Paragraph{Position: pos, Content: []ast.Element{&ast.Text{Position: pos, Text: raw}}}
	case *gast.ThematicBreak:
		return nil
	default:
		return &ast.Paragraph{Position: pos, Content: c.inlines(n)}
	}
}

func (c *converter) inlines(n gast.Node) []ast.Element {
	var out []ast.Element
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if e := c.inline(ch); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (c *converter) inline(n gast.Node) ast.Element {
	pos := c.blockSpan(n)
	switch n := n.(type) {
	case *gast.Text:
		s := string(n.Segment.Value(c.src))
		switch {
		case n.HardLineBreak():
			s += "\n"
		case n.SoftLineBreak():
			s += " "
		}
		return &ast.Text{Position: pos, Text: s}
	case *gast.String:
		return &ast.Text{Position: pos, Text: string(n.Value)}
	case *gast.Emphasis:
		markup := "italic"
		if n.Level >= 2 {
			markup = "bold"
		}
		return &ast.Formatted{Position: pos, Markup: markup, Content: c.inlines(n)}
	case *gast.CodeSpan:
		return &ast.Formatted{Position: pos, Markup: "code", Content: []ast.Element{
			&ast.Text{Position: pos, Text: c.plain(n)},
		}}
	case *gast.Link:
		return c.reference(pos, string(n.Destination), c.inlines(n))
	case *gast.Image:
		dest := string(n.Destination)
		if hasScheme(dest) {
			return c.reference(pos, dest, c.inlines(n))
		}
		return &ast.InternalReference{
			Position: pos,
			Target:   []ast.Element{&ast.Text{Position: pos, Text: "File:" + dest}},
			Caption:  c.inlines(n),
		}
	case *gast.AutoLink:
		label := string(n.Label(c.src))
		return &ast.ExternalReference{
			Position: pos,
			Target:   string(n.URL(c.src)),
			Caption:  []ast.Element{&ast.Text{Position: pos, Text: label}},
		}
	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		if comment, ok := htmlComment(b.String()); ok {
			return &ast.Comment{Position: pos, Text: comment}
		}
		return &ast.Text{Position: pos, Text: b.String()}
	default:
		return &ast.Text{Position: pos, Text: c.plain(n)}
	}
}

func (c *converter) reference(pos ast.Span, dest string, caption []ast.Element) ast.Element {
	if hasScheme(dest) {
		return &ast.ExternalReference{Position: pos, Target: dest, Caption: caption}
	}
	return &ast.InternalReference{
		Position: pos,
		Target:   []ast.Element{&ast.Text{Position: pos, Text: dest}},
		Caption:  caption,
	}
}

func (c *converter) plain(n gast.Node) string {
	var b strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *gast.Text:
			b.Write(t.Segment.Value(c.src))
		case *gast.String:
			b.Write(t.Value)
		default:
			b.WriteString(c.plain(ch))
		}
	}
	return b.String()
}

// template reads a paragraph of the form {{name|value|key=value}}.
// Unnamed arguments are numbered from 1.
func (c *converter) template(n gast.Node) *ast.Template {
	raw := strings.TrimSpace(c.rawLines(n))
	if !strings.HasPrefix(raw, "{{") || !strings.HasSuffix(raw, "}}") || strings.Contains(raw, "\n") {
		return nil
	}
	body := raw[2 : len(raw)-2]
	if strings.Contains(body, "{{") || strings.Contains(body, "}}") {
		return nil
	}

	pos := c.blockSpan(n)
	parts := strings.Split(body, "|")
	tpl := &ast.Template{
		Position: pos,
		Name:     []ast.Element{&ast.Text{Position: pos, Text: parts[0]}},
	}
	positional := 0
	for _, part := range parts[1:] {
		name, value, named := strings.Cut(part, "=")
		if !named {
			positional++
			name, value = strconv.Itoa(positional), part
		}
		tpl.Content = append(tpl.Content, &ast.TemplateArgument{
			Position: pos,
			Name:     name,
			Value:    []ast.Element{&ast.Text{Position: pos, Text: value}},
		})
	}
	return tpl
}

// hasScheme reports whether dest is an absolute URL. Interwiki targets such
// as "w:Folge" carry a colon too, so a scheme needs "//" or mailto.
func hasScheme(dest string) bool {
	return strings.Contains(dest, "://") || strings.HasPrefix(strings.ToLower(dest), "mailto:")
}

func htmlComment(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "<!--") || !strings.HasSuffix(s, "-->") {
		return "", false
	}
	return strings.TrimSpace(s[4 : len(s)-3]), true
}
