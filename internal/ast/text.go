package ast

import "strings"

// Children returns every child list owned by e, in document order.
func Children(e Element) [][]Element {
	switch n := e.(type) {
	case *Document:
		return [][]Element{n.Content}
	case *Heading:
		return [][]Element{n.Caption, n.Content}
	case *Paragraph:
		return [][]Element{n.Content}
	case *Formatted:
		return [][]Element{n.Content}
	case *List:
		return [][]Element{n.Content}
	case *ListItem:
		return [][]Element{n.Content}
	case *Template:
		return [][]Element{n.Name, n.Content}
	case *TemplateArgument:
		return [][]Element{n.Value}
	case *InternalReference:
		return [][]Element{n.Target, n.Caption}
	case *ExternalReference:
		return [][]Element{n.Caption}
	}
	return nil
}

// PlainText flattens nodes into their literal text. Comments, errors and
// templates contribute nothing.
func PlainText(nodes []Element) string {
	var b strings.Builder
	for _, n := range nodes {
		writePlain(&b, n)
	}
	return b.String()
}

// PlainTextOf flattens a single element.
func PlainTextOf(e Element) string {
	var b strings.Builder
	writePlain(&b, e)
	return b.String()
}

func writePlain(b *strings.Builder, e Element) {
	switch n := e.(type) {
	case *Text:
		b.WriteString(n.Text)
	case *Comment, *Error, *Template:
	case *TemplateArgument:
		for _, c := range n.Value {
			writePlain(b, c)
		}
	case *InternalReference:
		if len(n.Caption) > 0 {
			for _, c := range n.Caption {
				writePlain(b, c)
			}
			return
		}
		for _, c := range n.Target {
			writePlain(b, c)
		}
	case *ExternalReference:
		if len(n.Caption) > 0 {
			for _, c := range n.Caption {
				writePlain(b, c)
			}
			return
		}
		b.WriteString(n.Target)
	default:
		for _, list := range Children(e) {
			for _, c := range list {
				writePlain(b, c)
			}
		}
	}
}

// Contains reports whether e or any of its descendants satisfies pred.
func Contains(e Element, pred func(Element) bool) bool {
	if pred(e) {
		return true
	}
	for _, list := range Children(e) {
		for _, c := range list {
			if Contains(c, pred) {
				return true
			}
		}
	}
	return false
}

// IsHeading is a Contains predicate matching any heading.
func IsHeading(e Element) bool {
	_, ok := e.(*Heading)
	return ok
}

// Errors collects the inline error markers of a tree in document order.
func Errors(e Element) []*Error {
	var out []*Error
	var walk func(Element)
	walk = func(e Element) {
		if err, ok := e.(*Error); ok {
			out = append(out, err)
			return
		}
		for _, list := range Children(e) {
			for _, c := range list {
				walk(c)
			}
		}
	}
	walk(e)
	return out
}
