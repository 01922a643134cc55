package ast

import "fmt"

// Position is a location in the original source.
type Position struct {
	Offset int `yaml:"offset"`
	Line   int `yaml:"line"`
	Col    int `yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is the source range an element was parsed from.
type Span struct {
	Start Position `yaml:"start"`
	End   Position `yaml:"end"`
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// SpanOf returns a span from the start of the first node to the end of the
// last one, or fallback when nodes is empty.
func SpanOf(nodes []Element, fallback Span) Span {
	if len(nodes) == 0 {
		return fallback
	}
	return Span{
		Start: nodes[0].Pos().Start,
		End:   nodes[len(nodes)-1].Pos().End,
	}
}

// Element is one node of a document tree.
type Element interface {
	Pos() Span
	element()
}

type Document struct {
	Position Span
	Content  []Element
}

type Heading struct {
	Position Span
	Depth    int
	Caption  []Element
	Content  []Element
}

type Paragraph struct {
	Position Span
	Content  []Element
}

// Formatted is inline markup such as italic, bold or code.
type Formatted struct {
	Position Span
	Markup   string
	Content  []Element
}

type List struct {
	Position Span
	Ordered  bool
	Content  []Element
}

type ListItem struct {
	Position Span
	Content  []Element
}

// Template is a template invocation. Its Name is a sequence of inline nodes
// and its Content holds only TemplateArguments.
type Template struct {
	Position Span
	Name     []Element
	Content  []Element
}

type TemplateArgument struct {
	Position Span
	Name     string
	Value    []Element
}

type Text struct {
	Position Span
	Text     string
}

type Comment struct {
	Position Span
	Text     string
}

// Error marks a recoverable problem inline so it shows up in the output.
type Error struct {
	Position Span
	Message  string
}

type InternalReference struct {
	Position Span
	Target   []Element
	Caption  []Element
}

type ExternalReference struct {
	Position Span
	Target   string
	Caption  []Element
}

func (e *Document) Pos() Span          { return e.Position }
func (e *Heading) Pos() Span           { return e.Position }
func (e *Paragraph) Pos() Span         { return e.Position }
func (e *Formatted) Pos() Span         { return e.Position }
func (e *List) Pos() Span              { return e.Position }
func (e *ListItem) Pos() Span          { return e.Position }
func (e *Template) Pos() Span          { return e.Position }
func (e *TemplateArgument) Pos() Span  { return e.Position }
func (e *Text) Pos() Span              { return e.Position }
func (e *Comment) Pos() Span           { return e.Position }
func (e *Error) Pos() Span             { return e.Position }
func (e *InternalReference) Pos() Span { return e.Position }
func (e *ExternalReference) Pos() Span { return e.Position }

func (*Document) element()          {}
func (*Heading) element()           {}
func (*Paragraph) element()         {}
func (*Formatted) element()         {}
func (*List) element()              {}
func (*ListItem) element()          {}
func (*Template) element()          {}
func (*TemplateArgument) element()  {}
func (*Text) element()              {}
func (*Comment) element()           {}
func (*Error) element()             {}
func (*InternalReference) element() {}
func (*ExternalReference) element() {}
