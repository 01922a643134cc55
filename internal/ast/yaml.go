package ast

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyInput   = errors.New("ast: empty input")
	ErrUnknownType  = errors.New("ast: unknown element type")
	ErrInvalidShape = errors.New("ast: invalid element shape")
)

// Decode parses a YAML tree. A top-level sequence is wrapped in a Document.
func Decode(data []byte) (Element, error) {
	root, err := parseYAML(data)
	if err != nil {
		return nil, err
	}
	if root.Kind == yaml.SequenceNode {
		list, err := decodeNodes(root.Content)
		if err != nil {
			return nil, err
		}
		return &Document{Position: SpanOf(list, Span{}), Content: list}, nil
	}
	return decodeNode(root)
}

// DecodeList parses a YAML sequence of elements, the format of section
// fragments.
func DecodeList(data []byte) ([]Element, error) {
	root, err := parseYAML(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a sequence at line %d", ErrInvalidShape, root.Line)
	}
	return decodeNodes(root.Content)
}

// Encode renders an element or a slice of elements as YAML.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("ast: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("ast: %w", err)
	}
	return buf.Bytes(), nil
}

func parseYAML(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ast: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyInput
	}
	return doc.Content[0], nil
}

type wireElement struct {
	Type     string      `yaml:"type"`
	Position Span        `yaml:"position"`
	Depth    int         `yaml:"depth"`
	Markup   string      `yaml:"markup"`
	Ordered  bool        `yaml:"ordered"`
	Text     string      `yaml:"text"`
	Message  string      `yaml:"message"`
	Name     yaml.Node   `yaml:"name"`
	Target   yaml.Node   `yaml:"target"`
	Caption  []yaml.Node `yaml:"caption"`
	Content  []yaml.Node `yaml:"content"`
	Value    []yaml.Node `yaml:"value"`
}

func decodeNodes(nodes []*yaml.Node) ([]Element, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		e, err := decodeNode(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeValues(nodes []yaml.Node) ([]Element, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]Element, 0, len(nodes))
	for i := range nodes {
		e, err := decodeNode(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// decodeInline decodes a field that is either a sequence of elements or a
// bare string, the latter becoming a single Text node.
func decodeInline(n *yaml.Node, pos Span) ([]Element, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.SequenceNode:
		return decodeNodes(n.Content)
	case yaml.ScalarNode:
		return []Element{&Text{Position: pos, Text: n.Value}}, nil
	}
	return nil, fmt.Errorf("%w: line %d", ErrInvalidShape, n.Line)
}

func decodeNode(n *yaml.Node) (Element, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at line %d", ErrInvalidShape, n.Line)
	}
	var w wireElement
	if err := n.Decode(&w); err != nil {
		return nil, fmt.Errorf("ast: line %d: %w", n.Line, err)
	}

	caption, err := decodeValues(w.Caption)
	if err != nil {
		return nil, err
	}
	content, err := decodeValues(w.Content)
	if err != nil {
		return nil, err
	}

	switch w.Type {
	case "document":
		return &Document{Position: w.Position, Content: content}, nil
	case "heading":
		return &Heading{Position: w.Position, Depth: w.Depth, Caption: caption, Content: content}, nil
	case "paragraph":
		return &Paragraph{Position: w.Position, Content: content}, nil
	case "formatted":
		return &Formatted{Position: w.Position, Markup: w.Markup, Content: content}, nil
	case "list":
		return &List{Position: w.Position, Ordered: w.Ordered, Content: content}, nil
	case "list_item":
		return &ListItem{Position: w.Position, Content: content}, nil
	case "template":
		name, err := decodeInline(&w.Name, w.Position)
		if err != nil {
			return nil, err
		}
		return &Template{Position: w.Position, Name: name, Content: content}, nil
	case "template_argument":
		if w.Name.Kind != 0 && w.Name.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: argument name must be a string at line %d", ErrInvalidShape, n.Line)
		}
		value, err := decodeValues(w.Value)
		if err != nil {
			return nil, err
		}
		return &TemplateArgument{Position: w.Position, Name: w.Name.Value, Value: value}, nil
	case "text":
		return &Text{Position: w.Position, Text: w.Text}, nil
	case "comment":
		return &Comment{Position: w.Position, Text: w.Text}, nil
	case "error":
		return &Error{Position: w.Position, Message: w.Message}, nil
	case "internal_reference":
		target, err := decodeInline(&w.Target, w.Position)
		if err != nil {
			return nil, err
		}
		return &InternalReference{Position: w.Position, Target: target, Caption: caption}, nil
	case "external_reference":
		if w.Target.Kind != 0 && w.Target.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: external target must be a string at line %d", ErrInvalidShape, n.Line)
		}
		return &ExternalReference{Position: w.Position, Target: w.Target.Value, Caption: caption}, nil
	}
	return nil, fmt.Errorf("%w %q at line %d", ErrUnknownType, w.Type, n.Line)
}

func (e *Document) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Content  []Element `yaml:"content,omitempty"`
	}{"document", e.Position, e.Content}, nil
}

func (e *Heading) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Depth    int       `yaml:"depth"`
		Caption  []Element `yaml:"caption,omitempty"`
		Content  []Element `yaml:"content,omitempty"`
	}{"heading", e.Position, e.Depth, e.Caption, e.Content}, nil
}

func (e *Paragraph) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Content  []Element `yaml:"content,omitempty"`
	}{"paragraph", e.Position, e.Content}, nil
}

func (e *Formatted) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Markup   string    `yaml:"markup"`
		Content  []Element `yaml:"content,omitempty"`
	}{"formatted", e.Position, e.Markup, e.Content}, nil
}

func (e *List) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Ordered  bool      `yaml:"ordered,omitempty"`
		Content  []Element `yaml:"content,omitempty"`
	}{"list", e.Position, e.Ordered, e.Content}, nil
}

func (e *ListItem) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Content  []Element `yaml:"content,omitempty"`
	}{"list_item", e.Position, e.Content}, nil
}

func (e *Template) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Name     []Element `yaml:"name"`
		Content  []Element `yaml:"content,omitempty"`
	}{"template", e.Position, e.Name, e.Content}, nil
}

func (e *TemplateArgument) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Name     string    `yaml:"name"`
		Value    []Element `yaml:"value,omitempty"`
	}{"template_argument", e.Position, e.Name, e.Value}, nil
}

func (e *Text) MarshalYAML() (any, error) {
	return struct {
		Type     string `yaml:"type"`
		Position Span   `yaml:"position"`
		Text     string `yaml:"text"`
	}{"text", e.Position, e.Text}, nil
}

func (e *Comment) MarshalYAML() (any, error) {
	return struct {
		Type     string `yaml:"type"`
		Position Span   `yaml:"position"`
		Text     string `yaml:"text"`
	}{"comment", e.Position, e.Text}, nil
}

func (e *Error) MarshalYAML() (any, error) {
	return struct {
		Type     string `yaml:"type"`
		Position Span   `yaml:"position"`
		Message  string `yaml:"message"`
	}{"error", e.Position, e.Message}, nil
}

func (e *InternalReference) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Target   []Element `yaml:"target"`
		Caption  []Element `yaml:"caption,omitempty"`
	}{"internal_reference", e.Position, e.Target, e.Caption}, nil
}

func (e *ExternalReference) MarshalYAML() (any, error) {
	return struct {
		Type     string    `yaml:"type"`
		Position Span      `yaml:"position"`
		Target   string    `yaml:"target"`
		Caption  []Element `yaml:"caption,omitempty"`
	}{"external_reference", e.Position, e.Target, e.Caption}, nil
}
