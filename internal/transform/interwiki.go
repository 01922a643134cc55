package transform

import (
	"strings"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// ResolveInterwikiLinks turns internal references with a known interwiki
// prefix such as "w:" into external references.
func ResolveInterwikiLinks(root ast.Element, s *settings.Settings) (ast.Element, error) {
	if ref, ok := root.(*ast.InternalReference); ok {
		text := ast.PlainText(ref.Target)
		if i := strings.Index(text, ":"); i >= 0 {
			prefix := settings.NormalizeName(text[:i+1])
			if base, ok := s.General.InterwikiLinkMapping[prefix]; ok {
				return &ast.ExternalReference{
					Position: ref.Position,
					Target:   base + text[i+1:],
					Caption:  ref.Caption,
				}, nil
			}
		}
	}
	return Recurse(ResolveInterwikiLinks, root, s)
}
