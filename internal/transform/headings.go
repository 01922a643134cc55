package transform

import (
	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// NormalizeHeadingDepths makes every subheading one level deeper than its
// parent. The outermost headings get depth 1.
func NormalizeHeadingDepths(root ast.Element, _ *settings.Settings) (ast.Element, error) {
	return normalizeHeadingDepths(root, 1)
}

func normalizeHeadingDepths(root ast.Element, depth int) (ast.Element, error) {
	if h, ok := root.(*ast.Heading); ok {
		h.Depth = depth
		depth++
	}
	return Recurse(normalizeHeadingDepths, root, depth)
}
