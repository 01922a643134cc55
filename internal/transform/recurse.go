// Package transform implements the tree-rewrite passes that run between
// parsing and export:
//
//  1. template name normalization
//  2. section inclusion
//  3. heading depth normalization
//  4. subtarget exclusion filtering
//  5. interwiki link resolution
//
// Every pass takes ownership of the tree it is given and returns the tree
// for the next pass, or a *TransformationError. Recoverable problems are
// embedded as *ast.Error nodes instead.
package transform

import "github.com/chriserin/mfnf/internal/ast"

// Func rewrites one element. S carries the pass state, usually settings.
type Func[S any] func(root ast.Element, s S) (ast.Element, error)

// ListFunc rewrites a whole child list at once and may return a list of any
// length.
type ListFunc[S any] func(f Func[S], list []ast.Element, s S) ([]ast.Element, error)

// Recurse replaces every child list of root by mapping f over it.
func Recurse[S any](f Func[S], root ast.Element, s S) (ast.Element, error) {
	return RecurseWith(f, root, s, MapList[S])
}

// RecurseWith replaces every child list of root with lf(f, list, s). The
// first error aborts the walk.
func RecurseWith[S any](f Func[S], root ast.Element, s S, lf ListFunc[S]) (ast.Element, error) {
	var err error
	switch n := root.(type) {
	case *ast.Document:
		n.Content, err = lf(f, n.Content, s)
	case *ast.Heading:
		if n.Caption, err = lf(f, n.Caption, s); err != nil {
			return nil, err
		}
		n.Content, err = lf(f, n.Content, s)
	case *ast.Paragraph:
		n.Content, err = lf(f, n.Content, s)
	case *ast.Formatted:
		n.Content, err = lf(f, n.Content, s)
	case *ast.List:
		n.Content, err = lf(f, n.Content, s)
	case *ast.ListItem:
		n.Content, err = lf(f, n.Content, s)
	case *ast.Template:
		if n.Name, err = lf(f, n.Name, s); err != nil {
			return nil, err
		}
		n.Content, err = lf(f, n.Content, s)
	case *ast.TemplateArgument:
		n.Value, err = lf(f, n.Value, s)
	case *ast.InternalReference:
		if n.Target, err = lf(f, n.Target, s); err != nil {
			return nil, err
		}
		n.Caption, err = lf(f, n.Caption, s)
	case *ast.ExternalReference:
		n.Caption, err = lf(f, n.Caption, s)
	case *ast.Text, *ast.Comment, *ast.Error:
	}
	if err != nil {
		return nil, err
	}
	return root, nil
}

// MapList applies f to every element, keeping length and order.
func MapList[S any](f Func[S], list []ast.Element, s S) ([]ast.Element, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]ast.Element, 0, len(list))
	for _, e := range list {
		r, err := f(e, s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
