package transform

import (
	"errors"
	"fmt"

	"github.com/chriserin/mfnf/internal/ast"
)

// Causes of structural errors, matched with errors.Is.
var (
	ErrEmptyTemplateName = errors.New("template name must not be empty")
	ErrTemplateChild     = errors.New("only template arguments are allowed as children of templates")
	ErrMissingHeading    = errors.New("heading is not present in this document")
)

// TransformationError is a structural error that aborts a pass.
type TransformationError struct {
	Cause              error
	Position           ast.Span
	TransformationName string
	Tree               ast.Element // offending subtree, may be nil
}

// Error implements the error interface.
func (e *TransformationError) Error() string {
	return fmt.Sprintf("%s: %v at %s", e.TransformationName, e.Cause, e.Position.Start)
}

func (e *TransformationError) Unwrap() error {
	return e.Cause
}

func structural(name string, cause error, tree ast.Element) *TransformationError {
	return &TransformationError{
		Cause:              cause,
		Position:           tree.Pos(),
		TransformationName: name,
		Tree:               tree,
	}
}
