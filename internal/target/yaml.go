package target

import (
	"io"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// YAML dumps the tree in the same format fragments and input documents are
// read from.
type YAML struct{}

func (YAML) Name() string                   { return "yaml" }
func (YAML) IncludeSections() bool          { return false }
func (YAML) GenerateDependencies() bool     { return false }
func (YAML) Extension() string              { return "yml" }
func (YAML) ExtensionFor(ext string) string { return ext }

func (YAML) Export(root ast.Element, _ *settings.Settings, _ []string, out io.Writer) error {
	data, err := ast.Encode(root)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
