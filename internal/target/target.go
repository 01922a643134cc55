// Package target holds the export formats a transformed tree can be written
// to.
package target

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrMissingArgs   = errors.New("missing target arguments")
)

// Target is an export format.
type Target interface {
	Name() string
	// IncludeSections reports whether the target wants section inclusions
	// expanded before export.
	IncludeSections() bool
	// GenerateDependencies reports whether make dependencies are tracked
	// for the target's output.
	GenerateDependencies() bool
	// Extension of the exported file, without the dot.
	Extension() string
	// ExtensionFor maps the extension of a referenced file to the one the
	// target needs it converted to.
	ExtensionFor(ext string) string
	Export(root ast.Element, s *settings.Settings, args []string, out io.Writer) error
}

var registry = map[string]Target{}

func init() {
	Register(HTML{})
	Register(YAML{})
	Register(Deps{})
}

// Register adds t under its name. The first registration of a name wins.
func Register(t Target) {
	if t == nil {
		return
	}
	if _, ok := registry[t.Name()]; !ok {
		registry[t.Name()] = t
	}
}

func Lookup(name string) (Target, error) {
	t, ok := registry[settings.NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownTarget, name, Names())
	}
	return t, nil
}

// Names returns the registered target names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
