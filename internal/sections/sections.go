// Package sections locates and reads externally stored document sections.
package sections

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/mfnf/internal/ast"
)

// MaxFragmentSize limits the size of a section file.
var MaxFragmentSize int64 = 4 << 20

const Extension = ".yml"

var ErrFragmentTooLarge = errors.New("section file exceeds maximum size")

// Path returns the file holding section of article below base:
// <base>/<article>/<section>.yml. Spaces become underscores and each
// component is escaped so it stays a single path element.
func Path(base, article, section string) string {
	return filepath.Join(base, escape(article), escape(section)+Extension)
}

func escape(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return url.PathEscape(name)
}

// Load opens path and decodes the section it holds.
func Load(path string) ([]ast.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a section fragment: a YAML sequence of elements.
func Read(r io.Reader) ([]ast.Element, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFragmentSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxFragmentSize {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrFragmentTooLarge, MaxFragmentSize)
	}
	return ast.DecodeList(data)
}

// Write stores a fragment at path, creating parent directories.
func Write(path string, fragment []ast.Element) error {
	data, err := ast.Encode(fragment)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}
