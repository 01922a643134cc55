package sections

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/mfnf/internal/ast"
)

func TestPath_EscapesComponents(t *testing.T) {
	got := Path("sections", " Grenzwert von Folgen ", "Definition/Beispiel")

	assert.Equal(t, filepath.Join("sections", "Grenzwert_von_Folgen", "Definition%2FBeispiel.yml"), got)
}

func TestWriteThenLoad(t *testing.T) {
	path := Path(t.TempDir(), "Article", "Intro")
	fragment := []ast.Element{
		&ast.Heading{Depth: 3, Caption: []ast.Element{&ast.Text{Text: "Intro"}}},
		&ast.Paragraph{Content: []ast.Element{&ast.Text{Text: "body"}}},
	}

	require.NoError(t, Write(path, fragment))
	got, err := Load(path)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Intro", ast.PlainText(got[0].(*ast.Heading).Caption))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_RejectsOversizedInput(t *testing.T) {
	orig := MaxFragmentSize
	defer func() { MaxFragmentSize = orig }()
	MaxFragmentSize = 16

	_, err := Read(strings.NewReader(strings.Repeat("- type: text\n", 4)))
	assert.ErrorIs(t, err, ErrFragmentTooLarge)
}

func TestRead_RejectsNonSequence(t *testing.T) {
	_, err := Read(strings.NewReader("type: text\ntext: x\n"))
	assert.ErrorIs(t, err, ast.ErrInvalidShape)
}
