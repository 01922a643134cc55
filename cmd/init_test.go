package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/db"
	"github.com/chriserin/mfnf/internal/sections"
	"github.com/chriserin/mfnf/internal/settings"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func runInit(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf))
	return buf.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if dir := filepath.Dir(path); dir != "." {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeSection stores a fragment holding a heading with one paragraph.
func writeSection(t *testing.T, article, section, heading, text string) {
	t.Helper()
	fragment := []ast.Element{&ast.Heading{
		Depth:   3,
		Caption: []ast.Element{&ast.Text{Text: heading}},
		Content: []ast.Element{&ast.Paragraph{Content: []ast.Element{&ast.Text{Text: text}}}},
	}}
	require.NoError(t, sections.Write(sections.Path(settings.DefaultSectionPath, article, section), fragment))
}

func TestInit_CreatesSettingsFile(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	s, err := settings.Load(filepath.Join(dir, "mfnf.yml"))
	require.NoError(t, err)
	assert.Equal(t, settings.Default().General, s.General)
	assert.Contains(t, out, "mfnf.yml created")
}

func TestInit_KeepsExistingSettingsFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, "mfnf.yml", "runtime:\n  target_name: print\n")

	out := runInit(t)

	data, err := os.ReadFile("mfnf.yml")
	require.NoError(t, err)
	assert.Equal(t, "runtime:\n  target_name: print\n", string(data))
	assert.Contains(t, out, "mfnf.yml already exists")
}

func TestInit_CreatesSectionsDirectory(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	info, err := os.Stat(filepath.Join(dir, "sections"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out, "sections/ created")
}

func TestInit_SectionsDirectoryAlreadyExists(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sections"), 0o755))

	out := runInit(t)

	assert.Contains(t, out, "sections/ already exists")
}

func TestInit_InitializesBuildDatabase(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	dbPath := filepath.Join(dir, ".mfnf", "build.db")
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.Open(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Contains(t, out, ".mfnf/build.db created")
}

func TestInit_DatabaseAlreadyExists(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)
	assert.Contains(t, out, ".mfnf/build.db already exists")
}

func TestInit_CreatesGitignore(t *testing.T) {
	inTempDir(t)
	out := runInit(t)

	data, err := os.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Equal(t, ".mfnf/\n", string(data))
	assert.Contains(t, out, ".gitignore created")
}

func TestInit_AppendsToGitignore(t *testing.T) {
	inTempDir(t)
	writeFile(t, ".gitignore", "build/")

	out := runInit(t)

	data, err := os.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Equal(t, "build/\n.mfnf/\n", string(data))
	assert.Contains(t, out, ".mfnf/ added to .gitignore")
}

func TestInit_GitignoreAlreadyHasEntry(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)

	data, err := os.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Equal(t, ".mfnf/\n", string(data))
	assert.Contains(t, out, ".mfnf/ already in .gitignore")
}
