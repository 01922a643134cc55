package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/mfnf/internal/db"
	"github.com/chriserin/mfnf/internal/settings"
)

func TestHistory_RequiresInit(t *testing.T) {
	inTempDir(t)

	err := RunHistory(&bytes.Buffer{}, 10)
	assert.EqualError(t, err, "run `mfnf init` first")
}

func TestHistory_ListsRunsNewestFirst(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFile(t, "a.md", "# A\n")
	writeFile(t, "b.md", "# B\n")

	runExport(t, exportOptions{input: "a.md", target: "html"}, settings.Default())
	runExport(t, exportOptions{input: "b.md", target: "yaml"}, settings.Default())

	var out bytes.Buffer
	require.NoError(t, RunHistory(&out, 10))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "b.md")
	assert.Contains(t, lines[0], "yaml")
	assert.Contains(t, lines[1], "a.md")
	assert.Contains(t, lines[1], db.StatusOK)
}

func TestHistory_Limit(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFile(t, "a.md", "# A\n")
	for i := 0; i < 3; i++ {
		runExport(t, exportOptions{input: "a.md", target: "html"}, settings.Default())
	}

	var out bytes.Buffer
	require.NoError(t, RunHistory(&out, 2))

	assert.Equal(t, 2, strings.Count(out.String(), "a.md"))
}

func TestDeps_RequiresRecordedRun(t *testing.T) {
	inTempDir(t)
	runInit(t)

	err := RunDeps(&bytes.Buffer{}, "folgen.md", "html", "")
	assert.ErrorIs(t, err, db.ErrNoRuns)
}

func TestDeps_CustomBase(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFile(t, "folgen.md", "# Folgen\n\n![Graph](Graph.svg)\n")
	runExport(t, exportOptions{input: "folgen.md", target: "html"}, settings.Default())

	var out bytes.Buffer
	require.NoError(t, RunDeps(&out, "folgen.md", "html", "site/folgen"))

	assert.Equal(t, "site/folgen.html: Graph.svg\n", out.String())
}

func TestTargets_ListsBuiltins(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunTargets(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "deps"))
	assert.Contains(t, lines[1], ".html")
	assert.Contains(t, lines[1], "sections,deps")
	assert.True(t, strings.HasPrefix(lines[2], "yaml"))
}
