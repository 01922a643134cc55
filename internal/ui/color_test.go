package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryLine(t *testing.T) {
	for warnings, want := range map[int]string{0: "no warnings\n", 1: "1 warning\n", 4: "4 warnings\n"} {
		var buf bytes.Buffer
		SummaryLine(&buf, warnings)
		assert.Equal(t, want, buf.String())
	}
}

func TestOutlineIndentation(t *testing.T) {
	var buf bytes.Buffer
	OutlineHeading(&buf, 1, "Folgen")
	OutlineHeading(&buf, 3, "Beispiel")
	OutlineInclude(&buf, 1, "Folgen", "Definition")

	assert.Equal(t, "Folgen\n    Beispiel\n  <- Folgen|Definition\n", buf.String())
}

func TestErrorLine(t *testing.T) {
	var buf bytes.Buffer
	ErrorLine(&buf, "remove_exclusions", "3:1", errors.New("missing"))
	assert.Contains(t, buf.String(), "remove_exclusions at 3:1: missing")
}

func TestHistoryRow_ShortensID(t *testing.T) {
	var buf bytes.Buffer
	HistoryRow(&buf, "0123456789abcdef", "2026-01-02 03:04:05", "a.md", "html", "ok", 6)
	assert.Contains(t, buf.String(), "01234567  ")
	assert.NotContains(t, buf.String(), "89abcdef")
	assert.Contains(t, buf.String(), "a.md    html")
}

func TestTargetRow_Flags(t *testing.T) {
	var buf bytes.Buffer
	TargetRow(&buf, "yaml", "yml", false, false, 4)
	TargetRow(&buf, "html", "html", true, true, 4)
	assert.Contains(t, buf.String(), "yaml  .yml ")
	assert.Contains(t, buf.String(), "html  .html  sections,deps\n")
}
