package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headingStyle = lipgloss.NewStyle().Bold(true)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "ok":
		return okStyle
	case "warning":
		return warnStyle
	case "failed":
		return errStyle
	default:
		return faintStyle
	}
}

// ExportLine reports a written export.
func ExportLine(w io.Writer, target, path string) {
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("%-5s", target))+"  "+path)
}

// WarningLine reports an inline error left in the tree.
func WarningLine(w io.Writer, pos, message string) {
	fmt.Fprintln(w, warnStyle.Render("warn")+"  "+pos+"  "+message)
}

// ErrorLine reports a transformation failure.
func ErrorLine(w io.Writer, pass, pos string, err error) {
	fmt.Fprintln(w, errStyle.Render("error")+"  "+pass+" at "+pos+": "+err.Error())
}

// CheckLine prints a check result.
func CheckLine(w io.Writer, ok bool, msg string) {
	mark := okStyle.Render("ok")
	if !ok {
		mark = errStyle.Render("fail")
	}
	fmt.Fprintln(w, mark+"  "+msg)
}

func SummaryLine(w io.Writer, warnings int) {
	switch warnings {
	case 0:
		fmt.Fprintln(w, "no warnings")
	case 1:
		fmt.Fprintln(w, "1 warning")
	default:
		fmt.Fprintf(w, "%d warnings\n", warnings)
	}
}

// OutlineHeading prints a heading indented by its depth.
func OutlineHeading(w io.Writer, depth int, caption string) {
	fmt.Fprintln(w, indent(depth)+headingStyle.Render(caption))
}

// OutlineInclude prints an inclusion marker under the heading at depth.
func OutlineInclude(w io.Writer, depth int, article, section string) {
	fmt.Fprintln(w, indent(depth+1)+faintStyle.Render("<- "+article+"|"+section))
}

func indent(depth int) string {
	if depth < 1 {
		return ""
	}
	return strings.Repeat("  ", depth-1)
}

// HistoryRow prints one recorded run; docWidth aligns the document column.
func HistoryRow(w io.Writer, id, createdAt, document, target, status string, docWidth int) {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	fmt.Fprintf(w, "%s  %s  %-*s  %-5s  %s\n",
		faintStyle.Render(short), createdAt, docWidth, document, target, statusStyle(status).Render(status))
}

// TargetRow prints a registered export target.
func TargetRow(w io.Writer, name, ext string, sections, deps bool, nameWidth int) {
	var flags []string
	if sections {
		flags = append(flags, "sections")
	}
	if deps {
		flags = append(flags, "deps")
	}
	fmt.Fprintf(w, "%-*s  .%-4s  %s\n", nameWidth, name, ext, faintStyle.Render(strings.Join(flags, ",")))
}

// SectionRow prints a stored section; articleWidth aligns the section column.
func SectionRow(w io.Writer, article, section, path string, articleWidth int) {
	fmt.Fprintf(w, "%-*s  %s  %s\n", articleWidth, article, headingStyle.Render(section), faintStyle.Render(path))
}
