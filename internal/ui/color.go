package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("del")+"  "+path)
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

func OkLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok ")+"  "+path)
}

// ErrorBlock prints a classified parse failure with the offending source line.
func ErrorBlock(w io.Writer, category, message, source string, line int, lineText string) {
	fmt.Fprintln(w, failStyle.Render("err")+"  "+source)
	fmt.Fprintf(w, "  %s %s\n", failStyle.Render("["+category+"]"), message)
	if line > 0 {
		fmt.Fprintln(w, gutterStyle.Render(fmt.Sprintf("  --> %s:%d", source, line)))
		fmt.Fprintln(w, gutterStyle.Render("  |"))
		fmt.Fprintln(w, gutterStyle.Render("  | ")+lineText)
	}
}

func CheckSummary(w io.Writer, total, failed int) {
	if failed == 0 {
		fmt.Fprintf(w, "checked %d files, %s\n", total, okStyle.Render("all ok"))
		return
	}
	fmt.Fprintf(w, "checked %d files, %s\n", total, failStyle.Render(fmt.Sprintf("%d failed", failed)))
}

func ListRow(w io.Writer, id int64, fileName, name, rule string, tags []string, idWidth, fileWidth, nameWidth int) {
	idText := fmt.Sprintf("#%d", id)
	line := idStyle.Render(idText) + strings.Repeat(" ", idWidth-len(idText)) + "  " +
		fileName + strings.Repeat(" ", fileWidth-len(fileName)) + "  " +
		name
	if rule != "" || len(tags) > 0 {
		line += strings.Repeat(" ", nameWidth-len(name))
	}
	if rule != "" {
		line += "  " + faintStyle.Render("rule: "+rule)
	}
	if len(tags) > 0 {
		line += "  " + tagStyle.Render(strings.Join(tags, " "))
	}
	fmt.Fprintln(w, line)
}

func ShowHeader(w io.Writer, id int64, fileName, rule string) {
	header := idStyle.Render(fmt.Sprintf("#%d", id)) + "  " + fileName
	if rule != "" {
		header += "  " + faintStyle.Render("rule: "+rule)
	}
	fmt.Fprintln(w, header)
}

// ShowGherkin prints source lines with keywords and tags highlighted.
func ShowGherkin(w io.Writer, content string) {
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintln(w, highlight(line))
	}
}

var gherkinKeywords = []string{
	"Scenario Outline:", "Scenario Template:", "Background:", "Scenario:", "Example:",
	"Examples:", "Scenarios:", "Rule:", "Feature:",
	"Given ", "When ", "Then ", "And ", "But ", "* ",
}

func highlight(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if strings.HasPrefix(trimmed, "@") {
		return indent + tagStyle.Render(trimmed)
	}
	if strings.HasPrefix(trimmed, "#") {
		return indent + faintStyle.Render(trimmed)
	}
	for _, kw := range gherkinKeywords {
		if strings.HasPrefix(trimmed, kw) {
			word := strings.TrimSuffix(kw, " ")
			return indent + keywordStyle.Render(word) + trimmed[len(word):]
		}
	}
	return line
}

func StatusCount(w io.Writer, label string, count int) {
	fmt.Fprintf(w, "  %s: %d\n", label, count)
}
