package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/gherkinast/internal/ast"
)

// Outline prints the document as an indented tree with source positions.
func Outline(w io.Writer, doc *ast.Document) {
	f := doc.Feature
	fmt.Fprintf(w, "%s %s%s\n", keywordStyle.Render(f.Keyword+":"), f.Name, pos(f.Location))
	tagLine(w, "  ", f.Tags)
	outlineChildren(w, "  ", f.Children)
	if len(doc.Comments) > 0 {
		fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%d comments", len(doc.Comments))))
	}
}

func outlineChildren(w io.Writer, indent string, children ast.Children) {
	for _, child := range children {
		switch c := child.(type) {
		case ast.Background:
			fmt.Fprintf(w, "%s%s %s%s\n", indent, keywordStyle.Render(c.Keyword+":"), c.Name, pos(c.Location))
			outlineSteps(w, indent+"  ", c.Steps)
		case ast.Scenario:
			tagLine(w, indent, c.Tags)
			fmt.Fprintf(w, "%s%s %s%s\n", indent, keywordStyle.Render(c.Keyword+":"), c.Name, pos(c.Location))
			outlineSteps(w, indent+"  ", c.Steps)
			for _, ex := range c.Examples {
				tagLine(w, indent+"  ", ex.Tags)
				name := ""
				if ex.Name != nil {
					name = *ex.Name
				}
				rows := len(ex.TableBody)
				fmt.Fprintf(w, "%s  %s %s%s %s\n", indent, keywordStyle.Render(ex.Keyword+":"), name, pos(ex.Location),
					faintStyle.Render(fmt.Sprintf("(%d rows)", rows)))
			}
		case ast.Rule:
			tagLine(w, indent, c.Tags)
			fmt.Fprintf(w, "%s%s %s%s\n", indent, keywordStyle.Render(c.Keyword+":"), c.Name, pos(c.Location))
			outlineChildren(w, indent+"  ", c.Children)
		}
	}
}

func outlineSteps(w io.Writer, indent string, steps []ast.Step) {
	for _, s := range steps {
		fmt.Fprintf(w, "%s%s %s%s\n", indent, keywordStyle.Render(s.Keyword), s.Text, pos(s.Location))
		if s.DataTable != nil {
			fmt.Fprintf(w, "%s  %s\n", indent, faintStyle.Render(fmt.Sprintf("table %dx%d", len(s.DataTable.Rows), width(s.DataTable))))
		}
		if s.DocString != nil {
			fmt.Fprintf(w, "%s  %s\n", indent, faintStyle.Render(fmt.Sprintf("docstring %d lines", strings.Count(s.DocString.Content, "\n")+1)))
		}
	}
}

func tagLine(w io.Writer, indent string, tags []ast.Tag) {
	if len(tags) == 0 {
		return
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	fmt.Fprintln(w, indent+tagStyle.Render(strings.Join(names, " ")))
}

func width(t *ast.DataTable) int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

func pos(p ast.Position) string {
	return " " + faintStyle.Render("("+p.String()+")")
}
