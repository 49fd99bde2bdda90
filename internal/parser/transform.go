package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/chriserin/gherkinast/internal/ast"
)

// ParsedFile is the flat view of a document used by the scenario index.
type ParsedFile struct {
	Name       string
	Background string // source of the feature-level Background, if any
	Scenarios  []ParsedScenario
}

// ParsedScenario represents a single scenario extracted from a feature file.
type ParsedScenario struct {
	Name    string
	Keyword string   // "Scenario", "Scenario Outline", "Example", ...
	Rule    string   // enclosing rule name, "" at feature level
	Tags    []string // e.g. "@smoke"
	Line    int      // 1-based line of the keyword
	Steps   int
	Outline bool
	Content string // raw text from the keyword line to the end of the scenario
}

// Transform flattens a document into its scenarios, cutting each one's source
// out of text.
func Transform(doc *ast.Document, path string, text string) *ParsedFile {
	pf := &ParsedFile{Name: doc.Feature.Name}
	if pf.Name == "" {
		pf.Name = filenameWithoutExt(path)
	}

	lines := strings.Split(text, "\n")
	starts := childStarts(doc.Feature.Children)

	for _, child := range doc.Feature.Children {
		if bg, ok := child.(ast.Background); ok {
			pf.Background = extract(lines, bg.Location.Line, starts)
			break
		}
	}

	ast.Walk(doc.Feature.Children, func(child ast.Child, rule *ast.Rule) {
		sc, ok := child.(ast.Scenario)
		if !ok {
			return
		}
		ps := ParsedScenario{
			Name:    sc.Name,
			Keyword: sc.Keyword,
			Line:    sc.Location.Line,
			Steps:   len(sc.Steps),
			Outline: sc.IsOutline(),
			Content: extract(lines, sc.Location.Line, starts),
		}
		if rule != nil {
			ps.Rule = rule.Name
		}
		for _, tag := range sc.Tags {
			ps.Tags = append(ps.Tags, tag.Name)
		}
		pf.Scenarios = append(pf.Scenarios, ps)
	})

	return pf
}

// childStarts returns the sorted keyword lines of every background, rule and
// scenario under children.
func childStarts(children ast.Children) []int {
	var starts []int
	var collect func(ast.Children)
	collect = func(children ast.Children) {
		for _, child := range children {
			starts = append(starts, child.Pos().Line)
			if r, ok := child.(ast.Rule); ok {
				collect(r.Children)
			}
		}
	}
	collect(children)
	sort.Ints(starts)
	return starts
}

// extract returns the source from the 1-based line start up to the next child,
// without the tags, comments and blank lines that precede that child.
func extract(lines []string, start int, starts []int) string {
	startLine := start - 1 // 0-based
	if startLine < 0 || startLine >= len(lines) {
		return ""
	}
	endLine := len(lines)

	for _, other := range starts {
		if other > start {
			endLine = min(other-1, len(lines))
			break
		}
	}

	// Walk back to exclude tag, comment and blank lines before the next child
	for endLine > startLine+1 {
		t := strings.TrimSpace(lines[endLine-1])
		if t == "" || strings.HasPrefix(t, "@") || strings.HasPrefix(t, "#") {
			endLine--
		} else {
			break
		}
	}

	return strings.Join(lines[startLine:endLine], "\n")
}

func filenameWithoutExt(filename string) string {
	name := filepath.Base(filename)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
