package parser

import (
	"fmt"
	"strings"
)

// Category names the kind of Gherkin structure a parse failure points at.
// The zero Category marks an error no classification rule recognized.
type Category string

const (
	CategoryNone                Category = ""
	CategoryMultipleFeatures    Category = "multiple-features"
	CategoryStepOutsideScenario Category = "step-outside-scenario"
	CategoryDuplicateBackground Category = "duplicate-background"
	CategoryScenarioStructure   Category = "scenario-structure"
	CategoryStepStructure       Category = "step-structure"
	CategoryRuleStructure       Category = "rule-structure"
	CategoryUnexpectedToken     Category = "unexpected-token"
)

func (c Category) String() string {
	if c == CategoryNone {
		return "parse"
	}
	return string(c)
}

// ParseError is a Gherkin parse failure located in its source file.
// Err is the parser failure it was classified from.
type ParseError struct {
	Category Category
	Message  string // human-readable hint
	Line     int    // 1-based
	Column   int
	LineText string // the literal source line
	Source   string // file path
	Err      error
}

func (e *ParseError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", e.Category, e.Message)
	fmt.Fprintf(&sb, "  --> %s:%d\n", e.Source, e.Line)
	sb.WriteString("  |\n")
	fmt.Fprintf(&sb, "  | %s\n", e.LineText)

	return strings.TrimSuffix(sb.String(), "\n")
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsClassified reports whether a classification rule matched.
func (e *ParseError) IsClassified() bool {
	return e.Category != CategoryNone
}
