package parser

import (
	"regexp"
	"strings"
)

type classifyRule struct {
	pattern  *regexp.Regexp
	category Category
	hint     string
}

// rules is ordered: the first rule matching a diagnostic line wins. The
// parser quotes the whole source line, so keywords may follow indentation.
var rules = []classifyRule{
	{
		regexp.MustCompile(`expected:.*got '\s*Feature.*'`),
		CategoryMultipleFeatures,
		"Multiple features are not allowed in a single feature file.",
	},
	{
		regexp.MustCompile(`expected:.*got '\s*(?:Given|When|Then|And|But).*'`),
		CategoryStepOutsideScenario,
		"Step definition outside of a Scenario or a Background.",
	},
	{
		regexp.MustCompile(`expected:.*got '\s*Background.*'`),
		CategoryDuplicateBackground,
		"Multiple 'Background' sections detected. Only one 'Background' is allowed per feature.",
	},
	{
		regexp.MustCompile(`expected:.*got '\s*Scenario.*'`),
		CategoryScenarioStructure,
		"Misplaced or incorrect 'Scenario' keyword. Ensure it's correctly placed. There might be a missing Feature section.",
	},
	{
		regexp.MustCompile(`expected:.*got '\s*Given.*'`),
		CategoryStepStructure,
		"Improper step keyword detected. Ensure correct order and indentation for steps (Given, When, Then, etc.).",
	},
	{
		regexp.MustCompile(`expected:.*got '\s*Rule.*'`),
		CategoryRuleStructure,
		"Misplaced or incorrectly formatted 'Rule'. Ensure it follows the feature structure.",
	},
	{
		regexp.MustCompile(`expected:.*got '.*'`),
		CategoryUnexpectedToken,
		"Unexpected token found. Check Gherkin syntax near the reported error.",
	},
}

// Classify maps a parser diagnostic onto a ParseError. Each line of raw is
// tested against every rule before moving to the next line. When nothing
// matches the result has no category and carries raw itself.
func Classify(raw string, line int, lineText, source string, cause error) *ParseError {
	for _, diag := range strings.Split(raw, "\n") {
		for _, r := range rules {
			if r.pattern.MatchString(diag) {
				return &ParseError{
					Category: r.category,
					Message:  r.hint,
					Line:     line,
					LineText: lineText,
					Source:   source,
					Err:      cause,
				}
			}
		}
	}

	return &ParseError{
		Category: CategoryNone,
		Message:  "Unknown parsing error: " + raw,
		Line:     line,
		LineText: lineText,
		Source:   source,
		Err:      cause,
	}
}
