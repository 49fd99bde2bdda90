// Package gherkin adapts the cucumber Gherkin parser to the untyped tree the
// AST builder consumes: nested maps keyed by the cucumber message field names
// (location, feature, children, keywordType, dataTable, tableHeader, ...).
package gherkin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	cucumber "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"
)

const DefaultLanguage = "en"

// Parser parses Gherkin source into an untyped tree. It holds no mutable
// state; ID generators are created per call.
type Parser struct {
	language string
	newIDs   func() func() string
}

type Option func(*Parser)

// WithLanguage sets the default dialect used when the source has no
// "# language:" header.
func WithLanguage(language string) Option {
	return func(p *Parser) {
		if language != "" {
			p.language = language
		}
	}
}

// WithUUIDs assigns random UUIDs as node IDs instead of per-document counters.
func WithUUIDs() Option {
	return func(p *Parser) {
		p.newIDs = func() func() string { return uuid.NewString }
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		language: DefaultLanguage,
		newIDs: func() func() string {
			return (&messages.Incrementing{}).NewId
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the document tree, or a *CompositeError when the source is
// not valid Gherkin.
func (p *Parser) Parse(text string) (map[string]any, error) {
	if !Supported(p.language) {
		return nil, fmt.Errorf("gherkin: language %q is not supported", p.language)
	}
	doc, err := cucumber.ParseGherkinDocumentForLanguage(strings.NewReader(text), p.language, p.newIDs())
	if err != nil {
		return nil, newCompositeError(err)
	}
	// The matcher reports "en" for the default dialect whatever it was set to.
	if doc.Feature != nil && !hasLanguageHeader(text) {
		doc.Feature.Language = p.language
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding gherkin document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding gherkin document: %w", err)
	}
	return raw, nil
}

// Supported reports whether language names a built-in Gherkin dialect.
func Supported(language string) bool {
	return cucumber.DialectsBuiltin().GetDialect(language) != nil
}

var languageHeader = regexp.MustCompile(`^\s*#\s*language\s*:\s*([a-zA-Z\-_]+)\s*$`)

// hasLanguageHeader reports whether a "# language:" comment precedes the
// first non-comment line.
func hasLanguageHeader(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if languageHeader.MatchString(trimmed) {
			return true
		}
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return false
		}
	}
	return false
}

// Error is one located diagnostic of a failed parse.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e Error) String() string {
	return fmt.Sprintf("(%d:%d): %s", e.Line, e.Column, e.Message)
}

// CompositeError is a failed parse carrying one or more located diagnostics.
// Error returns the parser's full, possibly multi-line, message.
type CompositeError struct {
	Errors []Error
	err    error
}

func (e *CompositeError) Error() string {
	return e.err.Error()
}

func (e *CompositeError) Unwrap() error {
	return e.err
}

// First returns the first diagnostic.
func (e *CompositeError) First() Error {
	return e.Errors[0]
}

var locatedLine = regexp.MustCompile(`^\((\d+):(\d+)\): (.*)$`)

// newCompositeError reads the "(line:column): message" lines the parser
// prints for every diagnostic. Errors without any located line are returned
// wrapped instead.
func newCompositeError(err error) error {
	var located []Error
	for _, line := range strings.Split(err.Error(), "\n") {
		m := locatedLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		l, _ := strconv.Atoi(m[1])
		c, _ := strconv.Atoi(m[2])
		located = append(located, Error{Message: m[3], Line: l, Column: c})
	}
	if len(located) == 0 {
		return fmt.Errorf("gherkin: %w", err)
	}
	return &CompositeError{Errors: located, err: err}
}

// NewCompositeError builds a CompositeError from already located diagnostics,
// for sources other than the cucumber parser.
func NewCompositeError(errs ...Error) *CompositeError {
	lines := []string{"Parser errors:"}
	for _, e := range errs {
		lines = append(lines, e.String())
	}
	return &CompositeError{Errors: errs, err: errors.New(strings.Join(lines, "\n"))}
}
