// Package parser loads Gherkin feature files into typed documents and turns
// parser failures into located, classified errors.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/chriserin/gherkinast/internal/ast"
	"github.com/chriserin/gherkinast/internal/ctxlog"
	"github.com/chriserin/gherkinast/internal/gherkin"
)

const DefaultEncoding = "utf-8"

// Source parses Gherkin text into the untyped tree ast.BuildDocument reads.
// A *gherkin.CompositeError signals invalid Gherkin.
type Source interface {
	Parse(text string) (map[string]any, error)
}

// Loader reads, parses and builds feature files. It keeps no state between
// calls and is safe for concurrent use when its Source is.
type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load parses the file at path with the default cucumber parser.
func Load(ctx context.Context, path, encoding string) (*ast.Document, error) {
	return NewLoader(gherkin.New()).Load(ctx, path, encoding)
}

// Load reads path in the named encoding ("" means utf-8) and returns its
// document. I/O and decoding errors are returned as they are. Invalid Gherkin
// yields a *ParseError chained to the parser failure.
func (l *Loader) Load(ctx context.Context, path, encoding string) (*ast.Document, error) {
	logger := ctxlog.FromContext(ctx)
	if encoding == "" {
		encoding = DefaultEncoding
	}

	text, err := ReadText(path, encoding)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsing feature file", "path", path, "encoding", encoding, "bytes", len(text))

	raw, err := l.source.Parse(text)
	if err != nil {
		var composite *gherkin.CompositeError
		if !errors.As(err, &composite) || len(composite.Errors) == 0 {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		first := composite.First()
		lineText := sourceLine(path, encoding, first.Line)
		perr := Classify(composite.Error(), first.Line, lineText, path, err)
		perr.Column = first.Column

		logger.Debug("feature file rejected",
			"path", path,
			"category", perr.Category.String(),
			"line", perr.Line,
		)
		return nil, perr
	}

	doc, err := ast.BuildDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	return doc, nil
}

// ReadText reads the whole file and decodes it from the named encoding.
func ReadText(path, encoding string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decode(data, encoding)
}

func decode(data []byte, encoding string) (string, error) {
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}
	name, _ := htmlindex.Name(enc)
	if name == "utf-8" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("decoding %s: invalid UTF-8", encoding)
		}
		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", encoding, err)
	}
	return string(decoded), nil
}

// sourceLine re-reads path and returns the 1-based line without its line
// ending, or "" when the file or line is unavailable.
func sourceLine(path, encoding string, line int) string {
	if line < 1 {
		return ""
	}
	text, err := ReadText(path, encoding)
	if err != nil {
		return ""
	}
	lines := strings.Split(text, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r\n")
}
