// Package ast holds the typed Gherkin syntax tree and the builders that
// materialize it from the untyped tree produced by the external parser.
package ast

import "fmt"

// Position is a 1-based line and column in the source. The zero Position marks
// a synthetic cell that has no place in the source.
type Position struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// BuildPosition builds a Position from a raw {line, column} map.
func BuildPosition(raw map[string]any) (Position, error) {
	return buildPosition(newNode("", raw))
}

func buildPosition(n node) (Position, error) {
	line, err := n.int("line")
	if err != nil {
		return Position{}, err
	}
	column, err := n.int("column")
	if err != nil {
		return Position{}, err
	}
	return Position{Line: line, Column: column}, nil
}
