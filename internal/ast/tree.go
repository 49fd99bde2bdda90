package ast

import "strings"

type Background struct {
	ID          string   `yaml:"id"`
	Keyword     string   `yaml:"keyword"`
	Location    Position `yaml:"location"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Steps       []Step   `yaml:"steps"`
}

type Scenario struct {
	ID          string          `yaml:"id"`
	Keyword     string          `yaml:"keyword"`
	Location    Position        `yaml:"location"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Steps       []Step          `yaml:"steps"`
	Tags        []Tag           `yaml:"tags"`
	Examples    []ExamplesTable `yaml:"examples"`
}

// IsOutline reports whether the scenario is parameterized by examples.
func (s Scenario) IsOutline() bool {
	return len(s.Examples) > 0
}

type Rule struct {
	ID          string   `yaml:"id"`
	Keyword     string   `yaml:"keyword"`
	Location    Position `yaml:"location"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []Tag    `yaml:"tags"`
	Children    Children `yaml:"children"`
}

// Child is a child of a Feature or Rule: a Background, a Rule or a Scenario.
type Child interface {
	Pos() Position
	kind() string
}

func (b Background) Pos() Position { return b.Location }
func (r Rule) Pos() Position       { return r.Location }
func (s Scenario) Pos() Position   { return s.Location }

func (Background) kind() string { return "background" }
func (Rule) kind() string       { return "rule" }
func (Scenario) kind() string   { return "scenario" }

// Children keeps feature and rule children in document order.
type Children []Child

// MarshalYAML writes each child under its kind, mirroring the parser's shape.
func (c Children) MarshalYAML() (any, error) {
	out := make([]map[string]Child, len(c))
	for i, child := range c {
		out[i] = map[string]Child{child.kind(): child}
	}
	return out, nil
}

type Feature struct {
	Keyword     string   `yaml:"keyword"`
	Language    string   `yaml:"language,omitempty"`
	Location    Position `yaml:"location"`
	Tags        []Tag    `yaml:"tags"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Children    Children `yaml:"children"`
}

// Document is the root of the tree.
type Document struct {
	Feature  Feature   `yaml:"feature"`
	Comments []Comment `yaml:"comments"`
}

// Walk visits every Background and Scenario under children in document order,
// descending into rules. rule is nil at feature level.
func Walk(children Children, fn func(child Child, rule *Rule)) {
	walk(children, nil, fn)
}

func walk(children Children, rule *Rule, fn func(Child, *Rule)) {
	for _, child := range children {
		if r, ok := child.(Rule); ok {
			walk(r.Children, &r, fn)
			continue
		}
		fn(child, rule)
	}
}

func BuildBackground(raw map[string]any) (Background, error) {
	return buildBackground(newNode("", raw))
}

func buildBackground(n node) (Background, error) {
	var bg Background
	var err error

	if bg.ID, err = n.str("id"); err != nil {
		return Background{}, err
	}
	if bg.Keyword, err = n.str("keyword"); err != nil {
		return Background{}, err
	}
	if bg.Location, err = n.location(); err != nil {
		return Background{}, err
	}
	if bg.Name, err = n.str("name"); err != nil {
		return Background{}, err
	}
	if bg.Description, err = n.str("description"); err != nil {
		return Background{}, err
	}
	steps, err := n.list("steps")
	if err != nil {
		return Background{}, err
	}
	if bg.Steps, err = buildEach(steps, buildStep); err != nil {
		return Background{}, err
	}
	return bg, nil
}

func BuildScenario(raw map[string]any) (Scenario, error) {
	return buildScenario(newNode("", raw))
}

func buildScenario(n node) (Scenario, error) {
	var sc Scenario
	var err error

	if sc.ID, err = n.str("id"); err != nil {
		return Scenario{}, err
	}
	if sc.Keyword, err = n.str("keyword"); err != nil {
		return Scenario{}, err
	}
	if sc.Location, err = n.location(); err != nil {
		return Scenario{}, err
	}
	if sc.Name, err = n.str("name"); err != nil {
		return Scenario{}, err
	}
	if sc.Description, err = n.str("description"); err != nil {
		return Scenario{}, err
	}

	steps, err := n.list("steps")
	if err != nil {
		return Scenario{}, err
	}
	if sc.Steps, err = buildEach(steps, buildStep); err != nil {
		return Scenario{}, err
	}
	tags, err := n.list("tags")
	if err != nil {
		return Scenario{}, err
	}
	if sc.Tags, err = buildEach(tags, buildTag); err != nil {
		return Scenario{}, err
	}
	examples, err := n.list("examples")
	if err != nil {
		return Scenario{}, err
	}
	if sc.Examples, err = buildEach(examples, buildExamplesTable); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func BuildRule(raw map[string]any) (Rule, error) {
	return buildRule(newNode("", raw))
}

func buildRule(n node) (Rule, error) {
	var r Rule
	var err error

	if r.ID, err = n.str("id"); err != nil {
		return Rule{}, err
	}
	if r.Keyword, err = n.str("keyword"); err != nil {
		return Rule{}, err
	}
	if r.Location, err = n.location(); err != nil {
		return Rule{}, err
	}
	if r.Name, err = n.str("name"); err != nil {
		return Rule{}, err
	}
	if r.Description, err = n.str("description"); err != nil {
		return Rule{}, err
	}
	tags, err := n.list("tags")
	if err != nil {
		return Rule{}, err
	}
	if r.Tags, err = buildEach(tags, buildTag); err != nil {
		return Rule{}, err
	}
	if r.Children, err = buildChildren(n); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func BuildChild(raw map[string]any) (Child, error) {
	return buildChild(newNode("", raw))
}

// buildChild requires exactly one of background, rule and scenario.
func buildChild(n node) (Child, error) {
	var found []string
	for _, key := range []string{"background", "rule", "scenario"} {
		if _, ok, err := n.optChild(key); err != nil {
			return nil, err
		} else if ok {
			found = append(found, key)
		}
	}
	if len(found) != 1 {
		field := "background|rule|scenario"
		if len(found) > 1 {
			field = strings.Join(found, "+")
		}
		return nil, n.fail(field, ErrInvalidChild)
	}

	raw, _, _ := n.optChild(found[0])
	var child Child
	var err error
	switch found[0] {
	case "background":
		child, err = buildBackground(raw)
	case "rule":
		child, err = buildRule(raw)
	default:
		child, err = buildScenario(raw)
	}
	if err != nil {
		return nil, err
	}
	return child, nil
}

func buildChildren(n node) (Children, error) {
	raw, err := n.list("children")
	if err != nil {
		return nil, err
	}
	children := make(Children, 0, len(raw))
	for _, c := range raw {
		child, err := buildChild(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func BuildFeature(raw map[string]any) (Feature, error) {
	return buildFeature(newNode("", raw))
}

func buildFeature(n node) (Feature, error) {
	var f Feature
	var err error

	if f.Keyword, err = n.str("keyword"); err != nil {
		return Feature{}, err
	}
	if f.Language, _, err = n.optStr("language"); err != nil {
		return Feature{}, err
	}
	if f.Location, err = n.location(); err != nil {
		return Feature{}, err
	}
	tags, err := n.list("tags")
	if err != nil {
		return Feature{}, err
	}
	if f.Tags, err = buildEach(tags, buildTag); err != nil {
		return Feature{}, err
	}
	if f.Name, err = n.str("name"); err != nil {
		return Feature{}, err
	}
	if f.Description, err = n.str("description"); err != nil {
		return Feature{}, err
	}
	if f.Children, err = buildChildren(n); err != nil {
		return Feature{}, err
	}
	return f, nil
}

// BuildDocument materializes a whole document. Construction either fully
// succeeds or returns the first structural error; no partial tree escapes.
func BuildDocument(raw map[string]any) (*Document, error) {
	n := newNode("", raw)

	feature, err := n.child("feature")
	if err != nil {
		return nil, err
	}
	f, err := buildFeature(feature)
	if err != nil {
		return nil, err
	}

	comments, err := n.list("comments")
	if err != nil {
		return nil, err
	}
	built, err := buildEach(comments, buildComment)
	if err != nil {
		return nil, err
	}
	return &Document{Feature: f, Comments: built}, nil
}
