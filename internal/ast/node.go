package ast

import "strings"

type Comment struct {
	Location Position `yaml:"location"`
	Text     string   `yaml:"text"`
}

type Tag struct {
	ID       string   `yaml:"id"`
	Location Position `yaml:"location"`
	Name     string   `yaml:"name"` // e.g. "@smoke"
}

// DocString is the multi-line argument of a step. Content is stored dedented.
type DocString struct {
	Content   string   `yaml:"content"`
	Delimiter string   `yaml:"delimiter"`
	MediaType string   `yaml:"media_type,omitempty"`
	Location  Position `yaml:"location"`
}

// KeywordType classifies step keywords semantically.
type KeywordType string

const (
	KeywordTypeContext     KeywordType = "Context"
	KeywordTypeAction      KeywordType = "Action"
	KeywordTypeOutcome     KeywordType = "Outcome"
	KeywordTypeConjunction KeywordType = "Conjunction"
	KeywordTypeUnknown     KeywordType = "Unknown"
)

type Step struct {
	ID          string      `yaml:"id"`
	Keyword     string      `yaml:"keyword"` // trimmed: "Given", "And", "*"
	KeywordType KeywordType `yaml:"keyword_type"`
	Location    Position    `yaml:"location"`
	Text        string      `yaml:"text"`
	DataTable   *DataTable  `yaml:"data_table,omitempty"`
	DocString   *DocString  `yaml:"doc_string,omitempty"`
}

func BuildComment(raw map[string]any) (Comment, error) {
	return buildComment(newNode("", raw))
}

func buildComment(n node) (Comment, error) {
	loc, err := n.location()
	if err != nil {
		return Comment{}, err
	}
	text, err := n.str("text")
	if err != nil {
		return Comment{}, err
	}
	return Comment{Location: loc, Text: text}, nil
}

func BuildTag(raw map[string]any) (Tag, error) {
	return buildTag(newNode("", raw))
}

func buildTag(n node) (Tag, error) {
	id, err := n.str("id")
	if err != nil {
		return Tag{}, err
	}
	loc, err := n.location()
	if err != nil {
		return Tag{}, err
	}
	name, err := n.str("name")
	if err != nil {
		return Tag{}, err
	}
	return Tag{ID: id, Location: loc, Name: name}, nil
}

func BuildDocString(raw map[string]any) (*DocString, error) {
	return buildDocString(newNode("", raw))
}

func buildDocString(n node) (*DocString, error) {
	content, err := n.str("content")
	if err != nil {
		return nil, err
	}
	delimiter, err := n.str("delimiter")
	if err != nil {
		return nil, err
	}
	loc, err := n.location()
	if err != nil {
		return nil, err
	}
	mediaType, _, err := n.optStr("mediaType")
	if err != nil {
		return nil, err
	}
	return &DocString{
		Content:   dedent(content),
		Delimiter: delimiter,
		MediaType: mediaType,
		Location:  loc,
	}, nil
}

// dedent removes the longest leading whitespace prefix shared by every line
// that is not blank. Lines holding only whitespace are emptied.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	margin := ""
	first := true
	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		margin = commonPrefix(margin, indent)
	}

	if margin == "" {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

func BuildStep(raw map[string]any) (Step, error) {
	return buildStep(newNode("", raw))
}

func buildStep(n node) (Step, error) {
	var step Step
	var err error

	if step.ID, err = n.str("id"); err != nil {
		return Step{}, err
	}
	keyword, err := n.str("keyword")
	if err != nil {
		return Step{}, err
	}
	step.Keyword = strings.TrimSpace(keyword)
	keywordType, err := n.str("keywordType")
	if err != nil {
		return Step{}, err
	}
	step.KeywordType = KeywordType(keywordType)
	if step.Location, err = n.location(); err != nil {
		return Step{}, err
	}
	if step.Text, err = n.str("text"); err != nil {
		return Step{}, err
	}

	if raw, ok, err := n.optChild("dataTable"); err != nil {
		return Step{}, err
	} else if ok {
		if step.DataTable, err = buildDataTable(raw); err != nil {
			return Step{}, err
		}
	}
	if raw, ok, err := n.optChild("docString"); err != nil {
		return Step{}, err
	} else if ok {
		if step.DocString, err = buildDocString(raw); err != nil {
			return Step{}, err
		}
	}
	return step, nil
}
