package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrTableShape = errors.New("table shape")

type Cell struct {
	Location Position `yaml:"location"`
	Value    string   `yaml:"value"`
}

type Row struct {
	ID       string   `yaml:"id"`
	Location Position `yaml:"location"`
	Cells    []Cell   `yaml:"cells"`
}

// Values returns the cell values of the row in order.
func (r Row) Values() []string {
	values := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		values[i] = c.Value
	}
	return values
}

// DataTable is the table argument of a step. Rows may have unequal lengths.
type DataTable struct {
	Location Position `yaml:"location"`
	Rows     []Row    `yaml:"rows"`
}

// Transpose turns columns into rows. A table without rows is returned as is,
// so the result may alias the receiver. Short rows are padded with empty
// cells at the zero Position.
func (t *DataTable) Transpose() *DataTable {
	if len(t.Rows) == 0 {
		return t
	}

	maxColumns := 0
	for _, row := range t.Rows {
		if len(row.Cells) > maxColumns {
			maxColumns = len(row.Cells)
		}
	}

	rows := make([]Row, 0, maxColumns)
	for col := 0; col < maxColumns; col++ {
		cells := make([]Cell, 0, len(t.Rows))
		for _, row := range t.Rows {
			if col < len(row.Cells) {
				cells = append(cells, row.Cells[col])
			} else {
				cells = append(cells, Cell{Location: Position{}, Value: ""})
			}
		}
		rows = append(rows, Row{ID: strconv.Itoa(col), Location: t.Location, Cells: cells})
	}

	return &DataTable{Location: t.Location, Rows: rows}
}

// Headers returns the values of the first row, or nil for an empty table.
func (t *DataTable) Headers() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0].Values()
}

// ToMap maps each header value to that column's values across the data rows.
// The first row is the header. Duplicate headers overwrite earlier ones.
func (t *DataTable) ToMap() (map[string][]string, error) {
	if len(t.Rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one value row, got %d rows", ErrTableShape, len(t.Rows))
	}

	header := t.Rows[0].Values()
	data := t.Rows[1:]
	for _, row := range data {
		if len(row.Cells) != len(header) {
			return nil, fmt.Errorf("%w: row %s at line %d has %d cells, header has %d",
				ErrTableShape, row.ID, row.Location.Line, len(row.Cells), len(header))
		}
	}

	result := make(map[string][]string, len(header))
	for col, key := range header {
		values := make([]string, 0, len(data))
		for _, row := range data {
			values = append(values, row.Cells[col].Value)
		}
		result[key] = values
	}
	return result, nil
}

// ExamplesTable is one Examples section of a scenario outline.
type ExamplesTable struct {
	Location    Position `yaml:"location"`
	Keyword     string   `yaml:"keyword,omitempty"`
	Name        *string  `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Tags        []Tag    `yaml:"tags,omitempty"`
	TableHeader *Row     `yaml:"table_header,omitempty"`
	TableBody   []Row    `yaml:"table_body"`
}

// DataTable joins header and body into one table so ToMap and Transpose apply.
func (e ExamplesTable) DataTable() *DataTable {
	rows := make([]Row, 0, len(e.TableBody)+1)
	if e.TableHeader != nil {
		rows = append(rows, *e.TableHeader)
	}
	rows = append(rows, e.TableBody...)
	return &DataTable{Location: e.Location, Rows: rows}
}

func BuildCell(raw map[string]any) (Cell, error) {
	return buildCell(newNode("", raw))
}

func buildCell(n node) (Cell, error) {
	loc, err := n.location()
	if err != nil {
		return Cell{}, err
	}
	value, err := n.str("value")
	if err != nil {
		return Cell{}, err
	}
	return Cell{Location: loc, Value: escapeBackslashes(value)}, nil
}

// escapeBackslashes keeps the literal text of a cell: `\` becomes `\\`.
func escapeBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

func BuildRow(raw map[string]any) (Row, error) {
	return buildRow(newNode("", raw))
}

func buildRow(n node) (Row, error) {
	id, err := n.str("id")
	if err != nil {
		return Row{}, err
	}
	loc, err := n.location()
	if err != nil {
		return Row{}, err
	}
	cells, err := n.list("cells")
	if err != nil {
		return Row{}, err
	}
	built, err := buildEach(cells, buildCell)
	if err != nil {
		return Row{}, err
	}
	return Row{ID: id, Location: loc, Cells: built}, nil
}

func BuildDataTable(raw map[string]any) (*DataTable, error) {
	return buildDataTable(newNode("", raw))
}

func buildDataTable(n node) (*DataTable, error) {
	loc, err := n.location()
	if err != nil {
		return nil, err
	}
	rows, err := n.optList("rows")
	if err != nil {
		return nil, err
	}
	built, err := buildEach(rows, buildRow)
	if err != nil {
		return nil, err
	}
	return &DataTable{Location: loc, Rows: built}, nil
}

func BuildExamplesTable(raw map[string]any) (ExamplesTable, error) {
	return buildExamplesTable(newNode("", raw))
}

func buildExamplesTable(n node) (ExamplesTable, error) {
	loc, err := n.location()
	if err != nil {
		return ExamplesTable{}, err
	}
	ex := ExamplesTable{Location: loc}

	if name, ok, err := n.optStr("name"); err != nil {
		return ExamplesTable{}, err
	} else if ok {
		ex.Name = &name
	}
	if ex.Keyword, _, err = n.optStr("keyword"); err != nil {
		return ExamplesTable{}, err
	}
	if ex.Description, _, err = n.optStr("description"); err != nil {
		return ExamplesTable{}, err
	}

	tags, err := n.optList("tags")
	if err != nil {
		return ExamplesTable{}, err
	}
	if ex.Tags, err = buildEach(tags, buildTag); err != nil {
		return ExamplesTable{}, err
	}

	if header, ok, err := n.optChild("tableHeader"); err != nil {
		return ExamplesTable{}, err
	} else if ok {
		row, err := buildRow(header)
		if err != nil {
			return ExamplesTable{}, err
		}
		ex.TableHeader = &row
	}

	body, err := n.optList("tableBody")
	if err != nil {
		return ExamplesTable{}, err
	}
	if ex.TableBody, err = buildEach(body, buildRow); err != nil {
		return ExamplesTable{}, err
	}
	return ex, nil
}
