package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(rows ...[]string) *DataTable {
	t := &DataTable{Location: Position{Line: 3, Column: 7}}
	for i, values := range rows {
		row := Row{ID: string(rune('a' + i)), Location: Position{Line: 3 + i, Column: 7}}
		for j, v := range values {
			row.Cells = append(row.Cells, Cell{Location: Position{Line: 3 + i, Column: 9 + 4*j}, Value: v})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func values(t *DataTable) [][]string {
	var out [][]string
	for _, row := range t.Rows {
		out = append(out, row.Values())
	}
	return out
}

func TestTranspose_SwapsRowsAndColumns(t *testing.T) {
	dt := table([]string{"a", "b", "c"}, []string{"1", "2", "3"})

	tr := dt.Transpose()

	assert.Equal(t, [][]string{{"a", "1"}, {"b", "2"}, {"c", "3"}}, values(tr))
	require.Len(t, tr.Rows, 3)
	for i, row := range tr.Rows {
		assert.Equal(t, dt.Location, row.Location)
		assert.Equal(t, []string{"0", "1", "2"}[i], row.ID)
	}
	assert.Equal(t, dt.Location, tr.Location)
}

func TestTranspose_KeepsCellLocations(t *testing.T) {
	dt := table([]string{"a", "b"}, []string{"1", "2"})

	tr := dt.Transpose()

	assert.Equal(t, dt.Rows[1].Cells[0].Location, tr.Rows[0].Cells[1].Location)
}

func TestTranspose_RoundTripsRectangularTable(t *testing.T) {
	dt := table([]string{"a", "b", "c"}, []string{"1", "2", "3"}, []string{"x", "y", "z"})

	back := dt.Transpose().Transpose()

	if diff := cmp.Diff(values(dt), values(back)); diff != "" {
		t.Errorf("double transpose changed content (-want +got):\n%s", diff)
	}
}

func TestTranspose_PadsShortRows(t *testing.T) {
	dt := table([]string{"a", "b", "c"}, []string{"1"})

	tr := dt.Transpose()

	require.Len(t, tr.Rows, 3)
	assert.Equal(t, [][]string{{"a", "1"}, {"b", ""}, {"c", ""}}, values(tr))
	assert.Equal(t, Position{}, tr.Rows[1].Cells[1].Location)
	assert.Equal(t, Position{}, tr.Rows[2].Cells[1].Location)
}

func TestTranspose_EmptyTableReturnsReceiver(t *testing.T) {
	dt := &DataTable{Location: Position{Line: 1, Column: 1}}

	assert.Same(t, dt, dt.Transpose())
}

func TestToMap_HeaderAndOneRow(t *testing.T) {
	dt := table([]string{"a", "b"}, []string{"1", "2"})

	m, err := dt.ToMap()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"a": {"1"}, "b": {"2"}}, m)
}

func TestToMap_ColumnsAcrossRows(t *testing.T) {
	dt := table([]string{"name", "age"}, []string{"ann", "31"}, []string{"bob", "42"})

	m, err := dt.ToMap()
	require.NoError(t, err)
	assert.Equal(t, []string{"ann", "bob"}, m["name"])
	assert.Equal(t, []string{"31", "42"}, m["age"])
}

func TestToMap_DuplicateHeaderLastWins(t *testing.T) {
	dt := table([]string{"k", "k"}, []string{"1", "2"})

	m, err := dt.ToMap()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"k": {"2"}}, m)
}

func TestToMap_FewerThanTwoRows(t *testing.T) {
	for _, dt := range []*DataTable{table(), table([]string{"a", "b"})} {
		_, err := dt.ToMap()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTableShape))
	}
}

func TestToMap_RaggedRowsFail(t *testing.T) {
	short := table([]string{"a", "b"}, []string{"1"})
	_, err := short.ToMap()
	assert.ErrorIs(t, err, ErrTableShape)

	long := table([]string{"a"}, []string{"1", "2"})
	_, err = long.ToMap()
	assert.ErrorIs(t, err, ErrTableShape)
}

func TestHeaders(t *testing.T) {
	assert.Nil(t, table().Headers())
	assert.Equal(t, []string{"a", "b"}, table([]string{"a", "b"}, []string{"1", "2"}).Headers())
}

func TestExamplesTable_DataTable(t *testing.T) {
	header := Row{ID: "h", Cells: []Cell{{Value: "n"}}}
	ex := ExamplesTable{
		Location:    Position{Line: 9, Column: 5},
		TableHeader: &header,
		TableBody:   []Row{{ID: "r1", Cells: []Cell{{Value: "1"}}}, {ID: "r2", Cells: []Cell{{Value: "2"}}}},
	}

	m, err := ex.DataTable().ToMap()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"n": {"1", "2"}}, m)
}
