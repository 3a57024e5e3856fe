package dataset

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return New(
		[]string{"property_id", "bedRoom", "address"},
		[]Row{
			{"p1", "2", "Delhi"},
			{"p2", "3", "Gurgaon"},
			{"p3", "3"},
		},
	)
}

func TestCell(t *testing.T) {
	table := sampleTable()
	rows := table.Rows()

	cell, ok := table.Cell(rows[0], "address")
	assert.True(t, ok)
	assert.Equal(t, "Delhi", cell)

	// Short row reads as empty, not as missing.
	cell, ok = table.Cell(rows[2], "address")
	assert.True(t, ok)
	assert.Equal(t, "", cell)

	_, ok = table.Cell(rows[0], "no_such_column")
	assert.False(t, ok)
}

func TestHasColumn(t *testing.T) {
	table := sampleTable()
	assert.True(t, table.HasColumn("property_id"))
	assert.False(t, table.HasColumn("Price_in_Crore"))
}

func TestSelectPreservesOrderAndSchema(t *testing.T) {
	table := sampleTable()
	view := table.Select(func(row Row) bool {
		cell, _ := table.Cell(row, "bedRoom")
		return cell == "3"
	})

	require.Equal(t, 2, view.Len())
	assert.Equal(t, table.Columns(), view.Columns())

	first, _ := view.Cell(view.Rows()[0], "property_id")
	second, _ := view.Cell(view.Rows()[1], "property_id")
	assert.Equal(t, "p2", first)
	assert.Equal(t, "p3", second)

	// The source view is untouched.
	assert.Equal(t, 3, table.Len())
}

func TestEmptyKeepsSchema(t *testing.T) {
	view := sampleTable().Empty()
	assert.Equal(t, 0, view.Len())
	assert.True(t, view.HasColumn("bedRoom"))
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleTable())
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)

	assert.Equal(t, "Delhi", records[0]["address"])
	// Short rows marshal with explicit empty cells.
	assert.Equal(t, "", records[2]["address"])
	assert.Equal(t, "p3", records[2]["property_id"])
}

func TestFromCSV(t *testing.T) {
	input := strings.Join([]string{
		"property_id,bedRoom,address",
		"p1,2,Delhi",
		"p2,3",
		"",
	}, "\n")

	table, err := FromCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"property_id", "bedRoom", "address"}, table.Columns())
	require.Equal(t, 2, table.Len())

	// Ragged record survives parsing and reads as an empty cell.
	cell, ok := table.Cell(table.Rows()[1], "address")
	assert.True(t, ok)
	assert.Equal(t, "", cell)
}

func TestFromCSVEmptyInput(t *testing.T) {
	_, err := FromCSV(strings.NewReader(""))
	assert.Error(t, err)
}
