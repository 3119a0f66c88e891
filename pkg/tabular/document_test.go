package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesDocument() *Document {
	return New(
		[]string{"OrderID", "Product", "Price", "Status"},
		[][]string{
			{"101", "Laptop", "1200", "Shipped"},
			{"102", "Monitor", "300", "Pending"},
			{"103", "Mouse", "25", "Shipped"},
			{"104", "Keyboard", "75", "Pending"},
			{"105", "Webcam", "50", "Delivered"},
		},
	)
}

func TestDocument_CloneAndEqual(t *testing.T) {
	doc := salesDocument()
	snapshot := doc.Clone()

	assert.True(t, doc.Equal(snapshot))

	doc.SetColumn("Status", "Closed")
	assert.False(t, doc.Equal(snapshot), "mutation must break equality with the snapshot")
	assert.True(t, snapshot.Equal(salesDocument()), "snapshot is unaffected by the mutation")
}

func TestDocument_SetColumn(t *testing.T) {
	t.Run("existing_column", func(t *testing.T) {
		doc := salesDocument()
		doc.SetColumn("Status", "Closed")

		for i := 0; i < doc.NumRows(); i++ {
			v, ok := doc.Cell(i, "Status")
			require.True(t, ok)
			assert.Equal(t, "Closed", v)
		}
	})

	t.Run("new_column_created", func(t *testing.T) {
		doc := salesDocument()
		doc.SetColumn("Notes", "pending")

		assert.Equal(t, []string{"OrderID", "Product", "Price", "Status", "Notes"}, doc.Columns())
		for i := 0; i < doc.NumRows(); i++ {
			v, ok := doc.Cell(i, "Notes")
			require.True(t, ok)
			assert.Equal(t, "pending", v)
		}
	})
}

func TestDocument_SetWhere(t *testing.T) {
	tests := []struct {
		name         string
		filterColumn string
		op           CompareOp
		operand      string
		targetColumn string
		value        string
		wantAffected int
		wantCell     struct {
			row  int
			col  string
			want string
		}
	}{
		{
			name:         "numeric_equality",
			filterColumn: "OrderID",
			op:           OpEq,
			operand:      "105",
			targetColumn: "Status",
			value:        "Closed",
			wantAffected: 1,
			wantCell: struct {
				row  int
				col  string
				want string
			}{4, "Status", "Closed"},
		},
		{
			name:         "string_equality",
			filterColumn: "Status",
			op:           OpEq,
			operand:      "Pending",
			targetColumn: "Status",
			value:        "Open",
			wantAffected: 2,
			wantCell: struct {
				row  int
				col  string
				want string
			}{1, "Status", "Open"},
		},
		{
			name:         "numeric_greater_than",
			filterColumn: "Price",
			op:           OpGt,
			operand:      "100",
			targetColumn: "Status",
			value:        "Expensive",
			wantAffected: 2,
			wantCell: struct {
				row  int
				col  string
				want string
			}{0, "Status", "Expensive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := salesDocument()
			affected, err := doc.SetWhere(tt.filterColumn, tt.op, tt.operand, tt.targetColumn, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAffected, affected)

			v, ok := doc.Cell(tt.wantCell.row, tt.wantCell.col)
			require.True(t, ok)
			assert.Equal(t, tt.wantCell.want, v)
		})
	}
}

func TestDocument_SetWhere_MissingFilterColumn(t *testing.T) {
	doc := salesDocument()
	_, err := doc.SetWhere("Nope", OpEq, "1", "Status", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such column")
}

func TestDocument_SetWhere_CreatesTargetColumn(t *testing.T) {
	doc := salesDocument()
	affected, err := doc.SetWhere("Status", OpEq, "Shipped", "Tracking", "yes")
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	v, ok := doc.Cell(0, "Tracking")
	require.True(t, ok)
	assert.Equal(t, "yes", v)

	v, ok = doc.Cell(1, "Tracking")
	require.True(t, ok)
	assert.Equal(t, "", v, "non-matching rows keep the empty cell")
}

func TestDocument_ScaleWhere(t *testing.T) {
	doc := salesDocument()
	affected, err := doc.ScaleWhere("Status", OpEq, "Pending", "Price", 1.1)
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	v, _ := doc.Cell(1, "Price")
	assert.Equal(t, "330", v)

	v, _ = doc.Cell(3, "Price")
	assert.Equal(t, "82.5", v)

	v, _ = doc.Cell(0, "Price")
	assert.Equal(t, "1200", v, "non-matching rows untouched")
}

func TestDocument_ScaleWhere_NonNumericTarget(t *testing.T) {
	doc := salesDocument()
	_, err := doc.ScaleWhere("Status", OpEq, "Pending", "Product", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")
}

func TestDocument_Head(t *testing.T) {
	doc := salesDocument()
	head := doc.Head(2)

	assert.Contains(t, head, "OrderID")
	assert.Contains(t, head, "Laptop")
	assert.Contains(t, head, "Monitor")
	assert.NotContains(t, head, "Mouse", "rows past the preview are excluded")
}

func TestNew_PadsRaggedRows(t *testing.T) {
	doc := New([]string{"A", "B", "C"}, [][]string{{"1"}, {"1", "2", "3", "4"}})

	require.Equal(t, 2, doc.NumRows())
	v, ok := doc.Cell(0, "C")
	require.True(t, ok)
	assert.Equal(t, "", v)

	v, ok = doc.Cell(1, "C")
	require.True(t, ok)
	assert.Equal(t, "3", v, "overlong rows are truncated to the header width")
}
