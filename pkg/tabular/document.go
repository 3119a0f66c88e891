// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tabular implements the in-memory table the edit pipeline operates
// on, together with its CSV and XLSX codecs.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"gitlab.com/tozd/go/errors"
)

// 📊 Document is an in-memory table: ordered named columns and string cells.
// Cells are kept as strings; numeric operations parse on demand.
type Document struct {
	columns []string
	rows    [][]string
}

// 🏭 New builds a Document from a header and rows. Ragged rows are padded
// with empty cells so every row matches the header width.
func New(columns []string, rows [][]string) *Document {
	d := &Document{columns: append([]string(nil), columns...)}
	for _, row := range rows {
		r := append([]string(nil), row...)
		for len(r) < len(d.columns) {
			r = append(r, "")
		}
		d.rows = append(d.rows, r[:len(d.columns)])
	}
	return d
}

// 📋 Columns returns a copy of the column names in order.
func (d *Document) Columns() []string {
	return append([]string(nil), d.columns...)
}

// NumRows returns the number of data rows.
func (d *Document) NumRows() int {
	return len(d.rows)
}

// NumColumns returns the number of columns.
func (d *Document) NumColumns() int {
	return len(d.columns)
}

// 🔍 Cell returns the value at (row, column name).
func (d *Document) Cell(row int, column string) (string, bool) {
	idx := d.columnIndex(column)
	if idx < 0 || row < 0 || row >= len(d.rows) {
		return "", false
	}
	return d.rows[row][idx], true
}

// Row returns a copy of one data row.
func (d *Document) Row(i int) []string {
	if i < 0 || i >= len(d.rows) {
		return nil
	}
	return append([]string(nil), d.rows[i]...)
}

// 🧬 Clone returns a deep copy, used as the pre-delegation snapshot.
func (d *Document) Clone() *Document {
	return New(d.columns, d.rows)
}

// ⚖️ Equal reports whether two documents have identical shape and cells.
func (d *Document) Equal(o *Document) bool {
	if o == nil || len(d.columns) != len(o.columns) || len(d.rows) != len(o.rows) {
		return false
	}
	for i := range d.columns {
		if d.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range d.rows {
		for j := range d.rows[i] {
			if d.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}

// 👀 Head renders the header and the first n rows for preview output.
func (d *Document) Head(n int) string {
	if n > len(d.rows) {
		n = len(d.rows)
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(d.columns, "\t"))
	for i := 0; i < n; i++ {
		fmt.Fprintln(w, strings.Join(d.rows[i], "\t"))
	}
	w.Flush()
	return sb.String()
}

// ✏️ SetColumn assigns value to every cell of the named column, creating the
// column when it does not exist.
func (d *Document) SetColumn(column, value string) {
	idx := d.columnIndex(column)
	if idx < 0 {
		d.columns = append(d.columns, column)
		idx = len(d.columns) - 1
		for i := range d.rows {
			d.rows[i] = append(d.rows[i], "")
		}
	}
	for i := range d.rows {
		d.rows[i][idx] = value
	}
}

// 🔣 CompareOp is a row-selector comparison operator.
type CompareOp string

const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpGt CompareOp = ">"
	OpLt CompareOp = "<"
	OpGe CompareOp = ">="
	OpLe CompareOp = "<="
)

// ✏️ SetWhere assigns value to targetColumn on every row where filterColumn
// compares true against operand. The target column is created when absent.
// Returns the number of rows affected.
func (d *Document) SetWhere(filterColumn string, op CompareOp, operand, targetColumn, value string) (int, error) {
	filterIdx := d.columnIndex(filterColumn)
	if filterIdx < 0 {
		return 0, errors.Errorf("no such column: %s", filterColumn)
	}

	targetIdx := d.columnIndex(targetColumn)
	if targetIdx < 0 {
		d.columns = append(d.columns, targetColumn)
		targetIdx = len(d.columns) - 1
		for i := range d.rows {
			d.rows[i] = append(d.rows[i], "")
		}
	}

	affected := 0
	for i := range d.rows {
		match, err := compare(d.rows[i][filterIdx], op, operand)
		if err != nil {
			return affected, err
		}
		if match {
			d.rows[i][targetIdx] = value
			affected++
		}
	}
	return affected, nil
}

// ✖️ ScaleWhere multiplies the numeric cells of targetColumn by factor on
// every row where filterColumn compares true against operand. Non-numeric
// target cells on matching rows are an error.
func (d *Document) ScaleWhere(filterColumn string, op CompareOp, operand, targetColumn string, factor float64) (int, error) {
	filterIdx := d.columnIndex(filterColumn)
	if filterIdx < 0 {
		return 0, errors.Errorf("no such column: %s", filterColumn)
	}
	targetIdx := d.columnIndex(targetColumn)
	if targetIdx < 0 {
		return 0, errors.Errorf("no such column: %s", targetColumn)
	}

	affected := 0
	for i := range d.rows {
		match, err := compare(d.rows[i][filterIdx], op, operand)
		if err != nil {
			return affected, err
		}
		if !match {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(d.rows[i][targetIdx]), 64)
		if err != nil {
			return affected, errors.Errorf("cell %s[%d] is not numeric: %w", targetColumn, i, err)
		}
		d.rows[i][targetIdx] = formatNumber(v * factor)
		affected++
	}
	return affected, nil
}

// columnIndex is case-sensitive, matching the agent's own column handling.
func (d *Document) columnIndex(name string) int {
	for i, c := range d.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ⚖️ compare evaluates cell <op> operand, numerically when both sides parse
// as numbers, lexically otherwise.
func compare(cell string, op CompareOp, operand string) (bool, error) {
	cv, cerr := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	ov, oerr := strconv.ParseFloat(strings.TrimSpace(operand), 64)
	if cerr == nil && oerr == nil {
		switch op {
		case OpEq:
			return cv == ov, nil
		case OpNe:
			return cv != ov, nil
		case OpGt:
			return cv > ov, nil
		case OpLt:
			return cv < ov, nil
		case OpGe:
			return cv >= ov, nil
		case OpLe:
			return cv <= ov, nil
		}
		return false, errors.Errorf("unknown operator: %s", op)
	}

	switch op {
	case OpEq:
		return cell == operand, nil
	case OpNe:
		return cell != operand, nil
	case OpGt:
		return cell > operand, nil
	case OpLt:
		return cell < operand, nil
	case OpGe:
		return cell >= operand, nil
	case OpLe:
		return cell <= operand, nil
	}
	return false, errors.Errorf("unknown operator: %s", op)
}

// formatNumber renders a float the way spreadsheets expect: no trailing
// zeros, no exponent for ordinary magnitudes.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
