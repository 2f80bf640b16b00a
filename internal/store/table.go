package store

import "github.com/linedb/linedb/pkg"

// Row is an ordered value sequence positionally aligned with the
// table schema.
type Row []Value

// Table owns one schema, the append-only row sequence, and one
// secondary index per column. Indexes are materialized eagerly at
// creation and updated in lock-step with every append, so a lookup
// never observes a row the scan path would miss.
type Table struct {
	Name    string
	Schema  *Schema
	Rows    []Row
	Indexes pkg.Map[string, *SecondaryIndex]
}

func NewTable(name string, schema *Schema) *Table {
	t := &Table{
		Name:    name,
		Schema:  schema,
		Rows:    []Row{},
		Indexes: pkg.Map[string, *SecondaryIndex]{},
	}
	for _, col := range schema.Columns {
		t.Indexes.Set(col.Name, NewSecondaryIndex(col.Name))
	}
	return t
}

// Append validates values against the schema, appends the row and
// updates every index before returning the new position. Positions
// are assigned sequentially from 0 and never reused.
func (t *Table) Append(row Row) (int, error) {
	if len(row) != t.Schema.Len() {
		return 0, NewError(ErrColumnCountMismatch,
			"table %s has %d columns, got %d values", t.Name, t.Schema.Len(), len(row))
	}
	for i, col := range t.Schema.Columns {
		if row[i].Type() != col.Type {
			return 0, NewError(ErrTypeMismatch,
				"column %s is %s, got %s value %q", col.Name, col.Type, row[i].Type(), row[i].String())
		}
	}

	position := len(t.Rows)
	t.Rows = append(t.Rows, row)
	for i, col := range t.Schema.Columns {
		t.Indexes.Get(col.Name).Insert(row[i], position)
	}
	return position, nil
}

// Row returns the row at position. Reads are O(1).
func (t *Table) Row(position int) (Row, bool) {
	if position < 0 || position >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[position], true
}

func (t *Table) Len() int { return len(t.Rows) }

// Scan filters all rows by equality on one column, returning
// positions in ascending order. It is the reference semantics the
// index path must match.
func (t *Table) Scan(column int, value Value) []int {
	positions := []int{}
	for i, row := range t.Rows {
		if row[column].Equal(value) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Lookup resolves an equality predicate through the column's index
// when one exists, falling back to a scan otherwise.
func (t *Table) Lookup(column string, value Value) []int {
	if ix := t.Indexes.Get(column); ix != nil {
		return ix.Lookup(value)
	}
	return t.Scan(t.Schema.ColumnIndex(column), value)
}
