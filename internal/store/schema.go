package store

import "github.com/linedb/linedb/pkg"

type ColumnDefinition struct {
	Name string
	Type ColumnType
}

// Schema is the ordered column list of one table. It is fixed at
// CREATE TABLE time; rows are positionally aligned with it.
type Schema struct {
	Columns []ColumnDefinition
}

func NewSchema(columns []ColumnDefinition) (*Schema, error) {
	seen := pkg.Map[string, struct{}]{}
	for _, col := range columns {
		if seen.Has(col.Name) {
			return nil, NewError(ErrDuplicateColumn, "duplicate column %s", col.Name)
		}
		seen.Set(col.Name, struct{}{})
	}
	return &Schema{Columns: columns}, nil
}

// ColumnIndex returns the position of the named column, or -1.
func (s *Schema) ColumnIndex(name string) int {
	for i, col := range s.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

func (s *Schema) Len() int { return len(s.Columns) }
