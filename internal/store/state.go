package store

import (
	"fmt"

	"github.com/linedb/linedb/pkg"
)

// TableState is the serializable form of one table: name, ordered
// column definitions and rows in position order. Indexes are not
// carried; they are rebuilt through the normal append path on
// restore, which re-establishes the index invariant by construction.
type TableState struct {
	Name    string
	Columns []ColumnDefinition
	Rows    []Row
}

// DatabaseState is a consistent deep copy of the whole database,
// tables sorted by name so serialization is deterministic.
type DatabaseState struct {
	Tables []TableState
}

// State deep-copies the database contents. The caller must hold at
// least the read lock; the copy can then be serialized without any
// lock held.
func (db *Database) State() *DatabaseState {
	state := &DatabaseState{Tables: make([]TableState, 0, len(db.Tables))}
	for _, name := range pkg.SortedKeys(db.Tables) {
		t := db.Tables.Get(name)
		ts := TableState{
			Name:    t.Name,
			Columns: append([]ColumnDefinition{}, t.Schema.Columns...),
			Rows:    make([]Row, len(t.Rows)),
		}
		for i, row := range t.Rows {
			ts.Rows[i] = append(Row{}, row...)
		}
		state.Tables = append(state.Tables, ts)
	}
	return state
}

// Restore rebuilds a database from a snapshot state. Any violation
// of the schema rules means the snapshot bytes cannot be trusted.
func Restore(state *DatabaseState) (*Database, error) {
	db := NewDatabase()
	for _, ts := range state.Tables {
		schema, err := NewSchema(ts.Columns)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", ts.Name, err)
		}
		t, err := db.CreateTable(ts.Name, schema)
		if err != nil {
			return nil, err
		}
		for i, row := range ts.Rows {
			if _, err := t.Append(row); err != nil {
				return nil, fmt.Errorf("table %s row %d: %w", ts.Name, i, err)
			}
		}
	}
	return db, nil
}
