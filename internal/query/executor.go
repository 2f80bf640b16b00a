package query

import (
	"fmt"

	"github.com/linedb/linedb/internal/parser"
	"github.com/linedb/linedb/internal/store"
	"github.com/linedb/linedb/pkg"
)

type ResultKind int

const (
	ResultCreated ResultKind = iota
	ResultInserted
	ResultRows
)

// Result is the structured outcome of one executed statement. The
// wire layer turns it into response text.
type Result struct {
	Kind  ResultKind
	Table string
	// position assigned by an insert
	Position int
	// matching rows in position order, for selects
	Rows []store.Row
}

// Execute runs one parsed statement against the shared database.
// Selects take the read side of the database lock, create/insert the
// write side, so reads never block each other and writes are
// linearized. The lock is released before Execute returns; it is
// never held across I/O.
func Execute(db *store.Database, stmt parser.Statement) (res *Result, err error) {
	switch stmt := stmt.(type) {
	case parser.CreateTableStmt:
		pkg.LockWrap(db, func() { res, err = createTable(db, stmt) })
	case parser.InsertStmt:
		pkg.LockWrap(db, func() { res, err = insert(db, stmt) })
	case parser.SelectStmt:
		pkg.RLockWrap(db, func() { res, err = selectRows(db, stmt) })
	default:
		return nil, fmt.Errorf("unhandled statement type %T", stmt)
	}
	return res, err
}

func createTable(db *store.Database, stmt parser.CreateTableStmt) (*Result, error) {
	schema, err := store.NewSchema(stmt.Columns)
	if err != nil {
		return nil, err
	}
	if _, err := db.CreateTable(stmt.Table, schema); err != nil {
		return nil, err
	}
	db.RecordWrite()
	return &Result{Kind: ResultCreated, Table: stmt.Table}, nil
}

func insert(db *store.Database, stmt parser.InsertStmt) (*Result, error) {
	table, err := db.Table(stmt.Table)
	if err != nil {
		return nil, err
	}
	row, err := bindRow(table.Schema, stmt.Values)
	if err != nil {
		return nil, err
	}
	position, err := table.Append(row)
	if err != nil {
		return nil, err
	}
	db.RecordWrite()
	return &Result{Kind: ResultInserted, Table: stmt.Table, Position: position}, nil
}

// bindRow coerces raw literals to the schema's column types. The
// whole row binds before anything is appended, so a failed insert
// leaves rows and indexes untouched.
func bindRow(schema *store.Schema, values []parser.Literal) (store.Row, error) {
	if len(values) != schema.Len() {
		return nil, store.NewError(store.ErrColumnCountMismatch,
			"expected %d values, got %d", schema.Len(), len(values))
	}
	row := make(store.Row, len(values))
	for i, lit := range values {
		v, err := store.CoerceValue(lit.Raw, lit.Quoted, schema.Columns[i].Type)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func selectRows(db *store.Database, stmt parser.SelectStmt) (*Result, error) {
	table, err := db.Table(stmt.Table)
	if err != nil {
		return nil, err
	}

	if stmt.Where == nil {
		rows := make([]store.Row, len(table.Rows))
		copy(rows, table.Rows)
		return &Result{Kind: ResultRows, Table: stmt.Table, Rows: rows}, nil
	}

	col := table.Schema.ColumnIndex(stmt.Where.Column)
	if col < 0 {
		return nil, store.NewError(store.ErrUnknownColumn,
			"column %s does not exist in table %s", stmt.Where.Column, stmt.Table)
	}
	value, err := store.CoerceValue(stmt.Where.Value.Raw, stmt.Where.Value.Quoted, table.Schema.Columns[col].Type)
	if err != nil {
		return nil, err
	}

	positions := table.Lookup(stmt.Where.Column, value)
	rows := make([]store.Row, 0, len(positions))
	for _, pos := range positions {
		row, ok := table.Row(pos)
		if ok {
			rows = append(rows, row)
		}
	}
	return &Result{Kind: ResultRows, Table: stmt.Table, Rows: rows}, nil
}
