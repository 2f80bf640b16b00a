package parser

import "github.com/linedb/linedb/internal/store"

// Literal is a value token as written in the query. The raw text is
// bound to a column type at execution time: quoted literals are
// always text, unquoted ones take the column's declared type.
type Literal struct {
	Raw    string
	Quoted bool
}

type Statement interface {
	// IsReadOnly reports whether executing the statement can leave
	// the database unchanged, which decides the lock side taken.
	IsReadOnly() bool
}

type CreateTableStmt struct {
	Table   string
	Columns []store.ColumnDefinition
}

type InsertStmt struct {
	Table  string
	Values []Literal
}

// Predicate is a single-column equality constraint.
type Predicate struct {
	Column string
	Value  Literal
}

type SelectStmt struct {
	Table string
	// nil means no WHERE clause: all rows in position order
	Where *Predicate
}

func (CreateTableStmt) IsReadOnly() bool { return false }
func (InsertStmt) IsReadOnly() bool      { return false }
func (SelectStmt) IsReadOnly() bool      { return true }
