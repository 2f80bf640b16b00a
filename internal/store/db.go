package store

import (
	"sync"
	"sync/atomic"

	"github.com/linedb/linedb/pkg"
)

// Database is the single root of shared state. Sessions coordinate
// through its readers-writer lock: any number of selects may hold
// the read side together, while create/insert take the write side.
// The lock is never held across network or disk I/O.
type Database struct {
	Locker sync.RWMutex
	// table name -> table
	Tables pkg.Map[string, *Table]

	// successful writes since the last snapshot
	writes atomic.Int64
}

func NewDatabase() *Database {
	return &Database{Tables: pkg.Map[string, *Table]{}}
}

func (db *Database) GetLocker() *sync.RWMutex { return &db.Locker }

// CreateTable adds a new table. The caller must hold the write lock.
func (db *Database) CreateTable(name string, schema *Schema) (*Table, error) {
	if db.Tables.Has(name) {
		return nil, NewError(ErrDuplicateTable, "table %s already exists", name)
	}
	t := NewTable(name, schema)
	db.Tables.Set(name, t)
	return t, nil
}

// Table returns the named table. The caller must hold at least the
// read lock.
func (db *Database) Table(name string) (*Table, error) {
	if !db.Tables.Has(name) {
		return nil, NewError(ErrUnknownTable, "table %s does not exist", name)
	}
	return db.Tables.Get(name), nil
}

func (db *Database) RecordWrite()           { db.writes.Add(1) }
func (db *Database) WritesSinceSave() int64 { return db.writes.Load() }

// ConsumeWrites subtracts writes that made it into a snapshot,
// leaving any that landed after the state was cloned still pending.
func (db *Database) ConsumeWrites(n int64) { db.writes.Add(-n) }
func (db *Database) ResetWritesSinceSave() { db.writes.Store(0) }
