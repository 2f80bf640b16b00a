package query_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/linedb/linedb/internal/parser"
	. "github.com/linedb/linedb/internal/query"
	"github.com/linedb/linedb/internal/store"
	"gotest.tools/assert"
)

func exec(t *testing.T, db *store.Database, line string) (*Result, error) {
	t.Helper()
	stmt, err := parser.Parse(line)
	assert.NilError(t, err, line)
	return Execute(db, stmt)
}

func mustExec(t *testing.T, db *store.Database, line string) *Result {
	t.Helper()
	res, err := exec(t, db, line)
	assert.NilError(t, err, line)
	return res
}

func TestExecuteScenario(t *testing.T) {
	db := store.NewDatabase()

	res := mustExec(t, db, "CREATE TABLE users (id integer, name text)")
	assert.Equal(t, res.Kind, ResultCreated)
	assert.Equal(t, res.Table, "users")

	res = mustExec(t, db, "INSERT INTO users VALUES (1, alice)")
	assert.Equal(t, res.Kind, ResultInserted)
	assert.Equal(t, res.Position, 0)

	res = mustExec(t, db, "INSERT INTO users VALUES (2, bob)")
	assert.Equal(t, res.Position, 1)

	res = mustExec(t, db, "SELECT * FROM users WHERE id = 1")
	assert.Equal(t, len(res.Rows), 1)
	assert.DeepEqual(t, res.Rows[0], store.Row{store.IntValue(1), store.TextValue("alice")})

	res = mustExec(t, db, "SELECT * FROM users")
	assert.Equal(t, len(res.Rows), 2)
	assert.DeepEqual(t, res.Rows[0], store.Row{store.IntValue(1), store.TextValue("alice")})
	assert.DeepEqual(t, res.Rows[1], store.Row{store.IntValue(2), store.TextValue("bob")})

	// duplicate indexed value: no uniqueness constraint
	res = mustExec(t, db, "INSERT INTO users VALUES (1, carol)")
	assert.Equal(t, res.Position, 2)

	res = mustExec(t, db, "SELECT * FROM users WHERE id = 1")
	assert.Equal(t, len(res.Rows), 2)
	assert.DeepEqual(t, res.Rows[0], store.Row{store.IntValue(1), store.TextValue("alice")})
	assert.DeepEqual(t, res.Rows[1], store.Row{store.IntValue(1), store.TextValue("carol")})
}

func TestExecuteErrors(t *testing.T) {
	db := store.NewDatabase()
	mustExec(t, db, "CREATE TABLE users (id integer, name text)")

	t.Run("unknown table", func(t *testing.T) {
		_, err := exec(t, db, "SELECT * FROM ghosts")
		assert.Equal(t, store.KindOf(err), store.ErrUnknownTable)
		_, err = exec(t, db, "INSERT INTO ghosts VALUES (1)")
		assert.Equal(t, store.KindOf(err), store.ErrUnknownTable)

		// the failure must not poison later queries
		mustExec(t, db, "SELECT * FROM users")
	})

	t.Run("duplicate table", func(t *testing.T) {
		_, err := exec(t, db, "CREATE TABLE users (other text)")
		assert.Equal(t, store.KindOf(err), store.ErrDuplicateTable)

		// existing table unchanged
		res := mustExec(t, db, "SELECT * FROM users")
		assert.Equal(t, res.Kind, ResultRows)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := exec(t, db, "SELECT * FROM users WHERE age = 3")
		assert.Equal(t, store.KindOf(err), store.ErrUnknownColumn)
	})

	t.Run("column count mismatch", func(t *testing.T) {
		_, err := exec(t, db, "INSERT INTO users VALUES (1)")
		assert.Equal(t, store.KindOf(err), store.ErrColumnCountMismatch)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := exec(t, db, "INSERT INTO users VALUES (abc, bob)")
		assert.Equal(t, store.KindOf(err), store.ErrTypeMismatch)

		// rejected row must not appear anywhere
		res := mustExec(t, db, "SELECT * FROM users")
		assert.Equal(t, len(res.Rows), 0)
	})

	t.Run("duplicate column", func(t *testing.T) {
		_, err := exec(t, db, "CREATE TABLE bad (a integer, a text)")
		assert.Equal(t, store.KindOf(err), store.ErrDuplicateColumn)
		_, err = exec(t, db, "SELECT * FROM bad")
		assert.Equal(t, store.KindOf(err), store.ErrUnknownTable)
	})
}

func TestExecuteQuotedPredicate(t *testing.T) {
	db := store.NewDatabase()
	mustExec(t, db, "CREATE TABLE users (id integer, name text)")
	mustExec(t, db, "INSERT INTO users VALUES (1, 'alice smith')")

	res := mustExec(t, db, "SELECT * FROM users WHERE name = 'alice smith'")
	assert.Equal(t, len(res.Rows), 1)

	// quoted literal against an integer column is a type mismatch
	_, err := exec(t, db, "SELECT * FROM users WHERE id = '1'")
	assert.Equal(t, store.KindOf(err), store.ErrTypeMismatch)
}

func TestConcurrentInsertsLinearized(t *testing.T) {
	db := store.NewDatabase()
	mustExec(t, db, "CREATE TABLE events (n integer)")

	const n = 64
	positions := make([]int, n)
	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := mustExec(t, db, fmt.Sprintf("INSERT INTO events VALUES (%d)", i))
			positions[i] = res.Position
		}()
	}
	wg.Wait()

	// every position 0..n-1 assigned exactly once
	seen := make([]bool, n)
	for _, pos := range positions {
		assert.Assert(t, pos >= 0 && pos < n)
		assert.Assert(t, !seen[pos], "position %d assigned twice", pos)
		seen[pos] = true
	}

	res := mustExec(t, db, "SELECT * FROM events")
	assert.Equal(t, len(res.Rows), n)
	assert.Equal(t, db.WritesSinceSave(), int64(n+1))
}

func TestIdempotentRead(t *testing.T) {
	db := store.NewDatabase()
	mustExec(t, db, "CREATE TABLE users (id integer, name text)")
	mustExec(t, db, "INSERT INTO users VALUES (1, alice)")
	mustExec(t, db, "INSERT INTO users VALUES (2, bob)")

	first := mustExec(t, db, "SELECT * FROM users WHERE id = 2")
	second := mustExec(t, db, "SELECT * FROM users WHERE id = 2")
	assert.DeepEqual(t, first.Rows, second.Rows)
}
