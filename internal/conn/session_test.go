package conn_test

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"

	. "github.com/linedb/linedb/internal/conn"
	"github.com/linedb/linedb/internal/query"
	"github.com/linedb/linedb/internal/store"
	"gotest.tools/assert"
)

func newTestServer() *Server {
	return &Server{DB: store.NewDatabase()}
}

// readBlock reads response lines up to and including the OK/ERR
// terminator line.
func readBlock(t *testing.T, r *bufio.Reader) []string {
	t.Helper()
	block := []string{}
	for {
		line, err := r.ReadString('\n')
		assert.NilError(t, err)
		line = strings.TrimRight(line, "\n")
		block = append(block, line)
		if strings.HasPrefix(line, "OK ") || strings.HasPrefix(line, "ERR ") {
			return block
		}
	}
}

func TestSessionScenario(t *testing.T) {
	srv := newTestServer()
	client, server := net.Pipe()
	defer client.Close()
	go srv.HandleConnection(context.Background(), server)

	reader := bufio.NewReader(client)
	send := func(q string) []string {
		t.Helper()
		_, err := client.Write([]byte(q + "\n"))
		assert.NilError(t, err)
		return readBlock(t, reader)
	}

	assert.DeepEqual(t, send("CREATE TABLE users (id integer, name text)"),
		[]string{"OK created table users"})

	assert.DeepEqual(t, send("INSERT INTO users VALUES (1, alice)"),
		[]string{"OK inserted row 0 into users"})
	assert.DeepEqual(t, send("INSERT INTO users VALUES (2, bob)"),
		[]string{"OK inserted row 1 into users"})

	assert.DeepEqual(t, send("SELECT * FROM users WHERE id = 1"),
		[]string{"1 | alice", "OK 1 rows"})

	assert.DeepEqual(t, send("SELECT * FROM users"),
		[]string{"1 | alice", "2 | bob", "OK 2 rows"})

	// duplicated index value maps one key to two row positions
	assert.DeepEqual(t, send("INSERT INTO users VALUES (1, carol)"),
		[]string{"OK inserted row 2 into users"})
	assert.DeepEqual(t, send("SELECT * FROM users WHERE id = 1"),
		[]string{"1 | alice", "1 | carol", "OK 2 rows"})

	// empty result is an explicit marker, not silence
	assert.DeepEqual(t, send("SELECT * FROM users WHERE id = 99"),
		[]string{"OK 0 rows"})

	// errors are tagged and do not poison the session
	assert.DeepEqual(t, send("SELECT * FROM ghosts"),
		[]string{"ERR UnknownTable: table ghosts does not exist"})
	assert.DeepEqual(t, send("SELEKT * FROM users"),
		[]string{`ERR SyntaxError: unknown command "SELEKT"`})
	assert.DeepEqual(t, send("SELECT * FROM users WHERE id = 2"),
		[]string{"2 | bob", "OK 1 rows"})
}

func TestSessionSkipsBlankLines(t *testing.T) {
	srv := newTestServer()
	client, server := net.Pipe()
	defer client.Close()
	go srv.HandleConnection(context.Background(), server)

	reader := bufio.NewReader(client)
	_, err := client.Write([]byte("\n   \nCREATE TABLE t (a integer)\n"))
	assert.NilError(t, err)
	assert.DeepEqual(t, readBlock(t, reader), []string{"OK created table t"})
}

func TestSessionsShareDatabase(t *testing.T) {
	srv := newTestServer()

	open := func() (net.Conn, *bufio.Reader) {
		client, server := net.Pipe()
		go srv.HandleConnection(context.Background(), server)
		return client, bufio.NewReader(client)
	}

	c1, r1 := open()
	defer c1.Close()
	c2, r2 := open()
	defer c2.Close()

	c1.Write([]byte("CREATE TABLE shared (n integer)\n"))
	readBlock(t, r1)
	c1.Write([]byte("INSERT INTO shared VALUES (7)\n"))
	readBlock(t, r1)

	c2.Write([]byte("SELECT * FROM shared\n"))
	assert.DeepEqual(t, readBlock(t, r2), []string{"7", "OK 1 rows"})
}

func TestFormatResult(t *testing.T) {
	res := &query.Result{Kind: query.ResultRows, Table: "users", Rows: []store.Row{
		{store.IntValue(1), store.TextValue("alice")},
	}}
	assert.Equal(t, FormatResult(res), "1 | alice\nOK 1 rows")

	res = &query.Result{Kind: query.ResultRows, Table: "users"}
	assert.Equal(t, FormatResult(res), "OK 0 rows")

	res = &query.Result{Kind: query.ResultInserted, Table: "users", Position: 4}
	assert.Equal(t, FormatResult(res), "OK inserted row 4 into users")
}

func TestFormatError(t *testing.T) {
	err := store.NewError(store.ErrTypeMismatch, "value %q is not an integer", "abc")
	assert.Equal(t, FormatError(err), `ERR TypeMismatch: value "abc" is not an integer`)
}
