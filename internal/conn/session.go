package conn

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/linedb/linedb/internal/parser"
	"github.com/linedb/linedb/internal/query"
	"github.com/linedb/linedb/pkg"
)

// HandleConnection runs one session: read a query line, execute it,
// write the response block, repeat until the peer goes away.
// Sessions share nothing but the database; all blocking happens on
// the connection, never while holding the database lock.
func (s *Server) HandleConnection(ctx context.Context, conn net.Conn) {
	session := uuid.NewString()[:8]
	pkg.InfoLog("session", session, "opened from", conn.RemoteAddr())
	defer pkg.InfoLog("session", session, "closed")
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if len(line) == 0 {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					pkg.ErrorLog("session", session, "read error;", err)
				}
				return
			}
			// final line without a newline still gets served
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := s.HandleQuery(ctx, line)
		if _, werr := conn.Write([]byte(response + "\n")); werr != nil {
			pkg.ErrorLog("session", session, "write error;", werr)
			return
		}
		if err != nil {
			return
		}
	}
}

// HandleQuery runs one query line through parse and execute and
// formats the response. After a successful write it hands the
// snapshot manager its trigger check.
func (s *Server) HandleQuery(ctx context.Context, line string) string {
	stmt, err := parser.Parse(line)
	if err != nil {
		return FormatError(err)
	}

	res, err := query.Execute(s.DB, stmt)
	if err != nil {
		return FormatError(err)
	}

	if !stmt.IsReadOnly() && s.Snapshots != nil {
		s.Snapshots.Observe(ctx)
	}
	return FormatResult(res)
}
