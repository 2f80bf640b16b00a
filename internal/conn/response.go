package conn

import (
	"fmt"
	"strings"

	"github.com/linedb/linedb/internal/query"
	"github.com/linedb/linedb/internal/store"
)

// FieldSeparator joins row values in SELECT output.
const FieldSeparator = " | "

// FormatResult renders a result as response text. Every response
// ends with exactly one OK line, so multi-line row blocks are
// self-delimiting and an empty result is an explicit "OK 0 rows",
// never silence.
func FormatResult(res *query.Result) string {
	switch res.Kind {
	case query.ResultCreated:
		return fmt.Sprintf("OK created table %s", res.Table)
	case query.ResultInserted:
		return fmt.Sprintf("OK inserted row %d into %s", res.Position, res.Table)
	case query.ResultRows:
		var b strings.Builder
		for _, row := range res.Rows {
			b.WriteString(formatRow(row))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "OK %d rows", len(res.Rows))
		return b.String()
	}
	return fmt.Sprintf("ERR Internal: unhandled result kind %d", res.Kind)
}

func formatRow(row store.Row) string {
	fields := make([]string, len(row))
	for i, v := range row {
		fields[i] = v.String()
	}
	return strings.Join(fields, FieldSeparator)
}

// FormatError renders a failure as a single ERR line tagged with the
// taxonomy kind.
func FormatError(err error) string {
	if e, ok := err.(*store.Error); ok {
		return fmt.Sprintf("ERR %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("ERR Internal: %s", err)
}
