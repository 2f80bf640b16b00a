package store

import (
	"fmt"
	"strconv"
	"strings"
)

type ColumnType string

const (
	TypeInt  ColumnType = "integer"
	TypeText ColumnType = "text"
)

func ParseColumnType(s string) (ColumnType, bool) {
	switch strings.ToLower(s) {
	case "integer", "int":
		return TypeInt, true
	case "text", "string":
		return TypeText, true
	}
	return "", false
}

type ValueKind uint8

const (
	KindInt ValueKind = iota
	KindText
)

// Value is the tagged union stored in rows and index keys.
// Exactly one of Int/Text is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Int  int64
	Text string
}

func IntValue(n int64) Value   { return Value{Kind: KindInt, Int: n} }
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

func (v Value) Type() ColumnType {
	if v.Kind == KindInt {
		return TypeInt
	}
	return TypeText
}

func (v Value) String() string {
	if v.Kind == KindInt {
		return strconv.FormatInt(v.Int, 10)
	}
	return v.Text
}

// Less orders values of the same kind: numeric for integers,
// lexicographic for text. Mixed kinds never meet in one index
// because a column has a single declared type.
func (v Value) Less(other Value) bool {
	if v.Kind == KindInt {
		return v.Int < other.Int
	}
	return v.Text < other.Text
}

func (v Value) Equal(other Value) bool {
	return v.Kind == other.Kind && v.Int == other.Int && v.Text == other.Text
}

// CoerceValue binds a raw literal token to a column type. Quoted
// literals are always text; unquoted tokens must parse as a base-10
// integer for integer columns and are taken verbatim for text columns.
func CoerceValue(raw string, quoted bool, col ColumnType) (Value, error) {
	switch col {
	case TypeInt:
		if quoted {
			return Value{}, NewError(ErrTypeMismatch, "quoted value %q is not an integer", raw)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, NewError(ErrTypeMismatch, "value %q is not an integer", raw)
		}
		return IntValue(n), nil
	case TypeText:
		return TextValue(raw), nil
	}
	return Value{}, fmt.Errorf("unhandled column type %q", col)
}
