package parser

import (
	"github.com/linedb/linedb/internal/store"
)

// Parse turns one line of query text into a statement. Keywords are
// case-insensitive; anything left over after a complete statement is
// a syntax error.
func Parse(line string) (Statement, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, store.NewError(store.ErrSyntax, "empty query")
	}

	p := &parser{tokens: tokens}

	var stmt Statement
	switch {
	case tokens[0].isKeyword("create"):
		stmt, err = p.createTable()
	case tokens[0].isKeyword("insert"):
		stmt, err = p.insert()
	case tokens[0].isKeyword("select"):
		stmt, err = p.selectStmt()
	default:
		return nil, store.NewError(store.ErrSyntax, "unknown command %q", tokens[0].text)
	}
	if err != nil {
		return nil, err
	}

	if !p.done() {
		return nil, store.NewError(store.ErrSyntax, "unexpected %q after statement", p.peek().text)
	}
	return stmt, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() token {
	if p.done() {
		return token{}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() (token, bool) {
	if p.done() {
		return token{}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *parser) expectKeyword(kw string) error {
	t, ok := p.next()
	if !ok || !t.isKeyword(kw) {
		return store.NewError(store.ErrSyntax, "expected %s", kw)
	}
	return nil
}

func (p *parser) expectPunct(kind tokenKind, what string) error {
	t, ok := p.next()
	if !ok || t.kind != kind {
		return store.NewError(store.ErrSyntax, "expected %s", what)
	}
	return nil
}

func (p *parser) ident(what string) (string, error) {
	t, ok := p.next()
	if !ok || t.kind != tokenWord || !isIdent(t.text) {
		return "", store.NewError(store.ErrSyntax, "expected %s", what)
	}
	return t.text, nil
}

func (p *parser) literal() (Literal, error) {
	t, ok := p.next()
	if !ok {
		return Literal{}, store.NewError(store.ErrSyntax, "expected value")
	}
	switch t.kind {
	case tokenString:
		return Literal{Raw: t.text, Quoted: true}, nil
	case tokenWord:
		return Literal{Raw: t.text}, nil
	}
	return Literal{}, store.NewError(store.ErrSyntax, "expected value, got %q", t.text)
}

// CREATE TABLE <name> (<col> <type>, ...)
func (p *parser) createTable() (Statement, error) {
	p.pos++ // CREATE
	if err := p.expectKeyword("table"); err != nil {
		return nil, err
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(tokenLParen, "("); err != nil {
		return nil, err
	}

	columns := []store.ColumnDefinition{}
	for {
		colName, err := p.ident("column name")
		if err != nil {
			return nil, err
		}
		typeName, err := p.ident("column type")
		if err != nil {
			return nil, err
		}
		colType, ok := store.ParseColumnType(typeName)
		if !ok {
			return nil, store.NewError(store.ErrSyntax, "unknown column type %q", typeName)
		}
		columns = append(columns, store.ColumnDefinition{Name: colName, Type: colType})

		t, ok := p.next()
		if !ok {
			return nil, store.NewError(store.ErrSyntax, "expected , or )")
		}
		if t.kind == tokenRParen {
			break
		}
		if t.kind != tokenComma {
			return nil, store.NewError(store.ErrSyntax, "expected , or ), got %q", t.text)
		}
	}

	return CreateTableStmt{Table: name, Columns: columns}, nil
}

// INSERT INTO <name> VALUES (<v1>, <v2>, ...)
func (p *parser) insert() (Statement, error) {
	p.pos++ // INSERT
	if err := p.expectKeyword("into"); err != nil {
		return nil, err
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("values"); err != nil {
		return nil, err
	}
	if err := p.expectPunct(tokenLParen, "("); err != nil {
		return nil, err
	}

	values := []Literal{}
	for {
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		values = append(values, lit)

		t, ok := p.next()
		if !ok {
			return nil, store.NewError(store.ErrSyntax, "expected , or )")
		}
		if t.kind == tokenRParen {
			break
		}
		if t.kind != tokenComma {
			return nil, store.NewError(store.ErrSyntax, "expected , or ), got %q", t.text)
		}
	}

	return InsertStmt{Table: name, Values: values}, nil
}

// SELECT * FROM <name> [WHERE <col> = <value>]
func (p *parser) selectStmt() (Statement, error) {
	p.pos++ // SELECT
	if err := p.expectPunct(tokenStar, "*"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}

	stmt := SelectStmt{Table: name}
	if p.done() {
		return stmt, nil
	}

	if err := p.expectKeyword("where"); err != nil {
		return nil, err
	}
	column, err := p.ident("column name")
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(tokenEq, "="); err != nil {
		return nil, err
	}
	value, err := p.literal()
	if err != nil {
		return nil, err
	}
	stmt.Where = &Predicate{Column: column, Value: value}
	return stmt, nil
}
