package parser

import (
	"strings"

	"github.com/linedb/linedb/internal/store"
)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenString
	tokenLParen
	tokenRParen
	tokenComma
	tokenEq
	tokenStar
)

type token struct {
	kind tokenKind
	text string
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokenWord && strings.EqualFold(t.text, kw)
}

// tokenize splits one query line into tokens. Whitespace between
// tokens is flexible; quotes delimit string literals and must be
// closed on the same line.
func tokenize(line string) ([]token, error) {
	tokens := []token{}
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")"})
			i++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ","})
			i++
		case c == '=':
			tokens = append(tokens, token{tokenEq, "="})
			i++
		case c == '*':
			tokens = append(tokens, token{tokenStar, "*"})
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(line[i+1:], c)
			if end < 0 {
				return nil, store.NewError(store.ErrSyntax, "unterminated string literal")
			}
			tokens = append(tokens, token{tokenString, line[i+1 : i+1+end]})
			i += end + 2
		default:
			start := i
			for i < len(line) && !isWordBreak(line[i]) {
				i++
			}
			tokens = append(tokens, token{tokenWord, line[start:i]})
		}
	}
	return tokens, nil
}

func isWordBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '(', ')', ',', '=', '*', '\'', '"':
		return true
	}
	return false
}

func isIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
