package kaleido

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// OperatorTable maps binary operator characters to their precedence. A
// higher precedence binds tighter. The table is immutable once built and may
// be shared between concurrent compilations.
type OperatorTable struct {
	prec map[rune]int
}

// reservedChars are punctuation characters the grammar already gives a
// meaning to.
const reservedChars = "(),;#"

func NewOperatorTable(ops map[rune]int) (*OperatorTable, error) {
	t := &OperatorTable{prec: make(map[rune]int, len(ops))}
	for r, p := range ops {
		if r > unicode.MaxASCII || !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return nil, fmt.Errorf("%w: operator %q is not ASCII punctuation", ErrInvalidOptions, r)
		}

		if strings.ContainsRune(reservedChars, r) {
			return nil, fmt.Errorf("%w: operator %q is reserved", ErrInvalidOptions, r)
		}

		if p < 1 {
			return nil, fmt.Errorf("%w: operator %q has precedence %d, must be at least 1", ErrInvalidOptions, r, p)
		}

		t.prec[r] = p
	}

	return t, nil
}

func DefaultOperatorTable() *OperatorTable {
	return &OperatorTable{
		prec: map[rune]int{
			'<': 10,
			'+': 20,
			'-': 20,
			'*': 40,
		},
	}
}

// Precedence returns the precedence of r, or -1 if r is not a binary
// operator.
func (t *OperatorTable) Precedence(r rune) int {
	if p, ok := t.prec[r]; ok {
		return p
	}

	return -1
}

func (t *OperatorTable) IsBinaryOperator(tok Token) bool {
	return tok.Typ == TokenChar && t.Precedence(tok.Char()) > 0
}

// tokenPrecedence is Precedence for an arbitrary token.
func (t *OperatorTable) tokenPrecedence(tok Token) int {
	if tok.Typ != TokenChar {
		return -1
	}

	return t.Precedence(tok.Char())
}

func (t *OperatorTable) String() string {
	ops := make([]rune, 0, len(t.prec))
	for r := range t.prec {
		ops = append(ops, r)
	}

	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	var str strings.Builder
	for i, r := range ops {
		if i > 0 {
			str.WriteString(" ")
		}

		fmt.Fprintf(&str, "%c=%d", r, t.prec[r])
	}

	return str.String()
}
