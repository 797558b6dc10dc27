package test

import (
	"fmt"
	"math/rand"
	"strings"
)

const validTokens = "def;extern;foo;bar;x;y;1;2.5;42.0;(;);+;-;*;<;,;# this is a comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")
	valid = append(valid, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

var identifiers = []string{"a", "b", "x", "y", "foo"}

// GetRandomExpression returns the source of a syntactically valid expression
// nested at most depth levels, using the binary operators in ops.
func GetRandomExpression(r *rand.Rand, ops string, depth int) string {
	var str strings.Builder
	writeExpression(r, &str, ops, depth)

	return str.String()
}

func writeExpression(r *rand.Rand, str *strings.Builder, ops string, depth int) {
	writePrimary(r, str, ops, depth)

	if depth <= 0 || len(ops) == 0 {
		return
	}

	for n := r.Intn(4); n > 0; n-- {
		fmt.Fprintf(str, " %c ", ops[r.Intn(len(ops))])
		writePrimary(r, str, ops, depth-1)
	}
}

func writePrimary(r *rand.Rand, str *strings.Builder, ops string, depth int) {
	kinds := 2 // Only literals and variables at the deepest level
	if depth > 0 {
		kinds = 4
	}

	switch r.Intn(kinds) {
	case 0:
		fmt.Fprintf(str, "%d", r.Intn(100))
	case 1:
		str.WriteString(identifiers[r.Intn(len(identifiers))])
	case 2:
		str.WriteString("(")
		writeExpression(r, str, ops, depth-1)
		str.WriteString(")")
	default:
		str.WriteString(identifiers[r.Intn(len(identifiers))])
		str.WriteString("(")
		for i, n := 0, r.Intn(3); i < n; i++ {
			if i > 0 {
				str.WriteString(", ")
			}

			writeExpression(r, str, ops, depth-1)
		}
		str.WriteString(")")
	}
}
