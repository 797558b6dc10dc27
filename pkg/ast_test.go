package kaleido

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTypesDocumented(t *testing.T) {
	file, err := parser.ParseFile(token.NewFileSet(), "ast.go", nil, parser.ParseComments)
	require.NoError(t, err)

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if !ts.Name.IsExported() {
				continue
			}

			doc := gen.Doc
			if ts.Doc != nil {
				doc = ts.Doc
			}

			assert.NotNil(t, doc, "%s has no doc comment", ts.Name.Name)
		}
	}
}
