package parser_test

import (
	"testing"

	"github.com/sandrolain/goxq/pkg/parser"
)

func FuzzParser(f *testing.F) {
	seeds := []string{
		`.//title`,
		`db("books", 3)/text()`,
		`basex:index("xml", "fulltext")`,
		`count((1, 2.5, -3e2))`,
		`eval("eval('1')")`,
		`(: comment :) .`,
		``,
		`(`,
		`"open`,
		`count(`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := parser.Compile(input)
		if err == nil && expr.AST() == nil {
			t.Fatalf("nil tree without error for %q", input)
		}
	})
}
