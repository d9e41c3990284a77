package parser_test

import (
	"strconv"
	"testing"

	"github.com/sandrolain/goxq/pkg/parser"
	"github.com/sandrolain/goxq/pkg/types"
)

// render prints an AST in a compact prefix notation.
func render(n *types.ASTNode) string {
	switch n.Type {
	case types.NodeString:
		return `"` + n.StrValue + `"`
	case types.NodeNumber:
		if n.IsInt {
			return "int(" + formatNum(n.NumValue) + ")"
		}
		return "dbl(" + formatNum(n.NumValue) + ")"
	case types.NodeContext:
		return "."
	case types.NodeSequence:
		s := "seq("
		for i, e := range n.Expressions {
			if i > 0 {
				s += ","
			}
			s += render(e)
		}
		return s + ")"
	case types.NodeFunction:
		s := n.StrValue + "("
		for i, a := range n.Arguments {
			if i > 0 {
				s += ","
			}
			s += render(a)
		}
		return s + ")"
	case types.NodeStep:
		return n.Axis + "(" + render(n.LHS) + "," + n.StrValue + ")"
	}
	return "?"
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"abc"`, `"abc"`},
		{`42`, `int(42)`},
		{`-3`, `int(-3)`},
		{`2.5`, `dbl(2.5)`},
		{`()`, `seq()`},
		{`(1, "a")`, `seq(int(1),"a")`},
		{`1, 2, 3`, `seq(int(1),int(2),int(3))`},
		{`random()`, `random()`},
		{`db("x", 2)`, `db("x",int(2))`},
		{`basex:index("term", "fulltext")`, `basex:index("term","fulltext")`},
		{`.`, `.`},
		{`title`, `child(.,title)`},
		{`book/title`, `child(child(.,book),title)`},
		{`db("x")//title/text()`, `child(descendant(db("x"),title),text())`},
		{`.//node()`, `descendant(.,node())`},
		{`*/comment()`, `child(child(.,*),comment())`},
		{`processing-instruction()`, `child(.,processing-instruction())`},
		{`count((: inline :) (1, 2))`, `count(seq(int(1),int(2)))`},
		{`f(g(h()))`, `f(g(h()))`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := render(expr.AST()); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
			if expr.Source() != tt.input {
				t.Fatalf("expected source %q, got %q", tt.input, expr.Source())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"", 0},
		{"(1, 2", 5},
		{"f(1,)", 4},
		{"1 2", 2},
		{"-abc", 1},
		{"a/", 2},
		{`"open`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			if types.CodeOf(err) != types.ErrSyntax {
				t.Fatalf("expected %s, got %v", types.ErrSyntax, err)
			}
			qe, ok := err.(*types.Error)
			if !ok {
				t.Fatalf("expected *types.Error, got %T", err)
			}
			if qe.Position != tt.pos {
				t.Fatalf("expected position %d, got %d (%v)", tt.pos, qe.Position, err)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	deep := "((((((1))))))"
	if _, err := parser.Compile(deep, parser.WithMaxDepth(3)); types.CodeOf(err) != types.ErrSyntax {
		t.Fatalf("expected depth error, got %v", err)
	}
	if _, err := parser.Compile(deep, parser.WithMaxDepth(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
