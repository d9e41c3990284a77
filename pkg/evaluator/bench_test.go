package evaluator_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sandrolain/goxq/pkg/evaluator"
	"github.com/sandrolain/goxq/pkg/parser"
	"github.com/sandrolain/goxq/pkg/storage/memdb"
	"github.com/sandrolain/goxq/pkg/types"
)

// catalogDoc builds a document with n book elements.
func catalogDoc(n int) string {
	var sb strings.Builder
	sb.WriteString("<catalog>")
	for i := range n {
		fmt.Fprintf(&sb, `<book id="b%d"><title>Title %d</title><genre>g%d</genre></book>`, i, i, i%5)
	}
	sb.WriteString("</catalog>")
	return sb.String()
}

func benchDB(b *testing.B, n int) *memdb.DB {
	b.Helper()
	db, err := memdb.ParseString("catalog", catalogDoc(n), memdb.WithAllIndexes())
	if err != nil {
		b.Fatal(err)
	}
	return db
}

func BenchmarkCompile(b *testing.B) {
	db := benchDB(b, 10)
	ev := evaluator.New()
	queries := map[string]string{
		"folded": `count(replicate("a", 1000000))`,
		"path":   `count(.//book/title)`,
		"index":  `index("g1", "text")`,
	}
	for name, q := range queries {
		expr, err := parser.Compile(q)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := ev.Prepare(context.Background(), expr, db); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEval(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		db := benchDB(b, n)
		ev := evaluator.New()
		for name, q := range map[string]string{
			"descendant": `count(.//title)`,
			"index":      `count(index("g1", "text"))`,
			"fulltext":   `count(index("title 1", "fulltext"))`,
		} {
			query, err := ev.Compile(context.Background(), q, db)
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("%s/%d", name, n), func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					if _, err := query.Value(context.Background()); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkEvalMany(b *testing.B) {
	db := benchDB(b, 100)
	exprs := make([]*types.Expression, 16)
	for i := range exprs {
		expr, err := parser.Compile(fmt.Sprintf(`count(index("g%d", "text"))`, i%5))
		if err != nil {
			b.Fatal(err)
		}
		exprs[i] = expr
	}
	for _, concurrent := range []bool{false, true} {
		ev := evaluator.New(evaluator.WithConcurrency(concurrent))
		b.Run(fmt.Sprintf("concurrent=%v", concurrent), func(b *testing.B) {
			for b.Loop() {
				if _, err := ev.EvalMany(context.Background(), exprs, db); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
