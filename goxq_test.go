package goxq_test

import (
	"context"
	"testing"

	"github.com/sandrolain/goxq"
	"github.com/sandrolain/goxq/pkg/storage/memdb"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

const books = `<books><book><title>XML Basics</title></book><book><title>Go</title></book></books>`

func TestEval(t *testing.T) {
	db, err := memdb.ParseString("books", books, memdb.WithAllIndexes())
	if err != nil {
		t.Fatal(err)
	}
	v, err := goxq.Eval(`count(.//book)`, db)
	if err != nil {
		t.Fatal(err)
	}
	if v != value.Value(value.Int(2)) {
		t.Fatalf("expected 2, got %v", v)
	}

	v, err = goxq.Eval(`string(db("books")//title)`, nil, goxq.WithCatalog(memdb.NewCatalog(db)))
	if types.CodeOf(err) != types.ErrType {
		t.Fatalf("expected %s for two titles, got %v %v", types.ErrType, v, err)
	}
}

func TestPrepare(t *testing.T) {
	db, err := memdb.ParseString("books", books, memdb.WithFullTextIndex())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	q, err := goxq.Prepare(ctx, `index("xml", "fulltext")`, db)
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Plan(); got != `ft-index-access("xml")` {
		t.Fatalf("unexpected plan %q", got)
	}
	for range 2 {
		v, err := q.Value(ctx)
		if err != nil {
			t.Fatal(err)
		}
		s, err := value.SerializeValue(v, "")
		if err != nil {
			t.Fatal(err)
		}
		if s != "XML Basics" {
			t.Fatalf("expected XML Basics, got %q", s)
		}
	}
}

func TestMustCompile(t *testing.T) {
	if expr := goxq.MustCompile(`count(())`); expr.Source() != `count(())` {
		t.Fatalf("unexpected source %q", expr.Source())
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	goxq.MustCompile(`count(`)
}

func TestVersion(t *testing.T) {
	if goxq.Version() == "" {
		t.Fatal("expected a version")
	}
}
