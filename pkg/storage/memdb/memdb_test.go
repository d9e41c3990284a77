package memdb_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/storage/memdb"
)

const library = `<?xml version="1.0"?>
<library>
  <book id="b1" lang="en"><title>Go Programming</title><!--note--><?render fast?></book>
  <book id="b2"><title>XML Basics</title></book>
</library>`

func mustParse(t *testing.T, opts ...memdb.Option) *memdb.DB {
	t.Helper()
	db, err := memdb.ParseString("lib", library, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func drain(it storage.IDIter) []int {
	var out []int
	for pre, ok := it.Next(); ok; pre, ok = it.Next() {
		out = append(out, pre)
	}
	return out
}

func TestParseTable(t *testing.T) {
	db := mustParse(t)
	if got := db.Size(); got != 13 {
		t.Fatalf("expected 13 nodes, got %d", got)
	}
	kinds := []storage.Kind{
		storage.KindDocument, storage.KindElement, storage.KindElement, storage.KindAttribute,
		storage.KindAttribute, storage.KindElement, storage.KindText, storage.KindComment,
		storage.KindPI, storage.KindElement, storage.KindAttribute, storage.KindElement, storage.KindText,
	}
	for pre, want := range kinds {
		if got := db.Kind(pre); got != want {
			t.Errorf("pre %d: expected %s, got %s", pre, want, got)
		}
	}
	if got := db.NodeName(8); got != "render" {
		t.Errorf("expected PI target render, got %q", got)
	}
	if got := string(db.Text(8)); got != "fast" {
		t.Errorf("expected PI value fast, got %q", got)
	}
	if got := db.ID(5); got != 5 {
		t.Errorf("expected id 5, got %d", got)
	}
}

func TestNavigation(t *testing.T) {
	db := mustParse(t)
	tests := []struct {
		name string
		fn   func(int) (int, bool)
		pre  int
		want int
		ok   bool
	}{
		{"first child of document", db.FirstChild, 0, 1, true},
		{"first child skips attributes", db.FirstChild, 2, 5, true},
		{"text has no children", db.FirstChild, 6, 0, false},
		{"empty element", db.FirstChild, 12, 0, false},
		{"sibling after subtree", db.NextSibling, 5, 7, true},
		{"sibling of comment", db.NextSibling, 7, 8, true},
		{"last child", db.NextSibling, 8, 0, false},
		{"next book", db.NextSibling, 2, 9, true},
		{"attribute has no sibling", db.NextSibling, 3, 0, false},
		{"document has no sibling", db.NextSibling, 0, 0, false},
		{"parent of attribute", db.Parent, 3, 2, true},
		{"parent of text", db.Parent, 12, 11, true},
		{"document has no parent", db.Parent, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fn(tt.pre)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
	if got := db.AttributeCount(2); got != 2 {
		t.Errorf("expected 2 attributes, got %d", got)
	}
	if got := storage.StringValue(db, 1); got != "Go ProgrammingXML Basics" {
		t.Errorf("unexpected string value %q", got)
	}
}

func TestWhitespace(t *testing.T) {
	db, err := memdb.ParseString("ws", "<a> <b/> </a>", memdb.WithWhitespace())
	if err != nil {
		t.Fatal(err)
	}
	if got := db.Size(); got != 5 {
		t.Fatalf("expected 5 nodes with whitespace kept, got %d", got)
	}
	db, err = memdb.ParseString("ws", "<a> <b/> </a>")
	if err != nil {
		t.Fatal(err)
	}
	if got := db.Size(); got != 3 {
		t.Fatalf("expected 3 nodes with whitespace chopped, got %d", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{"", "<a>", "<a/><b/>", "<a></b>"} {
		if _, err := memdb.ParseString("bad", doc); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestLookup(t *testing.T) {
	db := mustParse(t, memdb.WithAllIndexes())
	meta := db.Meta()
	if !meta.TextIndex || !meta.AttributeIndex || !meta.FullTextIndex {
		t.Fatalf("expected all indexes, got %+v", meta)
	}
	tests := []struct {
		name   string
		kind   storage.IndexKind
		tokens []string
		want   []int
	}{
		{"text exact", storage.IndexText, []string{"XML Basics"}, []int{12}},
		{"text miss", storage.IndexText, []string{"XML"}, nil},
		{"attribute", storage.IndexAttribute, []string{"en"}, []int{4}},
		{"fulltext single", storage.IndexFullText, []string{"xml"}, []int{12}},
		{"fulltext all tokens", storage.IndexFullText, []string{"go", "programming"}, []int{6}},
		{"fulltext conjunctive", storage.IndexFullText, []string{"go", "xml"}, nil},
		{"fulltext no tokens", storage.IndexFullText, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain(db.Lookup(tt.kind, tt.tokens...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("lookup mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupWithoutIndex(t *testing.T) {
	db := mustParse(t)
	if db.Meta().HasIndex(storage.IndexText) {
		t.Fatal("expected no text index")
	}
	if got := drain(db.Lookup(storage.IndexText, "XML Basics")); len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestLookupPrefix(t *testing.T) {
	db := mustParse(t, memdb.WithTextIndex(), memdb.WithAttributeIndex())
	if diff := cmp.Diff([]int{3, 10}, db.LookupPrefix(storage.IndexAttribute, "b")); diff != "" {
		t.Fatalf("attribute prefix mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{6}, db.LookupPrefix(storage.IndexText, "Go")); diff != "" {
		t.Fatalf("text prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt":     {Data: []byte("hello")},
		"sub/b.txt": {Data: []byte("xy")},
	}
	db, err := memdb.FromFS("files", fsys, ".", "/data", memdb.WithAttributeIndex())
	if err != nil {
		t.Fatal(err)
	}
	if !db.Meta().Filesystem {
		t.Fatal("expected filesystem flag")
	}
	if got := db.Size(); got != 12 {
		t.Fatalf("expected 12 nodes, got %d", got)
	}
	paths := map[int]string{1: "/data", 3: "/data/a.txt", 4: "/data/a.txt", 9: "/data/sub/b.txt"}
	for pre, want := range paths {
		got, ok := db.FSPath(pre)
		if !ok || got != want {
			t.Errorf("pre %d: expected %q, got %q (%v)", pre, want, got, ok)
		}
	}
	if got := string(db.Text(2)); got != "7" {
		t.Errorf("expected total size 7, got %q", got)
	}
	if diff := cmp.Diff([]int{8, 11}, drain(db.Lookup(storage.IndexAttribute, "2"))); diff != "" {
		t.Errorf("size index mismatch (-want +got):\n%s", diff)
	}
}

func TestFSPathNotFilesystem(t *testing.T) {
	db := mustParse(t)
	if _, ok := db.FSPath(1); ok {
		t.Fatal("expected no path for a document database")
	}
}

func TestCatalog(t *testing.T) {
	db := mustParse(t)
	c := memdb.NewCatalog(db)
	got, err := c.Open("lib")
	if err != nil {
		t.Fatal(err)
	}
	if got != storage.Data(db) {
		t.Fatal("expected the registered database")
	}
	_, err = c.Open("missing")
	var nf *storage.ErrNotFound
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Fatalf("expected not found error, got %v", err)
	}
	other, _ := memdb.ParseString("other", "<x/>")
	c.Add(other)
	if diff := cmp.Diff([]string{"lib", "other"}, c.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !c.Drop("other") || c.Drop("other") {
		t.Fatal("expected drop to succeed once")
	}
}

func TestTokenize(t *testing.T) {
	got := storage.Tokenize("Hello, World! Go-1.24")
	if diff := cmp.Diff([]string{"hello", "world", "go", "1", "24"}, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if got := storage.Tokenize(strings.Repeat(" ", 3)); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}
