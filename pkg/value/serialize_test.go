package value_test

import (
	"testing"

	"github.com/sandrolain/goxq/pkg/storage/memdb"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

const sample = `<r a="1 &amp; 2"><t>x &lt; y</t><!--c--><?pi data?><e/></r>`

func TestSerializeDBNode(t *testing.T) {
	db, err := memdb.ParseString("doc", sample)
	if err != nil {
		t.Fatal(err)
	}
	got, err := value.Serialize(value.NewDBNode(db, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := `<r a="1 &amp; 2"><t>x &lt; y</t><!--c--><?pi data?><e/></r>`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	attr, err := value.Serialize(value.NewDBNode(db, 2))
	if err != nil {
		t.Fatal(err)
	}
	if attr != `a="1 &amp; 2"` {
		t.Fatalf("unexpected attribute serialization %s", attr)
	}
}

func TestParseFragment(t *testing.T) {
	doc, err := value.ParseFragmentString(sample)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Type() != types.TypeDocument {
		t.Fatalf("expected document node, got %s", doc.Type())
	}
	got, err := value.Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got != sample {
		t.Fatalf("expected %s, got %s", sample, got)
	}
	root := doc.Children()[0]
	if root.Name() != "r" || len(root.Attributes()) != 1 {
		t.Fatalf("unexpected root %s with %d attributes", root.Name(), len(root.Attributes()))
	}
	text, _ := root.Text()
	if text != "x < y" {
		t.Fatalf("unexpected string value %q", text)
	}
	parent, ok := root.Parent()
	if !ok || !parent.Equal(doc) {
		t.Fatal("expected document parent")
	}
	children := root.Children()
	if value.DocOrder(children[0], children[2]) >= 0 {
		t.Fatal("expected document order among siblings")
	}
	if value.DocOrder(root.Attributes()[0], children[0]) >= 0 {
		t.Fatal("expected attributes before children")
	}
}

func TestParseFragmentErrors(t *testing.T) {
	for _, doc := range []string{"", "text", "<a/><b/>", "<a>"} {
		if _, err := value.ParseFragmentString(doc); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestSerializeValue(t *testing.T) {
	v := value.Replicate(value.Str("ab"), 3)
	got, err := value.SerializeValue(v, " ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ab ab ab" {
		t.Fatalf("unexpected serialization %q", got)
	}
	got, err = value.SerializeValue(seqOf(value.Int(1), value.Dbl(2.5), value.True), ",")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1,2.5,true" {
		t.Fatalf("unexpected serialization %q", got)
	}
}
