package memdb

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/net/html/charset"

	"github.com/sandrolain/goxq/pkg/storage"
)

// Option configures database construction.
type Option func(*options)

type options struct {
	textIndex      bool
	attributeIndex bool
	fullTextIndex  bool
	keepWhitespace bool
}

// WithTextIndex builds the text value index.
func WithTextIndex() Option {
	return func(o *options) { o.textIndex = true }
}

// WithAttributeIndex builds the attribute value index.
func WithAttributeIndex() Option {
	return func(o *options) { o.attributeIndex = true }
}

// WithFullTextIndex builds the full-text token index.
func WithFullTextIndex() Option {
	return func(o *options) { o.fullTextIndex = true }
}

// WithAllIndexes builds every index.
func WithAllIndexes() Option {
	return func(o *options) {
		o.textIndex, o.attributeIndex, o.fullTextIndex = true, true, true
	}
}

// WithWhitespace keeps whitespace-only text nodes. By default they are dropped.
func WithWhitespace() Option {
	return func(o *options) { o.keepWhitespace = true }
}

// builder fills the node table in document order.
type builder struct {
	db    *DB
	opts  options
	stack []int
}

func newBuilder(name string, opts []Option) *builder {
	b := &builder{db: &DB{name: name}}
	for _, opt := range opts {
		opt(&b.opts)
	}
	if b.opts.textIndex {
		b.db.texts = patricia.NewTrie()
		b.db.meta.TextIndex = true
	}
	if b.opts.attributeIndex {
		b.db.attrVals = patricia.NewTrie()
		b.db.meta.AttributeIndex = true
	}
	if b.opts.fullTextIndex {
		b.db.fulltext = newFTIndex()
		b.db.meta.FullTextIndex = true
	}
	b.open(storage.KindDocument, "")
	return b
}

// open adds a document or element row and makes it the current parent.
func (b *builder) open(kind storage.Kind, name string) int {
	pre := b.add(row{kind: kind, name: name})
	b.stack = append(b.stack, pre)
	return pre
}

func (b *builder) close() {
	pre := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.db.rows[pre].size = len(b.db.rows) - pre
}

func (b *builder) add(r row) int {
	r.parent = -1
	if len(b.stack) > 0 {
		r.parent = b.stack[len(b.stack)-1]
	}
	if r.size == 0 {
		r.size = 1
	}
	pre := len(b.db.rows)
	b.db.rows = append(b.db.rows, r)
	return pre
}

// attribute adds an attribute to the element opened last. It must precede any child.
func (b *builder) attribute(name, val string) {
	owner := b.stack[len(b.stack)-1]
	pre := b.add(row{kind: storage.KindAttribute, name: name, text: []byte(val)})
	b.db.rows[owner].attrs++
	if b.db.attrVals != nil && val != "" {
		trieAdd(b.db.attrVals, val, pre)
	}
}

func (b *builder) text(val string) {
	if !b.opts.keepWhitespace && strings.TrimSpace(val) == "" {
		return
	}
	parent := b.stack[len(b.stack)-1]
	if last := len(b.db.rows) - 1; last > parent && b.db.rows[last].kind == storage.KindText &&
		b.db.rows[last].parent == parent {
		// Adjacent character data (e.g. around a CDATA section) forms one text node.
		b.db.rows[last].text = append(b.db.rows[last].text, val...)
		return
	}
	b.add(row{kind: storage.KindText, text: []byte(val)})
}

func (b *builder) finish() *DB {
	for len(b.stack) > 0 {
		b.close()
	}
	if b.db.texts != nil || b.db.fulltext != nil {
		for pre, r := range b.db.rows {
			if r.kind != storage.KindText {
				continue
			}
			if b.db.texts != nil {
				trieAdd(b.db.texts, string(r.text), pre)
			}
			if b.db.fulltext != nil {
				for _, tok := range storage.Tokenize(string(r.text)) {
					b.db.fulltext.add(tok, pre)
				}
			}
		}
	}
	return b.db
}

// Parse builds a database from an XML document.
func Parse(name string, r io.Reader, opts ...Option) (*DB, error) {
	b := newBuilder(name, opts)
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	root := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(b.stack) == 1 {
				if root {
					return nil, fmt.Errorf("parse %s: more than one root element", name)
				}
				root = true
			}
			b.open(storage.KindElement, xmlName(t.Name))
			for _, a := range t.Attr {
				b.attribute(xmlName(a.Name), a.Value)
			}
		case xml.EndElement:
			b.close()
		case xml.CharData:
			if len(b.stack) > 1 {
				b.text(string(t))
			}
		case xml.Comment:
			b.add(row{kind: storage.KindComment, text: []byte(t)})
		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			b.add(row{kind: storage.KindPI, name: t.Target, text: []byte(t.Inst)})
		}
	}
	if !root {
		return nil, fmt.Errorf("parse %s: no root element", name)
	}
	return b.finish(), nil
}

// ParseString builds a database from an XML string.
func ParseString(name, doc string, opts ...Option) (*DB, error) {
	return Parse(name, strings.NewReader(doc), opts...)
}

func xmlName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
