// Package memdb provides an in-memory database implementing [storage.Data].
//
// A database is a flat table of nodes in document order. Each row stores the node kind, the
// distance to its parent, the size of its subtree and its name or value. Optional value indexes
// are built while the table is filled and never change afterwards, so a DB is safe for concurrent
// readers.
package memdb

import (
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/sandrolain/goxq/pkg/storage"
)

type row struct {
	kind   storage.Kind
	parent int // -1 for the document node
	size   int // rows in the subtree, including the node and its attributes
	attrs  int
	name   string
	text   []byte
}

// DB is an immutable in-memory database.
type DB struct {
	name string
	rows []row
	meta storage.Meta

	texts    *patricia.Trie
	attrVals *patricia.Trie
	fulltext *ftIndex

	// base is the filesystem path of the document node for filesystem-backed databases.
	base string
}

var _ storage.Data = (*DB)(nil)

// Name returns the database name.
func (db *DB) Name() string { return db.name }

// Size returns the number of nodes.
func (db *DB) Size() int { return len(db.rows) }

// Kind returns the kind of the node at pre.
func (db *DB) Kind(pre int) storage.Kind { return db.rows[pre].kind }

// Parent returns the parent of the node at pre.
func (db *DB) Parent(pre int) (int, bool) {
	p := db.rows[pre].parent
	return p, p >= 0
}

// FirstChild returns the first non-attribute child of the node at pre.
func (db *DB) FirstChild(pre int) (int, bool) {
	r := db.rows[pre]
	if r.kind != storage.KindDocument && r.kind != storage.KindElement {
		return 0, false
	}
	c := pre + 1 + r.attrs
	return c, c < pre+r.size
}

// NextSibling returns the following sibling of the node at pre. Attributes have no siblings.
func (db *DB) NextSibling(pre int) (int, bool) {
	r := db.rows[pre]
	if r.parent < 0 || r.kind == storage.KindAttribute {
		return 0, false
	}
	n := pre + r.size
	return n, n < r.parent+db.rows[r.parent].size
}

// AttributeCount returns the number of attributes of the node at pre.
func (db *DB) AttributeCount(pre int) int { return db.rows[pre].attrs }

// NodeName returns the name of the node at pre.
func (db *DB) NodeName(pre int) string { return db.rows[pre].name }

// Text returns the value of the node at pre.
func (db *DB) Text(pre int) []byte { return db.rows[pre].text }

// ID returns the node identifier. Tables are never updated, so ids equal pre values.
func (db *DB) ID(pre int) int { return pre }

// Meta returns the index and filesystem flags.
func (db *DB) Meta() storage.Meta { return db.meta }

// Lookup scans the index of the given kind. Unbuilt indexes yield no results.
func (db *DB) Lookup(kind storage.IndexKind, tokens ...string) storage.IDIter {
	switch kind {
	case storage.IndexText:
		return trieLookup(db.texts, tokens)
	case storage.IndexAttribute:
		return trieLookup(db.attrVals, tokens)
	case storage.IndexFullText:
		if db.fulltext == nil {
			return storage.EmptyIter
		}
		return storage.NewSliceIter(db.fulltext.lookup(tokens))
	}
	return storage.EmptyIter
}

func trieLookup(t *patricia.Trie, tokens []string) storage.IDIter {
	if t == nil || len(tokens) != 1 {
		return storage.EmptyIter
	}
	item := t.Get(patricia.Prefix(tokens[0]))
	if item == nil {
		return storage.EmptyIter
	}
	return storage.NewSliceIter(item.([]int))
}

// LookupPrefix returns the nodes whose text or attribute value starts with prefix, in document
// order.
func (db *DB) LookupPrefix(kind storage.IndexKind, prefix string) []int {
	var t *patricia.Trie
	switch kind {
	case storage.IndexText:
		t = db.texts
	case storage.IndexAttribute:
		t = db.attrVals
	}
	if t == nil {
		return nil
	}
	var lists [][]int
	_ = t.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		lists = append(lists, item.([]int))
		return nil
	})
	return mergeSorted(lists)
}

// FSPath returns the filesystem path of the node at pre.
func (db *DB) FSPath(pre int) (string, bool) {
	if !db.meta.Filesystem || pre < 0 || pre >= len(db.rows) {
		return "", false
	}
	var parts []string
	for p := pre; p > 0; p = db.rows[p].parent {
		if db.rows[p].kind != storage.KindElement {
			continue
		}
		if name, ok := db.attr(p, attrName); ok {
			parts = append(parts, name)
		}
	}
	path := db.base
	for i := len(parts) - 1; i >= 0; i-- {
		path = joinPath(path, parts[i])
	}
	return path, true
}

// attr returns the value of the named attribute of the element at pre.
func (db *DB) attr(pre int, name string) (string, bool) {
	for i := 1; i <= db.rows[pre].attrs; i++ {
		if db.rows[pre+i].name == name {
			return string(db.rows[pre+i].text), true
		}
	}
	return "", false
}
