// Package storage defines the read-only contract the query core consumes from a database:
// node kinds, navigation over the pre/kind table, text retrieval, index flags and index scans.
//
// Implementations must be safe for concurrent reads. The query core never mutates a database.
package storage

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind is the node kind code stored in the table.
type Kind uint8

// Node kinds.
const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindAttribute
	KindComment
	KindPI
)

// String returns the name of the node kind.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindAttribute:
		return "attribute"
	case KindComment:
		return "comment"
	case KindPI:
		return "processing-instruction"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IndexKind identifies one of the value indexes of a database.
type IndexKind uint8

const (
	IndexText IndexKind = iota
	IndexAttribute
	IndexFullText
)

// String returns the name used to request the index from a query.
func (k IndexKind) String() string {
	switch k {
	case IndexText:
		return "text"
	case IndexAttribute:
		return "attribute"
	case IndexFullText:
		return "fulltext"
	default:
		return fmt.Sprintf("index(%d)", uint8(k))
	}
}

// Meta holds the database flags relevant to query evaluation.
type Meta struct {
	TextIndex      bool
	AttributeIndex bool
	FullTextIndex  bool
	// Filesystem is set when nodes map onto filesystem paths (see Data.FSPath).
	Filesystem bool
}

// HasIndex reports whether the index of the given kind was built.
func (m Meta) HasIndex(kind IndexKind) bool {
	switch kind {
	case IndexText:
		return m.TextIndex
	case IndexAttribute:
		return m.AttributeIndex
	case IndexFullText:
		return m.FullTextIndex
	default:
		return false
	}
}

// Data is the read API of a single database.
//
// Nodes are addressed by their pre value, the position of the node in document order.
// Attributes follow their owner element directly (pre+1 .. pre+AttributeCount(pre)) and are not
// reachable through FirstChild/NextSibling.
type Data interface {
	// Name returns the database name.
	Name() string
	// Size returns the number of nodes in the table.
	Size() int
	Kind(pre int) Kind
	Parent(pre int) (int, bool)
	FirstChild(pre int) (int, bool)
	NextSibling(pre int) (int, bool)
	AttributeCount(pre int) int
	// NodeName returns the name of an element, attribute or processing instruction.
	NodeName(pre int) string
	// Text returns the value of a text, attribute, comment or processing instruction node.
	Text(pre int) []byte
	// ID returns the stable identifier of a node.
	ID(pre int) int
	Meta() Meta
	// Lookup scans an index. Text and attribute indexes take one exact token, the full-text index
	// takes a token list and returns nodes containing all of them. Results are in document order.
	Lookup(kind IndexKind, tokens ...string) IDIter
	// FSPath returns the filesystem path a node maps to.
	FSPath(pre int) (string, bool)
}

// Catalog resolves databases by name.
type Catalog interface {
	Open(name string) (Data, error)
}

// IDIter is a lazy sequence of pre values.
type IDIter interface {
	Next() (int, bool)
}

// SliceIter iterates over a slice of pre values.
type SliceIter struct {
	pres []int
	pos  int
}

// NewSliceIter returns an iterator over pres. The slice is not copied.
func NewSliceIter(pres []int) *SliceIter {
	return &SliceIter{pres: pres}
}

// Next returns the next pre value.
func (it *SliceIter) Next() (int, bool) {
	if it.pos >= len(it.pres) {
		return 0, false
	}
	p := it.pres[it.pos]
	it.pos++
	return p, true
}

// EmptyIter is an iterator without results.
var EmptyIter IDIter = NewSliceIter(nil)

// ErrNotFound is returned by catalogs for unknown database names.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("database %q not found", e.Name)
}

// Tokenize splits text into lower-cased full-text tokens.
// Index construction and full-text queries must use the same tokenizer.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// StringValue returns the string value of a node: the concatenated descendant text of documents and
// elements, the value of every other kind.
func StringValue(data Data, pre int) string {
	switch data.Kind(pre) {
	case KindDocument, KindElement:
		var sb strings.Builder
		appendText(data, pre, &sb)
		return sb.String()
	default:
		return string(data.Text(pre))
	}
}

func appendText(data Data, pre int, sb *strings.Builder) {
	for c, ok := data.FirstChild(pre); ok; c, ok = data.NextSibling(c) {
		switch data.Kind(c) {
		case KindText:
			sb.Write(data.Text(c))
		case KindElement:
			appendText(data, c, sb)
		}
	}
}
