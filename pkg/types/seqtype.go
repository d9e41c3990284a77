package types

// ItemType is the static type tag of an item.
type ItemType uint8

// Item types. The set is closed: new kinds are added here and nowhere else.
const (
	TypeItem ItemType = iota
	TypeString
	TypeUntypedAtomic
	TypeDouble
	TypeInteger
	TypeBoolean
	TypeNode
	TypeDocument
	TypeElement
	TypeAttribute
	TypeText
	TypeComment
	TypePI
)

// IsNode reports whether t is node() or one of its kinds.
func (t ItemType) IsNode() bool {
	return t >= TypeNode
}

// IsNumeric reports whether t is a numeric atomic type.
func (t ItemType) IsNumeric() bool {
	return t == TypeDouble || t == TypeInteger
}

// IsStringLike reports whether t is xs:string or xs:untypedAtomic.
func (t ItemType) IsStringLike() bool {
	return t == TypeString || t == TypeUntypedAtomic
}

// String returns the XQuery notation of the type.
func (t ItemType) String() string {
	switch t {
	case TypeString:
		return "xs:string"
	case TypeUntypedAtomic:
		return "xs:untypedAtomic"
	case TypeDouble:
		return "xs:double"
	case TypeInteger:
		return "xs:integer"
	case TypeBoolean:
		return "xs:boolean"
	case TypeNode:
		return "node()"
	case TypeDocument:
		return "document-node()"
	case TypeElement:
		return "element()"
	case TypeAttribute:
		return "attribute()"
	case TypeText:
		return "text()"
	case TypeComment:
		return "comment()"
	case TypePI:
		return "processing-instruction()"
	default:
		return "item()"
	}
}

// Occurrence is the cardinality indicator of a sequence type.
type Occurrence uint8

const (
	OccZero Occurrence = iota
	OccZeroOrOne
	OccOne
	OccOneOrMore
	OccZeroOrMore
)

// String returns the occurrence indicator ("", "?", "+", "*").
func (o Occurrence) String() string {
	switch o {
	case OccZeroOrOne:
		return "?"
	case OccOneOrMore:
		return "+"
	case OccZeroOrMore:
		return "*"
	default:
		return ""
	}
}

// SeqType is a static sequence type: an item type with an occurrence indicator.
type SeqType struct {
	Type ItemType
	Occ  Occurrence
}

// Common sequence types.
var (
	SeqEmpty     = SeqType{Type: TypeItem, Occ: OccZero}
	SeqItems     = SeqType{Type: TypeItem, Occ: OccZeroOrMore}
	SeqItemOpt   = SeqType{Type: TypeItem, Occ: OccZeroOrOne}
	SeqString    = SeqType{Type: TypeString, Occ: OccOne}
	SeqStringOpt = SeqType{Type: TypeString, Occ: OccZeroOrOne}
	SeqInteger   = SeqType{Type: TypeInteger, Occ: OccOne}
	SeqDouble    = SeqType{Type: TypeDouble, Occ: OccOne}
	SeqBoolean   = SeqType{Type: TypeBoolean, Occ: OccOne}
	SeqNode      = SeqType{Type: TypeNode, Occ: OccOne}
	SeqNodes     = SeqType{Type: TypeNode, Occ: OccZeroOrMore}
	SeqAtomics   = SeqType{Type: TypeUntypedAtomic, Occ: OccZeroOrMore}
)

// ZeroOrOne reports whether the type allows at most one item.
func (s SeqType) ZeroOrOne() bool {
	return s.Occ <= OccOne
}

// String returns the XQuery notation of the sequence type.
func (s SeqType) String() string {
	if s.Occ == OccZero {
		return "empty-sequence()"
	}
	return s.Type.String() + s.Occ.String()
}
