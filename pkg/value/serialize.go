package value

import (
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Serialize renders an item: atomic values as their string value, nodes as XML.
func Serialize(it Item) (string, error) {
	n, ok := it.(Node)
	if !ok {
		return it.Text()
	}
	if err := n.Materialize(); err != nil {
		return "", err
	}
	var sb strings.Builder
	writeNode(&sb, n)
	if n.Type() == types.TypeAttribute {
		return sb.String()[1:], nil
	}
	return sb.String(), nil
}

// SerializeValue renders every item of v, joined by sep.
func SerializeValue(v Value, sep string) (string, error) {
	var sb strings.Builder
	for i := int64(0); i < v.Size(); i++ {
		if i > 0 {
			sb.WriteString(sep)
		}
		s, err := Serialize(v.ItemAt(i))
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func writeNode(sb *strings.Builder, n Node) {
	switch n.Type() {
	case types.TypeDocument:
		for _, c := range n.Children() {
			writeNode(sb, c)
		}
	case types.TypeElement:
		sb.WriteByte('<')
		sb.WriteString(n.Name())
		for _, a := range n.Attributes() {
			writeAttr(sb, a)
		}
		children := n.Children()
		if len(children) == 0 {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		for _, c := range children {
			writeNode(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(n.Name())
		sb.WriteByte('>')
	case types.TypeAttribute:
		writeAttr(sb, n)
	case types.TypeText:
		s, _ := n.Text()
		textEscaper.WriteString(sb, s)
	case types.TypeComment:
		s, _ := n.Text()
		sb.WriteString("<!--")
		sb.WriteString(s)
		sb.WriteString("-->")
	case types.TypePI:
		s, _ := n.Text()
		sb.WriteString("<?")
		sb.WriteString(n.Name())
		if s != "" {
			sb.WriteByte(' ')
			sb.WriteString(s)
		}
		sb.WriteString("?>")
	}
}

func writeAttr(sb *strings.Builder, a Node) {
	s, _ := a.Text()
	sb.WriteByte(' ')
	sb.WriteString(a.Name())
	sb.WriteString(`="`)
	attrEscaper.WriteString(sb, s)
	sb.WriteByte('"')
}
