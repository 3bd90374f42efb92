package schemas

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind identifies the variant of a schema Node.
type Kind int

const (
	// KindPrimitive is a leaf holding a default value of a single primitive type
	KindPrimitive Kind = iota
	// KindObject is a mapping with a fixed, ordered set of fields
	KindObject
	// KindArray is a sequence whose items share one template (or none)
	KindArray
)

// PrimitiveType is the runtime type a primitive field must have.
type PrimitiveType int

const (
	// TypeString accepts Go strings
	TypeString PrimitiveType = iota
	// TypeNumber accepts float64, json.Number and Go integer types
	TypeNumber
	// TypeBool accepts bool
	TypeBool
	// TypeAny accepts every value, including null
	TypeAny
)

func (t PrimitiveType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	default:
		return "any"
	}
}

// Field is a named child of an object node. Order is significant.
type Field struct {
	Name   string
	Schema *Node
}

// Node describes the expected shape of a value and the defaults used when
// data is missing or has the wrong type. Nodes are immutable once built.
type Node struct {
	kind   Kind
	typ    PrimitiveType
	def    any
	fields []Field
	index  map[string]int
	item   *Node
}

// Primitive declares a primitive field whose type is taken from def.
// A nil def yields the same node as NullDefault.
func Primitive(def any) *Node {
	return &Node{kind: KindPrimitive, typ: primitiveTypeOf(def), def: def}
}

// NullDefault declares a leaf whose default is null. Any value present in
// the data is kept as is; only a missing field falls back to null.
func NullDefault() *Node {
	return &Node{kind: KindPrimitive, typ: TypeAny}
}

// Object declares a mapping node with fields in the given order.
func Object(fields ...Field) *Node {
	n := &Node{kind: KindObject, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		n.index[f.Name] = i
	}
	return n
}

// F is shorthand for building a Field.
func F(name string, schema *Node) Field {
	return Field{Name: name, Schema: schema}
}

// ArrayOf declares a sequence whose items are coerced against item.
func ArrayOf(item *Node) *Node {
	return &Node{kind: KindArray, item: item}
}

// AnyArray declares a sequence without an item template.
func AnyArray() *Node {
	return &Node{kind: KindArray}
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the primitive type of a primitive node.
func (n *Node) Type() PrimitiveType { return n.typ }

// Fields returns the ordered fields of an object node.
func (n *Node) Fields() []Field { return n.fields }

// Field returns the schema of the named field of an object node.
func (n *Node) Field(name string) (*Node, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.fields[i].Schema, true
}

// Item returns the item template of an array node, or nil.
func (n *Node) Item() *Node { return n.item }

// Accepts reports whether v has the runtime type declared by a primitive node.
// A null-default node accepts everything.
func (n *Node) Accepts(v any) bool {
	if n.typ == TypeAny {
		return true
	}
	switch v.(type) {
	case string:
		return n.typ == TypeString
	case bool:
		return n.typ == TypeBool
	case float64, float32, json.Number, int, int32, int64:
		return n.typ == TypeNumber
	default:
		return false
	}
}

// Default returns a fresh copy of the node's default value. Objects yield a
// map with every field set to its default, arrays an empty slice.
func (n *Node) Default() any {
	switch n.kind {
	case KindObject:
		m := make(map[string]any, len(n.fields))
		for _, f := range n.fields {
			m[f.Name] = f.Schema.Default()
		}
		return m
	case KindArray:
		return []any{}
	default:
		return n.def
	}
}

// Example returns the template value shown to the model: like Default, but
// arrays with an item template contain one example item.
func (n *Node) Example() any {
	switch n.kind {
	case KindObject:
		m := make(map[string]any, len(n.fields))
		for _, f := range n.fields {
			m[f.Name] = f.Schema.Example()
		}
		return m
	case KindArray:
		if n.item == nil {
			return []any{}
		}
		return []any{n.item.Example()}
	default:
		return n.def
	}
}

// ExampleJSON renders Example as indented JSON with fields in declared order.
func (n *Node) ExampleJSON() string {
	var buf bytes.Buffer
	n.writeExample(&buf, 0)
	return buf.String()
}

func (n *Node) writeExample(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.kind {
	case KindObject:
		if len(n.fields) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i, f := range n.fields {
			buf.WriteString(indent + "  ")
			key, _ := json.Marshal(f.Name)
			buf.Write(key)
			buf.WriteString(": ")
			f.Schema.writeExample(buf, depth+1)
			if i < len(n.fields)-1 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
		}
		buf.WriteString(indent + "}")
	case KindArray:
		if n.item == nil {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n" + indent + "  ")
		n.item.writeExample(buf, depth+1)
		buf.WriteString("\n" + indent + "]")
	default:
		b, err := json.Marshal(n.def)
		if err != nil {
			b = []byte("null")
		}
		buf.Write(b)
	}
}

func primitiveTypeOf(v any) PrimitiveType {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case float64, float32, int, int32, int64, json.Number:
		return TypeNumber
	default:
		return TypeAny
	}
}
