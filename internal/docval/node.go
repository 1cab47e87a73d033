// Package docval implements the marked document model the resolver
// operates on: a tagged variant of null/bool/int/float/string/sequence/
// mapping, each carrying the source location it was parsed from.
//
// Values are parsed once from YAML (via gopkg.in/yaml.v3, whose Node
// type already carries Line/Column) and converted into this shape so the
// rest of the resolver never has to special-case yaml.Node directly.
package docval

import "fmt"

// Kind tags the variant a Node holds.
type Kind int

// The seven variants of a Document, per the data model.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "mapping"
	default:
		return "unknown"
	}
}

// Mark is the source location nearest a value, used for error reporting.
type Mark struct {
	Line   int
	Column int
}

// String renders a mark as "line:column", or "" if the mark is unset.
func (m Mark) String() string {
	if m.Line == 0 && m.Column == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", m.Line, m.Column)
}

// Node is one value in the document tree.
type Node struct {
	Kind Kind
	Mark Mark

	Bool  bool
	Int   int64
	Float float64
	Str   string
	Seq   []*Node
	Map   *Map
}

// Null returns a mark-less null node, for constructing trees in code/tests.
func Null() *Node { return &Node{Kind: KindNull} }

// NewString returns a mark-less string node.
func NewString(s string) *Node { return &Node{Kind: KindString, Str: s} }

// NewBool returns a mark-less bool node.
func NewBool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// NewInt returns a mark-less int node.
func NewInt(i int64) *Node { return &Node{Kind: KindInt, Int: i} }

// NewSeq returns a mark-less sequence node wrapping items.
func NewSeq(items ...*Node) *Node { return &Node{Kind: KindSeq, Seq: items} }

// NewMap returns a mark-less mapping node wrapping m.
func NewMap(m *Map) *Node { return &Node{Kind: KindMap, Map: m} }

// IsNull reports whether n is nil or an explicit null node.
func (n *Node) IsNull() bool {
	return n == nil || n.Kind == KindNull
}

// Clone returns a deep copy of n: sequence items and mapping values are
// cloned recursively, so the copy shares no nodes with the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := *n
	if n.Seq != nil {
		clone.Seq = make([]*Node, len(n.Seq))
		for i, item := range n.Seq {
			clone.Seq[i] = item.Clone()
		}
	}
	if n.Map != nil {
		clone.Map = n.Map.CloneDeep()
	}
	return &clone
}

// AsString returns the node's string value when it is a string scalar.
func (n *Node) AsString() (string, bool) {
	if n == nil || n.Kind != KindString {
		return "", false
	}
	return n.Str, true
}

// AsBool returns the node's bool value when it is a bool scalar.
func (n *Node) AsBool() (bool, bool) {
	if n == nil || n.Kind != KindBool {
		return false, false
	}
	return n.Bool, true
}

// Native converts a Node into a plain Go value (nil, bool, int64, float64,
// string, []any or map[string]any; mapping key order is not preserved).
// Used at boundaries that consume native values: the condition
// evaluator's parameter environment and JSON output.
func (n *Node) Native() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindNull:
		return nil
	case KindBool:
		return n.Bool
	case KindInt:
		return n.Int
	case KindFloat:
		return n.Float
	case KindString:
		return n.Str
	case KindSeq:
		out := make([]any, len(n.Seq))
		for i, item := range n.Seq {
			out[i] = item.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, n.Map.Len())
		for _, k := range n.Map.Keys() {
			v, _ := n.Map.Get(k)
			out[k] = v.Native()
		}
		return out
	default:
		return nil
	}
}
