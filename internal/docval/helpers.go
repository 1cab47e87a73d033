package docval

import "fmt"

// StringList reads n as either a single string (promoted to a one-element
// list) or a sequence of strings — the "a lone string becomes a
// one-element list" rule used for stage before/after and search-path
// sections.
func StringList(n *Node) ([]string, error) {
	if n.IsNull() {
		return nil, nil
	}
	switch n.Kind {
	case KindString:
		return []string{n.Str}, nil
	case KindSeq:
		out := make([]string, 0, len(n.Seq))
		for _, item := range n.Seq {
			s, ok := item.AsString()
			if !ok {
				return nil, fmt.Errorf("%s: expected a string in list, got %s", item.Mark, item.Kind)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected a string or list of strings, got %s", n.Mark, n.Kind)
	}
}

// MapGet looks up key in n, which must be a mapping (or null, treated as
// empty). Returns a null node when the key is absent.
func MapGet(n *Node, key string) *Node {
	if n.IsNull() {
		return Null()
	}
	if n.Kind != KindMap {
		return Null()
	}
	v, ok := n.Map.Get(key)
	if !ok {
		return Null()
	}
	return v
}

// EnsureMap returns n's Map, treating a null node as an empty mapping.
func EnsureMap(n *Node) (*Map, error) {
	if n.IsNull() {
		return NewMapEmpty(), nil
	}
	if n.Kind != KindMap {
		return nil, fmt.Errorf("%s: expected a mapping, got %s", n.Mark, n.Kind)
	}
	return n.Map, nil
}

// EnsureSeq returns n's items, treating a null node as an empty sequence.
func EnsureSeq(n *Node) ([]*Node, error) {
	if n.IsNull() {
		return nil, nil
	}
	if n.Kind != KindSeq {
		return nil, fmt.Errorf("%s: expected a list, got %s", n.Mark, n.Kind)
	}
	return n.Seq, nil
}
