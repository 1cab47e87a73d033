package docval

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses YAML source into a Node tree, preserving source marks.
// An empty document parses to an empty mapping node, matching the "an
// empty or missing document becomes an empty mapping" rule for profile
// includes and package specs.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return NewMap(NewMapEmpty()), nil
	}
	return fromYAMLNode(doc.Content[0])
}

func fromYAMLNode(n *yaml.Node) (*Node, error) {
	// Transparently unwrap alias/document nodes; yaml.v3 already resolves
	// aliases into the content they point to for Decode, but when walking
	// Content directly we may see an AliasNode.
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	mark := Mark{Line: n.Line, Column: n.Column}

	switch n.Kind {
	case yaml.ScalarNode:
		return fromScalar(n, mark)
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := fromYAMLNode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return &Node{Kind: KindSeq, Mark: mark, Seq: items}, nil
	case yaml.MappingNode:
		m := NewMapEmpty()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			valNode := n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			val, err := fromYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, val)
		}
		return &Node{Kind: KindMap, Mark: mark, Map: m}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %v", n.Line, n.Kind)
	}
}

func fromScalar(n *yaml.Node, mark Mark) (*Node, error) {
	if n.Tag == "!!null" || (n.Value == "" && n.Tag == "") {
		return &Node{Kind: KindNull, Mark: mark}, nil
	}
	switch n.Tag {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return &Node{Kind: KindBool, Mark: mark, Bool: b}, nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return &Node{Kind: KindInt, Mark: mark, Int: i}, nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return &Node{Kind: KindFloat, Mark: mark, Float: f}, nil
	default:
		return &Node{Kind: KindString, Mark: mark, Str: n.Value}, nil
	}
}

// ToYAMLNode converts a Node back into a *yaml.Node for encoding/output,
// e.g. when the CLI serializes a resolved package document.
func ToYAMLNode(n *Node) *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch n.Kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.Bool)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n.Int, 10)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(n.Float, 'g', -1, 64)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Str}
	case KindSeq:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Seq {
			out.Content = append(out.Content, ToYAMLNode(item))
		}
		return out
	case KindMap:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.Map.Keys() {
			v, _ := n.Map.Get(k)
			out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, ToYAMLNode(v))
		}
		return out
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// Marshal renders n as YAML text.
func Marshal(n *Node) ([]byte, error) {
	return yaml.Marshal(ToYAMLNode(n))
}

// FromNative converts a plain Go value (as produced by Node.Native, or by
// decoding a struct) back into a mark-less Node tree. Map key order
// follows a sorted pass for map[string]any (order-agnostic sources);
// callers that care about order should build the Node tree directly.
func FromNative(v any) *Node {
	switch val := v.(type) {
	case nil:
		return &Node{Kind: KindNull}
	case bool:
		return &Node{Kind: KindBool, Bool: val}
	case int:
		return &Node{Kind: KindInt, Int: int64(val)}
	case int64:
		return &Node{Kind: KindInt, Int: val}
	case float64:
		return &Node{Kind: KindFloat, Float: val}
	case string:
		return &Node{Kind: KindString, Str: val}
	case []string:
		items := make([]*Node, len(val))
		for i, s := range val {
			items[i] = NewString(s)
		}
		return &Node{Kind: KindSeq, Seq: items}
	case []any:
		items := make([]*Node, len(val))
		for i, item := range val {
			items[i] = FromNative(item)
		}
		return &Node{Kind: KindSeq, Seq: items}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapEmpty()
		for _, k := range keys {
			m.Set(k, FromNative(val[k]))
		}
		return &Node{Kind: KindMap, Map: m}
	default:
		return &Node{Kind: KindString, Str: fmt.Sprintf("%v", val)}
	}
}
