// Package stage implements Component B: normalizing, auto-naming,
// inheriting and topologically ordering a package's stage lists
// (build_stages, profile_links, when_build_dependency).
package stage

import (
	"github.com/pkgspec/resolver/internal/docval"
)

// Normalize returns a fresh list where every stage has "before" and
// "after" present as lists — a lone string promoted to a one-element
// list, a missing key treated as empty.
func Normalize(stages []*docval.Node) ([]*docval.Node, error) {
	out := make([]*docval.Node, 0, len(stages))
	for _, s := range stages {
		m, err := docval.EnsureMap(s)
		if err != nil {
			return nil, err
		}
		clone := m.Clone()

		before, err := docval.StringList(docval.MapGet(s, "before"))
		if err != nil {
			return nil, err
		}
		after, err := docval.StringList(docval.MapGet(s, "after"))
		if err != nil {
			return nil, err
		}
		clone.Set("before", stringsToSeq(before))
		clone.Set("after", stringsToSeq(after))

		out = append(out, &docval.Node{Kind: docval.KindMap, Mark: s.Mark, Map: clone})
	}
	return out, nil
}

func stringsToSeq(ss []string) *docval.Node {
	items := make([]*docval.Node, len(ss))
	for i, s := range ss {
		items[i] = docval.NewString(s)
	}
	return &docval.Node{Kind: docval.KindSeq, Seq: items}
}

// name returns the stage's "name" field, or "" if absent.
func name(s *docval.Node) string {
	n := docval.MapGet(s, "name")
	str, _ := n.AsString()
	return str
}

// beforeAfter reads the normalized "before"/"after" lists off a stage.
func beforeAfter(s *docval.Node) (before, after []string, err error) {
	before, err = docval.StringList(docval.MapGet(s, "before"))
	if err != nil {
		return nil, nil, err
	}
	after, err = docval.StringList(docval.MapGet(s, "after"))
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// withoutKeys returns a clone of s's mapping with the given keys removed.
func withoutKeys(s *docval.Node, keys ...string) (*docval.Node, error) {
	m, err := docval.EnsureMap(s)
	if err != nil {
		return nil, err
	}
	clone := m.Clone()
	for _, k := range keys {
		clone.Delete(k)
	}
	return &docval.Node{Kind: docval.KindMap, Mark: s.Mark, Map: clone}, nil
}
