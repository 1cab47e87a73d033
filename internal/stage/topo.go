package stage

import (
	"sort"

	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
)

// TopoOrder orders the stages produced by Inherit. Edges are derived
// from "after" (a stage's after-names must precede it) plus any
// "before" declarations, which are folded into the named stage's
// "after" list. Ties among ready stages resolve to the lexicographically
// smallest name, for deterministic output.
//
// When buildStages is true, the build_stages handler-defaulting rule
// applies: a stage lacking "handler" gets handler := name, unless name
// begins with "__" (an auto-generated name), which is an error.
//
// The returned stages have "name", "before" and "after" stripped.
func TopoOrder(stages map[string]*docval.Node, buildStages bool) ([]*docval.Node, error) {
	names := make([]string, 0, len(stages))
	for n := range stages {
		names = append(names, n)
	}
	sort.Strings(names)

	after := make(map[string]map[string]bool, len(stages))
	for _, n := range names {
		after[n] = make(map[string]bool)
	}

	for _, n := range names {
		s := stages[n]
		before, existingAfter, err := beforeAfter(s)
		if err != nil {
			return nil, err
		}
		for _, a := range existingAfter {
			after[n][a] = true
		}
		for _, b := range before {
			target, ok := after[b]
			if !ok {
				return nil, pkgerrors.NewAt(pkgerrors.ErrDanglingStage, s.Mark,
					"stage %q referred to but not available", b)
			}
			target[n] = true
		}
	}

	indegree := make(map[string]int, len(names))
	dependents := make(map[string][]string, len(names))
	for _, n := range names {
		indegree[n] = len(after[n])
		for dep := range after[n] {
			dependents[dep] = append(dependents[dep], n)
		}
	}
	for _, deps := range dependents {
		sort.Strings(deps)
	}

	ready := make([]string, 0, len(names))
	for _, n := range names {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(names))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
				sort.Strings(ready)
			}
		}
	}

	if len(order) != len(names) {
		return nil, pkgerrors.New(pkgerrors.ErrCycle, "stage dependency graph has a cycle")
	}

	out := make([]*docval.Node, 0, len(order))
	for _, n := range order {
		s := stages[n]

		if buildStages {
			handlerNode := docval.MapGet(s, "handler")
			if handlerNode.IsNull() {
				if len(n) >= 2 && n[:2] == "__" {
					return nil, pkgerrors.NewAt(pkgerrors.ErrMissingHandler, s.Mark,
						"build stage %q lacks handler attribute", n)
				}
				m, err := docval.EnsureMap(s)
				if err != nil {
					return nil, err
				}
				clone := m.Clone()
				clone.Set("handler", docval.NewString(n))
				s = &docval.Node{Kind: docval.KindMap, Mark: s.Mark, Map: clone}
			}
		}

		stripped, err := withoutKeys(s, "name", "before", "after")
		if err != nil {
			return nil, err
		}
		out = append(out, stripped)
	}

	return out, nil
}
