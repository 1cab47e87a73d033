package stage

import (
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
)

// Inherit merges one auto-named descendant stage list against an
// ordered list of auto-named ancestor stage lists, producing an
// unordered name → merged-stage mapping.
func Inherit(descendant []*docval.Node, ancestors [][]*docval.Node) (map[string]*docval.Node, error) {
	merged := make(map[string]*docval.Node)

	for _, ancestorStages := range ancestors {
		for _, s := range ancestorStages {
			n := name(s)
			if _, exists := merged[n]; exists {
				return nil, pkgerrors.NewAt(pkgerrors.ErrStageCollision, s.Mark,
					"stage %q defined by two ancestors", n)
			}
			merged[n] = s
		}
	}

	for _, s := range descendant {
		n := name(s)

		modeNode := docval.MapGet(s, "mode")
		mode := "override"
		if str, ok := modeNode.AsString(); ok {
			mode = str
		}
		stripped, err := withoutKeys(s, "mode")
		if err != nil {
			return nil, err
		}

		switch mode {
		case "override":
			existing, ok := merged[n]
			if !ok {
				merged[n] = stripped
				continue
			}
			existingMap, err := docval.EnsureMap(existing)
			if err != nil {
				return nil, err
			}
			overlay, err := docval.EnsureMap(stripped)
			if err != nil {
				return nil, err
			}
			clone := existingMap.Clone()
			for _, k := range overlay.Keys() {
				v, _ := overlay.Get(k)
				clone.Set(k, v)
			}
			merged[n] = &docval.Node{Kind: docval.KindMap, Mark: stripped.Mark, Map: clone}
		case "replace":
			merged[n] = stripped
		case "remove":
			delete(merged, n)
		default:
			return nil, pkgerrors.NewAt(pkgerrors.ErrIllegalMode, s.Mark, "illegal stage mode %q", mode)
		}
	}

	return merged, nil
}
