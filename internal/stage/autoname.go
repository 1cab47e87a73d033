package stage

import (
	"github.com/pkgspec/resolver/internal/digest"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
)

// autoNameSalt namespaces the content hash used for anonymous stage
// names.
const autoNameSalt = "generated_stage_name"

// AutoName copies each stage, assigning name = "__" + digest(content)
// to any stage lacking one. The digest is computed over the stage with
// "before" and "after" removed, so renaming ordering constraints never
// changes an anonymous stage's identity. Two anonymous stages with
// identical content within stages is a collision error.
func AutoName(stages []*docval.Node) ([]*docval.Node, error) {
	out := make([]*docval.Node, 0, len(stages))
	seen := make(map[string]bool, len(stages))

	for _, s := range stages {
		if n := name(s); n != "" {
			out = append(out, s)
			continue
		}

		stripped, err := withoutKeys(s, "before", "after")
		if err != nil {
			return nil, err
		}
		auto := "__" + digest.Hash(autoNameSalt, stripped)
		if seen[auto] {
			return nil, pkgerrors.NewAt(pkgerrors.ErrStageCollision, s.Mark,
				"two anonymous stages have identical content (name %q)", auto)
		}
		seen[auto] = true

		m, err := docval.EnsureMap(s)
		if err != nil {
			return nil, err
		}
		clone := m.Clone()
		clone.Set("name", docval.NewString(auto))
		out = append(out, &docval.Node{Kind: docval.KindMap, Mark: s.Mark, Map: clone})
	}

	return out, nil
}
