// Package digest implements the content hasher collaborator: a stable
// hash of a document's content, insensitive to source marks, used to
// derive auto-generated stage names.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/pkgspec/resolver/internal/docval"
)

// Hash returns a stable, content-only digest of n, prefixed with the
// salt so digests for different purposes (e.g. "generated_stage_name")
// never collide with each other even for identical documents.
func Hash(salt string, n *docval.Node) string {
	d := xxhash.New()
	_, _ = d.WriteString(salt)
	d.WriteString("\x00") //nolint:errcheck // xxhash.Digest.Write never errors
	writeCanonical(d, n)
	return hex.EncodeToString(sum(d.Sum64()))
}

func sum(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// writeCanonical feeds a deterministic byte encoding of n into d. Map
// keys are sorted so the digest depends only on content, not on parse
// order — two stages written with keys in different order still hash
// identically, which the "two anonymous stages with identical content"
// invariant requires.
func writeCanonical(d *xxhash.Digest, n *docval.Node) {
	if n == nil {
		d.WriteString("N")
		return
	}
	switch n.Kind {
	case docval.KindNull:
		d.WriteString("n")
	case docval.KindBool:
		if n.Bool {
			d.WriteString("bt")
		} else {
			d.WriteString("bf")
		}
	case docval.KindInt:
		d.WriteString("i")
		_, _ = d.Write(sum(uint64(n.Int)))
	case docval.KindFloat:
		d.WriteString("f")
		_, _ = d.Write(sum(math.Float64bits(n.Float)))
	case docval.KindString:
		d.WriteString("s")
		d.WriteString(n.Str)
	case docval.KindSeq:
		d.WriteString("[")
		for _, item := range n.Seq {
			writeCanonical(d, item)
			d.WriteString(",")
		}
		d.WriteString("]")
	case docval.KindMap:
		d.WriteString("{")
		keys := append([]string(nil), n.Map.Keys()...)
		sort.Strings(keys)
		for _, k := range keys {
			v, _ := n.Map.Get(k)
			d.WriteString(k)
			d.WriteString(":")
			writeCanonical(d, v)
			d.WriteString(",")
		}
		d.WriteString("}")
	}
}
