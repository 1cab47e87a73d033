package profile

import (
	"fmt"

	"github.com/pkgspec/resolver/internal/docval"
)

// includeDoc is a profile include document: a mapping with required
// File and optional URLs/Key/Name. A bare string include is shorthand
// for {file: <string>}.
type includeDoc struct {
	File string
	URLs []string
	Key  string
	Name string
}

func parseIncludeDoc(n *docval.Node) (includeDoc, error) {
	if s, ok := n.AsString(); ok {
		return includeDoc{File: s}, nil
	}
	if n.Kind != docval.KindMap {
		return includeDoc{}, fmt.Errorf("%s: profile include must be a string or a mapping", n.Mark)
	}

	file, ok := docval.MapGet(n, "file").AsString()
	if !ok {
		return includeDoc{}, fmt.Errorf("%s: profile include is missing required 'file'", n.Mark)
	}

	doc := includeDoc{File: file}

	if keyNode := docval.MapGet(n, "key"); !keyNode.IsNull() {
		key, ok := keyNode.AsString()
		if !ok {
			return includeDoc{}, fmt.Errorf("%s: 'key' must be a string", n.Mark)
		}
		doc.Key = key

		name, ok := docval.MapGet(n, "name").AsString()
		if !ok {
			return includeDoc{}, fmt.Errorf("%s: include with 'key' requires 'name'", n.Mark)
		}
		doc.Name = name

		urls, err := docval.StringList(docval.MapGet(n, "urls"))
		if err != nil {
			return includeDoc{}, err
		}
		if len(urls) == 0 {
			return includeDoc{}, fmt.Errorf("%s: include with 'key' requires 'urls'", n.Mark)
		}
		doc.URLs = urls
	}

	return doc, nil
}
