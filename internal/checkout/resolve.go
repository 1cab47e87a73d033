package checkout

import (
	"fmt"
	"regexp"
)

// repoNamePattern matches the reserved path form "<name>rest", where
// name contains no ">" character (so REST may itself begin with "/").
var repoNamePattern = regexp.MustCompile(`^<([^>]+)>(.*)$`)

// Resolve expands a path of the form "<name>rest" into the bound
// checkout's temp directory plus rest. A path that does not match this
// reserved form passes through unchanged. A name that does match but is
// not bound is an error.
func (m *Manager) Resolve(path string) (string, error) {
	match := repoNamePattern.FindStringSubmatch(path)
	if match == nil {
		return path, nil
	}

	name, rest := match[1], match[2]
	b, ok := m.bindings[name]
	if !ok {
		return "", fmt.Errorf("no temporary checkout is named %q", name)
	}
	return b.tempPath + rest, nil
}
