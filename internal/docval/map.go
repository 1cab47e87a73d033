package docval

// Map is an insertion-ordered string-keyed mapping. Ordinary Go maps
// don't preserve iteration order, which the conditional rewriter and
// stage merge rely on.
type Map struct {
	keys   []string
	values map[string]*Node
}

// NewMapEmpty returns an empty ordered map.
func NewMapEmpty() *Map {
	return &Map{values: make(map[string]*Node)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The caller must not mutate
// the returned slice.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get looks up key, returning (nil, false) when absent.
func (m *Map) Get(key string) (*Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set inserts or overwrites key, appending it to the key order if new.
func (m *Map) Set(key string, value *Node) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key, if present.
func (m *Map) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a shallow copy: same key order, same *Node pointers. The
// conditional rewriter and stage merge rely on Clone + targeted Set/Delete
// calls to build a new node without mutating the source tree.
func (m *Map) Clone() *Map {
	if m == nil {
		return NewMapEmpty()
	}
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]*Node, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// CloneDeep returns a copy whose nested Nodes are also cloned.
func (m *Map) CloneDeep() *Map {
	if m == nil {
		return NewMapEmpty()
	}
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]*Node, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v.Clone()
	}
	return out
}
