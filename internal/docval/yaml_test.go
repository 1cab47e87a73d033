package docval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML_Mapping(t *testing.T) {
	n, err := ParseYAML([]byte("name: compile\nflags:\n  - -O2\n  - -O3\n"))
	require.NoError(t, err)
	require.Equal(t, KindMap, n.Kind)

	name := MapGet(n, "name")
	s, ok := name.AsString()
	require.True(t, ok)
	assert.Equal(t, "compile", s)
	assert.NotZero(t, name.Mark.Line)

	flags := MapGet(n, "flags")
	require.Equal(t, KindSeq, flags.Kind)
	require.Len(t, flags.Seq, 2)
}

func TestParseYAML_EmptyBecomesEmptyMap(t *testing.T) {
	n, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Equal(t, KindMap, n.Kind)
	assert.Equal(t, 0, n.Map.Len())
}

func TestParseYAML_PreservesKeyOrder(t *testing.T) {
	n, err := ParseYAML([]byte("z: 1\na: 2\nm: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, n.Map.Keys())
}

func TestStringList_PromotesSingleString(t *testing.T) {
	n := NewString("a")
	list, err := StringList(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, list)
}

func TestStringList_Null(t *testing.T) {
	list, err := StringList(Null())
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestRoundTripMarshal(t *testing.T) {
	n, err := ParseYAML([]byte("a: 1\nb:\n  - x\n  - y\n"))
	require.NoError(t, err)
	out, err := Marshal(n)
	require.NoError(t, err)

	n2, err := ParseYAML(out)
	require.NoError(t, err)
	assert.Equal(t, n.Map.Keys(), n2.Map.Keys())
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := NewMapEmpty()
	m.Set("a", NewInt(1))
	clone := m.Clone()
	clone.Set("b", NewInt(2))

	assert.False(t, m.Has("b"))
	assert.True(t, clone.Has("b"))
}
