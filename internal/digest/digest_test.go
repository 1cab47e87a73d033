package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/docval"
)

func TestHash_Deterministic(t *testing.T) {
	a, err := docval.ParseYAML([]byte("handler: gcc\nflags: [-O2]\n"))
	require.NoError(t, err)
	b, err := docval.ParseYAML([]byte("flags: [-O2]\nhandler: gcc\n"))
	require.NoError(t, err)

	assert.Equal(t, Hash("generated_stage_name", a), Hash("generated_stage_name", b))
}

func TestHash_SensitiveToContent(t *testing.T) {
	a, _ := docval.ParseYAML([]byte("handler: gcc\n"))
	b, _ := docval.ParseYAML([]byte("handler: clang\n"))

	assert.NotEqual(t, Hash("generated_stage_name", a), Hash("generated_stage_name", b))
}

func TestHash_SaltSeparatesNamespaces(t *testing.T) {
	a, _ := docval.ParseYAML([]byte("x: 1\n"))

	assert.NotEqual(t, Hash("salt-a", a), Hash("salt-b", a))
}
