package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegoEvaluator_BareParameterName(t *testing.T) {
	e := NewRegoEvaluator()

	ok, err := e.Evaluate("linux", map[string]any{"linux": true})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Evaluate("linux", map[string]any{"linux": false})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegoEvaluator_NotAndAnd(t *testing.T) {
	e := NewRegoEvaluator()

	ok, err := e.Evaluate("linux and not static", map[string]any{"linux": true, "static": false})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Evaluate("linux and not static", map[string]any{"linux": true, "static": true})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegoEvaluator_MissingParameterIsFalsy(t *testing.T) {
	e := NewRegoEvaluator()

	ok, err := e.Evaluate("osx", map[string]any{"linux": true})
	require.NoError(t, err)
	assert.False(t, ok)
}
