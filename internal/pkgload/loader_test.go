package pkgload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/condition"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
)

func fixedYAML(docs map[string]string) LoadYAML {
	return func(name string, parameters map[string]any) (*docval.Node, error) {
		src, ok := docs[name]
		if !ok {
			return nil, nil
		}
		return docval.ParseYAML([]byte(src))
	}
}

func noFiles(name, filename string) (string, bool, error) { return "", false, nil }

func TestLoad_MissingPackageIsError(t *testing.T) {
	_, err := Load("missing", nil, fixedYAML(nil), noFiles, condition.NewRegoEvaluator())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrPackageNotFound))
}

func TestLoad_MergesDependenciesSortedAndUnique(t *testing.T) {
	docs := map[string]string{
		"child": `
extends: [parent]
dependencies:
  build: [zlib, libfoo]
`,
		"parent": `
dependencies:
  build: [libfoo, libbar]
`,
	}
	l, err := Load("child", nil, fixedYAML(docs), noFiles, condition.NewRegoEvaluator())
	require.NoError(t, err)

	build, err := docval.StringList(docval.MapGet(docval.MapGet(l.Doc, "dependencies"), "build"))
	require.NoError(t, err)
	assert.Equal(t, []string{"libbar", "libfoo", "zlib"}, build)
}

func TestLoad_DiamondInheritanceIsRejected(t *testing.T) {
	docs := map[string]string{
		"p": `
extends: [a, b]
`,
		"a": `
extends: [c]
`,
		"b": `
extends: [c]
`,
		"c": `{}`,
	}
	_, err := Load("p", nil, fixedYAML(docs), noFiles, condition.NewRegoEvaluator())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrDiamondInheritance))
}

func TestLoad_ConditionalDictTopLevelWhenStripped(t *testing.T) {
	docs := map[string]string{
		"pkg": `
when: always_true
dependencies:
  build: []
`,
	}
	l, err := Load("pkg", map[string]any{}, fixedYAML(docs), noFiles, condition.NewRegoEvaluator())
	require.NoError(t, err)
	assert.False(t, l.Doc.Map.Has("when"))
}

func TestLoad_StagesMergedAcrossParentAndChild(t *testing.T) {
	docs := map[string]string{
		"child": `
extends: [parent]
build_stages:
  - name: compile
    flags: [-O3]
`,
		"parent": `
build_stages:
  - name: compile
    handler: gcc
    flags: [-O2]
`,
	}
	l, err := Load("child", nil, fixedYAML(docs), noFiles, condition.NewRegoEvaluator())
	require.NoError(t, err)

	resolved, err := l.StagesTopoOrdered()
	require.NoError(t, err)

	stages, err := docval.EnsureSeq(docval.MapGet(resolved, "build_stages"))
	require.NoError(t, err)
	require.Len(t, stages, 1)

	handler, ok := docval.MapGet(stages[0], "handler").AsString()
	require.True(t, ok)
	assert.Equal(t, "gcc", handler)
	assert.False(t, stages[0].Map.Has("name"))
	assert.False(t, stages[0].Map.Has("before"))
	assert.False(t, stages[0].Map.Has("after"))

	flags, err := docval.EnsureSeq(docval.MapGet(stages[0], "flags"))
	require.NoError(t, err)
	require.Len(t, flags, 1)
	flag, _ := flags[0].AsString()
	assert.Equal(t, "-O3", flag)
}

func TestLoad_SourcesOverrideByParameter(t *testing.T) {
	docs := map[string]string{
		"pkg": `
sources:
  - url: http://example.com/orig.tar.gz
    key: md5:aaa
`,
	}
	params := map[string]any{
		"sources": []any{map[string]any{"url": "http://example.com/override.tar.gz", "key": "md5:bbb"}},
	}
	l, err := Load("pkg", params, fixedYAML(docs), noFiles, condition.NewRegoEvaluator())
	require.NoError(t, err)

	sources, err := docval.EnsureSeq(docval.MapGet(l.Doc, "sources"))
	require.NoError(t, err)
	require.Len(t, sources, 1)
	url, _ := docval.MapGet(sources[0], "url").AsString()
	assert.Equal(t, "http://example.com/override.tar.gz", url)
}

func TestLoad_GithubSourceOverrideDerivesRepoAndCommit(t *testing.T) {
	docs := map[string]string{
		"pkg": `
sources:
  - url: http://example.com/orig.tar.gz
    key: md5:aaa
`,
	}
	params := map[string]any{
		"github": "https://github.com/org/repo/commit/abcdef1234",
	}
	l, err := Load("pkg", params, fixedYAML(docs), noFiles, condition.NewRegoEvaluator())
	require.NoError(t, err)

	sources, err := docval.EnsureSeq(docval.MapGet(l.Doc, "sources"))
	require.NoError(t, err)
	require.Len(t, sources, 1)
	url, _ := docval.MapGet(sources[0], "url").AsString()
	key, _ := docval.MapGet(sources[0], "key").AsString()
	assert.Equal(t, "https://github.com/org/repo.git", url)
	assert.Equal(t, "git:abcdef1234", key)
}
