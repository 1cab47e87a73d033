// Package pkgload implements Component F: loading a package YAML
// document, resolving its extends-tree (diamond-free), merging stages
// and dependencies from its ancestors, and applying profile source
// overrides.
package pkgload

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/pkgspec/resolver/internal/condition"
	"github.com/pkgspec/resolver/internal/conditional"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
	"github.com/pkgspec/resolver/internal/stage"
)

// stageSections lists the three stage-bearing sections merged across
// ancestors, in the order the merged document exposes them.
var stageSections = []string{"build_stages", "profile_links", "when_build_dependency"}

// LoadYAML loads the package document named name, given the effective
// parameter environment. Returns a nil node (not an error) when the
// package has no specification at all.
type LoadYAML func(name string, parameters map[string]any) (*docval.Node, error)

// FindFile resolves filename relative to name's package directories,
// in "<root>/candidate" unresolved form.
type FindFile func(name, filename string) (path string, ok bool, err error)

// PackageLoader is the ephemeral object that loads and postprocesses a
// single package YAML document, together with its ancestors. Once
// constructed, Doc and the parent lists are immutable.
type PackageLoader struct {
	Name       string
	parameters map[string]any

	loadYAML LoadYAML
	findFile FindFile
	eval     condition.Evaluator

	Doc           *docval.Node
	DirectParents []*PackageLoader
	AllParents    []*PackageLoader
}

// Load runs the full pipeline for name: document load, conditional
// rewrite, parent resolution, stage merge, dependency merge, source
// override.
func Load(name string, parameters map[string]any, loadYAML LoadYAML, findFile FindFile, eval condition.Evaluator) (*PackageLoader, error) {
	l := &PackageLoader{
		Name:       name,
		parameters: parameters,
		loadYAML:   loadYAML,
		findFile:   findFile,
		eval:       eval,
	}

	if err := l.loadDocument(); err != nil {
		return nil, err
	}
	if err := l.processConditionals(); err != nil {
		return nil, err
	}
	if err := l.loadParents(); err != nil {
		return nil, err
	}
	if err := l.mergeStages(); err != nil {
		return nil, err
	}
	if err := l.mergeDependencies(); err != nil {
		return nil, err
	}
	if err := l.overrideSources(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *PackageLoader) loadDocument() error {
	doc, err := l.loadYAML(l.Name, l.parameters)
	if err != nil {
		return err
	}
	if doc == nil {
		return pkgerrors.New(pkgerrors.ErrPackageNotFound, "package specification not found: %s", l.Name)
	}
	l.Doc = doc
	return nil
}

func (l *PackageLoader) processConditionals() error {
	m, err := docval.EnsureMap(l.Doc)
	if err != nil {
		return err
	}
	clone := m.Clone()
	clone.Delete("when")
	stripped := &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}

	rewritten, err := conditional.Rewrite(stripped, l.parameters, l.eval)
	if err != nil {
		return err
	}
	l.Doc = rewritten
	return nil
}

func (l *PackageLoader) loadParents() error {
	extendsNode := docval.MapGet(l.Doc, "extends")
	names, err := docval.StringList(extendsNode)
	if err != nil {
		return err
	}
	sort.Strings(names)

	m, err := docval.EnsureMap(l.Doc)
	if err != nil {
		return err
	}
	clone := m.Clone()
	clone.Delete("extends")
	l.Doc = &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}

	seen := make(map[string]bool)
	for _, parent := range l.AllParents {
		seen[parent.Name] = true
	}

	for _, parentName := range names {
		parent, err := Load(parentName, l.parameters, l.loadYAML, l.findFile, l.eval)
		if err != nil {
			return err
		}

		group := make([]*PackageLoader, 0, len(parent.AllParents)+1)
		group = append(group, parent.AllParents...)
		group = append(group, parent)

		for _, g := range group {
			if seen[g.Name] {
				return pkgerrors.New(pkgerrors.ErrDiamondInheritance,
					"package %q reached twice while traversing parents of %q", g.Name, l.Name)
			}
			seen[g.Name] = true
		}

		l.AllParents = append(append([]*PackageLoader{}, group...), l.AllParents...)
		l.DirectParents = append(l.DirectParents, parent)
	}

	return nil
}

// stagesWithNames returns section's stages, auto-named.
func (l *PackageLoader) stagesWithNames(section string) ([]*docval.Node, error) {
	items, err := docval.EnsureSeq(docval.MapGet(l.Doc, section))
	if err != nil {
		return nil, err
	}
	return stage.AutoName(items)
}

func (l *PackageLoader) mergeStages() error {
	m, err := docval.EnsureMap(l.Doc)
	if err != nil {
		return err
	}
	clone := m.Clone()

	for _, section := range stageSections {
		self, err := l.stagesWithNames(section)
		if err != nil {
			return err
		}

		parentStages := make([][]*docval.Node, len(l.DirectParents))
		for i, parent := range l.DirectParents {
			ps, err := parent.stagesWithNames(section)
			if err != nil {
				return err
			}
			parentStages[i] = ps
		}

		merged, err := stage.Inherit(self, parentStages)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(merged))
		for n := range merged {
			names = append(names, n)
		}
		sort.Strings(names)
		values := make([]*docval.Node, 0, len(merged))
		for _, n := range names {
			values = append(values, merged[n])
		}
		clone.Set(section, &docval.Node{Kind: docval.KindSeq, Seq: values})
	}

	l.Doc = &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}
	return nil
}

func (l *PackageLoader) mergeDependencies() error {
	m, err := docval.EnsureMap(l.Doc)
	if err != nil {
		return err
	}
	depsMap, err := docval.EnsureMap(docval.MapGet(l.Doc, "dependencies"))
	if err != nil {
		return err
	}
	depsClone := depsMap.Clone()

	for _, key := range []string{"build", "run"} {
		seen := make(map[string]bool)
		for _, parent := range l.AllParents {
			parentDeps, err := docval.EnsureMap(docval.MapGet(parent.Doc, "dependencies"))
			if err != nil {
				return err
			}
			list, err := docval.StringList(docval.MapGet(docval.NewMap(parentDeps), key))
			if err != nil {
				return err
			}
			for _, d := range list {
				seen[d] = true
			}
		}

		localNode := docval.MapGet(docval.NewMap(depsMap), key)
		if !localNode.IsNull() && localNode.Kind != docval.KindSeq {
			return fmt.Errorf("%s: expected a list for %q", localNode.Mark, key)
		}
		local, err := docval.StringList(localNode)
		if err != nil {
			return err
		}
		for _, d := range local {
			seen[d] = true
		}

		names := make([]string, 0, len(seen))
		for d := range seen {
			names = append(names, d)
		}
		sort.Strings(names)

		items := make([]*docval.Node, len(names))
		for i, n := range names {
			items[i] = docval.NewString(n)
		}
		depsClone.Set(key, &docval.Node{Kind: docval.KindSeq, Seq: items})
	}

	clone := m.Clone()
	clone.Set("dependencies", &docval.Node{Kind: docval.KindMap, Map: depsClone})
	l.Doc = &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}
	return nil
}

func (l *PackageLoader) overrideSources() error {
	if sourcesParam, ok := l.parameters["sources"]; ok {
		m, err := docval.EnsureMap(l.Doc)
		if err != nil {
			return err
		}
		clone := m.Clone()
		clone.Set("sources", docval.FromNative(sourcesParam))
		l.Doc = &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}
		return nil
	}

	githubParam, ok := l.parameters["github"]
	if !ok {
		return nil
	}
	targetURL, ok := githubParam.(string)
	if !ok {
		return pkgerrors.New(pkgerrors.ErrSourceOverride, "'github' parameter must be a string URL")
	}

	gitRepo, gitID, err := splitGitHubCommitURL(targetURL)
	if err != nil {
		return err
	}

	sources, err := docval.EnsureSeq(docval.MapGet(l.Doc, "sources"))
	if err != nil {
		return err
	}
	if len(sources) != 1 {
		return pkgerrors.New(pkgerrors.ErrSourceOverride,
			"github URL provided but package %q does not have exactly one source (has %d)", l.Name, len(sources))
	}

	sourceMap, err := docval.EnsureMap(sources[0])
	if err != nil {
		return err
	}
	sourceClone := sourceMap.Clone()
	sourceClone.Set("url", docval.NewString(gitRepo))
	sourceClone.Set("key", docval.NewString("git:"+gitID))

	m, err := docval.EnsureMap(l.Doc)
	if err != nil {
		return err
	}
	clone := m.Clone()
	clone.Set("sources", &docval.Node{Kind: docval.KindSeq, Seq: []*docval.Node{
		{Kind: docval.KindMap, Map: sourceClone},
	}})
	l.Doc = &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}
	return nil
}

// splitGitHubCommitURL derives the .git repository URL and commit id
// from a GitHub commit URL, splitting at "/commit/" and taking the
// final path segment as the commit id.
func splitGitHubCommitURL(target string) (gitRepo, gitID string, err error) {
	u, parseErr := url.Parse(target)
	if parseErr != nil {
		return "", "", pkgerrors.New(pkgerrors.ErrSourceOverride, "invalid github url %q: %v", target, parseErr)
	}
	gitID = path.Base(u.Path)

	idx := strings.Index(target, "/commit/")
	if idx < 0 {
		return "", "", pkgerrors.New(pkgerrors.ErrSourceOverride, "github url %q does not contain /commit/", target)
	}
	gitRepo = target[:idx] + ".git"
	return gitRepo, gitID, nil
}

// HookFiles returns the <name>.py hook file for every loader in
// AllParents + [self], in that order. Duplicates may occur (the same
// file reachable through multiple ancestors) and are preserved
// faithfully, per the reference implementation.
func (l *PackageLoader) HookFiles() ([]string, error) {
	chain := append(append([]*PackageLoader{}, l.AllParents...), l)

	var hooks []string
	for _, loader := range chain {
		hookPath, ok, err := l.findFile(loader.Name, loader.Name+".py")
		if err != nil {
			return nil, err
		}
		if ok {
			hooks = append(hooks, hookPath)
		}
	}
	return hooks, nil
}

// StagesTopoOrdered returns a shallow copy of Doc with each stage
// section topologically ordered, applying the build_stages
// handler-defaulting rule.
func (l *PackageLoader) StagesTopoOrdered() (*docval.Node, error) {
	m, err := docval.EnsureMap(l.Doc)
	if err != nil {
		return nil, err
	}
	clone := m.Clone()

	for _, section := range stageSections {
		items, err := docval.EnsureSeq(docval.MapGet(l.Doc, section))
		if err != nil {
			return nil, err
		}

		byName := make(map[string]*docval.Node, len(items))
		for _, s := range items {
			n := docval.MapGet(s, "name")
			name, ok := n.AsString()
			if !ok {
				return nil, fmt.Errorf("%s: stage entry in %q is missing a name", s.Mark, section)
			}
			byName[name] = s
		}

		ordered, err := stage.TopoOrder(byName, section == "build_stages")
		if err != nil {
			return nil, err
		}
		clone.Set(section, &docval.Node{Kind: docval.KindSeq, Seq: ordered})
	}

	return &docval.Node{Kind: docval.KindMap, Mark: l.Doc.Mark, Map: clone}, nil
}
