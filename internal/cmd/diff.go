package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkgspec/resolver/internal/checkout"
	"github.com/pkgspec/resolver/internal/condition"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/output"
	"github.com/pkgspec/resolver/internal/pkgload"
	"github.com/pkgspec/resolver/internal/profile"
	"github.com/pkgspec/resolver/internal/sourcecache"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <profile.yaml> <package-a> <package-b>",
		Short: "Diff two resolved package documents",
		Long: `Diff resolves two packages against the same profile and renders the
top-level keys added, removed, or modified between the two resolved
documents, with a line diff of each modified section.`,
		Args: cobra.ExactArgs(3),
		RunE: runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	profilePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving profile path: %w", err)
	}
	nameA, nameB := args[1], args[2]

	cfg := GetConfig()
	cache := sourcecache.NewDirCache(cfg.CacheDir)
	checkouts := checkout.New(cache)
	defer func() {
		if cerr := checkouts.Close(); cerr != nil {
			output.Warn("cleaning up source checkouts", "error", cerr)
		}
	}()

	prof, err := profile.LoadProfile(checkouts, docval.NewString(profilePath), filepath.Dir(profilePath))
	if err != nil {
		return err
	}

	eval := condition.NewRegoEvaluator()
	loadYAML := func(name string, _ map[string]any) (*docval.Node, error) {
		return prof.LoadPackageYAML(name)
	}

	resolve := func(name string) (*docval.Node, error) {
		env := mergeEnv(prof.Parameters(), nativeMap(prof.PackageSettings(name)))
		loader, err := pkgload.Load(name, env, loadYAML, prof.FindPackageFile, eval)
		if err != nil {
			return nil, fmt.Errorf("resolving package %q: %w", name, err)
		}
		return loader.StagesTopoOrdered()
	}

	docA, err := resolve(nameA)
	if err != nil {
		return err
	}
	docB, err := resolve(nameB)
	if err != nil {
		return err
	}

	added, removed, modified, err := diffDocs(docA, docB)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatNotice(fmt.Sprintf("%s → %s", nameA, nameB)))
	fmt.Fprint(cmd.OutOrStdout(), output.RenderDiff(added, removed, modified, output.GetStyles()))
	return nil
}

// diffDocs compares two resolved documents key by key: top-level keys
// present only in b are added, only in a removed, and keys whose values
// render differently are modified with a line diff of the YAML forms.
func diffDocs(a, b *docval.Node) (added, removed []string, modified []output.ModifiedItem, err error) {
	aMap, err := docval.EnsureMap(a)
	if err != nil {
		return nil, nil, nil, err
	}
	bMap, err := docval.EnsureMap(b)
	if err != nil {
		return nil, nil, nil, err
	}

	keys := make(map[string]bool)
	for _, k := range aMap.Keys() {
		keys[k] = true
	}
	for _, k := range bMap.Keys() {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		inA := aMap.Has(k)
		inB := bMap.Has(k)
		switch {
		case inA && !inB:
			removed = append(removed, k)
		case !inA && inB:
			added = append(added, k)
		default:
			va, _ := aMap.Get(k)
			vb, _ := bMap.Get(k)
			ya, err := docval.Marshal(va)
			if err != nil {
				return nil, nil, nil, err
			}
			yb, err := docval.Marshal(vb)
			if err != nil {
				return nil, nil, nil, err
			}
			if string(ya) != string(yb) {
				modified = append(modified, output.ModifiedItem{Name: k, Diff: lineDiff(string(ya), string(yb))})
			}
		}
	}
	return added, removed, modified, nil
}

// lineDiff renders the old value's lines prefixed "-" and the new
// value's lines prefixed "+", skipping lines common to both. It is a
// section-level presentation aid, not a minimal edit script.
func lineDiff(before, after string) string {
	oldLines := strings.Split(strings.TrimRight(before, "\n"), "\n")
	newLines := strings.Split(strings.TrimRight(after, "\n"), "\n")

	newSet := make(map[string]bool, len(newLines))
	for _, l := range newLines {
		newSet[l] = true
	}
	oldSet := make(map[string]bool, len(oldLines))
	for _, l := range oldLines {
		oldSet[l] = true
	}

	var sb strings.Builder
	for _, l := range oldLines {
		if !newSet[l] {
			sb.WriteString("- " + l + "\n")
		}
	}
	for _, l := range newLines {
		if !oldSet[l] {
			sb.WriteString("+ " + l + "\n")
		}
	}
	return sb.String()
}
