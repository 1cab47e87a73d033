package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pkgspec/resolver/internal/checkout"
	"github.com/pkgspec/resolver/internal/condition"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/output"
	"github.com/pkgspec/resolver/internal/pkgload"
	"github.com/pkgspec/resolver/internal/profile"
	"github.com/pkgspec/resolver/internal/sourcecache"
)

func newVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet <profile.yaml> [package...]",
		Short: "List candidate package spec files and check for unresolved packages",
		Long: `Vet lists every candidate spec file a package name could resolve
to (<name>.yaml, <name>/<name>.yaml, <name>/<name>-*.yaml across the
profile's overlay roots), not just the one the loader picks, and flags
any named package with no candidate at all.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runVet,
	}
}

func runVet(cmd *cobra.Command, args []string) error {
	profilePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving profile path: %w", err)
	}
	requested := args[1:]

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

	names := requested
	if len(names) == 0 {
		names = prof.PackageNames()
	}

	eval := condition.NewRegoEvaluator()
	loadYAML := func(name string, _ map[string]any) (*docval.Node, error) {
		return prof.LoadPackageYAML(name)
	}

	unresolved := 0
	allCandidates := make(map[string]string)
	for _, name := range names {
		candidates, err := prof.GlobPackageSpecs(name)
		if err != nil {
			return fmt.Errorf("globbing specs for %q: %w", name, err)
		}
		if len(candidates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatPackageUnresolved(name))
			unresolved++
			continue
		}

		relNames := make([]string, 0, len(candidates))
		for rel := range candidates {
			relNames = append(relNames, rel)
		}
		sort.Strings(relNames)
		for _, rel := range relNames {
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatVetCheck(fmt.Sprintf("%s: %s", name, rel), candidates[rel]))
			allCandidates[rel] = name
		}

		env := mergeEnv(prof.Parameters(), nativeMap(prof.PackageSettings(name)))
		loader, loadErr := pkgload.Load(name, env, loadYAML, prof.FindPackageFile, eval)
		if loadErr != nil {
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatPackageUnresolved(name))
			unresolved++
			continue
		}
		for _, parent := range loader.DirectParents {
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatInheritMatch(name, parent.Name))
		}
	}

	if len(allCandidates) > 0 {
		fmt.Fprint(cmd.OutOrStdout(), output.RenderFileTree(filepath.Base(filepath.Dir(profilePath)), allCandidates))
	}

	if unresolved > 0 {
		return fmt.Errorf("%d package(s) did not resolve to any spec file", unresolved)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark(fmt.Sprintf("%d package(s) resolved", len(names))))
	return nil
}
