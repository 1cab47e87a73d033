package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
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

var (
	formatFlag string
	paramFlags []string
	outDirFlag string
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <profile.yaml> [package...]",
		Short: "Resolve one or more packages against a profile",
		Long: `Resolve loads a profile (flattening its "extends" DAG) and, for
every named package (or every package the profile selects, if none are
named), loads its package document, evaluates "when"-conditionals,
flattens its "extends" tree, merges stages and dependencies from its
ancestors, applies any profile source overrides, and prints the
resulting topologically ordered build specification.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResolve,
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "yaml", "output format: "+strings.Join(output.ValidFormats(), ", "))
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "parameter override key=value, repeatable (highest precedence)")
	cmd.Flags().StringVarP(&outDirFlag, "output-dir", "o", "resolved", "directory for --format dir output, one <package>.yaml per package")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	profilePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving profile path: %w", err)
	}
	requested := args[1:]

	format, ok := output.ParseFormat(formatFlag)
	if !ok {
		return fmt.Errorf("unrecognized --format %q (want one of: %s)", formatFlag, strings.Join(output.ValidFormats(), ", "))
	}

	overrides, err := parseParamOverrides(paramFlags)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	cache := sourcecache.NewDirCache(cfg.CacheDir)
	checkouts := checkout.New(cache)
	defer func() {
		if cerr := checkouts.Close(); cerr != nil {
			output.Warn("cleaning up source checkouts", "error", cerr)
		}
	}()

	var prof *profile.Profile
	loadErr := output.RunWithSpinner(context.Background(), func() error {
		var err error
		prof, err = profile.LoadProfile(checkouts, docval.NewString(profilePath), filepath.Dir(profilePath))
		return err
	}, output.WithTitle("loading profile and fetching sources"))
	if loadErr != nil {
		return loadErr
	}

	names := requested
	if len(names) == 0 {
		names = prof.PackageNames()
	}

	eval := condition.NewRegoEvaluator()
	loadYAML := func(name string, _ map[string]any) (*docval.Node, error) {
		return prof.LoadPackageYAML(name)
	}

	for _, name := range names {
		env := mergeEnv(prof.Parameters(), nativeMap(prof.PackageSettings(name)), overrides)

		loader, err := pkgload.Load(name, env, loadYAML, prof.FindPackageFile, eval)
		if err != nil {
			return fmt.Errorf("resolving package %q: %w", name, err)
		}

		resolved, err := loader.StagesTopoOrdered()
		if err != nil {
			return fmt.Errorf("ordering stages for %q: %w", name, err)
		}

		if err := printResolved(cmd, name, resolved, format); err != nil {
			return err
		}

		if format == output.FormatTable {
			hooks, err := loader.HookFiles()
			if err != nil {
				return fmt.Errorf("collecting hook files for %q: %w", name, err)
			}
			printHookFiles(cmd, dedupeStrings(hooks))
		}
	}

	return nil
}

// dedupeStrings drops repeats while preserving first-seen order.
// pkgload.PackageLoader.HookFiles intentionally returns the same hook
// file more than once when several ancestors resolve to it; the library
// preserves that faithfully, and this command collapses it only for
// display.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func printHookFiles(cmd *cobra.Command, hooks []string) {
	if len(hooks) == 0 {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.FormatNotice("hook files:"))
	for _, h := range hooks {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", h)
	}
}

func nativeMap(n *docval.Node) map[string]any {
	native, _ := n.Native().(map[string]any)
	return native
}

// mergeEnv layers base < packageSettings < overrides, each later layer
// taking precedence over earlier ones.
func mergeEnv(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

func parseParamOverrides(raw []string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("--param %q must be of the form key=value", kv)
		}
		out[parts[0]] = parts[1]
	}
	return out, nil
}

func printResolved(cmd *cobra.Command, name string, doc *docval.Node, format output.Format) error {
	switch format {
	case output.FormatYAML:
		data, err := docval.Marshal(doc)
		if err != nil {
			return fmt.Errorf("rendering %q as yaml: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", name, data)
	case output.FormatJSON:
		data, err := json.MarshalIndent(doc.Native(), "", "  ")
		if err != nil {
			return fmt.Errorf("rendering %q as json: %w", name, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case output.FormatTable:
		fmt.Fprintln(cmd.OutOrStdout(), output.FormatNotice(name))
		fmt.Fprintln(cmd.OutOrStdout(), output.RenderStageTable(stageStatusRows(doc)))
	case output.FormatDir:
		data, err := docval.Marshal(doc)
		if err != nil {
			return fmt.Errorf("rendering %q as yaml: %w", name, err)
		}
		if err := os.MkdirAll(outDirFlag, 0o755); err != nil {
			return fmt.Errorf("creating output dir %q: %w", outDirFlag, err)
		}
		target := filepath.Join(outDirFlag, name+".yaml")
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", target, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark(target))
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// stageStatusRows flattens a resolved document's three stage sections
// into table rows. Stage entries at this point have already had
// name/before/after stripped by topo ordering, so rows are sorted by
// section and then by handler, for stable output; entries without a
// handler keep their position within the section.
func stageStatusRows(doc *docval.Node) []output.StageStatus {
	var rows []output.StageStatus
	for _, section := range []string{"build_stages", "profile_links", "when_build_dependency"} {
		items, _ := docval.EnsureSeq(docval.MapGet(doc, section))
		for _, item := range items {
			handler, _ := docval.MapGet(item, "handler").AsString()
			rows = append(rows, output.StageStatus{
				Section: section,
				Name:    handler,
				Handler: handler,
				Status:  output.StatusResolved,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Section != rows[j].Section {
			return rows[i].Section < rows[j].Section
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
