package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"unsound/internal/cache"
	"unsound/internal/checker"
	"unsound/internal/diag"
	"unsound/internal/diagfmt"
	"unsound/internal/observ"
	"unsound/internal/project"
	"unsound/internal/rule"
	"unsound/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Check Python files for type-soundness gaps",
	Long:  `Check the given files or directories (default: current directory) for patterns that undermine static type checking`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringArray("rule", nil, "override a rule level as name=level (level: ignore|warn|error), repeatable")
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().String("summary", "false", "per-rule summary table (false|true|only)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse results for unchanged files across runs")
	checkCmd.Flags().Bool("no-config", false, "ignore unsound.toml and pyproject.toml")
	checkCmd.Flags().Bool("with-notes", true, "include notes in pretty output")
}

// cliOverrides parses repeated --rule name=level flags.
func cliOverrides(specs []string) ([]rule.Override, error) {
	out := make([]rule.Override, 0, len(specs))
	for _, spec := range specs {
		name, level, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --rule %q (expected name=level)", spec)
		}
		out = append(out, rule.Override{
			Rule:   strings.TrimSpace(name),
			Level:  level,
			Source: rule.SourceCli,
			Origin: "command line",
		})
	}
	return out, nil
}

// configStartDir picks the directory the configuration search walks up from.
func configStartDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
		return paths[0]
	}
	return filepath.Dir(paths[0])
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (must be pretty, short, or json)", format)
	}

	summaryMode, err := flags.GetString("summary")
	if err != nil {
		return fmt.Errorf("failed to get summary flag: %w", err)
	}
	switch summaryMode {
	case "false", "true", "only":
	default:
		return fmt.Errorf("unknown summary mode %q (must be false, true, or only)", summaryMode)
	}

	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useDiskCache, err := flags.GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	noConfig, err := flags.GetBool("no-config")
	if err != nil {
		return fmt.Errorf("failed to get no-config flag: %w", err)
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	ruleSpecs, err := flags.GetStringArray("rule")
	if err != nil {
		return fmt.Errorf("failed to get rule flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	timer := observ.NewTimer()

	// Configuration discovery and rule selection.
	phase := timer.Begin("configure")
	var overrides []rule.Override
	var excludes []string
	if !noConfig {
		cfg, err := project.Discover(configStartDir(paths))
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		overrides = append(overrides, cfg.Overrides...)
		excludes = cfg.Exclude
	}
	cli, err := cliOverrides(ruleSpecs)
	if err != nil {
		return err
	}
	overrides = append(overrides, cli...)

	registry := rule.DefaultRegistry()
	selection := rule.FromRegistry(registry)
	warnings := selection.Apply(registry, overrides)
	for _, w := range warnings.Items() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}
	timer.End(phase, fmt.Sprintf("%d overrides", len(overrides)))

	// File discovery and loading.
	phase = timer.Begin("discover")
	files, err := project.ListPythonFiles(paths, excludes)
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d files", len(files)))

	phase = timer.Begin("load")
	fileSet := source.NewFileSet()
	ids := make([]source.FileID, 0, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		ids = append(ids, id)
	}
	timer.End(phase, "")

	var diskCache *cache.DiskCache
	if useDiskCache {
		diskCache, err = cache.Open("unsound")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	phase = timer.Begin("check")
	bag, cached, err := checkFiles(cmd, fileSet, ids, registry, selection, diskCache, jobs)
	if err != nil {
		return err
	}
	bag.SortByPosition()
	timer.End(phase, fmt.Sprintf("%d cached", cached))

	// Output.
	phase = timer.Begin("format")
	out := cmd.OutOrStdout()
	shown := bag
	if maxDiagnostics > 0 && bag.Len() > maxDiagnostics {
		shown = diag.NewBag()
		for _, d := range bag.Items()[:maxDiagnostics] {
			shown.Add(d)
		}
	}
	if summaryMode != "only" {
		switch format {
		case "pretty":
			diagfmt.Pretty(out, shown, fileSet, diagfmt.PrettyOpts{
				Color:     colored,
				ShowNotes: withNotes,
			})
		case "short":
			diagfmt.Short(out, shown, fileSet, diagfmt.PathModeAuto)
		case "json":
			opts := diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     withNotes,
				Max:              maxDiagnostics,
			}
			if err := diagfmt.JSON(out, bag, fileSet, opts); err != nil {
				return err
			}
		}
	}
	if summaryMode != "false" {
		diagfmt.Summary(out, bag)
	}
	timer.End(phase, "")

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if bag.Len() > 0 {
		return errDiagnosticsFound
	}
	return nil
}

// checkFiles runs the checker over ids, consulting the disk cache first when
// one is open. Returns the merged diagnostics and the cache hit count.
func checkFiles(cmd *cobra.Command, fileSet *source.FileSet, ids []source.FileID, registry *rule.Registry, selection *rule.Selection, diskCache *cache.DiskCache, jobs int) (*diag.Bag, int, error) {
	bag := diag.NewBag()
	if diskCache == nil {
		fresh, err := checker.CheckProject(cmd.Context(), fileSet, ids, registry, selection, jobs)
		if err != nil {
			return nil, 0, err
		}
		bag.Merge(fresh)
		return bag, 0, nil
	}

	fingerprint := selection.Fingerprint(registry)
	missed := make([]source.FileID, 0, len(ids))
	hits := 0
	for _, id := range ids {
		key := cache.Key(fileSet.Get(id).Hash, fingerprint)
		diags, ok, err := diskCache.Get(key, id)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			missed = append(missed, id)
			continue
		}
		hits++
		for _, d := range diags {
			bag.Add(d)
		}
	}

	if len(missed) > 0 {
		fresh, err := checker.CheckProject(cmd.Context(), fileSet, missed, registry, selection, jobs)
		if err != nil {
			return nil, hits, err
		}

		byFile := make(map[source.FileID][]diag.Diagnostic, len(missed))
		for _, d := range fresh.Items() {
			byFile[d.Primary.File] = append(byFile[d.Primary.File], d)
		}
		for _, id := range missed {
			key := cache.Key(fileSet.Get(id).Hash, fingerprint)
			if err := diskCache.Put(key, byFile[id]); err != nil {
				return nil, hits, err
			}
		}
		bag.Merge(fresh)
	}
	return bag, hits, nil
}
