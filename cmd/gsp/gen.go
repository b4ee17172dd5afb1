package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gsp/internal/diag"
	"gsp/internal/diagfmt"
	"gsp/internal/driver"
	"gsp/internal/observ"
	"gsp/internal/project"
	"gsp/internal/translate"
)

var genCmd = &cobra.Command{
	Use:     "gen [flags] [template...]",
	Aliases: []string{"generate"},
	Short:   "Generate Go source from templates",
	Long: `Generate translates every template into a Go file next to it
(page.go.gsp -> page.go). Directories are searched for *.gsp files.
Templates may also be named with -i/--input. Without any templates the
ones listed in gsp.toml or gsp.yaml are used.`,
	RunE: runGen,
}

func init() {
	genCmd.Flags().StringArrayP("input", "i", nil, "template to translate (repeatable, same as a positional argument)")
	genCmd.Flags().StringP("output", "o", "", "output file (single template only)")
	genCmd.Flags().String("callback", "", "emit text through the callback NAME")
	genCmd.Flags().String("append", "", "append text to the byte slice NAME")
	genCmd.Flags().Bool("disable-line", false, "do not emit //line markers")
	genCmd.Flags().Bool("no-header", false, "do not emit the generated-code header")
	genCmd.Flags().Bool("stdout", false, "print generated code instead of writing files")
	genCmd.Flags().Int("jobs", 0, "max parallel templates (0 = GOMAXPROCS)")
	genCmd.Flags().Bool("cache", false, "skip templates whose output is up to date")
	genCmd.Flags().Bool("cache-clear", false, "drop every cached entry before generating")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	genCmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|short|json)")
	genCmd.Flags().String("manifest", "", "path to gsp.toml or gsp.yaml")
}

type genFlags struct {
	inputs      []string
	output      string
	callback    string
	appendTo    string
	disableLine bool
	noHeader    bool
	stdout      bool
	jobs        int
	cache       bool
	cacheClear  bool
	ui          uiMode
	diagFormat  string
	manifest    string

	quiet    bool
	timings  bool
	verbose  int
	maxDiags int
}

func readGenFlags(cmd *cobra.Command) (genFlags, error) {
	var (
		gf  genFlags
		err error
		ui  string
	)
	fl := cmd.Flags()
	if gf.inputs, err = fl.GetStringArray("input"); err != nil {
		return gf, err
	}
	if gf.output, err = fl.GetString("output"); err != nil {
		return gf, err
	}
	if gf.callback, err = fl.GetString("callback"); err != nil {
		return gf, err
	}
	if gf.appendTo, err = fl.GetString("append"); err != nil {
		return gf, err
	}
	if gf.disableLine, err = fl.GetBool("disable-line"); err != nil {
		return gf, err
	}
	if gf.noHeader, err = fl.GetBool("no-header"); err != nil {
		return gf, err
	}
	if gf.stdout, err = fl.GetBool("stdout"); err != nil {
		return gf, err
	}
	if gf.jobs, err = fl.GetInt("jobs"); err != nil {
		return gf, err
	}
	if gf.cache, err = fl.GetBool("cache"); err != nil {
		return gf, err
	}
	if gf.cacheClear, err = fl.GetBool("cache-clear"); err != nil {
		return gf, err
	}
	if ui, err = fl.GetString("ui"); err != nil {
		return gf, err
	}
	if gf.ui, err = readUIMode(ui); err != nil {
		return gf, err
	}
	if gf.diagFormat, err = fl.GetString("diag-format"); err != nil {
		return gf, err
	}
	switch gf.diagFormat {
	case "pretty", "short", "json":
	default:
		return gf, fmt.Errorf("unsupported diagnostics format %q (must be pretty, short or json)", gf.diagFormat)
	}
	if gf.manifest, err = fl.GetString("manifest"); err != nil {
		return gf, err
	}

	root := cmd.Root().PersistentFlags()
	if gf.quiet, err = root.GetBool("quiet"); err != nil {
		return gf, err
	}
	if gf.timings, err = root.GetBool("timings"); err != nil {
		return gf, err
	}
	if gf.verbose, err = root.GetCount("verbose"); err != nil {
		return gf, err
	}
	if gf.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return gf, err
	}
	if gf.jobs < 0 {
		return gf, fmt.Errorf("--jobs must not be negative")
	}
	return gf, nil
}

func runGen(cmd *cobra.Command, args []string) (err error) {
	gf, err := readGenFlags(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupObservability(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err) }()

	// стратегия из флагов; пусто - по умолчанию или из манифеста
	strategy, err := translate.StrategyFromNames(gf.callback, gf.appendTo)
	if err != nil {
		return err
	}
	strategySet := gf.callback != "" || gf.appendTo != ""
	override := func(cfg translate.Config) translate.Config {
		if strategySet {
			cfg.Strategy = strategy
		}
		if gf.disableLine {
			cfg.LineMarkers = false
		}
		if gf.noHeader {
			cfg.Header = false
		}
		return cfg
	}

	// -i/--input дополняет позиционные аргументы
	args = append(gf.inputs, args...)

	var reqs []driver.Request
	jobs, useCache := gf.jobs, gf.cache
	if len(args) == 0 {
		m, err := loadGenManifest(gf.manifest)
		if err != nil {
			return err
		}
		if gf.output != "" {
			return fmt.Errorf("--output needs a template argument")
		}
		for _, t := range m.Templates {
			cfg, err := m.Config(t, translate.DefaultConfig())
			if err != nil {
				return err
			}
			reqs = append(reqs, driver.Request{
				Template: m.Resolve(t.Path),
				Output:   m.Resolve(t.Output),
				Config:   override(cfg),
				Stdout:   gf.stdout,
			})
		}
		if !cmd.Flags().Changed("jobs") {
			jobs = m.Generate.Jobs
		}
		if !cmd.Flags().Changed("cache") {
			useCache = m.Generate.Cache
		}
	} else {
		templates, err := expandTemplateArgs(args)
		if err != nil {
			return err
		}
		if gf.output != "" && len(templates) != 1 {
			return fmt.Errorf("--output requires exactly one template, got %d", len(templates))
		}
		cfg := override(translate.DefaultConfig())
		for _, t := range templates {
			reqs = append(reqs, driver.Request{Template: t, Output: gf.output, Config: cfg, Stdout: gf.stdout})
		}
	}
	if len(reqs) == 0 {
		if !gf.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "gen: no templates")
		}
		return nil
	}

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = ""
	}
	opts := driver.Options{
		MaxDiagnostics: gf.maxDiags,
		Jobs:           jobs,
		BaseDir:        baseDir,
	}
	if gf.timings {
		opts.Timer = observ.NewTimer()
	}
	if gf.cacheClear {
		if err := clearGenCache(); err != nil {
			return err
		}
	}
	if useCache && !gf.stdout {
		cache, err := driver.OpenDiskCache("gsp")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "gen: cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}
	if gf.verbose > 0 {
		reportDerivedOutputs(cmd.ErrOrStderr(), reqs)
	}

	var results []driver.Result
	if shouldUseTUI(gf.ui, gf.stdout, gf.quiet, len(reqs)) {
		results, err = runGenerateWithUI(cmd.Context(), "generating templates", reqs, opts)
	} else {
		results, err = driver.GenerateAll(cmd.Context(), reqs, opts)
	}
	if err != nil {
		return err
	}

	if gf.stdout {
		out := cmd.OutOrStdout()
		for i := range results {
			if results[i].Failed() {
				continue
			}
			if _, err := out.Write(results[i].Code); err != nil {
				return err
			}
		}
	}

	failed, err := renderGenDiagnostics(cmd, gf, results)
	if err != nil {
		return err
	}
	if gf.timings {
		printStageTimings(cmd.ErrOrStderr(), results, opts.Timer)
	}
	if !gf.quiet && !gf.stdout {
		printGenSummary(cmd.ErrOrStderr(), results, gf.verbose)
	}
	if failed {
		return errReported
	}
	return nil
}

func clearGenCache() error {
	cache, err := driver.OpenDiskCache("gsp")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear cache %s: %w", cache.Dir(), err)
	}
	return nil
}

func loadGenManifest(explicit string) (*project.Manifest, error) {
	path := explicit
	if path == "" {
		found, ok, err := project.FindManifest(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("no templates given and no gsp.toml or gsp.yaml found")
		}
		path = found
	}
	return project.LoadManifest(path)
}

// expandTemplateArgs replaces directories with the templates they contain.
func expandTemplateArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			// отсутствующий файл сообщит Generate как IO-диагностику
			out = append(out, arg)
			continue
		}
		found, err := driver.ListTemplates(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list templates in %s: %w", arg, err)
		}
		out = append(out, found...)
	}
	return out, nil
}

func reportDerivedOutputs(w io.Writer, reqs []driver.Request) {
	for _, req := range reqs {
		if req.Stdout {
			fmt.Fprintf(w, "gen: %s -> stdout (%s)\n", req.Template, req.Config.Strategy)
			continue
		}
		out, err := driver.OutputPath(req.Template, req.Output)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "gen: %s -> %s (%s)\n", req.Template, out, req.Config.Strategy)
	}
}

func renderGenDiagnostics(cmd *cobra.Command, gf genFlags, results []driver.Result) (bool, error) {
	errOut := cmd.ErrOrStderr()
	failed := false
	for i := range results {
		if results[i].Bag == nil || results[i].Failed() {
			failed = true
		}
	}

	if gf.diagFormat == "short" {
		for i := range results {
			r := &results[i]
			if r.Bag == nil || r.Bag.Len() == 0 {
				continue
			}
			if text := diag.FormatShort(r.Bag.Items(), r.FileSet, false); text != "" {
				fmt.Fprintln(errOut, text)
			}
		}
		return failed, nil
	}

	if gf.diagFormat == "json" {
		var reports []diagfmt.Report
		for i := range results {
			r := &results[i]
			if r.Bag == nil || r.Bag.Len() == 0 {
				continue
			}
			reports = append(reports, diagfmt.BuildReport(r.Template, r.Bag, r.FileSet, diagfmt.JSONOpts{
				Positions: true,
				Notes:     true,
			}))
		}
		if len(reports) == 0 {
			return failed, nil
		}
		return failed, diagfmt.JSON(errOut, reports)
	}

	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return failed, err
	}
	opts := diagfmt.PrettyOpts{
		Color:     color,
		Context:   2,
		ShowNotes: true,
	}
	for i := range results {
		r := &results[i]
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		diagfmt.Pretty(errOut, r.Bag, r.FileSet, opts)
	}
	return failed, nil
}

func printGenSummary(w io.Writer, results []driver.Result, verbose int) {
	var written, cached, failed int
	for i := range results {
		r := &results[i]
		switch {
		case r.Bag == nil || r.Failed():
			failed++
		case r.Cached:
			cached++
			if verbose > 0 {
				fmt.Fprintf(w, "gen: %s up to date\n", filepath.ToSlash(r.Output))
			}
		case r.Written:
			written++
		}
	}
	fmt.Fprintf(w, "generated %d file(s)", written)
	if cached > 0 {
		fmt.Fprintf(w, ", %d up to date", cached)
	}
	if failed > 0 {
		fmt.Fprintf(w, ", %d failed", failed)
	}
	fmt.Fprintln(w)
}
