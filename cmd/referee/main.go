// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the referee CLI: it fans one academic
// paper out to a set of model backends, collects their answers, and renders
// a multi-perspective referee report.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/referee/internal/console"
	"github.com/pdiddy/referee/internal/document"
	"github.com/pdiddy/referee/internal/matrix"
	"github.com/pdiddy/referee/internal/pipeline"
	"github.com/pdiddy/referee/internal/registry"
	"github.com/pdiddy/referee/internal/runner"
	"github.com/pdiddy/referee/internal/secrets"
	"github.com/pdiddy/referee/internal/sink"
	"github.com/pdiddy/referee/internal/survey"
	"github.com/pdiddy/referee/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command: a single pipeline invocation over one document.
var rootCmd = &cobra.Command{
	Use:   "referee <document-path>",
	Short: "Generate multi-model referee reports for academic papers",
	Long: `referee sends one academic paper to several model backends, asks each the
same ordered question chain, and renders the answers into a single report
with one section per model.

The report goes to exactly one destination: a local docx file (default),
the system clipboard (--clipboard), or the remote artifact registry
(--to-remote). With --to-remote the source paper is published first so the
report's description can reference its URL.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runReferee,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./referee.yaml or ~/.config/referee/config.yaml)")

	rootCmd.Flags().StringP("output", "o", "", "output file path for the local report (default: referee_report_<stem>.docx)")
	rootCmd.Flags().IntP("pages", "p", 0, "number of pages to process from the beginning of the document")
	rootCmd.Flags().String("prompt", survey.DefaultPrompt, "prompt for the review question")
	rootCmd.Flags().Bool("clipboard", false, "copy the report to the clipboard instead of saving to file")
	rootCmd.Flags().Bool("to-remote", false, "publish the report to the artifact registry")
	rootCmd.Flags().Bool("rebuttal", false, "add a chained question answering the review on the authors' behalf")
	rootCmd.Flags().String("survey", "", "YAML file defining a custom question chain")
	rootCmd.Flags().Bool("best-effort", false, "record placeholders for failed model calls instead of aborting")
	rootCmd.Flags().Bool("no-cache", false, "disable the local answer cache")
	rootCmd.Flags().StringArray("model", nil, "model to query as service/name (repeatable; overrides the configured model set)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("referee")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "referee"))
		}
	}

	viper.SetEnvPrefix("REFEREE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runReferee(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	pages, _ := flags.GetInt("pages")
	if err := pipeline.ValidatePages(flags.Changed("pages"), pages); err != nil {
		return err
	}

	toClipboard, _ := flags.GetBool("clipboard")
	toRemote, _ := flags.GetBool("to-remote")
	kind, err := sink.Select(toClipboard, toRemote)
	if err != nil {
		return err
	}

	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}
	cfg.Runner.APIKey = secrets.Fallback(loadedSecrets, secrets.KeyRunner, cfg.Runner.APIKey)
	cfg.Registry.APIKey = secrets.Fallback(loadedSecrets, secrets.KeyRegistry, cfg.Registry.APIKey)
	if cfg.Runner.UserAgent == "" {
		cfg.Runner.UserAgent = "referee/" + version
	}
	if cfg.Registry.UserAgent == "" {
		cfg.Registry.UserAgent = "referee/" + version
	}

	reporter := console.NewStyled(os.Stdout)

	outputPath, _ := flags.GetString("output")
	if outputPath != "" && kind != sink.KindLocalFile {
		reporter.Warnf("--output only applies to the local-file sink; ignoring it for %s", kind)
		outputPath = ""
	}

	models := cfg.Models
	if modelFlags, _ := flags.GetStringArray("model"); len(modelFlags) > 0 {
		models, err = parseModels(modelFlags)
		if err != nil {
			return err
		}
	}

	noCache, _ := flags.GetBool("no-cache")
	run, closeRun := buildRunner(cfg, noCache, reporter)
	defer closeRun()

	var publisher sink.Publisher
	if kind == sink.KindRemote {
		publisher = registry.NewClient(cfg.Registry)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt, _ := flags.GetString("prompt")
	rebuttal, _ := flags.GetBool("rebuttal")
	surveyFile, _ := flags.GetString("survey")
	bestEffort, _ := flags.GetBool("best-effort")

	extractor, err := documentExtractor(cfg, args[0])
	if err != nil {
		return err
	}

	_, err = pipeline.Run(ctx, pipeline.Options{
		DocumentPath: args[0],
		Pages:        pages,
		Prompt:       prompt,
		Rebuttal:     rebuttal,
		SurveyFile:   surveyFile,
		Models:       models,
		Sink:         kind,
		OutputPath:   outputPath,
		BestEffort:   bestEffort,
		Extractor:    extractor,
		Runner:       run,
		Publisher:    publisher,
		Reporter:     reporter,
	})
	return err
}

// buildRunner assembles the model runner: the HTTP gateway client, wrapped
// in the answer cache unless caching is disabled. A cache that fails to
// open degrades to uncached execution with a warning.
func buildRunner(cfg types.PipelineConfig, noCache bool, reporter console.Reporter) (matrix.Runner, func()) {
	base := runner.NewHTTPRunner(cfg.Runner)

	if noCache || cfg.Cache.Disable {
		return base, func() {}
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserCacheDir()
		if err != nil {
			reporter.Warnf("cannot determine cache directory, running uncached: %v", err)
			return base, func() {}
		}
		dir = filepath.Join(home, "referee")
	}

	cache, err := runner.OpenCache(dir)
	if err != nil {
		reporter.Warnf("cannot open answer cache, running uncached: %v", err)
		return base, func() {}
	}

	closeFn := func() {
		hits, misses := cache.Stats()
		if hits+misses > 0 {
			reporter.Infof("answer cache: %d hits, %d misses", hits, misses)
		}
		cache.Close()
	}
	return &runner.CachedRunner{Next: base, Cache: cache}, closeFn
}

// parseModels converts repeated --model service/name values into configs.
func parseModels(values []string) ([]types.ModelConfig, error) {
	models := make([]types.ModelConfig, 0, len(values))
	for _, v := range values {
		service, name, ok := strings.Cut(v, "/")
		if !ok || service == "" || name == "" {
			return nil, fmt.Errorf("%w: --model wants service/name, got %q", types.ErrInvalidArgument, v)
		}
		models = append(models, types.ModelConfig{Name: name, Service: service})
	}
	return models, nil
}

// documentExtractor honors the configured extractor override, if any.
func documentExtractor(cfg types.PipelineConfig, path string) (document.Extractor, error) {
	return document.ForName(cfg.Document.Extractor, path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
