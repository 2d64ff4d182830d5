package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/hercules/pkg/audit"
	"mercator-hq/hercules/pkg/config"
	"mercator-hq/hercules/pkg/retention"
	"mercator-hq/hercules/pkg/telemetry"
	"mercator-hq/hercules/pkg/telemetry/logging"
)

var runFlags struct {
	inputFile      string
	outputPath     string
	testDataPath   string
	projectBase    string
	llmModel       string
	llmModelAPIKey string

	logLevel  string
	logFormat string
	auditDB   string
	prune     bool
	watch     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve the configuration and provision the workspace",
	Long: `Resolve the effective configuration from defaults, the optional
configuration file, environment variables, and command-line flags, then
provision the workspace directory layout for a run.

Examples:
  # Resolve from environment and defaults
  hercules run

  # Resolve with a base configuration file
  hercules run --config agents_config.yaml

  # Override individual values from the command line
  hercules run --llm-model gpt-4o --llm-model-api-key sk-...

  # Record the resolved configuration to an audit database
  hercules run --audit-db ./opt/audit.db`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.inputFile, "input-file", "", "Gherkin feature file to execute")
	runCmd.Flags().StringVar(&runFlags.outputPath, "output-path", "", "directory for JUnit XML results")
	runCmd.Flags().StringVar(&runFlags.testDataPath, "test-data-path", "", "directory holding test data files")
	runCmd.Flags().StringVar(&runFlags.projectBase, "project-base", "", "workspace root directory")
	runCmd.Flags().StringVar(&runFlags.llmModel, "llm-model", "", "LLM model name")
	runCmd.Flags().StringVar(&runFlags.llmModelAPIKey, "llm-model-api-key", "", "LLM model API key")

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.logFormat, "log-format", "text", "log format (text, json)")
	runCmd.Flags().StringVar(&runFlags.auditDB, "audit-db", "", "record the resolved configuration to this SQLite database")
	runCmd.Flags().BoolVar(&runFlags.prune, "prune", false, "prune aged per-test artifact directories before the run")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "watch the configuration file and apply changes (requires --config)")
}

// cliOverrides maps the flags cobra already parsed to their canonical
// configuration keys, so the command line is parsed exactly once.
func cliOverrides() map[string]string {
	overrides := make(map[string]string)
	set := func(key, v string) {
		if v != "" {
			overrides[key] = v
		}
	}
	set(config.KeyInputGherkinFilePath, runFlags.inputFile)
	set(config.KeyJUnitXMLBasePath, runFlags.outputPath)
	set(config.KeyTestDataPath, runFlags.testDataPath)
	set(config.KeyProjectSourceRoot, runFlags.projectBase)
	set(config.KeyLLMModelName, runFlags.llmModel)
	set(config.KeyLLMModelAPIKey, runFlags.llmModelAPIKey)
	return overrides
}

func runResolve(cmd *cobra.Command, args []string) error {
	if verbose {
		runFlags.logLevel = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:  runFlags.logLevel,
		Format: runFlags.logFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	// The configuration file is a flat key-value mapping, not a complete
	// configuration: missing keys fall through to environment variables
	// and defaults.
	var base map[string]string
	if cfgFile != "" {
		base, err = config.ReadMapping(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		slog.Info("loaded base configuration", "path", cfgFile, "keys", len(base))
	}

	cfg, err := config.Default().GetOrCreate(base, config.WithOverrides(cliOverrides()))
	if err != nil {
		var authErr *config.AuthError
		if errors.As(err, &authErr) {
			slog.Error("invalid LLM configuration", "error", authErr)
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("✓ Configuration resolved (mode: %s, browser: %s)\n", cfg.Mode(), cfg.BrowserType())

	paths := []struct {
		name string
		fn   func() (string, error)
	}{
		{"results", cfg.JUnitXMLBasePath},
		{"test data", cfg.TestDataPath},
		{"proofs", cfg.ProofPath},
		{"temp", cfg.ProjectTempPath},
		{"logs", cfg.SourceLogFolderPath},
		{"staged features", cfg.TmpGherkinPath},
	}
	for _, p := range paths {
		dir, err := p.fn()
		if err != nil {
			return fmt.Errorf("failed to provision %s directory: %w", p.name, err)
		}
		slog.Debug("workspace directory ready", "purpose", p.name, "path", dir)
	}

	fmt.Printf("✓ Workspace provisioned under %s\n", cfg.ProjectSourceRoot())

	sink := telemetry.NewAsyncSink(func(event telemetry.Event) {
		slog.Debug("telemetry event", "type", event.Type, "detail", event.Detail)
	}, 0, nil)
	defer sink.Close()
	cfg.SendConfigTelemetry(sink)

	if runFlags.auditDB != "" {
		store, err := audit.Open(runFlags.auditDB)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer store.Close()

		id, err := store.Record(cmd.Context(), cfg.Snapshot())
		if err != nil {
			return fmt.Errorf("failed to record configuration snapshot: %w", err)
		}
		fmt.Printf("✓ Configuration snapshot recorded (%s)\n", id)
	}

	if runFlags.prune {
		pruneConfig := retention.DefaultConfig()
		snap := cfg.Snapshot()
		pruneConfig.Roots = []string{
			snap[config.KeyScreenShotPath],
			snap[config.KeyProjectTempPath],
			snap[config.KeySourceLogFolderPath],
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		pruned, err := retention.NewPruner(pruneConfig).Prune(ctx)
		cancel()
		if err != nil {
			slog.Warn("retention pruning failed", "error", err)
		} else if pruned > 0 {
			fmt.Printf("✓ Pruned %d aged test directories\n", pruned)
		}
	}

	if runFlags.watch {
		if cfgFile == "" {
			return fmt.Errorf("--watch requires --config")
		}
		watcher, err := config.NewWatcher(cfgFile, config.Default())
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
		defer watcher.Stop()

		fmt.Printf("✓ Watching %s for changes\n", cfgFile)
		fmt.Println("\nPress Ctrl+C to stop")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		fmt.Printf("\nReceived signal %s, shutting down\n", sig)
	}

	return nil
}
