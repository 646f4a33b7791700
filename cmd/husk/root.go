package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/huskpkg/husk/internal/config"
	"github.com/huskpkg/husk/internal/launch"
	"github.com/huskpkg/husk/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgPath   string
	cacheRoot string
	logLevel  string
	logFormat string
	quiet     bool
	globalCfg *config.Config
	logger    *slog.Logger

	// Global components
	globalStore    *store.Store
	globalLauncher *launch.Launcher
)

// initializeComponents initializes the global store and launcher
func initializeComponents() error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := os.MkdirAll(globalCfg.CacheRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create cache root: %w", err)
	}

	st, err := store.New(globalCfg.DefaultDBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	globalStore = st

	var resolver launch.Resolver = launch.NullResolver{}
	if dir := globalCfg.Resolver.LocalDir; dir != "" {
		resolver = launch.DirResolver{Dir: dir, Logger: logger}
	}

	globalLauncher = launch.New(globalCfg, globalStore, resolver, logger)
	return nil
}

// shouldSkipComponentInit checks if a command should skip component initialization
func shouldSkipComponentInit(cmdName string) bool {
	skipInitCmds := map[string]bool{
		"help":    true,
		"version": true,
		"config":  true,
		"inspect": true,
	}
	return skipInitCmds[cmdName]
}

// closeStore closes the global store connection
func closeStore() {
	if globalStore != nil {
		if err := globalStore.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "husk",
		Short: "Launch self-contained application archives",
		Long: `husk runs applications packaged as a single distributable file that is
simultaneously a valid zip archive and directly executable. The archive
embeds the application together with declarative dependency and launch
metadata; husk locates the archive data behind any executable prefix,
extracts it into a per-application cache exactly once, and launches the
application with a correctly assembled command line.`,
		Example: `  husk run app.jar -- --port 8080
  husk run --dry-run app.jar
  husk inspect app.jar
  husk extract --force app.jar
  husk history --app hello_1.0`,
		Version: "0.1.0",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging
			setupLogging()

			// Skip config loading for commands that don't need it
			if shouldSkipConfig(cmd.Name()) {
				return nil
			}

			// Load config
			if cfgPath == "" {
				var err error
				cfgPath, err = config.FindConfigFile()
				if err != nil && cmd.Name() != "config" {
					logger.Debug("config file not found, using defaults", "error", err)
				}
			}

			if cfgPath != "" {
				var err error
				globalCfg, err = config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			} else {
				globalCfg = config.DefaultConfig()
			}

			// Override with command-line flags if provided
			if cacheRoot != "" {
				globalCfg.CacheRoot = cacheRoot
			}

			if !quiet {
				logger.Debug("config loaded", "path", cfgPath, "cache_root", globalCfg.CacheRoot)
			}

			// Initialize components after config is loaded
			if !shouldSkipComponentInit(cmd.Name()) {
				if err := initializeComponents(); err != nil {
					return fmt.Errorf("failed to initialize components: %w", err)
				}
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeStore()
		},
	}

	// Add persistent flags
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (auto-discovered if not specified)")
	cmd.PersistentFlags().StringVar(&cacheRoot, "cache-root", "", "override application cache root")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	cmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error output")

	// Add subcommands
	cmd.AddCommand(
		newRunCmd(),
		newInspectCmd(),
		newExtractCmd(),
		newHistoryCmd(),
		newConfigCmd(),
	)

	return cmd
}

// setupLogging initializes the slog logger based on flags
func setupLogging() {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if quiet {
		level = slog.LevelError
	}

	var handler slog.Handler
	if strings.ToLower(logFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// shouldSkipConfig checks if a command should skip config loading
func shouldSkipConfig(cmdName string) bool {
	skipConfigCmds := map[string]bool{
		"help":    true,
		"version": true,
	}
	return skipConfigCmds[cmdName]
}
