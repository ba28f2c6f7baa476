package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vcore/internal/config"
	"github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/internal/treefile"
	"github.com/vango-dev/vcore/pkg/engine"
	"github.com/vango-dev/vcore/pkg/host/memhost"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	config  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vcore",
		Short: "Render and reconcile component trees",
		Long: `vcore renders declarative component trees into a host tree and
reconciles later trees against it with the fewest host mutations.

Trees are described in YAML or JSON tree files. Commands mount them into an
in-memory document to print markup, show the mutations between two versions,
serve a live preview or publish the result to object storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), flags.verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Config file (default: vcore.yaml in the current directory or a parent)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(flags),
		diffCmd(flags),
		dumpCmd(flags),
		serveCmd(flags),
		exportCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads the config named by --config, or the nearest project
// config. Without either, defaults are used.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.config != "" {
		return config.LoadFile(flags.config)
	}
	cfg, err := config.LoadFromWorkingDir()
	if errors.Code(err) == "E141" {
		slog.Debug("no config file found, using defaults")
		return config.New(), nil
	}
	return cfg, err
}

// mount renders doc into a fresh in-memory document.
func mount(ctx context.Context, cfg *config.Config, doc *treefile.Document) (*engine.Engine, *memhost.Document, error) {
	host := memhost.New()
	opts := append(cfg.EngineOptions(), engine.WithLogger(slog.Default().With("component", "engine")))
	eng := engine.New(host, opts...)
	err := eng.RenderToTree(ctx, doc.Tree(), host.Body())
	return eng, host, err
}
