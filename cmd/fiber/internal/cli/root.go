// Package cli implements the fiber commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/cmd/fiber/internal/config"
	"github.com/go-drift/fiber/cmd/fiber/internal/logging"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/engine"
	"github.com/go-drift/fiber/pkg/errors"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by all commands of one invocation.
type app struct {
	build BuildInfo

	dir      string
	logLevel string
	logFile  string
	verbose  bool

	cfg      *config.Resolved
	log      *zap.Logger
	closeLog func()
}

// NewRootCmd creates the root cobra command.
func NewRootCmd(version, commit, date string) *cobra.Command {
	a := &app{build: BuildInfo{Version: version, Commit: commit, Date: date}}

	rootCmd := &cobra.Command{
		Use:   "fiber",
		Short: "fiber renders component trees incrementally, one time slice at a time",
		Long: `fiber is an incremental reconciliation engine. This command drives its
demo page: interactively in the terminal, headless with a cycle trace, or as
a snapshot of the committed output tree.

Settings are read from fiber.yaml in the project directory when present.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.dir, "dir", "C", "", "project directory (default: nearest directory with fiber.yaml or go.mod)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "write JSON logs to a rotating file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "include stack traces in error logs")

	rootCmd.AddCommand(newDemoCmd(a))
	rootCmd.AddCommand(newTraceCmd(a))
	rootCmd.AddCommand(newSnapshotCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

func (a *app) setup() error {
	dir := a.dir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			if dir, err = os.Getwd(); err != nil {
				return err
			}
		} else {
			dir = root
		}
	}

	cfg, err := config.Resolve(dir, a.build.Version)
	if err != nil {
		return &errors.EngineError{Op: "config.Resolve", Kind: errors.KindConfig, Err: err}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	a.cfg = cfg

	log, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	a.log, a.closeLog = log, closeLog
	core.SetLogger(log.Named("core"))
	engine.SetLogger(log.Named("engine"))
	errors.SetHandler(errors.NewLogHandler(log.Named("errors"), a.verbose))
	log.Debug("config resolved",
		zap.String("root", cfg.Root),
		zap.String("app", cfg.AppName),
		zap.Duration("tick", cfg.Tick),
		zap.Duration("budget", cfg.SliceBudget))
	return nil
}

func (a *app) teardown() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

// engineConfig maps resolved settings onto the engine configuration.
func (a *app) engineConfig() core.Config {
	return core.Config{
		YieldThreshold: a.cfg.YieldThreshold,
		TraceCapacity:  a.cfg.TraceCapacity,
		Logger:         a.log.Named("core"),
	}
}

// pageProps returns the props of the demo page.
func (a *app) pageProps() core.Props {
	props := core.Props{"title": a.cfg.AppName}
	if len(a.cfg.Todos) > 0 {
		props["items"] = a.cfg.Todos
	}
	return props
}
