// Package cli implements the iongraph command-line interface.
//
// This package provides commands for decoding SpiderMonkey Ion passes,
// laying them out, rendering them as SVG/DOT/JSON, managing the on-disk
// layout cache, and serving computed layouts over HTTP. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: decode a pass, lay it out, and render SVG/DOT/JSON
//   - dot: debug command dumping a computed layout as Graphviz DOT
//   - inspect: print a pass's block/loop structure without laying it out
//   - cache: manage the on-disk layout cache
//   - serve: expose computed layouts over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Commands log
// through the CLI's shared Logger; log.go also has helpers that carry a
// logger in a context.Context, which the commands do not use.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iongraph/iongraph/pkg/buildinfo"
	"github.com/iongraph/iongraph/pkg/cache"
	"github.com/iongraph/iongraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "iongraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetBuildInfo sets the version information displayed by --version. It is
// called by main during initialization with values injected via ldflags at
// build time; see pkg/buildinfo.
func SetBuildInfo(version, commit, date string) {
	buildinfo.Version = version
	buildinfo.Commit = commit
	buildinfo.Date = date
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "iongraph",
		Short:        "iongraph lays out SpiderMonkey Ion control-flow graphs",
		Long:         `iongraph decodes SpiderMonkey Ion JIT compiler passes and lays out their control-flow graphs as layered block diagrams, mirroring the shape of Firefox's IONFLAGS=logs viewer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	backing, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backing, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cache.DefaultCacheDir())
}
