package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docenrich/internal/config"
)

// Global carries state shared by all commands.
type Global struct {
	Logger *slog.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docenrich.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Enhance  EnhanceCmd  `cmd:"" default:"withargs" help:"Enrich documents with derived metadata and write them back"`
	Validate ValidateCmd `cmd:"" help:"Score documents without modifying them"`
	Repair   RepairCmd   `cmd:"" help:"Repair frontmatter blocks only"`
	TOC      TOCCmd      `cmd:"" name:"toc" help:"Insert, remove or check tables of contents"`
	Watch    WatchCmd    `cmd:"" help:"Re-enrich documents whenever they change"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with every default"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply(g *Global) error {
	g.configPath = c.Config
	g.verbose = c.Verbose
	g.Logger = config.LoggingConfig{}.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig reads the configuration once. A missing file at the default
// location yields the defaults.
func (g *Global) LoadConfig() (*config.Config, error) {
	if g.cfg != nil {
		return g.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(g.configPath); os.IsNotExist(statErr) && isDefaultConfigPath(g.configPath) {
		cfg = config.Default()
	} else if cfg, err = config.Load(g.configPath); err != nil {
		return nil, err
	}

	g.cfg = cfg
	g.Logger = cfg.Logging.NewLogger(os.Stderr, g.verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func isDefaultConfigPath(path string) bool {
	return path == config.DefaultFilename
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
