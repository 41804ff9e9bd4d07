// Package cli implements the enclose command line: it picks the adapter for
// each file and renders what the adapter reports.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/enclose/internal/config"
	"github.com/xonecas/enclose/internal/treesitter"
)

// Version is stamped at build time.
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg *config.Config
}

// NewRootCmd builds the enclose command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "enclose",
		Short:         "Find the function or class enclosing a line range",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/enclose/config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newFindCmd(opts), newCheckCmd(opts))
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.noColor {
		cfg.Output.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.Kitchen,
		NoColor:    !cfg.Output.Color,
	}).Level(cfg.LogLevel()).With().Timestamp().Logger()
	return nil
}

// parserOptions returns the adapter options implied by the config.
func (o *rootOptions) parserOptions(policy treesitter.Policy) []treesitter.Option {
	return []treesitter.Option{
		treesitter.WithMaxFileSize(o.cfg.Parser.MaxFileSize),
		treesitter.WithPolicy(policy),
	}
}

// adapterFor picks the language adapter for path by extension.
func adapterFor(path string, opts ...treesitter.Option) (*treesitter.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyi":
		return treesitter.NewPythonParser(opts...), nil
	case ".go":
		return treesitter.NewGoParser(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

func supported(path string) bool {
	_, err := adapterFor(path)
	return err == nil
}
