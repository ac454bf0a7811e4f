package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dao_factory/internal/config"
	"dao_factory/internal/logging"
)

const programName = "daofactory"

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	debug      bool
	configFile string
	envFiles   []string

	cfg    *config.Config
	logger logging.Logger
	out    io.Writer
}

// NewRootCommand builds the command tree writing human output to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Run DAO factory scenarios against a local ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().
		BoolVarP(&a.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&a.configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().
		StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")

	rootCmd.AddCommand(a.runCommand())
	rootCmd.AddCommand(a.configCommand())
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configFile, a.envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.debug {
		cfg.AppEnv = "development"
	}
	a.cfg = cfg
	a.logger = logging.Component(logging.NewLogger(cfg.AppEnv), programName)
	a.logger.Debug().Str("network", cfg.Network).Msg("config loaded")
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		return 1
	}
	return 0
}
