// Package cli provides the command-line interface for gestcom.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/gestcom/internal/cli/commands"
	"github.com/leapstack-labs/gestcom/internal/cli/config"
	"github.com/leapstack-labs/gestcom/internal/cli/output"
	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/leapstack-labs/gestcom/pkg/rpc"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWith()
}

// NewRootCmdWith creates the root command, passing opts to every gateway
// the commands build.
func NewRootCmdWith(opts ...gateway.Option) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gestcom",
		Short: "gestcom - commercial management queries",
		Long: `gestcom runs the predefined reporting queries of the commercial management
backend (inventory, payments, installments, stores, products and orders) and
prints their results.

Without a subcommand it starts the interactive menu. Credentials are read
from SUPABASE_URL and SUPABASE_KEY, usually kept in variables.env.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				"config_file", config.GetConfigFileUsed(),
				"env_file", config.GetEnvFileUsed(),
				"transport", cfg.Transport,
				"output", cfg.Output)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.RunMenu(cmd, opts...)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./gestcom.yaml)")
	pf.String("env-file", "", "credential env file (default: ./"+config.DefaultEnvFile+")")
	pf.String("url", "", "backend URL (overrides SUPABASE_URL)")
	pf.String("key", "", "backend access key (overrides SUPABASE_KEY)")
	pf.String("transport", "", "transport adapter ("+strings.Join(rpc.ListAdapters(), "|")+")")
	pf.String("schema", "", "database schema exposed by the backend")
	pf.Duration("timeout", 0, "per-query timeout (0 for none)")
	pf.Int("retry-max", 0, "retries for failed HTTP calls")
	pf.String("stores-field", "", "list field of the owner stores record (default: "+config.DefaultStoresField+")")
	pf.StringP("output", "o", "", "Output format ("+modeNames()+")")
	pf.String("color", "", "Color output (auto|always|never)")
	pf.String("history-file", "", "menu history file")
	pf.BoolP("verbose", "v", false, "Verbose output")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			names[i] = string(m)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("transport", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return rpc.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ColorPolicies, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewMenuCommand(opts...))
	rootCmd.AddCommand(commands.NewQueryCommand(opts...))
	rootCmd.AddCommand(commands.NewProceduresCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand(opts...))
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.GetCurrentConfig()
}

// newLogger builds the process logger. Warnings and errors go to w; debug
// output is added with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func modeNames() string {
	names := make([]string, len(output.Modes))
	for i, m := range output.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gestcom.

To load completions:

Bash:
  $ source <(gestcom completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gestcom completion bash > /etc/bash_completion.d/gestcom
  # macOS:
  $ gestcom completion bash > $(brew --prefix)/etc/bash_completion.d/gestcom

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gestcom completion zsh > "${fpath[1]}/_gestcom"

Fish:
  $ gestcom completion fish | source

  # To load completions for each session, execute once:
  $ gestcom completion fish > ~/.config/fish/completions/gestcom.fish

PowerShell:
  PS> gestcom completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
