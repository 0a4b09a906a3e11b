package commands

import (
	"log/slog"

	"github.com/leapstack-labs/gestcom/internal/cli/config"
	"github.com/leapstack-labs/gestcom/internal/cli/output"
	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Gateway  *gateway.Gateway
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a connected gateway and a
// renderer. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command, opts ...gateway.Option) (*CommandContext, func(), error) {
	cc, err := NewCommandContextWithoutGateway(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]gateway.Option{gateway.WithLogger(cc.Logger)}, opts...)
	gw, err := gateway.New(cmd.Context(), cc.Cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	cc.Gateway = gw

	cleanup := func() {
		_ = gw.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutGateway creates a CommandContext without a gateway.
// Useful for commands that don't talk to the backend.
func NewCommandContextWithoutGateway(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, err
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	r.SetColor(cfg.Color)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// getConfig returns the current configuration, loading it from the usual
// sources when the root command has not done so.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}
