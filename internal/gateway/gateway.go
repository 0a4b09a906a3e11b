// Package gateway exposes one function per backend query.
//
// A Gateway owns a single rpc.Invoker for the life of the process. Each
// operation builds the parameter mapping for its procedure, performs exactly
// one invocation and hands the raw payload back to the caller.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/gestcom/internal/config"
	"github.com/leapstack-labs/gestcom/pkg/rpc"

	// Transport adapters register themselves with the rpc registry.
	_ "github.com/leapstack-labs/gestcom/pkg/rpc/postgres"
	_ "github.com/leapstack-labs/gestcom/pkg/rpc/postgrest"
)

// Gateway invokes the backend procedures.
type Gateway struct {
	inv         rpc.Invoker
	logger      *slog.Logger
	storesField string
	timeout     time.Duration
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for warnings and call tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithInvoker uses inv instead of building an adapter from the configuration.
func WithInvoker(inv rpc.Invoker) Option {
	return func(g *Gateway) {
		g.inv = inv
	}
}

// WithStoresField overrides the list field normalized by OwnerStores.
func WithStoresField(name string) Option {
	return func(g *Gateway) {
		if name != "" {
			g.storesField = name
		}
	}
}

// New validates cfg and connects the configured transport adapter.
// Missing credentials are reported as *config.ConfigError and no Gateway
// is returned.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	g := &Gateway{
		logger:      slog.New(slog.DiscardHandler),
		storesField: cfg.StoresField,
		timeout:     cfg.Timeout,
	}
	if g.storesField == "" {
		g.storesField = config.DefaultStoresField
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.inv == nil {
		rpcCfg := cfg.RPCConfig()
		adapter, err := rpc.NewAdapter(rpcCfg, g.logger)
		if err != nil {
			return nil, err
		}
		if err := adapter.Connect(ctx, rpcCfg); err != nil {
			return nil, fmt.Errorf("failed to connect %s transport: %w", adapter.Name(), err)
		}
		g.inv = adapter
		g.logger.Debug("gateway connected", "transport", adapter.Name())
	}

	return g, nil
}

// Close releases the underlying adapter.
func (g *Gateway) Close() error {
	if g == nil || g.inv == nil {
		return nil
	}
	return g.inv.Close()
}

// StoresField returns the list field normalized by OwnerStores.
func (g *Gateway) StoresField() string {
	return g.storesField
}

// call performs one invocation of procedure.
func (g *Gateway) call(ctx context.Context, procedure string, params rpc.Params) (json.RawMessage, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if params == nil {
		params = rpc.Params{}
	}

	start := time.Now()
	raw, err := g.inv.Invoke(ctx, procedure, params)
	g.logger.Debug("rpc call",
		"procedure", procedure,
		"params", params.Keys(),
		"duration", time.Since(start),
		"ok", err == nil)
	return raw, err
}
