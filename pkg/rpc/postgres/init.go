package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/gestcom/pkg/rpc"
)

func init() {
	rpc.Register("postgres", func(logger *slog.Logger) rpc.Adapter { return New(logger) })
}
