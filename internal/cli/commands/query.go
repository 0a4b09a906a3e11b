package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/leapstack-labs/gestcom/internal/payload"
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(opts ...gateway.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <query> [args...]",
		Short: "Run one query and print its result",
		Long: `Run one of the predefined backend queries without the interactive menu.

The query is named by its menu number or its slug (see 'gestcom procedures').
Arguments follow in parameter order.`,
		Example: `  # Inventory of store 3
  gestcom query inventory 3

  # Payment history of customer 12, as JSON
  gestcom query 2 cliente 12 -o json

  # Stores of owner 5
  gestcom query owner-stores 5`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			slugs := make([]string, len(gateway.Catalog))
			for i, q := range gateway.Catalog {
				slugs[i] = q.Slug + "\t" + q.Label
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			q, ok := gateway.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown query %q\nHint: run 'gestcom procedures' to list the available queries", args[0])
			}
			values, err := convertArgs(q, args[1:])
			if err != nil {
				return err
			}

			cc, cleanup, err := NewCommandContext(cmd, opts...)
			if err != nil {
				return err
			}
			defer cleanup()

			return runQuery(cmd.Context(), cc, q, values)
		},
	}
	return cmd
}

// runQuery invokes q and renders its payload. Nothing is printed when the
// call or the classification fails.
func runQuery(ctx context.Context, cc *CommandContext, q gateway.Query, args []any) error {
	raw, err := q.Run(ctx, cc.Gateway, args)
	if err != nil {
		return err
	}

	res, err := payload.Classify(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", q.Procedure, err)
	}
	cc.Logger.Debug("query result", "query", q.Slug, "kind", res.Kind.String())

	return cc.Renderer.Result(q.TitleFor(args), res)
}

// querySummary describes q for listings.
func querySummary(q gateway.Query) string {
	var b strings.Builder
	b.WriteString(q.Slug)
	for _, p := range q.Params {
		fmt.Fprintf(&b, " <%s>", p.Name)
	}
	return b.String()
}
