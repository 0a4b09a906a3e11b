package commands

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/leapstack-labs/gestcom/internal/payload"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const proceduresTitle = "Consultas disponibles"

// NewProceduresCommand creates the procedures command.
func NewProceduresCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "procedures",
		Aliases: []string{"procs", "ls"},
		Short:   "List the available queries",
		Long: `List the predefined queries with their menu number, the slug accepted
by 'gestcom query', and the backend procedure each one calls.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutGateway(cmd)
			if err != nil {
				return err
			}

			raw, err := catalogPayload()
			if err != nil {
				return err
			}
			res, err := payload.Classify(raw)
			if err != nil {
				return err
			}
			return cc.Renderer.Result(proceduresTitle, res)
		},
	}
}

// catalogPayload describes the catalog as a record set.
func catalogPayload() (json.RawMessage, error) {
	rows := make([]*orderedmap.OrderedMap[string, any], 0, len(gateway.Catalog))
	for _, q := range gateway.Catalog {
		row := orderedmap.New[string, any]()
		row.Set("numero", q.Number)
		row.Set("consulta", q.Label)
		row.Set("uso", querySummary(q))
		row.Set("procedimiento", q.Procedure)
		rows = append(rows, row)
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to describe queries: %w", err)
	}
	return raw, nil
}
