package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/leapstack-labs/gestcom/internal/cli/config"
	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/leapstack-labs/gestcom/internal/payload"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Health check statuses.
const (
	statusPass  = "ok"
	statusWarn  = "aviso"
	statusError = "error"
	statusSkip  = "omitido"
)

const doctorTitle = "Diagnóstico de configuración"

// HealthCheck is the result of one configuration check.
type HealthCheck struct {
	Name   string
	Status string
	Detail string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(opts ...gateway.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend connectivity",
		Long: `Check where the configuration comes from and whether the backend can be
reached, without running any query.

The checks cover the config file, the credential env file, the required
URL and key, the transport adapter and the connection itself. The command
exits with an error when any check fails.`,
		Example: `  # Check the current setup
  gestcom doctor

  # Check a different env file
  gestcom doctor --env-file prod.env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}
}

func runDoctor(cmd *cobra.Command, opts []gateway.Option) error {
	cc, err := NewCommandContextWithoutGateway(cmd)
	if err != nil {
		return err
	}

	checks := runHealthChecks(cmd, cc, opts)

	raw, err := checksPayload(checks)
	if err != nil {
		return err
	}
	res, err := payload.Classify(raw)
	if err != nil {
		return err
	}
	if err := cc.Renderer.Result(doctorTitle, res); err != nil {
		return err
	}

	problems := 0
	for _, c := range checks {
		if c.Status == statusError {
			problems++
		}
	}
	if problems > 0 {
		return fmt.Errorf("doctor found %d problem(s)", problems)
	}
	return nil
}

func runHealthChecks(cmd *cobra.Command, cc *CommandContext, opts []gateway.Option) []HealthCheck {
	cfg := cc.Cfg
	checks := make([]HealthCheck, 0, 5)

	if path := config.GetConfigFileUsed(); path != "" {
		checks = append(checks, HealthCheck{"config_file", statusPass, path})
	} else {
		checks = append(checks, HealthCheck{"config_file", statusPass, "none, using defaults"})
	}

	if _, err := os.Stat(cfg.EnvFile); err == nil {
		checks = append(checks, HealthCheck{"env_file", statusPass, cfg.EnvFile})
	} else {
		checks = append(checks, HealthCheck{"env_file", statusWarn, "not found: " + cfg.EnvFile})
	}

	credErr := cfg.ValidateCredentials()
	if credErr != nil {
		checks = append(checks, HealthCheck{"credentials", statusError, firstLine(credErr.Error())})
	} else {
		checks = append(checks, HealthCheck{"credentials", statusPass, "url and key set"})
	}

	checks = append(checks, HealthCheck{"transport", statusPass, cfg.Transport})

	if credErr != nil {
		checks = append(checks, HealthCheck{"connection", statusSkip, "credentials missing"})
		return checks
	}

	opts = append([]gateway.Option{gateway.WithLogger(cc.Logger)}, opts...)
	gw, err := gateway.New(cmd.Context(), cfg, opts...)
	if err != nil {
		checks = append(checks, HealthCheck{"connection", statusError, firstLine(err.Error())})
		return checks
	}
	_ = gw.Close()
	checks = append(checks, HealthCheck{"connection", statusPass, "connected to " + redactURL(cfg.URL)})
	return checks
}

// checksPayload describes checks as a record set.
func checksPayload(checks []HealthCheck) (json.RawMessage, error) {
	rows := make([]*orderedmap.OrderedMap[string, any], 0, len(checks))
	for _, c := range checks {
		row := orderedmap.New[string, any]()
		row.Set("comprobacion", c.Name)
		row.Set("estado", c.Status)
		row.Set("detalle", c.Detail)
		rows = append(rows, row)
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to describe checks: %w", err)
	}
	return raw, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
