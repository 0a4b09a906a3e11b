package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/gestcom/internal/cli/output"
)

// ColorPolicies lists the accepted values of the color setting.
var ColorPolicies = []string{output.ColorAuto, output.ColorAlways, output.ColorNever}

// Validate checks the settings that can be checked before any connection
// is made. Missing credentials are reported by the gateway instead, so that
// help and version keep working without them.
func Validate(c *Config) error {
	if err := c.ValidateTransport(); err != nil {
		return err
	}
	if _, err := output.ParseMode(c.Output); err != nil {
		return err
	}

	switch strings.ToLower(c.Color) {
	case output.ColorAuto, output.ColorAlways, output.ColorNever:
	default:
		return fmt.Errorf("invalid color %q (valid: %s)", c.Color, strings.Join(ColorPolicies, ", "))
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative, got %d", c.RetryMax)
	}
	if strings.TrimSpace(c.StoresField) == "" {
		return fmt.Errorf("stores_field must not be empty")
	}
	return nil
}
