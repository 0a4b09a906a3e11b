package config

import "time"

// Default configuration values.
const (
	DefaultTransport   = "postgrest"
	DefaultSchema      = "public"
	DefaultTimeout     = time.Duration(0)
	DefaultRetryMax    = 0
	DefaultStoresField = "locales"
	DefaultOutput      = "plain"
	DefaultColor       = "auto"
	DefaultHistoryFile = "~/.gestcom_history"
	DefaultEnvFile     = "variables.env"
)

// Environment variables holding the backend credentials.
const (
	EnvURL    = "SUPABASE_URL"
	EnvKey    = "SUPABASE_KEY"
	EnvPrefix = "GESTCOM_"
)

// Defaults returns the default values keyed by config key.
func Defaults() map[string]any {
	return map[string]any{
		"transport":    DefaultTransport,
		"schema":       DefaultSchema,
		"timeout":      DefaultTimeout,
		"retry_max":    DefaultRetryMax,
		"stores_field": DefaultStoresField,
		"output":       DefaultOutput,
		"color":        DefaultColor,
		"history_file": DefaultHistoryFile,
		"env_file":     DefaultEnvFile,
		"verbose":      false,
	}
}

// ApplyDefaults fills unset values of c.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Transport == "" {
		c.Transport = DefaultTransport
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	if c.StoresField == "" {
		c.StoresField = DefaultStoresField
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
}
