// Package config provides the shared configuration types for gestcom.
// It is decoupled from CLI concerns so the gateway can validate the
// settings it is built from without importing cobra or koanf.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/gestcom/pkg/rpc"
)

// Config holds every setting the program reads.
type Config struct {
	// Backend connection
	URL       string `koanf:"url"`
	Key       string `koanf:"key"`
	Transport string `koanf:"transport"` // postgrest, postgres
	Schema    string `koanf:"schema"`

	Timeout  time.Duration `koanf:"timeout"`
	RetryMax int           `koanf:"retry_max"`

	// StoresField is the list field of the owner→stores record.
	StoresField string `koanf:"stores_field"`

	// Presentation
	Output      string `koanf:"output"`
	Color       string `koanf:"color"`
	HistoryFile string `koanf:"history_file"`
	Verbose     bool   `koanf:"verbose"`

	EnvFile string `koanf:"env_file"`
}

// ValidateCredentials checks that the endpoint URL and access key are set.
func (c *Config) ValidateCredentials() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(c.Key) == "" {
		missing = append(missing, "key")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing, EnvFile: c.EnvFile}
	}
	return nil
}

// ValidateTransport checks that the transport names a registered adapter.
// An empty transport selects rpc.DefaultType.
func (c *Config) ValidateTransport() error {
	if c.Transport != "" && !rpc.IsRegistered(strings.ToLower(c.Transport)) {
		return &rpc.UnknownAdapterError{
			Type:      c.Transport,
			Available: rpc.ListAdapters(),
		}
	}
	return nil
}

// Validate checks the transport and credentials.
func (c *Config) Validate() error {
	if err := c.ValidateTransport(); err != nil {
		return err
	}
	return c.ValidateCredentials()
}

// RPCConfig converts the connection settings for an rpc adapter.
func (c *Config) RPCConfig() rpc.Config {
	return rpc.Config{
		Type:     strings.ToLower(c.Transport),
		URL:      c.URL,
		Key:      c.Key,
		Schema:   c.Schema,
		Timeout:  c.Timeout,
		RetryMax: c.RetryMax,
	}
}

// ConfigError reports required settings that are missing.
type ConfigError struct {
	Missing []string
	EnvFile string
}

func (e *ConfigError) Error() string {
	envFile := e.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	return fmt.Sprintf("missing required configuration: %s\n"+
		"Hint: set %s and %s in the environment or in %s",
		strings.Join(e.Missing, ", "), EnvURL, EnvKey, envFile)
}
