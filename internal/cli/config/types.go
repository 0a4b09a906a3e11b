// Package config provides configuration management for the gestcom CLI.
//
// The shared Config type lives in internal/config and is re-exported here
// via type aliases, so commands only import this package.
package config

import intconfig "github.com/leapstack-labs/gestcom/internal/config"

// Config is an alias for the shared configuration.
type Config = intconfig.Config

// ConfigError is an alias for the shared missing-settings error.
type ConfigError = intconfig.ConfigError

// Re-exported defaults used for flag help and completion.
const (
	DefaultTransport   = intconfig.DefaultTransport
	DefaultStoresField = intconfig.DefaultStoresField
	DefaultOutput      = intconfig.DefaultOutput
	DefaultColor       = intconfig.DefaultColor
	DefaultEnvFile     = intconfig.DefaultEnvFile
)
