package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/gestcom/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// envFileVar selects the credential env file from the environment.
const envFileVar = intconfig.EnvPrefix + "ENV_FILE"

// Flags that select config sources rather than config values.
var sourceFlags = map[string]bool{"config": true}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	envFileUsed    string
	currentConfig  *Config
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	envFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from defaults, the config file, the
// credential env file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > env file > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(intconfig.Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = intconfig.FindConfigFile(cwd)
		}
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load the credential env file
	envFile, required := resolveEnvFile(flags)
	envFileUsed = envFile
	values, err := intconfig.ReadEnvFile(envFile, required)
	if err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	// 4. Load environment variables
	// Transform: SUPABASE_URL -> url, GESTCOM_RETRY_MAX -> retry_max
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return intconfig.EnvKey(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || sourceFlags[f.Name] {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 6. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.URL = strings.TrimSpace(expandEnvVars(cfg.URL))
	cfg.Key = strings.TrimSpace(expandEnvVars(cfg.Key))
	cfg.Transport = strings.ToLower(cfg.Transport)
	cfg.Color = strings.ToLower(cfg.Color)
	cfg.HistoryFile = intconfig.ExpandHome(cfg.HistoryFile)
	cfg.EnvFile = envFile
	intconfig.ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// resolveEnvFile picks the credential env file. A path given by flag,
// environment, or config file must exist; the default one may be absent.
func resolveEnvFile(flags *pflag.FlagSet) (string, bool) {
	if flags != nil && flags.Changed("env-file") {
		v, _ := flags.GetString("env-file")
		return v, true
	}
	if v := os.Getenv(envFileVar); v != "" {
		return v, true
	}

	path := k.String("env_file")
	if path == intconfig.DefaultEnvFile || path == "" {
		return path, false
	}
	if configFileUsed != "" {
		path = resolvePathRelativeTo(path, filepath.Dir(configFileUsed))
	}
	return path, true
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetEnvFileUsed returns the path of the credential env file that was consulted.
func GetEnvFileUsed() string {
	return envFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
