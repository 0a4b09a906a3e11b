package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "gestcom.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "gestcom.yml"

// FindConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// EnvKey maps an environment variable name to a config key.
// SUPABASE_URL and SUPABASE_KEY map to url and key; GESTCOM_RETRY_MAX maps
// to retry_max. Any other name maps to "".
func EnvKey(name string) string {
	switch name {
	case EnvURL:
		return "url"
	case EnvKey:
		return "key"
	}
	if rest, ok := strings.CutPrefix(name, EnvPrefix); ok && rest != "" {
		return strings.ToLower(rest)
	}
	return ""
}

// ReadEnvFile reads a dotenv file and returns the recognised entries keyed
// by config key. A missing file yields an empty map unless required is set.
func ReadEnvFile(path string, required bool) (map[string]any, error) {
	values := map[string]any{}
	if path == "" {
		return values, nil
	}

	entries, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	for name, v := range entries {
		if key := EnvKey(name); key != "" && key != "env_file" {
			values[key] = v
		}
	}
	return values, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
