package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/gestcom/pkg/rpc"
	_ "github.com/leapstack-labs/gestcom/pkg/rpc/postgrest"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		missing []string
	}{
		{"both set", Config{URL: "https://x.supabase.co", Key: "k"}, nil},
		{"both missing", Config{}, []string{"url", "key"}},
		{"blank url", Config{URL: "  ", Key: "k"}, []string{"url"}},
		{"missing key", Config{URL: "https://x.supabase.co"}, []string{"key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateCredentials()
			if tt.missing == nil {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.missing, cfgErr.Missing)
			assert.Contains(t, err.Error(), "SUPABASE_URL")
			assert.Contains(t, err.Error(), "variables.env")
		})
	}
}

func TestValidate_UnknownTransport(t *testing.T) {
	cfg := Config{URL: "u", Key: "k", Transport: "grpc"}
	err := cfg.Validate()

	var unknown *rpc.UnknownAdapterError
	require.True(t, errors.As(err, &unknown))
	assert.Contains(t, unknown.Available, "postgrest")

	cfg.Transport = "PostgREST"
	assert.NoError(t, cfg.Validate())
}

func TestRPCConfig(t *testing.T) {
	cfg := Config{URL: "u", Key: "k", Transport: "Postgres", Schema: "ventas", Timeout: time.Second, RetryMax: 2}
	assert.Equal(t, rpc.Config{
		Type: "postgres", URL: "u", Key: "k", Schema: "ventas", Timeout: time.Second, RetryMax: 2,
	}, cfg.RPCConfig())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Output: "json"}
	ApplyDefaults(cfg)
	assert.Equal(t, DefaultTransport, cfg.Transport)
	assert.Equal(t, DefaultStoresField, cfg.StoresField)
	assert.Equal(t, "json", cfg.Output)

	ApplyDefaults(nil)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "url", EnvKey("SUPABASE_URL"))
	assert.Equal(t, "key", EnvKey("SUPABASE_KEY"))
	assert.Equal(t, "retry_max", EnvKey("GESTCOM_RETRY_MAX"))
	assert.Equal(t, "", EnvKey("GESTCOM_"))
	assert.Equal(t, "", EnvKey("HOME"))
}

func TestReadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "variables.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"SUPABASE_URL=https://abc.supabase.co\n"+
			"SUPABASE_KEY=\"secret\"\n"+
			"GESTCOM_STORES_FIELD=stores\n"+
			"UNRELATED=1\n"), 0o600))

	values, err := ReadEnvFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"url":          "https://abc.supabase.co",
		"key":          "secret",
		"stores_field": "stores",
	}, values)
}

func TestReadEnvFile_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")

	values, err := ReadEnvFile(missing, false)
	require.NoError(t, err)
	assert.Empty(t, values)

	_, err = ReadEnvFile(missing, true)
	require.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("url: x\n"), 0o600))
	assert.Equal(t, filepath.Join(dir, ConfigFileNameAlt), FindConfigFile(dir))
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/ana")
	assert.Equal(t, "/home/ana/.gestcom_history", ExpandHome("~/.gestcom_history"))
	assert.Equal(t, "/tmp/h", ExpandHome("/tmp/h"))
}
