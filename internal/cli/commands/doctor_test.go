package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/leapstack-labs/gestcom/internal/testutil"
)

func TestDoctor_AllGood(t *testing.T) {
	setupEnv(t)
	require.NoError(t, os.WriteFile("variables.env", []byte("SUPABASE_URL=https://abc.supabase.co\n"), 0o600))

	res := execute(NewDoctorCommand(gateway.WithInvoker(testutil.NewFakeInvoker())), "")
	require.NoError(t, res.err)

	assert.Contains(t, res.out, "=== Diagnóstico de configuración ===\n")
	assert.Contains(t, res.out, "comprobacion | estado | detalle\n")
	assert.Contains(t, res.out, "config_file | ok | none, using defaults\n")
	assert.Contains(t, res.out, "env_file | ok | variables.env\n")
	assert.Contains(t, res.out, "credentials | ok | url and key set\n")
	assert.Contains(t, res.out, "transport | ok | postgrest\n")
	assert.Contains(t, res.out, "connection | ok | connected to https://test.supabase.co\n")
}

func TestDoctor_MissingCredentials(t *testing.T) {
	setupEnv(t)
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	res := execute(NewDoctorCommand(), "")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "doctor found 1 problem(s)")

	assert.Contains(t, res.out, "env_file | aviso | not found: variables.env\n")
	assert.Contains(t, res.out, "credentials | error | missing required configuration: url, key\n")
	assert.Contains(t, res.out, "connection | omitido | credentials missing\n")
}

func TestDoctor_ConnectionFailure(t *testing.T) {
	setupEnv(t)
	t.Setenv("SUPABASE_URL", "ftp://abc.supabase.co")

	res := execute(NewDoctorCommand(), "")
	require.Error(t, res.err)
	assert.Contains(t, res.out, "connection | error | failed to connect postgrest transport")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/ventas", redactURL("postgres://app:secret@db:5432/ventas"))
	assert.Equal(t, "https://abc.supabase.co", redactURL("https://abc.supabase.co"))
}
