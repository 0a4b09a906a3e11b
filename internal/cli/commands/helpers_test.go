package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/gestcom/internal/cli/config"
	"github.com/spf13/cobra"
)

// setupEnv runs the test in an empty directory with test credentials.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("SUPABASE_URL", "https://test.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon")
	for _, name := range []string{"GESTCOM_OUTPUT", "GESTCOM_STORES_FIELD", "GESTCOM_TRANSPORT", "GESTCOM_ENV_FILE", "GESTCOM_COLOR"} {
		t.Setenv(name, "")
	}
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
}

type cmdResult struct {
	out    string
	errOut string
	err    error
}

// execute runs cmd with args and the given stdin.
func execute(cmd *cobra.Command, stdin string, args ...string) cmdResult {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return cmdResult{out: out.String(), errOut: errOut.String(), err: err}
}
