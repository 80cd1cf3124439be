package testutil

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Flag is the expected shape of a command-line flag. Empty fields are not
// checked; set Default to Ptr("") to require an empty default.
type Flag struct {
	Default   *string
	Type      string
	Shorthand string
}

// Ptr returns a pointer to s, for Flag.Default.
func Ptr(s string) *string { return &s }

// AssertFlag fails if cmd has no flag called name, local or inherited, or if
// the flag does not match want.
func AssertFlag(t *testing.T, cmd *cobra.Command, name string, want Flag) {
	t.Helper()

	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(name)
	}
	require.NotNil(t, flag, "expected flag --%s to exist", name)

	if want.Default != nil {
		require.Equal(t, *want.Default, flag.DefValue, "flag --%s default", name)
	}
	if want.Type != "" {
		require.Equal(t, want.Type, flag.Value.Type(), "flag --%s type", name)
	}
	if want.Shorthand != "" {
		require.Equal(t, want.Shorthand, flag.Shorthand, "flag --%s shorthand", name)
	}
}

// ExecuteCommand runs root with args and returns everything it printed to
// stdout and stderr.
func ExecuteCommand(t *testing.T, root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	// nil args would make cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}
