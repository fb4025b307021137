package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCmd_RejectsUnknownTarget surfaces unknown target names as cobra
// usage errors instead of reaching the target dispatcher.
func TestRootCmd_RejectsUnknownTarget(t *testing.T) {
	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"deploy"})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid argument")
}
